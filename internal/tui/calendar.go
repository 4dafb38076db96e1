package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/askov/klokind/internal/clockfmt"
	"github.com/askov/klokind/internal/engine"
	"github.com/askov/klokind/internal/store"
)

var danishMonths = []string{
	"Januar", "Februar", "Marts", "April", "Maj", "Juni",
	"Juli", "August", "September", "Oktober", "November", "December",
}

type calendarModel struct {
	svc    *engine.Service
	width  int
	height int

	shown    time.Time // first day of the displayed month
	cursor   time.Time // selected day
	entries  map[string]store.WorkEntry
	snap     store.BalanceSnapshot
	settings store.UserSettings

	formActive bool
	form       *huh.Form
	formDate   string

	// Form values as pointers (survive value copies)
	formIn  *string
	formOut *string
}

func newCalendarModel(svc *engine.Service) calendarModel {
	in, out := "", ""
	today := time.Now()
	return calendarModel{
		svc:     svc,
		shown:   time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location()),
		cursor:  time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location()),
		entries: map[string]store.WorkEntry{},
		formIn:  &in,
		formOut: &out,
	}
}

func (c calendarModel) Init() tea.Cmd {
	return c.refresh()
}

func (c *calendarModel) setSize(w, h int) {
	c.width = w
	c.height = h
}

type calendarDataMsg struct {
	entries  map[string]store.WorkEntry
	snap     store.BalanceSnapshot
	settings store.UserSettings
}

func (c calendarModel) refresh() tea.Cmd {
	return func() tea.Msg {
		entries, err := c.svc.Timesheet()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Fejl: %v", err), isError: true}
		}
		byDate := make(map[string]store.WorkEntry, len(entries))
		for _, e := range entries {
			byDate[e.Date] = e
		}
		return calendarDataMsg{
			entries:  byDate,
			snap:     c.svc.Balances(),
			settings: c.svc.Settings(),
		}
	}
}

func (c calendarModel) update(msg tea.Msg) (calendarModel, tea.Cmd) {
	if c.formActive && c.form != nil {
		return c.updateForm(msg)
	}

	switch msg := msg.(type) {
	case calendarDataMsg:
		c.entries = msg.entries
		c.snap = msg.snap
		c.settings = msg.settings
		return c, nil

	case ledgerSavedMsg:
		c.snap = msg.snap
		return c, c.refresh()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			return c.moveCursor(-1), nil
		case key.Matches(msg, keys.Right):
			return c.moveCursor(1), nil
		case key.Matches(msg, keys.Up):
			return c.moveCursor(-7), nil
		case key.Matches(msg, keys.Down):
			return c.moveCursor(7), nil
		case key.Matches(msg, keys.Today):
			today := time.Now()
			c.cursor = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
			c.shown = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
			return c, nil
		case key.Matches(msg, keys.StampIn):
			e := c.entries[c.dateKey()]
			out := e.ClockOut
			if out == "" {
				out = "00:00"
			}
			return c, c.saveDay(c.dateKey(), time.Now().Format("15:04"), out)
		case key.Matches(msg, keys.StampOut):
			e := c.entries[c.dateKey()]
			in := e.ClockIn
			if in == "" {
				in = "00:00"
			}
			return c, c.saveDay(c.dateKey(), in, time.Now().Format("15:04"))
		case key.Matches(msg, keys.Delete):
			return c, c.clearDay(c.dateKey())
		case key.Matches(msg, keys.Edit), key.Matches(msg, keys.Enter):
			return c.showForm()
		}
	}
	return c, nil
}

func (c calendarModel) moveCursor(days int) calendarModel {
	c.cursor = c.cursor.AddDate(0, 0, days)
	// The shown month follows the cursor.
	c.shown = time.Date(c.cursor.Year(), c.cursor.Month(), 1, 0, 0, 0, 0, c.cursor.Location())
	return c
}

func (c calendarModel) dateKey() string {
	return c.cursor.Format(store.DateLayout)
}

func (c calendarModel) saveDay(date, in, out string) tea.Cmd {
	return func() tea.Msg {
		snap, notices, err := c.svc.SaveDay(date, in, out)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Fejl: %v", err), isError: true}
		}
		return ledgerSavedMsg{snap: snap, notices: notices}
	}
}

func (c calendarModel) clearDay(date string) tea.Cmd {
	return func() tea.Msg {
		snap, notices, err := c.svc.ClearDay(date)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Fejl: %v", err), isError: true}
		}
		return ledgerSavedMsg{snap: snap, notices: notices}
	}
}

func (c calendarModel) showForm() (calendarModel, tea.Cmd) {
	c.formDate = c.dateKey()

	e, ok := c.entries[c.formDate]
	*c.formIn = e.ClockIn
	*c.formOut = e.ClockOut
	if !ok && c.settings.UseNormalHoursAsDefault {
		if day := engine.WeekdayName(c.cursor); day != "" {
			wh := c.settings.WorkHours[day]
			*c.formIn = wh.From
			*c.formOut = wh.To
		}
	}

	validTime := func(s string) error {
		_, _, err := clockfmt.ParseTimeOfDay(s)
		return err
	}

	c.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Starttid").Value(c.formIn).Validate(validTime),
			huh.NewInput().Title("Sluttid").Value(c.formOut).Validate(validTime),
		).Title(c.formDate),
	).WithShowHelp(true).WithShowErrors(true)

	c.formActive = true
	return c, c.form.Init()
}

func (c calendarModel) updateForm(msg tea.Msg) (calendarModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			c.formActive = false
			c.form = nil
			return c, nil
		}
	}

	form, cmd := c.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		c.form = f
	}

	if c.form.State == huh.StateCompleted {
		c.formActive = false
		return c, c.saveDay(c.formDate, *c.formIn, *c.formOut)
	}

	return c, cmd
}

// dayCellStyle picks the colour for a calendar day: green when fully
// reported, yellow when half stamped, red when the reported span is
// impossible.
func (c calendarModel) dayCellStyle(e store.WorkEntry, ok bool) lipgloss.Style {
	if !ok {
		return dayStyle
	}
	ih, im, inErr := clockfmt.ParseTimeOfDay(e.ClockIn)
	oh, om, outErr := clockfmt.ParseTimeOfDay(e.ClockOut)
	if inErr != nil || outErr != nil {
		return dayErrorStyle
	}
	in, out := ih*60+im, oh*60+om
	// "00:00" is the not-yet-stamped sentinel and wins over the
	// reversed-span check, so a day stamped in but not out is yellow.
	if in == 0 || out == 0 {
		return dayIncompleteStyle
	}
	if out < in {
		return dayErrorStyle
	}
	return dayReportedStyle
}

func (c calendarModel) view() string {
	if c.width < 20 {
		return "Terminal too small"
	}
	w := c.width - 4

	if c.formActive && c.form != nil {
		title := titleStyle.Render("Registrer tid")
		return activePanelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", c.form.View()),
		)
	}

	grid := c.renderMonth()
	saldo := c.renderFlexPanel(w)
	detail := c.renderDayDetail(w)

	monthPanel := panelStyle.Width(w).Render(grid)
	return lipgloss.JoinVertical(lipgloss.Left, monthPanel, saldo, detail)
}

func (c calendarModel) renderMonth() string {
	title := titleStyle.Render(fmt.Sprintf("%s %d", danishMonths[c.shown.Month()-1], c.shown.Year()))

	var rows []string
	rows = append(rows, title)
	rows = append(rows, mutedStyle.Render("  Ma  Ti  On  To  Fr  Lø  Sø"))

	// Monday-first column of the 1st.
	offset := (int(c.shown.Weekday()) + 6) % 7

	var cells []string
	for i := 0; i < offset; i++ {
		cells = append(cells, dayStyle.Render(""))
	}

	for d := c.shown; d.Month() == c.shown.Month(); d = d.AddDate(0, 0, 1) {
		e, ok := c.entries[d.Format(store.DateLayout)]

		style := c.dayCellStyle(e, ok)
		if d.Equal(c.cursor) {
			style = daySelectedStyle
		}
		cells = append(cells, style.Render(fmt.Sprintf("%d", d.Day())))

		if len(cells) == 7 {
			rows = append(rows, strings.Join(cells, ""))
			cells = nil
		}
	}
	if len(cells) > 0 {
		rows = append(rows, strings.Join(cells, ""))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("s: stamp ind  x: stamp ud  n: rediger  d: ryd"))

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (c calendarModel) renderFlexPanel(w int) string {
	flex := highlightStyle.Render(formatSaldoHours(c.snap.Flex))
	week := highlightStyle.Render(formatSaldoHours(c.snap.FlexWeek))
	line := fmt.Sprintf("%s %s    %s %s",
		titleStyle.Render("Flex saldo"), flex,
		titleStyle.Render("Denne uge"), week,
	)
	return panelStyle.Width(w).Render(line)
}

func (c calendarModel) renderDayDetail(w int) string {
	title := titleStyle.Render(c.dateKey())

	e, ok := c.entries[c.dateKey()]
	if !ok {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, mutedStyle.Render("Ingen registrering")),
		)
	}

	rows := []string{
		title,
		fmt.Sprintf("  %-12s %s", "Starttid", e.ClockIn),
		fmt.Sprintf("  %-12s %s", "Sluttid", e.ClockOut),
		fmt.Sprintf("  %-12s %s", "Arbejdstid", e.Worked),
		fmt.Sprintf("  %-12s %s", "Normtid", e.Norm),
		fmt.Sprintf("  %-12s %s", "Flex saldo", e.FlexBalance),
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
