package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/askov/klokind/internal/clockfmt"
	"github.com/askov/klokind/internal/engine"
	"github.com/askov/klokind/internal/store"
)

type reportsModel struct {
	svc    *engine.Service
	width  int
	height int

	entries []store.WorkEntry
	offset  int // weeks back from the current week (0 = current)

	chart barchart.Model
}

func newReportsModel(svc *engine.Service) reportsModel {
	return reportsModel{
		svc:   svc,
		chart: barchart.New(60, 12),
	}
}

func (r *reportsModel) setSize(w, h int) {
	r.width = w
	r.height = h
}

type reportsDataMsg struct {
	entries []store.WorkEntry
}

func (r reportsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		entries, _ := r.svc.Timesheet()
		return reportsDataMsg{entries: entries}
	}
}

// weekRange is the Monday (inclusive) and next Monday (exclusive) of
// the shown week.
func (r reportsModel) weekRange() (time.Time, time.Time) {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	weekday := int(today.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	monday := today.AddDate(0, 0, 1-weekday)
	monday = monday.AddDate(0, 0, -7*r.offset)
	return monday, monday.AddDate(0, 0, 7)
}

func (r reportsModel) update(msg tea.Msg) (reportsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case reportsDataMsg:
		r.entries = msg.entries
		r.buildChart()
		return r, nil

	case ledgerSavedMsg:
		return r, r.refresh()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			r.offset++
			r.buildChart()
			return r, nil
		case key.Matches(msg, keys.Right):
			if r.offset > 0 {
				r.offset--
			}
			r.buildChart()
			return r, nil
		}
	}
	return r, nil
}

// dayDelta is worked minus norm for one entry, from its derived
// columns.
func dayDelta(e store.WorkEntry) decimal.Decimal {
	return clockfmt.Parse(e.Worked).Sub(clockfmt.Parse(e.Norm))
}

func (r *reportsModel) buildChart() {
	chartWidth := r.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if r.height > 30 {
		chartHeight = 16
	}

	r.chart = barchart.New(chartWidth, chartHeight)

	from, to := r.weekRange()

	var bars []barchart.BarData
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		label := d.Format("Mon 02")

		// Bars show the magnitude; colour carries the sign.
		value := 0.0
		style := lipgloss.NewStyle().Foreground(colorSubtle)
		if e, ok := r.entryFor(d); ok {
			delta := dayDelta(e)
			value = delta.Abs().InexactFloat64()
			if delta.IsNegative() {
				style = lipgloss.NewStyle().Foreground(colorError)
			} else {
				style = lipgloss.NewStyle().Foreground(colorSuccess)
			}
		}

		bars = append(bars, barchart.BarData{
			Label:  label,
			Values: []barchart.BarValue{{Name: label, Value: value, Style: style}},
		})
	}

	r.chart.PushAll(bars)
	r.chart.Draw()
}

func (r reportsModel) entryFor(d time.Time) (store.WorkEntry, bool) {
	want := d.Format(store.DateLayout)
	for _, e := range r.entries {
		if e.Date == want {
			return e, true
		}
	}
	return store.WorkEntry{}, false
}

func (r reportsModel) view() string {
	w := r.width - 4

	from, to := r.weekRange()
	dateLabel := mutedStyle.Render(fmt.Sprintf("%s — %s",
		from.Format("02-01"), to.AddDate(0, 0, -1).Format("02-01-2006")))

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Rapporter"), "  ", dateLabel,
	)

	chartView := r.chart.View()
	tableView := r.renderWeekTable(w)
	nav := mutedStyle.Render("  ←/→: uge  e: eksporter")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", chartView, "", tableView, "", nav,
		),
	)
}

func (r reportsModel) renderWeekTable(w int) string {
	from, to := r.weekRange()

	var rows []string
	headerRow := mutedStyle.Render(fmt.Sprintf("  %-12s %10s %10s %10s", "Dato", "Arbejdstid", "Normtid", "Flex"))
	rows = append(rows, headerRow)
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 46))))

	any := false
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		e, ok := r.entryFor(d)
		if !ok {
			continue
		}
		any = true
		rows = append(rows, fmt.Sprintf("  %-12s %10s %10s %10s",
			e.Date, e.Worked, e.Norm, clockfmt.Format(dayDelta(e)),
		))
	}
	if !any {
		return mutedStyle.Render("  Ingen registreringer i denne uge")
	}

	return strings.Join(rows, "\n")
}
