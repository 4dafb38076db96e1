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

type settingsModel struct {
	svc    *engine.Service
	width  int
	height int

	settings   store.UserSettings
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	name           *string
	department     *string
	email          *string
	employmentDate *string
	birthDate      *string
	useNormal      *bool
	useAvg         *bool
	from           []*string // indexed like store.Weekdays
	to             []*string
	bias           map[string]*string
	children       *string
}

func newSettingsModel(svc *engine.Service) settingsModel {
	str := func() *string { s := ""; return &s }

	m := settingsModel{
		svc:            svc,
		name:           str(),
		department:     str(),
		email:          str(),
		employmentDate: str(),
		birthDate:      str(),
		useNormal:      new(bool),
		useAvg:         new(bool),
		children:       str(),
		bias:           map[string]*string{},
	}
	for range store.Weekdays {
		m.from = append(m.from, str())
		m.to = append(m.to, str())
	}
	for _, kind := range []string{store.BiasFlex, store.BiasFerie, store.BiasSixFerie, store.BiasCareday, store.BiasSeniorday} {
		m.bias[kind] = str()
	}
	return m
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	settings store.UserSettings
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		return settingsDataMsg{settings: s.svc.Settings()}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.settings = msg.settings
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Edit):
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	st := s.settings

	*s.name = st.UserDetails.Name
	*s.department = st.UserDetails.Department
	*s.email = st.UserDetails.Email
	*s.employmentDate = st.UserDetails.EmploymentDate
	*s.birthDate = st.UserDetails.BirthDate
	*s.useNormal = st.UseNormalHoursAsDefault
	*s.useAvg = st.UseAvgWeekHoursAsDefault
	*s.children = formatChildren(st.Children)
	for i, day := range store.Weekdays {
		*s.from[i] = st.WorkHours[day].From
		*s.to[i] = st.WorkHours[day].To
	}
	for kind, v := range s.bias {
		*v = st.BiasFor(kind)
	}

	validTime := func(v string) error {
		_, _, err := clockfmt.ParseTimeOfDay(v)
		return err
	}
	validDate := func(v string) error {
		_, err := time.Parse(store.DateLayout, v)
		return err
	}

	var hourFields []huh.Field
	for i, day := range store.Weekdays {
		hourFields = append(hourFields,
			huh.NewInput().Title(day+" fra").Value(s.from[i]).Validate(validTime),
			huh.NewInput().Title(day+" til").Value(s.to[i]).Validate(validTime),
		)
	}
	hourFields = append(hourFields,
		huh.NewConfirm().Title("Brug normaltider som standard").Value(s.useNormal),
		huh.NewConfirm().Title("Brug ugegennemsnit som norm").Value(s.useAvg),
	)

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Navn").Value(s.name),
			huh.NewInput().Title("Afdeling").Value(s.department),
			huh.NewInput().Title("Email").Value(s.email),
			huh.NewInput().Title("Ansættelsesdato (dd-mm-åååå)").Value(s.employmentDate).Validate(validDate),
			huh.NewInput().Title("Fødselsdato (dd-mm-åååå)").Value(s.birthDate).Validate(validDate),
			huh.NewInput().Title("Børn (Navn=Årstal; ...)").Value(s.children),
		).Title("Bruger"),
		huh.NewGroup(hourFields...).Title("Arbejdstid"),
		huh.NewGroup(
			huh.NewInput().Title("Flex bias").Value(s.bias[store.BiasFlex]),
			huh.NewInput().Title("Ferie bias").Value(s.bias[store.BiasFerie]),
			huh.NewInput().Title("6. ferieuge bias").Value(s.bias[store.BiasSixFerie]),
			huh.NewInput().Title("Omsorgsdage bias").Value(s.bias[store.BiasCareday]),
			huh.NewInput().Title("Seniordage bias").Value(s.bias[store.BiasSeniorday]),
		).Title("Bias"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		return s, s.save()
	}

	return s, cmd
}

// save persists the edited document. Weekly totals are re-derived by
// the service; a validation failure leaves the files untouched.
func (s settingsModel) save() tea.Cmd {
	st := s.settings
	st.UserDetails.Name = *s.name
	st.UserDetails.Department = *s.department
	st.UserDetails.Email = *s.email
	st.UserDetails.EmploymentDate = *s.employmentDate
	st.UserDetails.BirthDate = *s.birthDate
	st.UseNormalHoursAsDefault = *s.useNormal
	st.UseAvgWeekHoursAsDefault = *s.useAvg
	st.Children = parseChildren(*s.children)

	if st.WorkHours == nil {
		st.WorkHours = map[string]store.DayHours{}
	}
	for i, day := range store.Weekdays {
		wh := st.WorkHours[day]
		wh.From = *s.from[i]
		wh.To = *s.to[i]
		st.WorkHours[day] = wh
	}
	if st.Bias == nil {
		st.Bias = map[string]string{}
	}
	for kind, v := range s.bias {
		st.Bias[kind] = *v
	}

	return func() tea.Msg {
		snap, notices, err := s.svc.SaveSettings(st)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Fejl: %v", err), isError: true}
		}
		return ledgerSavedMsg{snap: snap, notices: notices}
	}
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Indstillinger")
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	st := s.settings
	title := titleStyle.Render("Indstillinger")
	hint := mutedStyle.Render("Tryk enter for at redigere")

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	rows = append(rows, s.row("Navn", st.UserDetails.Name))
	rows = append(rows, s.row("Ansættelsesdato", st.UserDetails.EmploymentDate))
	rows = append(rows, s.row("Fødselsdato", st.UserDetails.BirthDate))
	rows = append(rows, s.row("Børn", formatChildren(st.Children)))
	rows = append(rows, "")
	for _, day := range store.Weekdays {
		wh := st.WorkHours[day]
		rows = append(rows, s.row(day, fmt.Sprintf("%s - %s  (%s)", wh.From, wh.To, wh.Total)))
	}
	rows = append(rows, "")
	rows = append(rows, s.row("Timer pr. uge", fmt.Sprintf("%.2f", st.HoursPerWeek)))
	rows = append(rows, s.row("Timer pr. dag", string(st.HoursPerDay)))
	rows = append(rows, "")
	rows = append(rows, hint)

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (s settingsModel) row(label, value string) string {
	l := lipgloss.NewStyle().Width(24).Render(label)
	return fmt.Sprintf("  %s %s", l, highlightStyle.Render(value))
}

// parseChildren reads the "Navn=Årstal; Navn=Årstal" form field.
func parseChildren(s string) []store.Child {
	var out []store.Child
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, year, _ := strings.Cut(part, "=")
		out = append(out, store.Child{
			Name:        strings.TrimSpace(name),
			YearOfBirth: strings.TrimSpace(year),
		})
	}
	return out
}

func formatChildren(children []store.Child) string {
	var parts []string
	for _, c := range children {
		parts = append(parts, fmt.Sprintf("%s=%s", c.Name, c.YearOfBirth))
	}
	return strings.Join(parts, "; ")
}
