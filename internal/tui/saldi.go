package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/askov/klokind/internal/engine"
	"github.com/askov/klokind/internal/store"
)

type saldiModel struct {
	svc    *engine.Service
	width  int
	height int

	snap store.BalanceSnapshot
}

func newSaldiModel(svc *engine.Service) saldiModel {
	return saldiModel{svc: svc}
}

func (s *saldiModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type saldiDataMsg struct {
	snap store.BalanceSnapshot
}

func (s saldiModel) refresh() tea.Cmd {
	return func() tea.Msg {
		return saldiDataMsg{snap: s.svc.Balances()}
	}
}

func (s saldiModel) update(msg tea.Msg) (saldiModel, tea.Cmd) {
	switch msg := msg.(type) {
	case saldiDataMsg:
		s.snap = msg.snap
		return s, nil
	case ledgerSavedMsg:
		s.snap = msg.snap
		return s, nil
	}
	return s, nil
}

func (s saldiModel) view() string {
	w := s.width - 4

	title := titleStyle.Render("Saldi")

	// Hour saldi as clock text, day saldi as plain counts.
	rows := []string{
		title,
		"",
		s.row("Flex", formatSaldoHours(s.snap.Flex)),
		s.row("Ferie", formatSaldoHours(s.snap.Ferie)),
		s.row("6. ferieuge", formatSaldoDays(s.snap.SixthWeek)),
		s.row("Omsorgsdage", formatSaldoDays(s.snap.CareDays)),
		s.row("Seniordage", formatSaldoDays(s.snap.SeniorDays)),
		"",
		s.row("Flex denne uge", formatSaldoHours(s.snap.FlexWeek)),
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (s saldiModel) row(label, value string) string {
	return fmt.Sprintf("  %-16s %s", label, highlightStyle.Render(value))
}
