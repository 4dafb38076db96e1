package tui

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/askov/klokind/internal/clockfmt"
	"github.com/askov/klokind/internal/engine"
	"github.com/askov/klokind/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewCalendar viewState = iota
	viewSaldi
	viewReports
	viewSettings
)

var viewNames = []string{"Kalender", "Saldi", "Rapporter", "Indstillinger"}

// --- Messages ---

type ledgerSavedMsg struct {
	snap    store.BalanceSnapshot
	notices []engine.Notice
}

type statusMsg struct {
	text    string
	isError bool
}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

// formatSaldoHours renders an hour saldo as signed clock text.
func formatSaldoHours(v float64) string {
	return clockfmt.Format(decimal.NewFromFloat(v))
}

// formatSaldoDays renders a day-count saldo without trailing zeros.
func formatSaldoDays(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
