package engine

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/askov/klokind/internal/store"
)

// Service is the UI-facing pipeline: every mutation loads the full
// documents, recomputes in memory and writes everything back. All
// calls run synchronously on the caller's goroutine.
type Service struct {
	store *store.Store
	log   *log.Logger
	now   func() time.Time
}

func NewService(st *store.Store, logger *log.Logger) *Service {
	return &Service{store: st, log: logger, now: time.Now}
}

// Timesheet returns the current ledger sorted by date.
func (s *Service) Timesheet() ([]store.WorkEntry, error) {
	return s.store.LoadTimesheet()
}

// Settings returns the settings document, falling back to defaults on
// read problems (logged, never fatal).
func (s *Service) Settings() store.UserSettings {
	st, err := s.store.LoadSettings()
	if err != nil {
		s.log.Warn("settings fell back to defaults", "err", err)
	}
	return st
}

// Balances returns the persisted saldi snapshot without recomputing,
// used to seed the UI at startup.
func (s *Service) Balances() store.BalanceSnapshot {
	b, err := s.store.LoadBalances()
	if err != nil {
		s.log.Warn("saldi fell back to zeroes", "err", err)
	}
	return b
}

// SaveDay records (or overwrites) one date's clock-in/clock-out pair
// and runs the full recompute.
func (s *Service) SaveDay(date, clockIn, clockOut string) (store.BalanceSnapshot, []Notice, error) {
	if _, err := time.Parse(store.DateLayout, date); err != nil {
		return store.BalanceSnapshot{}, nil, fmt.Errorf("save day: bad date %q: %w", date, err)
	}

	entries, err := s.store.LoadTimesheet()
	if err != nil {
		return store.BalanceSnapshot{}, nil, fmt.Errorf("save day: %w", err)
	}

	replaced := false
	for i := range entries {
		if entries[i].Date == date {
			entries[i].ClockIn = clockIn
			entries[i].ClockOut = clockOut
			replaced = true
			break
		}
	}
	if !replaced {
		entries = append(entries, store.WorkEntry{Date: date, ClockIn: clockIn, ClockOut: clockOut})
	}

	return s.writeThrough(entries, s.Settings())
}

// ClearDay removes a date from the ledger and recomputes. Clearing an
// unknown date is a no-op recompute.
func (s *Service) ClearDay(date string) (store.BalanceSnapshot, []Notice, error) {
	entries, err := s.store.LoadTimesheet()
	if err != nil {
		return store.BalanceSnapshot{}, nil, fmt.Errorf("clear day: %w", err)
	}

	kept := entries[:0]
	for _, e := range entries {
		if e.Date != date {
			kept = append(kept, e)
		}
	}

	return s.writeThrough(kept, s.Settings())
}

// SaveSettings re-derives the weekly totals, validates, persists and
// recomputes every saldo. Validation failures block the save and leave
// both files untouched.
func (s *Service) SaveSettings(st store.UserSettings) (store.BalanceSnapshot, []Notice, error) {
	st, err := RecomputeWeekHours(st)
	if err != nil {
		return store.BalanceSnapshot{}, nil, fmt.Errorf("save settings: %w", err)
	}
	if err := s.store.SaveSettings(st); err != nil {
		return store.BalanceSnapshot{}, nil, fmt.Errorf("save settings: %w", err)
	}

	entries, err := s.store.LoadTimesheet()
	if err != nil {
		return store.BalanceSnapshot{}, nil, fmt.Errorf("save settings: %w", err)
	}
	return s.writeThrough(entries, st)
}

// Refresh recomputes and persists everything from the current files.
func (s *Service) Refresh() (store.BalanceSnapshot, []Notice, error) {
	entries, err := s.store.LoadTimesheet()
	if err != nil {
		return store.BalanceSnapshot{}, nil, fmt.Errorf("refresh: %w", err)
	}
	return s.writeThrough(entries, s.Settings())
}

func (s *Service) writeThrough(entries []store.WorkEntry, st store.UserSettings) (store.BalanceSnapshot, []Notice, error) {
	snap, derived, notices := Balances(entries, st, s.now())

	for _, n := range notices {
		s.log.Warn("recompute notice", "context", n.Context, "err", n.Err)
	}

	if err := s.store.SaveTimesheet(derived); err != nil {
		return store.BalanceSnapshot{}, notices, fmt.Errorf("write timesheet: %w", err)
	}
	if err := s.store.SaveBalances(snap); err != nil {
		return store.BalanceSnapshot{}, notices, fmt.Errorf("write saldi: %w", err)
	}
	return snap, notices, nil
}
