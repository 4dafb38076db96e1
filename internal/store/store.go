// Package store persists the timesheet ledger, the user settings and
// the saldi snapshot as plain files under a data directory, one
// timesheet and saldi document per year. Every write is a whole-file
// rewrite; a missing file means "use defaults".
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

type Store struct {
	dir  string
	year int
}

// New opens (or creates) the data directory for the given year and
// writes default documents for any file that does not exist yet.
func New(dir string, year int) (*Store, error) {
	s := &Store{dir: dir, year: year}

	if err := os.MkdirAll(s.yearDir(), 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	if err := s.ensureDefaults(); err != nil {
		return nil, fmt.Errorf("initialize defaults: %w", err)
	}
	return s, nil
}

func (s *Store) Year() int { return s.year }

func (s *Store) yearDir() string {
	return filepath.Join(s.dir, strconv.Itoa(s.year))
}

// TimesheetPath is <dir>/<year>/timesheet_<year>.csv.
func (s *Store) TimesheetPath() string {
	return filepath.Join(s.yearDir(), fmt.Sprintf("timesheet_%d.csv", s.year))
}

// BalancesPath is <dir>/<year>/saldi_<year>.json.
func (s *Store) BalancesPath() string {
	return filepath.Join(s.yearDir(), fmt.Sprintf("saldi_%d.json", s.year))
}

// SettingsPath is <dir>/user_settings.json, shared across years.
func (s *Store) SettingsPath() string {
	return filepath.Join(s.dir, "user_settings.json")
}

func (s *Store) ensureDefaults() error {
	if _, err := os.Stat(s.SettingsPath()); os.IsNotExist(err) {
		if err := s.writeSettings(DefaultSettings()); err != nil {
			return err
		}
	}
	if _, err := os.Stat(s.TimesheetPath()); os.IsNotExist(err) {
		if err := s.SaveTimesheet(nil); err != nil {
			return err
		}
	}
	if _, err := os.Stat(s.BalancesPath()); os.IsNotExist(err) {
		if err := s.SaveBalances(BalanceSnapshot{}); err != nil {
			return err
		}
	}
	return nil
}

// DefaultDataDir returns ~/.config/klokind (per-OS user config dir).
func DefaultDataDir() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "klokind"), nil
}
