package store

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/askov/klokind/internal/clockfmt"
)

// LoadSettings reads the settings document. A missing or unreadable
// file falls back to defaults; the error (if any) is informational and
// never blocks startup.
func (s *Store) LoadSettings() (UserSettings, error) {
	data, err := os.ReadFile(s.SettingsPath())
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return DefaultSettings(), fmt.Errorf("read settings: %w", err)
	}

	var st UserSettings
	if err := json.Unmarshal(data, &st); err != nil {
		return DefaultSettings(), fmt.Errorf("parse settings: %w", err)
	}
	if st.WorkHours == nil {
		st.WorkHours = DefaultSettings().WorkHours
	}
	if st.Bias == nil {
		st.Bias = DefaultSettings().Bias
	}
	return st, nil
}

// SaveSettings validates and rewrites the settings document. Invalid
// settings are rejected without touching the file.
func (s *Store) SaveSettings(st UserSettings) error {
	if err := ValidateSettings(st); err != nil {
		return err
	}
	return s.writeSettings(st)
}

func (s *Store) writeSettings(st UserSettings) error {
	data, err := json.MarshalIndent(st, "", "    ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := os.WriteFile(s.SettingsPath(), data, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

// ValidateSettings enforces the structural rules the settings form
// must not break: all five weekdays present with parseable times, and
// no span ending before it starts.
func ValidateSettings(st UserSettings) error {
	for _, day := range Weekdays {
		wh, ok := st.WorkHours[day]
		if !ok {
			return fmt.Errorf("settings: missing work hours for %s", day)
		}
		fh, fm, err := clockfmt.ParseTimeOfDay(wh.From)
		if err != nil {
			return fmt.Errorf("settings: %s from: %w", day, err)
		}
		th, tm, err := clockfmt.ParseTimeOfDay(wh.To)
		if err != nil {
			return fmt.Errorf("settings: %s to: %w", day, err)
		}
		if th*60+tm < fh*60+fm {
			return fmt.Errorf("settings: %s ends before it starts", day)
		}
	}
	return nil
}

// LoadBalances reads the saldi snapshot; missing file yields zeroes.
func (s *Store) LoadBalances() (BalanceSnapshot, error) {
	data, err := os.ReadFile(s.BalancesPath())
	if err != nil {
		if os.IsNotExist(err) {
			return BalanceSnapshot{}, nil
		}
		return BalanceSnapshot{}, fmt.Errorf("read saldi: %w", err)
	}
	var b BalanceSnapshot
	if err := json.Unmarshal(data, &b); err != nil {
		return BalanceSnapshot{}, fmt.Errorf("parse saldi: %w", err)
	}
	return b, nil
}

// SaveBalances rewrites the saldi snapshot.
func (s *Store) SaveBalances(b BalanceSnapshot) error {
	data, err := json.MarshalIndent(b, "", "    ")
	if err != nil {
		return fmt.Errorf("encode saldi: %w", err)
	}
	if err := os.WriteFile(s.BalancesPath(), data, 0o644); err != nil {
		return fmt.Errorf("write saldi: %w", err)
	}
	return nil
}
