package store

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the ledger's date format (dd-mm-yyyy).
const DateLayout = "02-01-2006"

// WorkEntry is one calendar date's reported times plus the fields the
// engine derives on every rewrite. The trailing consumption fields are
// carried in the file schema but not written by the app yet.
type WorkEntry struct {
	Date     string // dd-mm-yyyy, unique per ledger
	ClockIn  string // "HH:MM", "00:00" when unset
	ClockOut string

	Worked      string // "HH:MM", derived
	Norm        string // "±HH:MM", derived
	FlexBalance string // "±HH:MM", running total after this entry, derived

	FlexUsed       string
	VacationUsed   string
	SixthWeekUsed  string
	CareDaysUsed   string
	SeniorDaysUsed string
}

// Time parses the entry date.
func (e WorkEntry) Time() (time.Time, error) {
	return time.Parse(DateLayout, e.Date)
}

// DayHours is one weekday's normal working span.
type DayHours struct {
	From  string `json:"From"`
	To    string `json:"To"`
	Total string `json:"Total"`
}

// Child feeds the care-day calculation.
type Child struct {
	Name        string `json:"Name"`
	YearOfBirth string `json:"YearOfBirth"`
}

type UserDetails struct {
	EmploymentDate string `json:"EmploymentDate"`
	BirthDate      string `json:"BirthDate"`
	Name           string `json:"Name,omitempty"`
	Department     string `json:"Department,omitempty"`
	Email          string `json:"Email,omitempty"`
}

// Hours is a settings value that may be spelled either as a JSON
// number (7.4) or as clock text ("7:24").
type Hours string

func (h *Hours) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*h = Hours(s)
		return nil
	}
	*h = Hours(strings.TrimSpace(string(b)))
	return nil
}

func (h Hours) MarshalJSON() ([]byte, error) {
	s := string(h)
	if s == "" {
		return []byte("0"), nil
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return []byte(s), nil
	}
	return json.Marshal(s)
}

// Bias kinds, keyed as in the settings document.
const (
	BiasFlex      = "Flex"
	BiasFerie     = "Ferie"
	BiasSixFerie  = "Six_ferie"
	BiasCareday   = "Careday"
	BiasSeniorday = "Seniorday"
)

// Weekdays lists the five working weekdays, Monday first, using the
// names the settings document keys WorkHours by.
var Weekdays = []string{"Mandag", "Tirsdag", "Onsdag", "Torsdag", "Fredag"}

// UserSettings is the whole settings document. Field names match the
// persisted JSON spelling.
type UserSettings struct {
	UseNormalHoursAsDefault  bool                `json:"UseNormalHoursAsDefault"`
	UseAvgWeekHoursAsDefault bool                `json:"UseAvgWeekHoursAsDefault"`
	WorkHours                map[string]DayHours `json:"WorkHours"`
	Children                 []Child             `json:"Children"`
	UserDetails              UserDetails         `json:"UserDetails"`
	HoursPerWeek             float64             `json:"HoursPerWeek"`
	HoursPerDay              Hours               `json:"HoursPerDay"`
	Bias                     map[string]string   `json:"Bias"`
}

// BiasFor returns the configured bias for a kind, defaulting missing
// keys to zero.
func (s UserSettings) BiasFor(kind string) string {
	if v, ok := s.Bias[kind]; ok && strings.TrimSpace(v) != "" {
		return v
	}
	return "0"
}

// BalanceSnapshot is the flat saldi document. flex_week is recomputed
// for display and never read back into a calculation.
type BalanceSnapshot struct {
	Flex       float64 `json:"flex"`
	Ferie      float64 `json:"ferie"`
	SixthWeek  float64 `json:"6. ferieuge"`
	CareDays   float64 `json:"omsorgsdage"`
	SeniorDays float64 `json:"seniordage"`
	FlexWeek   float64 `json:"flex_week"`
}

// DefaultSettings returns the settings written on first run.
func DefaultSettings() UserSettings {
	return UserSettings{
		WorkHours: map[string]DayHours{
			"Mandag":  {From: "08:00", To: "15:45", Total: "7:45"},
			"Tirsdag": {From: "08:00", To: "15:45", Total: "7:45"},
			"Onsdag":  {From: "08:00", To: "15:45", Total: "7:45"},
			"Torsdag": {From: "08:00", To: "15:45", Total: "7:45"},
			"Fredag":  {From: "08:00", To: "14:00", Total: "6:00"},
		},
		Children: []Child{},
		UserDetails: UserDetails{
			EmploymentDate: "31-12-1999",
			BirthDate:      "31-12-1999",
		},
		HoursPerWeek: 37.0,
		HoursPerDay:  "7.4",
		Bias: map[string]string{
			BiasFlex:      "0:00",
			BiasFerie:     "0:00",
			BiasSixFerie:  "0:00",
			BiasCareday:   "0",
			BiasSeniorday: "0",
		},
	}
}
