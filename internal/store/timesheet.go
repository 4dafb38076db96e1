package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
)

// sheetHeaders is the fixed column order of the timesheet file. The
// Danish names are part of the on-disk contract.
var sheetHeaders = []string{
	"Dato", "Starttid", "Sluttid", "Arbejdstid", "Normtid", "Flex saldo",
	"Flex forbrug", "Ferie forbrug", "6. Ferieuge forbrug",
	"Omsorgsdage forbrug", "Seniordage forbrug",
}

// LoadTimesheet reads the year's ledger. A missing file yields an
// empty ledger. Rows come back sorted by date, unparseable dates last.
func (s *Store) LoadTimesheet() ([]WorkEntry, error) {
	f, err := os.Open(s.TimesheetPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open timesheet: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = ';'
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read timesheet: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	entries := make([]WorkEntry, 0, len(records)-1)
	for _, rec := range records[1:] { // skip header
		entries = append(entries, entryFromRecord(rec))
	}
	sortEntries(entries)
	return entries, nil
}

// SaveTimesheet rewrites the whole ledger file, rows sorted by date.
func (s *Store) SaveTimesheet(entries []WorkEntry) error {
	f, err := os.Create(s.TimesheetPath())
	if err != nil {
		return fmt.Errorf("create timesheet: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Comma = ';'
	defer w.Flush()

	if err := w.Write(sheetHeaders); err != nil {
		return fmt.Errorf("write timesheet header: %w", err)
	}

	sorted := make([]WorkEntry, len(entries))
	copy(sorted, entries)
	sortEntries(sorted)

	for _, e := range sorted {
		rec := []string{
			e.Date, e.ClockIn, e.ClockOut, e.Worked, e.Norm, e.FlexBalance,
			e.FlexUsed, e.VacationUsed, e.SixthWeekUsed, e.CareDaysUsed, e.SeniorDaysUsed,
		}
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("write timesheet row %s: %w", e.Date, err)
		}
	}

	w.Flush()
	return w.Error()
}

func entryFromRecord(rec []string) WorkEntry {
	field := func(i int) string {
		if i < len(rec) {
			return rec[i]
		}
		return ""
	}
	return WorkEntry{
		Date:           field(0),
		ClockIn:        field(1),
		ClockOut:       field(2),
		Worked:         field(3),
		Norm:           field(4),
		FlexBalance:    field(5),
		FlexUsed:       field(6),
		VacationUsed:   field(7),
		SixthWeekUsed:  field(8),
		CareDaysUsed:   field(9),
		SeniorDaysUsed: field(10),
	}
}

func sortEntries(entries []WorkEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		ti, erri := entries[i].Time()
		tj, errj := entries[j].Time()
		if erri != nil || errj != nil {
			if erri == nil {
				return true
			}
			if errj == nil {
				return false
			}
			return entries[i].Date < entries[j].Date
		}
		return ti.Before(tj)
	})
}
