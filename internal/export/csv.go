package export

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/askov/klokind/internal/store"
)

// ToCSV writes a comma-separated report of the ledger, derived columns
// included. Unlike the timesheet file this is a plain export, never
// read back.
func ToCSV(entries []store.WorkEntry, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"Date", "Clock in", "Clock out", "Worked", "Norm", "Flex balance"}); err != nil {
		return err
	}

	for _, e := range entries {
		row := []string{e.Date, e.ClockIn, e.ClockOut, e.Worked, e.Norm, e.FlexBalance}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}
