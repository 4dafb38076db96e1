package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/askov/klokind/internal/store"
)

type jsonExport struct {
	ExportedAt string      `json:"exported_at"`
	Count      int         `json:"count"`
	Entries    []jsonEntry `json:"entries"`
}

type jsonEntry struct {
	Date        string `json:"date"`
	ClockIn     string `json:"clock_in"`
	ClockOut    string `json:"clock_out"`
	Worked      string `json:"worked"`
	Norm        string `json:"norm"`
	FlexBalance string `json:"flex_balance"`
}

func ToJSON(entries []store.WorkEntry, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(entries),
	}

	for _, e := range entries {
		export.Entries = append(export.Entries, jsonEntry{
			Date:        e.Date,
			ClockIn:     e.ClockIn,
			ClockOut:    e.ClockOut,
			Worked:      e.Worked,
			Norm:        e.Norm,
			FlexBalance: e.FlexBalance,
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
