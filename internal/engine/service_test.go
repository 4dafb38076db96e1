package engine

import (
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/askov/klokind/internal/store"
)

func testService(t *testing.T) *Service {
	t.Helper()
	st, err := store.New(t.TempDir(), 2025)
	if err != nil {
		t.Fatal(err)
	}
	svc := NewService(st, log.New(io.Discard))
	svc.now = func() time.Time { return testNow }
	return svc
}

func TestServiceSaveDayIsIdempotent(t *testing.T) {
	svc := testService(t)

	first, _, err := svc.SaveDay("12-05-2025", "08:00", "16:15")
	if err != nil {
		t.Fatal(err)
	}
	second, _, err := svc.SaveDay("12-05-2025", "08:00", "16:15")
	if err != nil {
		t.Fatal(err)
	}

	if first.Flex != 0.5 || second.Flex != first.Flex {
		t.Errorf("flex = %v then %v, want 0.5 both times", first.Flex, second.Flex)
	}

	entries, err := svc.Timesheet()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("want a single ledger row, got %d", len(entries))
	}
}

func TestServiceSaveDayOverwritesTimes(t *testing.T) {
	svc := testService(t)

	if _, _, err := svc.SaveDay("12-05-2025", "08:00", "15:45"); err != nil {
		t.Fatal(err)
	}
	snap, _, err := svc.SaveDay("12-05-2025", "08:00", "16:45")
	if err != nil {
		t.Fatal(err)
	}
	if snap.Flex != 1 {
		t.Errorf("flex after overwrite = %v, want 1", snap.Flex)
	}
}

func TestServiceSaveDayRejectsBadDate(t *testing.T) {
	svc := testService(t)
	if _, _, err := svc.SaveDay("2025-05-12", "08:00", "15:45"); err == nil {
		t.Fatal("ISO date should be rejected")
	}
}

func TestServiceSaveDayPersistsDerivedColumns(t *testing.T) {
	svc := testService(t)

	if _, _, err := svc.SaveDay("12-05-2025", "08:00", "16:15"); err != nil {
		t.Fatal(err)
	}

	entries, err := svc.Timesheet()
	if err != nil {
		t.Fatal(err)
	}
	e := entries[0]
	if e.Worked != "08:15" || e.Norm != "07:45" || e.FlexBalance != "00:30" {
		t.Errorf("persisted row = %+v", e)
	}
}

func TestServiceClearDayRemovesContribution(t *testing.T) {
	svc := testService(t)

	if _, _, err := svc.SaveDay("12-05-2025", "08:00", "16:15"); err != nil {
		t.Fatal(err)
	}
	if _, _, err := svc.SaveDay("13-05-2025", "08:00", "16:45"); err != nil {
		t.Fatal(err)
	}

	snap, _, err := svc.ClearDay("13-05-2025")
	if err != nil {
		t.Fatal(err)
	}
	if snap.Flex != 0.5 {
		t.Errorf("flex after clear = %v, want 0.5", snap.Flex)
	}

	entries, err := svc.Timesheet()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Date != "12-05-2025" {
		t.Errorf("ledger after clear = %+v", entries)
	}
}

func TestServiceClearUnknownDayIsNoop(t *testing.T) {
	svc := testService(t)

	if _, _, err := svc.SaveDay("12-05-2025", "08:00", "16:15"); err != nil {
		t.Fatal(err)
	}
	snap, _, err := svc.ClearDay("01-01-2025")
	if err != nil {
		t.Fatal(err)
	}
	if snap.Flex != 0.5 {
		t.Errorf("flex = %v, want 0.5", snap.Flex)
	}
}

func TestServiceSaveSettingsRecomputesLedger(t *testing.T) {
	svc := testService(t)

	if _, _, err := svc.SaveDay("12-05-2025", "08:00", "15:45"); err != nil {
		t.Fatal(err)
	}

	// Shorten Monday by 45 minutes; the same clock times now overshoot.
	st := svc.Settings()
	wh := st.WorkHours["Mandag"]
	wh.To = "15:00"
	st.WorkHours["Mandag"] = wh

	snap, _, err := svc.SaveSettings(st)
	if err != nil {
		t.Fatal(err)
	}
	if snap.Flex != 0.75 {
		t.Errorf("flex after settings change = %v, want 0.75", snap.Flex)
	}
}

func TestServiceSaveSettingsBlocksInvalidHours(t *testing.T) {
	svc := testService(t)

	st := svc.Settings()
	wh := st.WorkHours["Onsdag"]
	wh.From, wh.To = "15:00", "08:00"
	st.WorkHours["Onsdag"] = wh

	if _, _, err := svc.SaveSettings(st); err == nil {
		t.Fatal("reversed span should block the save")
	}

	// The persisted document must be untouched.
	got := svc.Settings()
	if got.WorkHours["Onsdag"].From != "08:00" {
		t.Errorf("settings on disk changed: %+v", got.WorkHours["Onsdag"])
	}
}

func TestServiceBalancesSeedsFromDisk(t *testing.T) {
	svc := testService(t)

	if _, _, err := svc.SaveDay("12-05-2025", "08:00", "16:15"); err != nil {
		t.Fatal(err)
	}
	if got := svc.Balances(); got.Flex != 0.5 {
		t.Errorf("persisted snapshot flex = %v, want 0.5", got.Flex)
	}
}

func TestServiceRefresh(t *testing.T) {
	svc := testService(t)

	if _, _, err := svc.SaveDay("12-05-2025", "08:00", "16:15"); err != nil {
		t.Fatal(err)
	}
	snap, notices, err := svc.Refresh()
	if err != nil {
		t.Fatal(err)
	}
	if len(notices) != 0 {
		t.Fatalf("unexpected notices: %v", notices)
	}
	if snap.Flex != 0.5 {
		t.Errorf("flex after refresh = %v, want 0.5", snap.Flex)
	}
}
