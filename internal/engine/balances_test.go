package engine

import (
	"testing"
	"time"

	"github.com/askov/klokind/internal/store"
)

// ============================================================
// Ferie (vacation)
// ============================================================

func TestMonthsAccrued(t *testing.T) {
	tests := []struct {
		employment string
		now        time.Time
		want       int
	}{
		// Employed long ago: accrual restarts at Jan 1, inclusive month count.
		{"31-12-1999", testNow, 5},
		// Employed Jan 1 this year, evaluated in month M: exactly M months.
		{"01-01-2025", time.Date(2025, 1, 10, 0, 0, 0, 0, time.Local), 1},
		{"01-01-2025", testNow, 5},
		{"01-01-2025", time.Date(2025, 12, 31, 0, 0, 0, 0, time.Local), 12},
		// Employed mid-year: counts from the employment month.
		{"15-03-2025", testNow, 3},
	}
	for _, tt := range tests {
		got, err := MonthsAccrued(tt.employment, tt.now)
		if err != nil {
			t.Fatalf("MonthsAccrued(%s): %v", tt.employment, err)
		}
		if got != tt.want {
			t.Errorf("MonthsAccrued(%s, %s) = %d, want %d", tt.employment, tt.now.Format("2006-01"), got, tt.want)
		}
	}
}

func TestVacationBalance(t *testing.T) {
	st := testSettings()
	st.UserDetails.EmploymentDate = "01-01-2025"

	got, notices := VacationBalance(nil, st, testNow)
	if len(notices) != 0 {
		t.Fatalf("unexpected notices: %v", notices)
	}
	wantDecimal(t, got, 5*15.42, "ferie") // month 5, no bias, no consumption
}

func TestVacationBalanceWithBiasAndConsumption(t *testing.T) {
	st := testSettings()
	st.UserDetails.EmploymentDate = "01-01-2025"
	st.Bias[store.BiasFerie] = "7:24"

	e := entry("12-05-2025", "08:00", "15:45")
	e.VacationUsed = "15.42"

	got, _ := VacationBalance([]store.WorkEntry{e}, st, testNow)
	wantDecimal(t, got, 5*15.42+7.4-15.42, "ferie")
}

func TestVacationBalanceBadEmploymentDate(t *testing.T) {
	st := testSettings()
	st.UserDetails.EmploymentDate = "soon"

	got, notices := VacationBalance(nil, st, testNow)
	if len(notices) != 1 {
		t.Fatalf("want notice for bad employment date, got %v", notices)
	}
	wantDecimal(t, got, 0, "ferie with zero months")
}

// ============================================================
// 6. ferieuge
// ============================================================

func TestSixthWeekBalanceIsZeroPlaceholder(t *testing.T) {
	wantDecimal(t, SixthWeekBalance(), 0, "6. ferieuge")
}

// ============================================================
// Omsorgsdage (care days)
// ============================================================

func TestCareDayBalance(t *testing.T) {
	tests := []struct {
		name     string
		children []store.Child
		want     float64
	}{
		{"no children", nil, 0},
		{"age seven", []store.Child{{Name: "Barn", YearOfBirth: "2018"}}, 2},
		{"age eight", []store.Child{{Name: "Barn", YearOfBirth: "2017"}}, 0},
		{"two under eight", []store.Child{
			{Name: "Barn", YearOfBirth: "2018"},
			{Name: "Barn", YearOfBirth: "2024"},
		}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := testSettings()
			st.Children = tt.children
			got, notices := CareDayBalance(nil, st, testNow)
			if len(notices) != 0 {
				t.Fatalf("unexpected notices: %v", notices)
			}
			wantDecimal(t, got, tt.want, "omsorgsdage")
		})
	}
}

func TestCareDayBalanceBadYearOfBirth(t *testing.T) {
	st := testSettings()
	st.Children = []store.Child{
		{Name: "Barn", YearOfBirth: "twenty-eighteen"},
		{Name: "Barn", YearOfBirth: "2018"},
	}
	got, notices := CareDayBalance(nil, st, testNow)
	if len(notices) != 1 {
		t.Fatalf("want 1 notice, got %v", notices)
	}
	wantDecimal(t, got, 2, "omsorgsdage counting only the valid child")
}

func TestCareDayBalanceBias(t *testing.T) {
	st := testSettings()
	st.Bias[store.BiasCareday] = "3"
	got, _ := CareDayBalance(nil, st, testNow)
	wantDecimal(t, got, 3, "omsorgsdage bias only")
}

// ============================================================
// Seniordage (senior days)
// ============================================================

func TestSeniorDayBalance(t *testing.T) {
	tests := []struct {
		name  string
		birth string
		want  float64
	}{
		{"turns 60 this year", "15-08-1965", 2},
		// Even a Dec 31 birthday counts in full: the adjustment that
		// would decrement for a birthday after year end can never fire.
		{"sixty at the last day of the year", "31-12-1965", 2},
		{"fifty-nine", "15-08-1966", 0},
		{"well past sixty", "01-02-1950", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := testSettings()
			st.UserDetails.BirthDate = tt.birth
			got, notices := SeniorDayBalance(nil, st, testNow)
			if len(notices) != 0 {
				t.Fatalf("unexpected notices: %v", notices)
			}
			wantDecimal(t, got, tt.want, "seniordage")
		})
	}
}

func TestSeniorDayBalanceBadBirthDateZeroesEverything(t *testing.T) {
	st := testSettings()
	st.UserDetails.BirthDate = "sometime"
	st.Bias[store.BiasSeniorday] = "4" // ignored: the whole saldo is zero
	got, notices := SeniorDayBalance(nil, st, testNow)
	if len(notices) != 1 {
		t.Fatalf("want 1 notice, got %v", notices)
	}
	wantDecimal(t, got, 0, "seniordage")
}

func TestSeniorDayBalanceBiasAndConsumption(t *testing.T) {
	st := testSettings()
	st.UserDetails.BirthDate = "15-08-1960"
	st.Bias[store.BiasSeniorday] = "1"

	e := entry("12-05-2025", "08:00", "15:45")
	e.SeniorDaysUsed = "2"

	got, _ := SeniorDayBalance([]store.WorkEntry{e}, st, testNow)
	wantDecimal(t, got, 1, "seniordage 2+1-2")
}

// ============================================================
// Full snapshot
// ============================================================

func TestBalancesSnapshot(t *testing.T) {
	st := testSettings()
	st.UserDetails.EmploymentDate = "01-01-2025"
	st.UserDetails.BirthDate = "15-08-1960"
	st.Children = []store.Child{{Name: "Barn", YearOfBirth: "2020"}}

	entries := []store.WorkEntry{entry("12-05-2025", "08:00", "16:15")}
	snap, derived, notices := Balances(entries, st, testNow)
	if len(notices) != 0 {
		t.Fatalf("unexpected notices: %v", notices)
	}

	if snap.Flex != 0.5 {
		t.Errorf("flex = %v, want 0.5", snap.Flex)
	}
	if snap.Ferie != 5*15.42 {
		t.Errorf("ferie = %v, want %v", snap.Ferie, 5*15.42)
	}
	if snap.SixthWeek != 0 {
		t.Errorf("6. ferieuge = %v, want 0", snap.SixthWeek)
	}
	if snap.CareDays != 2 {
		t.Errorf("omsorgsdage = %v, want 2", snap.CareDays)
	}
	if snap.SeniorDays != 2 {
		t.Errorf("seniordage = %v, want 2", snap.SeniorDays)
	}
	if snap.FlexWeek != 0.5 {
		t.Errorf("flex_week = %v, want 0.5", snap.FlexWeek)
	}
	if derived[0].FlexBalance != "00:30" {
		t.Errorf("derived running total = %q", derived[0].FlexBalance)
	}
}
