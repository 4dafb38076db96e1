package engine

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/askov/klokind/internal/clockfmt"
	"github.com/askov/klokind/internal/store"
)

// vacationMonthlyRate is the hours of ferie accrued per month.
var vacationMonthlyRate = decimal.RequireFromString("15.42")

// MonthsAccrued counts whole calendar months from the later of the
// employment date and Jan 1 of the current year through now, counting
// the starting month.
func MonthsAccrued(employmentDate string, now time.Time) (int, error) {
	emp, err := time.Parse(store.DateLayout, employmentDate)
	if err != nil {
		return 0, err
	}
	start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	if emp.After(start) {
		start = emp
	}
	return (now.Year()-start.Year())*12 + int(now.Month()) - int(start.Month()) + 1, nil
}

// VacationBalance is months accrued x 15.42 + bias hours - the current
// year's recorded ferie consumption.
func VacationBalance(entries []store.WorkEntry, st store.UserSettings, now time.Time) (decimal.Decimal, []Notice) {
	var notices []Notice

	months, err := MonthsAccrued(st.UserDetails.EmploymentDate, now)
	if err != nil {
		notices = append(notices, noticef("ferie", "bad employment date %q: %v", st.UserDetails.EmploymentDate, err))
	}

	bias, err := clockfmt.ParseHours(st.BiasFor(store.BiasFerie))
	if err != nil {
		notices = append(notices, noticef("ferie", "bad bias: %v", err))
		bias = decimal.Zero
	}

	consumed, cn := sumConsumption(entries, now.Year(), "ferie", func(e store.WorkEntry) string { return e.VacationUsed })
	notices = append(notices, cn...)

	return decimal.NewFromInt(int64(months)).Mul(vacationMonthlyRate).Add(bias).Sub(consumed), notices
}

// SixthWeekBalance is a placeholder: the 6. ferieuge scheme is not
// implemented and the saldo is fixed at zero.
func SixthWeekBalance() decimal.Decimal {
	return decimal.Zero
}

// CareDayBalance grants two days per child younger than eight this
// year, plus bias, minus the current year's recorded consumption.
func CareDayBalance(entries []store.WorkEntry, st store.UserSettings, now time.Time) (decimal.Decimal, []Notice) {
	var notices []Notice

	underEight := 0
	for _, c := range st.Children {
		year, err := strconv.Atoi(strings.TrimSpace(c.YearOfBirth))
		if err != nil {
			notices = append(notices, noticef("omsorgsdage", "bad year of birth %q for %s", c.YearOfBirth, c.Name))
			continue
		}
		if now.Year()-year < 8 {
			underEight++
		}
	}

	bias, cn := dayBias(st, store.BiasCareday, "omsorgsdage")
	notices = append(notices, cn...)

	consumed, sn := sumConsumption(entries, now.Year(), "omsorgsdage", func(e store.WorkEntry) string { return e.CareDaysUsed })
	notices = append(notices, sn...)

	return decimal.NewFromInt(int64(underEight * 2)).Add(bias).Sub(consumed), notices
}

// SeniorDayBalance grants two days once the user turns 60 by the end
// of the current year, plus bias, minus the current year's recorded
// consumption. A malformed birth date zeroes the whole saldo.
func SeniorDayBalance(entries []store.WorkEntry, st store.UserSettings, now time.Time) (decimal.Decimal, []Notice) {
	birth, err := time.Parse(store.DateLayout, st.UserDetails.BirthDate)
	if err != nil {
		return decimal.Zero, []Notice{noticef("seniordage", "bad birth date %q: %v", st.UserDetails.BirthDate, err)}
	}

	endOfYear := time.Date(now.Year(), time.December, 31, 0, 0, 0, 0, now.Location())
	age := endOfYear.Year() - birth.Year()
	// Decrement when the birthday falls after the comparison date.
	if birth.Month() > endOfYear.Month() ||
		(birth.Month() == endOfYear.Month() && birth.Day() > endOfYear.Day()) {
		age--
	}

	granted := decimal.Zero
	if age >= 60 {
		granted = decimal.NewFromInt(2)
	}

	var notices []Notice
	bias, bn := dayBias(st, store.BiasSeniorday, "seniordage")
	notices = append(notices, bn...)

	consumed, sn := sumConsumption(entries, now.Year(), "seniordage", func(e store.WorkEntry) string { return e.SeniorDaysUsed })
	notices = append(notices, sn...)

	return granted.Add(bias).Sub(consumed), notices
}

// Balances runs the full recompute: derived entry fields, then all
// five saldi plus the display-only weekly flex. The returned entries
// are what the ledger should be rewritten with.
func Balances(entries []store.WorkEntry, st store.UserSettings, now time.Time) (store.BalanceSnapshot, []store.WorkEntry, []Notice) {
	res := RecomputeEntries(entries, st)
	notices := res.Notices

	flex, fn := FlexBalance(res, st, now)
	notices = append(notices, fn...)

	ferie, vn := VacationBalance(res.Entries, st, now)
	notices = append(notices, vn...)

	care, cn := CareDayBalance(res.Entries, st, now)
	notices = append(notices, cn...)

	senior, sn := SeniorDayBalance(res.Entries, st, now)
	notices = append(notices, sn...)

	snap := store.BalanceSnapshot{
		Flex:       flex.InexactFloat64(),
		Ferie:      ferie.InexactFloat64(),
		SixthWeek:  SixthWeekBalance().InexactFloat64(),
		CareDays:   care.InexactFloat64(),
		SeniorDays: senior.InexactFloat64(),
		FlexWeek:   WeeklyFlex(res.Entries, st, now).InexactFloat64(),
	}
	return snap, res.Entries, notices
}

// dayBias parses a day-count bias (plain signed number, though clock
// text is tolerated).
func dayBias(st store.UserSettings, kind, context string) (decimal.Decimal, []Notice) {
	bias, err := clockfmt.ParseHours(st.BiasFor(kind))
	if err != nil {
		return decimal.Zero, []Notice{noticef(context, "bad bias: %v", err)}
	}
	return bias, nil
}

// sumConsumption totals a consumption column over the given year's
// entries. Empty fields count as zero; malformed dates or numbers
// contribute zero and a notice.
func sumConsumption(entries []store.WorkEntry, year int, context string, field func(store.WorkEntry) string) (decimal.Decimal, []Notice) {
	total := decimal.Zero
	var notices []Notice

	for _, e := range entries {
		v := strings.TrimSpace(field(e))
		if v == "" {
			continue
		}
		date, err := e.Time()
		if err != nil {
			notices = append(notices, noticef(context, "bad date %q", e.Date))
			continue
		}
		if date.Year() != year {
			continue
		}
		d, err := decimal.NewFromString(v)
		if err != nil {
			notices = append(notices, noticef(context, "bad value %q on %s", v, e.Date))
			continue
		}
		total = total.Add(d)
	}
	return total, notices
}
