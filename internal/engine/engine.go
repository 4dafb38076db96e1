// Package engine derives the five saldi (flex, ferie, 6. ferieuge,
// omsorgsdage, seniordage) and the per-entry fields from the timesheet
// ledger and the user settings. All computation is pure; the Service
// type wires it to the store.
package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/askov/klokind/internal/clockfmt"
	"github.com/askov/klokind/internal/store"
)

// fallbackDailyNorm is used when HoursPerDay cannot be parsed.
var fallbackDailyNorm = decimal.RequireFromString("7.40")

// Notice is a non-fatal problem found during a computation. The
// offending value contributes zero; the notice is surfaced in the UI
// status bar.
type Notice struct {
	Context string
	Err     error
}

func (n Notice) String() string {
	return fmt.Sprintf("%s: %v", n.Context, n.Err)
}

func noticef(context string, format string, args ...any) Notice {
	return Notice{Context: context, Err: fmt.Errorf(format, args...)}
}

// WeekdayName maps Monday..Friday to the settings document's weekday
// keys; weekends map to the empty string.
func WeekdayName(t time.Time) string {
	wd := int(t.Weekday()) // Sunday == 0
	if wd >= 1 && wd <= 5 {
		return store.Weekdays[wd-1]
	}
	return ""
}

// AverageDailyHours parses HoursPerDay, which may be a plain decimal
// or clock text, falling back to 7.40 on failure.
func AverageDailyHours(st store.UserSettings) decimal.Decimal {
	d, err := clockfmt.ParseHours(string(st.HoursPerDay))
	if err != nil {
		return fallbackDailyNorm
	}
	return d
}

// dailyNorm is the expected hours for a working weekday.
func dailyNorm(day string, st store.UserSettings, avg decimal.Decimal) decimal.Decimal {
	if st.UseAvgWeekHoursAsDefault {
		return avg
	}
	if wh, ok := st.WorkHours[day]; ok && wh.Total != "" {
		if d, err := clockfmt.ParseHours(wh.Total); err == nil {
			return d
		}
	}
	return avg
}

// workedMinutes computes the reported same-day span. A "00:00" on
// either side is the not-yet-stamped sentinel: the day counts zero
// worked time without a notice, since a plain stamp-in leaves the
// clock-out at "00:00" until the matching stamp-out. A genuine
// clock-out earlier than clock-in is clamped to zero and reported,
// never wrapped through midnight.
func workedMinutes(e store.WorkEntry) (int, *Notice) {
	ih, im, err := clockfmt.ParseTimeOfDay(e.ClockIn)
	if err != nil {
		n := noticef(e.Date, "bad clock-in: %v", err)
		return 0, &n
	}
	oh, om, err := clockfmt.ParseTimeOfDay(e.ClockOut)
	if err != nil {
		n := noticef(e.Date, "bad clock-out: %v", err)
		return 0, &n
	}
	in, out := ih*60+im, oh*60+om
	if in == 0 || out == 0 {
		return 0, nil
	}
	span := out - in
	if span < 0 {
		n := noticef(e.Date, "clock-out %s before clock-in %s", e.ClockOut, e.ClockIn)
		return 0, &n
	}
	return span, nil
}

// RecomputeResult carries the rewritten entries and the flex running
// total before bias and consumption are applied.
type RecomputeResult struct {
	Entries     []store.WorkEntry
	RunningFlex decimal.Decimal
	Notices     []Notice
}

// RecomputeEntries rewrites the derived fields of every entry in
// chronological order: worked minutes, the day's norm and the running
// flex total after the entry. Weekend entries keep their worked time
// but contribute nothing to flex and carry a zero norm.
func RecomputeEntries(entries []store.WorkEntry, st store.UserSettings) RecomputeResult {
	out := make([]store.WorkEntry, len(entries))
	copy(out, entries)
	sortChronological(out)

	avg := AverageDailyHours(st)
	flexTotal := decimal.Zero
	var notices []Notice

	for i := range out {
		e := &out[i]

		date, err := e.Time()
		if err != nil {
			notices = append(notices, noticef(e.Date, "bad date: %v", err))
			continue
		}

		worked, n := workedMinutes(*e)
		if n != nil {
			notices = append(notices, *n)
		}
		e.Worked = clockfmt.FormatMinutes(worked)

		day := WeekdayName(date)
		if day == "" {
			e.Norm = clockfmt.Format(decimal.Zero)
		} else {
			norm := dailyNorm(day, st, avg)
			e.Norm = clockfmt.Format(norm)
			delta := decimal.NewFromInt(int64(worked)).Div(decimal.NewFromInt(60)).Sub(norm)
			flexTotal = flexTotal.Add(delta)
		}
		e.FlexBalance = clockfmt.Format(flexTotal)
	}

	return RecomputeResult{Entries: out, RunningFlex: flexTotal, Notices: notices}
}

// FlexBalance finalizes the flex saldo: running total, plus the Flex
// bias applied exactly once per recompute, minus the current year's
// recorded flex consumption.
func FlexBalance(res RecomputeResult, st store.UserSettings, now time.Time) (decimal.Decimal, []Notice) {
	var notices []Notice

	bias, err := clockfmt.ParseHours(st.BiasFor(store.BiasFlex))
	if err != nil {
		notices = append(notices, noticef("flex", "bad bias: %v", err))
		bias = decimal.Zero
	}

	consumed, cn := sumConsumption(res.Entries, now.Year(), "flex", func(e store.WorkEntry) string { return e.FlexUsed })
	notices = append(notices, cn...)

	return res.RunningFlex.Add(bias).Sub(consumed), notices
}

// WeeklyFlex sums the daily flex deltas of entries inside the current
// ISO week (Monday through Sunday of now). Display only; it feeds no
// other calculation.
func WeeklyFlex(entries []store.WorkEntry, st store.UserSettings, now time.Time) decimal.Decimal {
	monday := startOfISOWeek(now)
	sunday := monday.AddDate(0, 0, 7)

	avg := AverageDailyHours(st)
	total := decimal.Zero

	for _, e := range entries {
		date, err := e.Time()
		if err != nil {
			continue
		}
		if date.Before(monday) || !date.Before(sunday) {
			continue
		}
		day := WeekdayName(date)
		if day == "" {
			continue
		}
		worked, n := workedMinutes(e)
		if n != nil {
			continue
		}
		norm := dailyNorm(day, st, avg)
		delta := decimal.NewFromInt(int64(worked)).Div(decimal.NewFromInt(60)).Sub(norm)
		total = total.Add(delta)
	}
	return total
}

// RecomputeWeekHours re-derives each weekday's Total plus HoursPerWeek
// and HoursPerDay from the configured From/To spans. Called by the
// settings form before persisting.
func RecomputeWeekHours(st store.UserSettings) (store.UserSettings, error) {
	weekMinutes := 0
	for _, day := range store.Weekdays {
		wh, ok := st.WorkHours[day]
		if !ok {
			return st, fmt.Errorf("missing work hours for %s", day)
		}
		span, ok := clockfmt.MinutesBetween(wh.From, wh.To)
		if !ok {
			return st, fmt.Errorf("invalid work hours for %s (%s-%s)", day, wh.From, wh.To)
		}
		wh.Total = clockfmt.Format(decimal.NewFromInt(int64(span)).Div(decimal.NewFromInt(60)))
		st.WorkHours[day] = wh
		weekMinutes += span
	}

	week := decimal.NewFromInt(int64(weekMinutes)).Div(decimal.NewFromInt(60))
	st.HoursPerWeek = week.InexactFloat64()
	st.HoursPerDay = store.Hours(week.Div(decimal.NewFromInt(5)).Round(2).String())
	return st, nil
}

// startOfISOWeek is Monday 00:00 of now's week.
func startOfISOWeek(now time.Time) time.Time {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	wd := int(day.Weekday())
	if wd == 0 {
		wd = 7
	}
	return day.AddDate(0, 0, 1-wd)
}

// sortChronological matches the ordering the store writes rows in, so
// the persisted running totals read top to bottom.
func sortChronological(entries []store.WorkEntry) {
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
