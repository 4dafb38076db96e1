// Package clockfmt converts between signed "HH:MM" clock text and
// decimal hours. The timesheet and saldi files store durations as
// clock text; all arithmetic happens on decimal hours.
package clockfmt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var sixty = decimal.NewFromInt(60)

// Format renders decimal hours as "±HH:MM". The sign is taken once and
// applied to the whole string. Minutes are derived from the rounded
// total-minute count, so every exact multiple of a minute survives a
// Parse/Format round trip.
func Format(d decimal.Decimal) string {
	total := d.Abs().Mul(sixty).Round(0).IntPart()
	h := total / 60
	m := total % 60
	if d.IsNegative() {
		return fmt.Sprintf("-%02d:%02d", h, m)
	}
	return fmt.Sprintf("%02d:%02d", h, m)
}

// FormatMinutes renders a non-negative minute count as "HH:MM".
func FormatMinutes(min int) string {
	if min < 0 {
		min = 0
	}
	return fmt.Sprintf("%02d:%02d", min/60, min%60)
}

// Parse converts "±HH:MM" to decimal hours. Malformed input yields
// zero; callers that need to distinguish use ParseChecked.
func Parse(s string) decimal.Decimal {
	d, err := ParseChecked(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParseChecked converts "±HH:MM" to decimal hours. The sign lives in
// the string prefix rather than the parsed hour, so "-00:30" keeps its
// sign. "-1:30" means -1.5, not -1 + 0.5.
func ParseChecked(s string) (decimal.Decimal, error) {
	t := strings.TrimSpace(s)
	neg := strings.HasPrefix(t, "-")
	t = strings.TrimPrefix(t, "-")

	h, m, err := splitClock(t)
	if err != nil {
		return decimal.Zero, err
	}

	d := decimal.NewFromInt(int64(h)).Add(decimal.NewFromInt(int64(m)).Div(sixty))
	if neg {
		d = d.Neg()
	}
	return d, nil
}

// ParseHours accepts either clock text ("7:45") or a plain decimal
// ("7.75"), the two spellings the settings document allows.
func ParseHours(s string) (decimal.Decimal, error) {
	if strings.Contains(s, ":") {
		return ParseChecked(s)
	}
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse hours %q: %w", s, err)
	}
	return d, nil
}

// ParseTimeOfDay parses a wall-clock "HH:MM" value.
func ParseTimeOfDay(s string) (int, int, error) {
	h, m, err := splitClock(strings.TrimSpace(s))
	if err != nil {
		return 0, 0, err
	}
	if h > 23 {
		return 0, 0, fmt.Errorf("parse time %q: hour out of range", s)
	}
	return h, m, nil
}

// MinutesBetween returns the same-day span between two wall-clock
// times. ok is false when either side is malformed or out precedes in;
// there is no midnight wrap-around.
func MinutesBetween(in, out string) (int, bool) {
	ih, im, err := ParseTimeOfDay(in)
	if err != nil {
		return 0, false
	}
	oh, om, err := ParseTimeOfDay(out)
	if err != nil {
		return 0, false
	}
	span := (oh*60 + om) - (ih*60 + im)
	if span < 0 {
		return 0, false
	}
	return span, true
}

func splitClock(s string) (int, int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("parse clock %q: want HH:MM", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("parse clock %q: %w", s, err)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("parse clock %q: %w", s, err)
	}
	if h < 0 || m < 0 || m > 59 {
		return 0, 0, fmt.Errorf("parse clock %q: out of range", s)
	}
	return h, m, nil
}
