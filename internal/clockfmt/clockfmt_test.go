package clockfmt

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "00:00"},
		{7.75, "07:45"},
		{-1.5, "-01:30"},
		{8.25, "08:15"},
		{-0.5, "-00:30"},
		{37, "37:00"},
		{0.1, "00:06"},
	}
	for _, tt := range tests {
		if got := Format(decimal.NewFromFloat(tt.in)); got != tt.want {
			t.Errorf("Format(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"-1:30", -1.5},
		{"08:15", 8.25},
		{"-00:30", -0.5},
		{"0:00", 0},
		{"7:45", 7.75},
		{" 06:00 ", 6},
	}
	for _, tt := range tests {
		got := Parse(tt.in)
		if !got.Equal(decimal.NewFromFloat(tt.want)) {
			t.Errorf("Parse(%q) = %s, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseMalformedYieldsZero(t *testing.T) {
	for _, s := range []string{"", "abc", "12", "1:2:3", "1:xx", "1:-5", "1:75"} {
		if got := Parse(s); !got.IsZero() {
			t.Errorf("Parse(%q) = %s, want 0", s, got)
		}
	}
}

// Every exact multiple of one minute must survive a round trip.
func TestRoundTripMinuteResolution(t *testing.T) {
	for min := -48 * 60; min <= 48*60; min += 7 {
		d := decimal.NewFromInt(int64(min)).Div(decimal.NewFromInt(60))
		got := Parse(Format(d))
		if !got.Equal(d) {
			t.Fatalf("round trip %d min: Format=%q Parse=%s want %s", min, Format(d), got, d)
		}
	}
}

func TestParseHours(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"7.4", 7.4},
		{"7:45", 7.75},
		{"0", 0},
		{"-2:30", -2.5},
	}
	for _, tt := range tests {
		got, err := ParseHours(tt.in)
		if err != nil {
			t.Fatalf("ParseHours(%q): %v", tt.in, err)
		}
		if !got.Equal(decimal.NewFromFloat(tt.want)) {
			t.Errorf("ParseHours(%q) = %s, want %v", tt.in, got, tt.want)
		}
	}
	if _, err := ParseHours("not hours"); err == nil {
		t.Error("ParseHours should reject garbage")
	}
}

func TestParseTimeOfDay(t *testing.T) {
	h, m, err := ParseTimeOfDay("08:30")
	if err != nil || h != 8 || m != 30 {
		t.Fatalf("ParseTimeOfDay(08:30) = %d,%d,%v", h, m, err)
	}
	if _, _, err := ParseTimeOfDay("24:00"); err == nil {
		t.Error("hour 24 should be rejected")
	}
	if _, _, err := ParseTimeOfDay("-1:00"); err == nil {
		t.Error("negative hour should be rejected")
	}
}

func TestMinutesBetween(t *testing.T) {
	tests := []struct {
		in, out string
		want    int
		ok      bool
	}{
		{"08:00", "15:45", 465, true},
		{"08:00", "08:00", 0, true},
		{"15:45", "08:00", 0, false}, // out before in: no wrap-around
		{"xx", "08:00", 0, false},
		{"08:00", "", 0, false},
	}
	for _, tt := range tests {
		got, ok := MinutesBetween(tt.in, tt.out)
		if got != tt.want || ok != tt.ok {
			t.Errorf("MinutesBetween(%q, %q) = %d,%v want %d,%v", tt.in, tt.out, got, ok, tt.want, tt.ok)
		}
	}
}

func TestFormatMinutes(t *testing.T) {
	if got := FormatMinutes(465); got != "07:45" {
		t.Errorf("FormatMinutes(465) = %q", got)
	}
	if got := FormatMinutes(-5); got != "00:00" {
		t.Errorf("FormatMinutes(-5) = %q", got)
	}
}
