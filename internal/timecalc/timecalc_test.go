package timecalc_test

import (
	"testing"
	"time"

	"github.com/parkandride/parkride/internal/timecalc"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds int64
		want    string
	}{
		{0, "0s"},
		{45, "45s"},
		{60, "1m"},
		{90, "1m"},
		{3600, "1h 0m"},
		{3661, "1h 1m"},
		{5400, "1h 30m"},
	}
	for _, tt := range tests {
		got := timecalc.FormatDuration(tt.seconds)
		if got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestHoursBetween(t *testing.T) {
	entry := time.Date(2026, 2, 27, 8, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		exit time.Time
		want float64
	}{
		{"ninety minutes", entry.Add(90 * time.Minute), 1.5},
		{"rounded", entry.Add(20 * time.Minute), 0.33},
		{"same instant", entry, 0},
		{"exit before entry", entry.Add(-time.Hour), 0},
	}
	for _, tt := range tests {
		exit := tt.exit
		if got := timecalc.HoursBetween(&entry, &exit); got != tt.want {
			t.Errorf("%s: HoursBetween = %v, want %v", tt.name, got, tt.want)
		}
	}
	if got := timecalc.HoursBetween(nil, &entry); got != 0 {
		t.Errorf("HoursBetween(nil, t) = %v, want 0", got)
	}
}

func TestRangeContains(t *testing.T) {
	now := time.Date(2026, 2, 27, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		r    timecalc.Range
		t    time.Time
		want bool
	}{
		{timecalc.RangeToday, time.Date(2026, 2, 27, 0, 30, 0, 0, time.UTC), true},
		{timecalc.RangeToday, time.Date(2026, 2, 26, 23, 59, 0, 0, time.UTC), false},
		{timecalc.RangeWeek, now.AddDate(0, 0, -7), true},
		{timecalc.RangeWeek, now.AddDate(0, 0, -8), false},
		{timecalc.RangeMonth, now.AddDate(0, 0, -31), true},
		{timecalc.RangeMonth, now.AddDate(0, 0, -32), false},
		{timecalc.RangeAll, now.AddDate(-3, 0, 0), true},
	}
	for _, tt := range tests {
		if got := tt.r.Contains(tt.t, now); got != tt.want {
			t.Errorf("%s.Contains(%v) = %v, want %v", tt.r, tt.t, got, tt.want)
		}
	}
}

func TestParseRange(t *testing.T) {
	tests := []struct {
		in    string
		want  timecalc.Range
		query string
	}{
		{"", timecalc.RangeAll, ""},
		{"today", timecalc.RangeToday, "today"},
		{"week", timecalc.RangeWeek, "week"},
		{"1m", timecalc.RangeMonth, "month"},
	}
	for _, tt := range tests {
		got, err := timecalc.ParseRange(tt.in)
		if err != nil {
			t.Fatalf("ParseRange(%q): %v", tt.in, err)
		}
		if got != tt.want || got.QueryValue() != tt.query {
			t.Errorf("ParseRange(%q) = %q (query %q), want %q (query %q)", tt.in, got, got.QueryValue(), tt.want, tt.query)
		}
	}
	if _, err := timecalc.ParseRange("year"); err == nil {
		t.Error("ParseRange(year): expected error")
	}
}

func TestDaysEnding(t *testing.T) {
	end := time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC)
	days := timecalc.DaysEnding(end, 7)
	if len(days) != 7 {
		t.Fatalf("DaysEnding len = %d, want 7", len(days))
	}
	if got := days[0].Format(timecalc.DateLayout); got != "2025-06-04" {
		t.Errorf("first day = %s, want 2025-06-04", got)
	}
	if got := days[6].Format(timecalc.DateLayout); got != "2025-06-10" {
		t.Errorf("last day = %s, want 2025-06-10", got)
	}
}

func TestParseDate(t *testing.T) {
	d, err := timecalc.ParseDate("2025-06-10T18:30:00.000Z")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if d.Format(timecalc.DateLayout) != "2025-06-10" {
		t.Errorf("ParseDate = %v", d)
	}
}

func TestSameDay(t *testing.T) {
	a := time.Date(2026, 2, 27, 10, 0, 0, 0, time.UTC)
	b := time.Date(2026, 2, 27, 23, 59, 59, 0, time.UTC)
	c := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)

	if !timecalc.SameDay(a, b) {
		t.Error("SameDay: expected same day for a and b")
	}
	if timecalc.SameDay(a, c) {
		t.Error("SameDay: expected different day for a and c")
	}
}

func TestFormatClock(t *testing.T) {
	ts := time.Date(2026, 2, 27, 8, 32, 10, 0, time.UTC)
	if got := timecalc.FormatClock(&ts, time.UTC); got != "08:32:10" {
		t.Errorf("FormatClock = %q, want 08:32:10", got)
	}
	if got := timecalc.FormatClock(nil, time.UTC); got != "-" {
		t.Errorf("FormatClock(nil) = %q, want -", got)
	}
}
