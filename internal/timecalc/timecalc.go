package timecalc

import (
	"fmt"
	"math"
	"time"
)

// DateLayout is the day format the backend uses for aggregation dates.
const DateLayout = "2006-01-02"

// Range is an exited-vehicle lookback window.
type Range string

const (
	RangeAll   Range = "all"
	RangeToday Range = "today"
	RangeWeek  Range = "1w"
	RangeMonth Range = "1m"
)

// ParseRange accepts the display names as well as the backend's query values.
func ParseRange(s string) (Range, error) {
	switch s {
	case "", "all":
		return RangeAll, nil
	case "today":
		return RangeToday, nil
	case "1w", "week":
		return RangeWeek, nil
	case "1m", "month":
		return RangeMonth, nil
	}
	return "", fmt.Errorf("unknown range %q (want all, today, 1w or 1m)", s)
}

// QueryValue is the value of the backend's range parameter, or "" for all.
func (r Range) QueryValue() string {
	switch r {
	case RangeToday:
		return "today"
	case RangeWeek:
		return "week"
	case RangeMonth:
		return "month"
	}
	return ""
}

// Contains reports whether t falls in the window ending at now.
// Today is a calendar-day match; week and month are 7 and 31 day lookbacks.
func (r Range) Contains(t, now time.Time) bool {
	days := now.Sub(t).Hours() / 24
	switch r {
	case RangeToday:
		return SameDay(t.In(now.Location()), now)
	case RangeWeek:
		return days <= 7
	case RangeMonth:
		return days <= 31
	}
	return true
}

// HoursBetween returns the parked hours from entry to exit, floored at zero
// and rounded to 2 decimals. Missing times yield 0.
func HoursBetween(entry, exit *time.Time) float64 {
	if entry == nil || exit == nil || entry.IsZero() || exit.IsZero() {
		return 0
	}
	h := exit.Sub(*entry).Hours()
	if h <= 0 {
		return 0
	}
	return math.Round(h*100) / 100
}

// FormatDuration formats seconds as a human-readable string like "1h 40m" or "45m" or "30s".
func FormatDuration(seconds int64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	if m > 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%ds", s)
}

// FormatClock renders a wall-clock time in loc, or "-" for a missing time.
func FormatClock(t *time.Time, loc *time.Location) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format("15:04:05")
}

// ParseDate parses a YYYY-MM-DD prefix as a UTC day. Longer timestamps are
// truncated to their date part.
func ParseDate(s string) (time.Time, error) {
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	return time.Parse(DateLayout, s)
}

// DaysEnding returns n consecutive UTC days ending at end, oldest first.
func DaysEnding(end time.Time, n int) []time.Time {
	end = StartOfDay(end.UTC())
	out := make([]time.Time, n)
	for i := 0; i < n; i++ {
		out[i] = end.AddDate(0, 0, i-(n-1))
	}
	return out
}

// StartOfDay returns 00:00:00 of the same day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether two times fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
