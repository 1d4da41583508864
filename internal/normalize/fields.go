// Package normalize turns loosely shaped backend records into model types.
//
// The backend has returned the same fields under several names over time.
// Each entity has one function here with a fixed field-precedence order, so
// schema drift stays out of the views. A field counts as present when its key
// exists with a non-null value, even if that value is "" or 0. Missing or
// malformed values fall back to zero values and never cause an error.
package normalize

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/parkandride/parkride/internal/api"
)

// first returns the first present, non-null value among keys.
func first(r api.Record, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := r[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// str coerces a scalar to a string; objects and arrays yield "".
func str(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool, int, int64:
		return fmt.Sprint(t)
	}
	return ""
}

func firstString(r api.Record, keys ...string) string {
	v, _ := first(r, keys...)
	return str(v)
}

// number coerces JSON numbers and numeric strings. NaN and infinities are
// malformed.
func number(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case int:
		f = float64(t)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func firstNumber(r api.Record, keys ...string) (float64, bool) {
	v, ok := first(r, keys...)
	if !ok {
		return 0, false
	}
	return number(v)
}

func numberPtr(r api.Record, keys ...string) *float64 {
	f, ok := firstNumber(r, keys...)
	if !ok {
		return nil
	}
	return &f
}

func record(v any) api.Record {
	m, _ := v.(map[string]any)
	return m
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// timestamp parses ISO strings and epoch milliseconds. A bare wall-clock
// time ("09:28:23") is placed on the day of now.
func timestamp(v any, now time.Time) (time.Time, bool) {
	switch t := v.(type) {
	case float64:
		return time.UnixMilli(int64(t)), true
	case string:
		s := strings.TrimSpace(t)
		for _, layout := range timeLayouts {
			if ts, err := time.Parse(layout, s); err == nil {
				return ts, true
			}
		}
		if clock, err := time.ParseInLocation("15:04:05", s, now.Location()); err == nil {
			y, m, d := now.Date()
			return time.Date(y, m, d, clock.Hour(), clock.Minute(), clock.Second(), 0, now.Location()), true
		}
	}
	return time.Time{}, false
}

func timestampPtr(r api.Record, now time.Time, keys ...string) *time.Time {
	v, ok := first(r, keys...)
	if !ok {
		return nil
	}
	ts, ok := timestamp(v, now)
	if !ok {
		return nil
	}
	return &ts
}
