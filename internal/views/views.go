// Package views holds the console's domain screens. Each view owns its own
// fetch/display/edit cycle against the backend and keeps no state shared
// with other views; mounting a view again re-fetches.
package views

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/parkandride/parkride/internal/model"
)

var (
	// ErrBlankNumber is returned when a vehicle number is empty after trimming.
	ErrBlankNumber = errors.New("vehicle number is required")
	// ErrForbidden is returned for manager-only actions attempted by others.
	ErrForbidden = errors.New("manager role required")
	// ErrInvalidRate is returned for rate input that is not a non-negative number.
	ErrInvalidRate = errors.New("enter a valid non-negative number")
	// ErrMissingOfficerFields is returned when the add-officer form is incomplete.
	ErrMissingOfficerFields = errors.New("officer ID, name and email are required")
)

// Error is a failure to show inline next to the action that caused it.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// Identity is the view of the signed-in operator that screens need.
type Identity interface {
	User() *model.User
	OfficerID() string
}

// Lifetime scopes a view's loads to one mount. Results that arrive after
// Unmount are discarded by the view.
type Lifetime struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// Mount starts a lifetime derived from parent.
func Mount(parent context.Context) *Lifetime {
	ctx, cancel := context.WithCancel(parent)
	return &Lifetime{ctx: ctx, cancel: cancel}
}

// Context is cancelled when the view is unmounted.
func (l *Lifetime) Context() context.Context { return l.ctx }

// Unmount ends the lifetime. It is safe to call more than once.
func (l *Lifetime) Unmount() { l.cancel() }

// discarded reports whether a load finishing now must not touch view state.
func discarded(ctx context.Context) bool {
	return ctx.Err() != nil
}

// SlotFilter selects vehicles by slot class; FilterAll matches every slot.
type SlotFilter string

// FilterAll matches every slot class.
const FilterAll SlotFilter = "ALL"

// ParseSlotFilter accepts ALL (or empty) and a, b or c in either case.
func ParseSlotFilter(s string) (SlotFilter, error) {
	if s == "" || strings.EqualFold(s, string(FilterAll)) {
		return FilterAll, nil
	}
	st, err := model.ParseSlotType(s)
	if err != nil {
		return "", fmt.Errorf("unknown slot filter %q (want ALL, A, B or C)", s)
	}
	return SlotFilter(st), nil
}

func (f SlotFilter) match(slot model.SlotType) bool {
	return f == "" || f == FilterAll || model.SlotType(f) == slot
}

// matchNumber is a case-insensitive substring match.
func matchNumber(number, query string) bool {
	return strings.Contains(strings.ToLower(number), strings.ToLower(query))
}

// clock is embedded by views that stamp local times.
type clock struct {
	now func() time.Time
}

// SetClock replaces the time source; tests use it to pin "now". It must be
// called before the view is used.
func (c *clock) SetClock(now func() time.Time) { c.now = now }

// Now returns the view's current time.
func (c *clock) Now() time.Time {
	if c.now == nil {
		return time.Now()
	}
	return c.now()
}
