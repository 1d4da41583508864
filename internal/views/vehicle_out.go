package views

import (
	"context"
	"strings"
	"sync"

	"github.com/parkandride/parkride/internal/api"
	"github.com/parkandride/parkride/internal/model"
	"github.com/parkandride/parkride/internal/normalize"
	"github.com/parkandride/parkride/internal/timecalc"
)

// ExitedBackend is the part of the backend the exited-vehicles view reads.
type ExitedBackend interface {
	VehiclesExited(ctx context.Context, rangeParam string) ([]api.Record, error)
}

// VehicleOut lists exited vehicles over a lookback range.
type VehicleOut struct {
	clock
	mu      sync.Mutex
	backend ExitedBackend

	records    []model.ExitedVehicle
	rng        timecalc.Range
	fetchError string
}

// NewVehicleOut returns an empty exited-vehicles view over all time.
func NewVehicleOut(backend ExitedBackend) *VehicleOut {
	return &VehicleOut{backend: backend, rng: timecalc.RangeAll}
}

// Load fetches exited vehicles for rng. The backend filters by range but
// the records are filtered again locally when listed.
func (v *VehicleOut) Load(ctx context.Context, rng timecalc.Range) error {
	records, err := v.backend.VehiclesExited(ctx, rng.QueryValue())
	if discarded(ctx) {
		return ctx.Err()
	}
	now := v.Now()

	v.mu.Lock()
	defer v.mu.Unlock()
	v.rng = rng
	if err != nil {
		v.fetchError = api.MessageOr(err, "Failed to load exited vehicles")
		return &Error{Message: v.fetchError, Err: err}
	}
	v.fetchError = ""
	v.records = normalize.ExitedVehicles(records, now)
	return nil
}

// Range is the range of the last load.
func (v *VehicleOut) Range() timecalc.Range {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.rng
}

// FetchError is the message of the last failed load, or "".
func (v *VehicleOut) FetchError() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.fetchError
}

// Visible returns records in the current range that match the slot filter
// and whose number contains query.
func (v *VehicleOut) Visible(filter SlotFilter, query string) []model.ExitedVehicle {
	now := v.Now()
	v.mu.Lock()
	defer v.mu.Unlock()
	var out []model.ExitedVehicle
	for _, r := range v.records {
		if !v.rng.Contains(r.ExitDate, now) {
			continue
		}
		if filter.match(r.SlotType) && matchNumber(r.Number, query) {
			out = append(out, r)
		}
	}
	return out
}

// Find returns the visible-or-not record with the given id, ticket or number.
func (v *VehicleOut) Find(key string) (model.ExitedVehicle, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, r := range v.records {
		if r.ID == key || (r.TicketID != "" && r.TicketID == key) || strings.EqualFold(r.Number, key) {
			return r, true
		}
	}
	return model.ExitedVehicle{}, false
}

// Slip renders an exited record as a slip. Hours come from the in/out times.
func (v *VehicleOut) Slip(r model.ExitedVehicle) model.Slip {
	var amount, rate float64
	if r.Amount != nil {
		amount = *r.Amount
	}
	if r.Rate != nil {
		rate = *r.Rate
	}
	return model.Slip{
		TicketID:    r.TicketID,
		VehicleID:   r.Number,
		OfficerID:   r.OfficerID,
		EntryTime:   r.InTime,
		ExitTime:    r.OutTime,
		VehicleType: model.SlipVehicleType{Name: r.Subtype, RatePerHour: rate},
		SlotType:    r.SlotType,
		Hours:       timecalc.HoursBetween(r.InTime, r.OutTime),
		Amount:      amount,
	}
}
