package views

import (
	"context"
	"strings"
	"sync"

	"github.com/parkandride/parkride/internal/api"
	"github.com/parkandride/parkride/internal/model"
	"github.com/parkandride/parkride/internal/normalize"
)

// InParkBackend is the part of the backend the in-park view talks to.
type InParkBackend interface {
	VehiclesInPark(ctx context.Context) ([]api.Record, error)
	VehicleEntry(ctx context.Context, req api.EntryRequest) (api.Record, error)
	GenerateSlip(ctx context.Context, ticketID, officerID string) (*api.SlipResponse, error)
}

// ticketPrefix marks ids that are already backend ticket ids.
const ticketPrefix = "TICKET_"

// fallbackPrefix marks locally synthesized slip tickets.
const fallbackPrefix = "DRAFT_"

// VehicleIn lists parked vehicles, registers entries and issues exit slips.
type VehicleIn struct {
	clock
	mu      sync.Mutex
	backend InParkBackend
	ident   Identity

	vehicles   []model.Vehicle
	fetchError string
	generated  map[string]string
	slipErrors map[string]string
}

// NewVehicleIn returns an empty in-park view.
func NewVehicleIn(backend InParkBackend, ident Identity) *VehicleIn {
	return &VehicleIn{
		backend:    backend,
		ident:      ident,
		generated:  make(map[string]string),
		slipErrors: make(map[string]string),
	}
}

// Load fetches the in-park list, replacing the current one. On failure the
// list is kept and FetchError is set.
func (v *VehicleIn) Load(ctx context.Context) error {
	records, err := v.backend.VehiclesInPark(ctx)
	if discarded(ctx) {
		return ctx.Err()
	}
	now := v.Now()

	v.mu.Lock()
	defer v.mu.Unlock()
	if err != nil {
		v.fetchError = api.MessageOr(err, "Failed to load vehicles")
		return &Error{Message: v.fetchError, Err: err}
	}
	v.fetchError = ""
	v.vehicles = normalize.InParkVehicles(records, now)
	return nil
}

// FetchError is the message of the last failed load, or "".
func (v *VehicleIn) FetchError() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.fetchError
}

// Vehicles returns the whole list, newest entries first.
func (v *VehicleIn) Vehicles() []model.Vehicle {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]model.Vehicle(nil), v.vehicles...)
}

// Visible returns vehicles matching the slot filter whose number contains
// query, case-insensitively.
func (v *VehicleIn) Visible(filter SlotFilter, query string) []model.Vehicle {
	v.mu.Lock()
	defer v.mu.Unlock()
	var out []model.Vehicle
	for _, veh := range v.vehicles {
		if filter.match(veh.SlotType) && matchNumber(veh.Number, query) {
			out = append(out, veh)
		}
	}
	return out
}

// Add registers a vehicle entering the park. Subtype labels outside the
// slot's catalog fall back to the slot's first subtype. The new vehicle is
// prepended to the list.
func (v *VehicleIn) Add(ctx context.Context, slot model.SlotType, subtype, number string) (model.Vehicle, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return model.Vehicle{}, ErrBlankNumber
	}
	st := model.ResolveSubtype(slot, subtype)
	rec, err := v.backend.VehicleEntry(ctx, api.EntryRequest{
		VehicleID:   number,
		VehicleType: st.Label,
		OfficerID:   v.ident.OfficerID(),
	})
	if err != nil {
		return model.Vehicle{}, &Error{Message: api.MessageOr(err, "Failed to add vehicle"), Err: err}
	}
	veh := normalize.EnteredVehicle(rec, slot, st, number, v.Now())
	if discarded(ctx) {
		return veh, nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.vehicles = append([]model.Vehicle{veh}, v.vehicles...)
	return veh, nil
}

// Find returns the vehicle with the given id or number.
func (v *VehicleIn) Find(key string) (model.Vehicle, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, veh := range v.vehicles {
		if veh.ID == key {
			return veh, true
		}
	}
	for _, veh := range v.vehicles {
		if strings.EqualFold(veh.Number, key) {
			return veh, true
		}
	}
	return model.Vehicle{}, false
}

// GenerateSlip closes the vehicle's ticket. A server slip removes the
// vehicle from the list. When there is no ticket id or the call fails, a
// fallback slip is returned instead and the vehicle stays; a failure is
// also returned as the error and remembered for SlipError.
func (v *VehicleIn) GenerateSlip(ctx context.Context, veh model.Vehicle) (model.Slip, error) {
	ticketID := veh.TicketID
	if ticketID == "" && strings.HasPrefix(veh.ID, ticketPrefix) {
		ticketID = veh.ID
	}
	if ticketID == "" {
		return v.fallbackSlip(veh, ""), nil
	}

	v.mu.Lock()
	delete(v.slipErrors, veh.ID)
	v.mu.Unlock()

	resp, err := v.backend.GenerateSlip(ctx, ticketID, v.ident.OfficerID())
	if err == nil && resp != nil && resp.Slip != nil {
		slip := normalize.Slip(resp.Slip, v.Now())
		if discarded(ctx) {
			return slip, nil
		}
		v.mu.Lock()
		defer v.mu.Unlock()
		v.generated[veh.ID] = slip.TicketID
		if slip.TicketID == "" {
			v.generated[veh.ID] = ticketID
		}
		v.remove(veh.ID)
		return slip, nil
	}

	msg := "Failed to generate slip"
	switch {
	case err != nil:
		msg = api.MessageOr(err, msg)
	case resp != nil && resp.Message != "":
		msg = resp.Message
	}
	if !discarded(ctx) {
		v.mu.Lock()
		v.slipErrors[veh.ID] = msg
		v.mu.Unlock()
	}
	return v.fallbackSlip(veh, ticketID), &Error{Message: msg, Err: err}
}

// remove drops the vehicle with id. Callers hold v.mu.
func (v *VehicleIn) remove(id string) {
	out := v.vehicles[:0]
	for _, veh := range v.vehicles {
		if veh.ID != id {
			out = append(out, veh)
		}
	}
	v.vehicles = out
}

// fallbackSlip synthesizes a zero-amount slip, keeping ticketID when the
// vehicle has one.
func (v *VehicleIn) fallbackSlip(veh model.Vehicle, ticketID string) model.Slip {
	now := v.Now()
	if ticketID == "" {
		ticketID = fallbackPrefix + veh.ID
	}
	name := veh.Subtype
	if name == "" {
		name = "Unknown"
	}
	var rate float64
	if veh.HourlyRate != nil {
		rate = *veh.HourlyRate
	}
	vehicleID := veh.Number
	if vehicleID == "" {
		vehicleID = veh.ID
	}
	return model.Slip{
		TicketID:    ticketID,
		VehicleID:   vehicleID,
		OfficerID:   v.ident.OfficerID(),
		EntryTime:   &now,
		ExitTime:    &now,
		VehicleType: model.SlipVehicleType{Name: name, RatePerHour: rate},
		SlotType:    veh.SlotType,
		Fallback:    true,
	}
}

// SlipError is the last slip failure for the vehicle, or "".
func (v *VehicleIn) SlipError(id string) string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.slipErrors[id]
}

// GeneratedTicket is the ticket id of a slip issued for the vehicle, or "".
func (v *VehicleIn) GeneratedTicket(id string) string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.generated[id]
}
