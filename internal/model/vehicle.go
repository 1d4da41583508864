package model

import "time"

// Vehicle is a vehicle currently parked.
type Vehicle struct {
	ID        string    `json:"id"`
	SlotType  SlotType  `json:"slot_type"`
	Number    string    `json:"number"`
	EntryTime time.Time `json:"entry_time"`
	Subtype   string    `json:"subtype,omitempty"`
	// HourlyRate is nil when the backend did not report one.
	HourlyRate *float64 `json:"hourly_rate,omitempty"`
	TicketID   string   `json:"ticket_id,omitempty"`
}

// ExitedVehicle is a read-only record of a vehicle that has left.
type ExitedVehicle struct {
	ID        string     `json:"id"`
	SlotType  SlotType   `json:"slot_type"`
	Number    string     `json:"number"`
	InTime    *time.Time `json:"in_time,omitempty"`
	OutTime   *time.Time `json:"out_time,omitempty"`
	ExitDate  time.Time  `json:"exit_date"`
	TicketID  string     `json:"ticket_id,omitempty"`
	OfficerID string     `json:"officer_id,omitempty"`
	Subtype   string     `json:"subtype,omitempty"`
	Amount    *float64   `json:"amount,omitempty"`
	Rate      *float64   `json:"rate,omitempty"`
}

// Rate is the hourly price of one vehicle subtype.
type Rate struct {
	Label        string  `json:"label"`
	PricePerHour float64 `json:"price_per_hour"`
}

// DefaultRates returns the catalog prices in catalog order.
func DefaultRates() []Rate {
	out := make([]Rate, 0, len(Subtypes))
	for _, st := range Subtypes {
		out = append(out, Rate{Label: st.Label, PricePerHour: st.DefaultRate})
	}
	return out
}

// Slots holds available capacity per slot class.
type Slots struct {
	A int `json:"A"`
	B int `json:"B"`
	C int `json:"C"`
}

// DefaultSlots is shown until a live slot status arrives.
var DefaultSlots = Slots{A: 8, B: 24, C: 40}

// Get returns the count for slot s.
func (s Slots) Get(t SlotType) int {
	switch t {
	case SlotA:
		return s.A
	case SlotB:
		return s.B
	case SlotC:
		return s.C
	}
	return 0
}

// Set replaces the count for slot t. Unknown slots are ignored.
func (s *Slots) Set(t SlotType, n int) {
	switch t {
	case SlotA:
		s.A = n
	case SlotB:
		s.B = n
	case SlotC:
		s.C = n
	}
}

// Officer is a fire-officer account as listed by the backend.
type Officer struct {
	OfficerID string `json:"officer_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
}

// NewOfficer is the admin form for creating an officer. Password is
// write-only and omitted from the request when empty.
type NewOfficer struct {
	OfficerID string `json:"officer_id"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Password  string `json:"password,omitempty"`
}

// SlipVehicleType is the priced vehicle type printed on a slip.
type SlipVehicleType struct {
	Name        string  `json:"name"`
	RatePerHour float64 `json:"rate_per_hour"`
}

// Slip is a payment slip. Fallback marks a locally built preview that the
// backend did not issue.
type Slip struct {
	TicketID    string          `json:"ticket_id"`
	VehicleID   string          `json:"vehicle_id"`
	OfficerID   string          `json:"officer_id"`
	EntryTime   *time.Time      `json:"entry_time,omitempty"`
	ExitTime    *time.Time      `json:"exit_time,omitempty"`
	VehicleType SlipVehicleType `json:"vehicle_type"`
	SlotType    SlotType        `json:"slot_type"`
	Hours       float64         `json:"hours"`
	Amount      float64         `json:"amount"`
	Fallback    bool            `json:"fallback"`
}
