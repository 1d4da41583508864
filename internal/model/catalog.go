package model

import (
	"fmt"
	"strings"
)

// SlotType is a parking slot class.
type SlotType string

const (
	SlotA SlotType = "A" // heavy vehicles
	SlotB SlotType = "B" // cars, vans, three-wheelers
	SlotC SlotType = "C" // bikes and bicycles
)

// SlotTypes lists the slot classes in display order.
var SlotTypes = []SlotType{SlotA, SlotB, SlotC}

// ParseSlotType accepts a, b or c in either case.
func ParseSlotType(s string) (SlotType, error) {
	switch st := SlotType(strings.ToUpper(strings.TrimSpace(s))); st {
	case SlotA, SlotB, SlotC:
		return st, nil
	}
	return "", fmt.Errorf("unknown slot type %q (want A, B or C)", s)
}

// Description is the short human label shown on slot cards.
func (s SlotType) Description() string {
	switch s {
	case SlotA:
		return "Heavy Vehicles"
	case SlotB:
		return "Cars / Vans / 3-wheel"
	case SlotC:
		return "Bikes / Bicycles"
	}
	return ""
}

// Subtype is one of the fixed vehicle categories the backend prices.
type Subtype struct {
	Label string
	Slot  SlotType
	// DefaultRate is the hourly price used before the backend answers.
	DefaultRate float64
	Tag         string
}

// Subtypes is the fixed subtype catalog. The labels are the exact strings
// the backend expects in vehicle_type.
var Subtypes = []Subtype{
	{Label: "Motor Car", Slot: SlotB, DefaultRate: 50, Tag: "CAR"},
	{Label: "Three Wheel", Slot: SlotB, DefaultRate: 30, Tag: "3WH"},
	{Label: "Dual Purpose", Slot: SlotB, DefaultRate: 70, Tag: "DPV"},
	{Label: "Heavy Vehicle", Slot: SlotA, DefaultRate: 100, Tag: "HVY"},
	{Label: "Motor Bike", Slot: SlotC, DefaultRate: 30, Tag: "MBK"},
	{Label: "Foot Bikes", Slot: SlotC, DefaultRate: 20, Tag: "BIC"},
}

// SubtypesFor returns the subtypes allowed in slot s, in catalog order.
func SubtypesFor(s SlotType) []Subtype {
	var out []Subtype
	for _, st := range Subtypes {
		if st.Slot == s {
			out = append(out, st)
		}
	}
	return out
}

// LookupSubtype finds a catalog subtype by label, ignoring case.
func LookupSubtype(label string) (Subtype, bool) {
	for _, st := range Subtypes {
		if strings.EqualFold(st.Label, strings.TrimSpace(label)) {
			return st, true
		}
	}
	return Subtype{}, false
}

// ResolveSubtype picks label from slot s, falling back to the slot's first
// subtype when label is empty or belongs to another slot.
func ResolveSubtype(s SlotType, label string) Subtype {
	allowed := SubtypesFor(s)
	for _, st := range allowed {
		if strings.EqualFold(st.Label, strings.TrimSpace(label)) {
			return st
		}
	}
	if len(allowed) > 0 {
		return allowed[0]
	}
	return Subtypes[0]
}

// CategorizeSubtype infers a slot class from a free-form subtype name.
// Unknown and empty names fall into B.
func CategorizeSubtype(name string) SlotType {
	n := strings.ToLower(name)
	switch {
	case n == "":
		return SlotB
	case strings.Contains(n, "heavy"):
		return SlotA
	case strings.Contains(n, "bike"), strings.Contains(n, "foot"), strings.Contains(n, "bicycle"):
		return SlotC
	}
	return SlotB
}

// TagFor returns a short type tag for tables, preferring the subtype's own
// tag over the slot's generic one.
func TagFor(subtype string, slot SlotType) string {
	if st, ok := LookupSubtype(subtype); ok {
		return st.Tag
	}
	switch slot {
	case SlotA:
		return "HVY"
	case SlotC:
		return "MBK"
	}
	return "CAR"
}
