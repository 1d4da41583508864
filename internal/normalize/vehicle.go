package normalize

import (
	"strconv"
	"time"

	"github.com/parkandride/parkride/internal/api"
	"github.com/parkandride/parkride/internal/model"
)

// vehicleSubtype reads the vehicle type, which is either a label string or
// an object {type|name, charge_per_hour|charge|price}.
func vehicleSubtype(r api.Record, keys ...string) (subtype string, vt api.Record) {
	v, _ := first(r, keys...)
	if s, ok := v.(string); ok {
		return s, nil
	}
	vt = record(v)
	if vt != nil {
		subtype = firstString(vt, "type", "name")
	}
	return subtype, vt
}

func slotOr(r api.Record, subtype string, keys ...string) model.SlotType {
	if st, err := model.ParseSlotType(firstString(r, keys...)); err == nil {
		return st
	}
	return model.CategorizeSubtype(subtype)
}

func fallbackID(now time.Time) string {
	return strconv.FormatInt(now.UnixMilli(), 10)
}

// InParkVehicle maps one vehicles-in-park record.
//
// Precedence:
//
//	id:        _id, ticket_id, vehicle_id, id, else now in epoch ms
//	slot:      slot_type, slotType, slot, else inferred from subtype
//	number:    vehicle_id, number, vehicle_no, vehicleNumber
//	subtype:   vehicle_type, vehicleType, type (string or .type/.name), else subtype
//	rate:      vehicle_type.{charge_per_hour, charge, price}, else charge_per_hour, rate
//	entry:     entry_time, entryTime, time, entered_at, else now
//	ticket id: ticket_id, ticketId
func InParkVehicle(r api.Record, now time.Time) model.Vehicle {
	subtype, vt := vehicleSubtype(r, "vehicle_type", "vehicleType", "type")
	if subtype == "" {
		subtype = firstString(r, "subtype")
	}

	var rate *float64
	if vt != nil {
		rate = numberPtr(vt, "charge_per_hour", "charge", "price")
	} else {
		rate = numberPtr(r, "charge_per_hour", "rate")
	}

	entry := now
	if ts := timestampPtr(r, now, "entry_time", "entryTime", "time", "entered_at"); ts != nil {
		entry = *ts
	}

	id := firstString(r, "_id", "ticket_id", "vehicle_id", "id")
	if id == "" {
		id = fallbackID(now)
	}

	return model.Vehicle{
		ID:         id,
		SlotType:   slotOr(r, subtype, "slot_type", "slotType", "slot"),
		Number:     firstString(r, "vehicle_id", "number", "vehicle_no", "vehicleNumber"),
		EntryTime:  entry,
		Subtype:    subtype,
		HourlyRate: rate,
		TicketID:   firstString(r, "ticket_id", "ticketId"),
	}
}

// InParkVehicles maps a vehicles-in-park list, skipping null entries.
func InParkVehicles(records []api.Record, now time.Time) []model.Vehicle {
	out := make([]model.Vehicle, 0, len(records))
	for _, r := range records {
		if r == nil {
			continue
		}
		out = append(out, InParkVehicle(r, now))
	}
	return out
}

// EnteredVehicle builds the in-park row for a vehicle the operator just
// registered. Server-confirmed fields win; the chosen subtype and local
// clock fill the rest.
//
// Precedence:
//
//	id:        vehicle_id, id, else the submitted number
//	entry:     time, entered_at, else now
//	ticket id: ticket_id, ticketId
func EnteredVehicle(r api.Record, slot model.SlotType, st model.Subtype, number string, now time.Time) model.Vehicle {
	id := firstString(r, "vehicle_id", "id")
	if id == "" {
		id = number
	}
	entry := now
	if ts := timestampPtr(r, now, "time", "entered_at"); ts != nil {
		entry = *ts
	}
	rate := st.DefaultRate
	return model.Vehicle{
		ID:         id,
		SlotType:   slot,
		Number:     number,
		EntryTime:  entry,
		Subtype:    st.Label,
		HourlyRate: &rate,
		TicketID:   firstString(r, "ticket_id", "ticketId"),
	}
}

// ExitedVehicle maps one vehicles-exited record.
//
// Precedence:
//
//	id:       _id, ticket_id, id, else now in epoch ms
//	subtype:  vehicle_type, vehicleType (string or .type/.name)
//	slot:     slot_type, slotType, else inferred from subtype
//	number:   vehicle_id, vehicle_no, vehicleNumber
//	in/out:   entry_time, entryTime / exit_time, exitTime
//	exit day: exit time, else now
//	officer:  officer_id, officerId
//	rate:     vehicle_type.{charge_per_hour, charge, price}, 0 when the type is an object without one
func ExitedVehicle(r api.Record, now time.Time) model.ExitedVehicle {
	subtype, vt := vehicleSubtype(r, "vehicle_type", "vehicleType")

	var rate *float64
	if vt != nil {
		f, _ := firstNumber(vt, "charge_per_hour", "charge", "price")
		rate = &f
	}

	in := timestampPtr(r, now, "entry_time", "entryTime")
	out := timestampPtr(r, now, "exit_time", "exitTime")
	exitDate := now
	if out != nil {
		exitDate = *out
	}

	id := firstString(r, "_id", "ticket_id", "id")
	if id == "" {
		id = fallbackID(now)
	}

	return model.ExitedVehicle{
		ID:        id,
		SlotType:  slotOr(r, subtype, "slot_type", "slotType"),
		Number:    firstString(r, "vehicle_id", "vehicle_no", "vehicleNumber"),
		InTime:    in,
		OutTime:   out,
		ExitDate:  exitDate,
		TicketID:  firstString(r, "ticket_id", "ticketId"),
		OfficerID: firstString(r, "officer_id", "officerId"),
		Subtype:   subtype,
		Amount:    numberPtr(r, "amount"),
		Rate:      rate,
	}
}

// ExitedVehicles maps a vehicles-exited list, skipping null entries.
func ExitedVehicles(records []api.Record, now time.Time) []model.ExitedVehicle {
	out := make([]model.ExitedVehicle, 0, len(records))
	for _, r := range records {
		if r == nil {
			continue
		}
		out = append(out, ExitedVehicle(r, now))
	}
	return out
}
