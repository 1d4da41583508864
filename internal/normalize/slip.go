package normalize

import (
	"time"

	"github.com/parkandride/parkride/internal/api"
	"github.com/parkandride/parkride/internal/model"
)

// Slip maps a server-issued payment slip. The result is never a fallback.
//
// Precedence:
//
//	ticket id:    ticket_id, ticketId
//	vehicle type: vehicle_type as string, or .name/.type with .rate_per_hour/.charge_per_hour
//	hours:        hours, duration
//	amount:       amount, total
func Slip(r api.Record, now time.Time) model.Slip {
	var vt model.SlipVehicleType
	switch t := r["vehicle_type"].(type) {
	case string:
		vt.Name = t
	case map[string]any:
		vt.Name = firstString(t, "name", "type")
		vt.RatePerHour, _ = firstNumber(t, "rate_per_hour", "charge_per_hour")
	}

	slot, _ := model.ParseSlotType(firstString(r, "slot_type", "slotType"))
	hours, _ := firstNumber(r, "hours", "duration")
	amount, _ := firstNumber(r, "amount", "total")

	return model.Slip{
		TicketID:    firstString(r, "ticket_id", "ticketId"),
		VehicleID:   firstString(r, "vehicle_id"),
		OfficerID:   firstString(r, "officer_id"),
		EntryTime:   timestampPtr(r, now, "entry_time"),
		ExitTime:    timestampPtr(r, now, "exit_time"),
		VehicleType: vt,
		SlotType:    slot,
		Hours:       hours,
		Amount:      amount,
	}
}
