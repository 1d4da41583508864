package normalize

import (
	"math"
	"strings"

	"github.com/parkandride/parkride/internal/api"
	"github.com/parkandride/parkride/internal/model"
)

// Rate maps one vehicle-types record.
//
// Precedence:
//
//	label: label, type, name
//	price: charge_per_hour, charge, price, rate, cost, chargePerHour, else 0
func Rate(r api.Record) model.Rate {
	price, _ := firstNumber(r, "charge_per_hour", "charge", "price", "rate", "cost", "chargePerHour")
	return model.Rate{
		Label:        firstString(r, "label", "type", "name"),
		PricePerHour: price,
	}
}

// Rates maps a vehicle-types list, skipping null entries.
func Rates(records []api.Record) []model.Rate {
	out := make([]model.Rate, 0, len(records))
	for _, r := range records {
		if r == nil {
			continue
		}
		out = append(out, Rate(r))
	}
	return out
}

// Slots overlays slot-status entries onto prev. Only entries whose code is
// a, b or c (any case) are applied, using available, then capacity, then 0.
// Entries with a malformed, negative or out-of-range count are ignored.
func Slots(records []api.Record, prev model.Slots) model.Slots {
	out := prev
	for _, r := range records {
		if r == nil {
			continue
		}
		st, err := model.ParseSlotType(strings.ToUpper(firstString(r, "code")))
		if err != nil {
			continue
		}
		n := 0.0
		if v, ok := first(r, "available", "capacity"); ok {
			f, ok := number(v)
			if !ok || f < 0 || f > math.MaxInt32 {
				continue
			}
			n = f
		}
		out.Set(st, int(n))
	}
	return out
}

// Officer maps one officer record.
//
// Precedence:
//
//	officer id: officer_id, _id, id
func Officer(r api.Record) model.Officer {
	return model.Officer{
		OfficerID: firstString(r, "officer_id", "_id", "id"),
		Name:      firstString(r, "name"),
		Email:     firstString(r, "email"),
		Phone:     firstString(r, "phone"),
	}
}

// Officers maps an officer list, skipping null entries.
func Officers(records []api.Record) []model.Officer {
	out := make([]model.Officer, 0, len(records))
	for _, r := range records {
		if r == nil {
			continue
		}
		out = append(out, Officer(r))
	}
	return out
}

// CreatedOfficerID extracts the id assigned by add-officer.
//
// Precedence: officer_id, id, _id, officer.officer_id, officer.id
func CreatedOfficerID(r api.Record) string {
	if id := firstString(r, "officer_id", "id", "_id"); id != "" {
		return id
	}
	if nested := record(r["officer"]); nested != nil {
		return firstString(nested, "officer_id", "id")
	}
	return ""
}
