package views

import (
	"context"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/parkandride/parkride/internal/api"
	"github.com/parkandride/parkride/internal/model"
	"github.com/parkandride/parkride/internal/normalize"
)

// RateNote is printed under the rate table.
const RateNote = "More than 24 hours parking : 24 Hours Rate * Number Of Days"

// RatesBackend is the part of the backend behind the availability screen.
type RatesBackend interface {
	VehicleTypes(ctx context.Context) ([]api.Record, error)
	UpdateCharge(ctx context.Context, label string, chargePerHour float64) error
	SlotStatus(ctx context.Context) ([]api.Record, error)
}

// Rates shows hourly prices and slot availability. It starts from the
// catalog defaults; loads only ever replace them with live data.
type Rates struct {
	mu      sync.Mutex
	backend RatesBackend
	ident   Identity
	logger  *slog.Logger

	rates []model.Rate
	slots model.Slots
}

// NewRates returns a view showing the default rates and slot counts.
func NewRates(backend RatesBackend, ident Identity, logger *slog.Logger) *Rates {
	if logger == nil {
		logger = slog.Default()
	}
	return &Rates{
		backend: backend,
		ident:   ident,
		logger:  logger,
		rates:   model.DefaultRates(),
		slots:   model.DefaultSlots,
	}
}

// Load fetches rates and slot status. Both are best effort: failures keep
// what is shown and are only logged.
func (v *Rates) Load(ctx context.Context) {
	v.loadRates(ctx)
	v.loadSlots(ctx)
}

func (v *Rates) loadRates(ctx context.Context) {
	records, err := v.backend.VehicleTypes(ctx)
	if discarded(ctx) {
		return
	}
	if err != nil {
		v.logger.Warn("loading vehicle rates", "error", err)
		return
	}
	rates := normalize.Rates(records)
	if len(rates) == 0 {
		return
	}
	v.mu.Lock()
	v.rates = rates
	v.mu.Unlock()
}

func (v *Rates) loadSlots(ctx context.Context) {
	records, err := v.backend.SlotStatus(ctx)
	if discarded(ctx) {
		return
	}
	if err != nil {
		v.logger.Warn("loading slot status", "error", err)
		return
	}
	v.mu.Lock()
	v.slots = normalize.Slots(records, v.slots)
	v.mu.Unlock()
}

// Rates returns the shown prices.
func (v *Rates) Rates() []model.Rate {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]model.Rate(nil), v.rates...)
}

// Slots returns the shown availability.
func (v *Rates) Slots() model.Slots {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.slots
}

// ParseRate parses a price typed by the operator.
func ParseRate(input string) (float64, error) {
	n, err := strconv.ParseFloat(strings.TrimSpace(input), 64)
	if err != nil || n < 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, ErrInvalidRate
	}
	return n, nil
}

// Update sets the hourly price of label. Only managers may change prices.
// A known vehicle type is sent under its canonical label.
func (v *Rates) Update(ctx context.Context, label, input string) (float64, error) {
	if u := v.ident.User(); u == nil || !u.IsManager() {
		return 0, ErrForbidden
	}
	price, err := ParseRate(input)
	if err != nil {
		return 0, err
	}
	if st, ok := model.LookupSubtype(label); ok {
		label = st.Label
	}
	if err := v.backend.UpdateCharge(ctx, label, price); err != nil {
		return 0, &Error{Message: api.MessageOr(err, "Failed to update rate"), Err: err}
	}
	if discarded(ctx) {
		return price, nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	for i := range v.rates {
		if strings.EqualFold(v.rates[i].Label, label) {
			v.rates[i].PricePerHour = price
		}
	}
	return price, nil
}

// FormatPrice renders a price the way the rate table shows it.
func FormatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', 2, 64)
}
