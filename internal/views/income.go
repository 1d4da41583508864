package views

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/parkandride/parkride/internal/api"
	"github.com/parkandride/parkride/internal/model"
	"github.com/parkandride/parkride/internal/normalize"
	"github.com/parkandride/parkride/internal/timecalc"
)

// DefaultTimezone is where the operators read the income chart.
const DefaultTimezone = "Asia/Colombo"

// LabelLayout formats series labels, e.g. "Wed 06/11".
const LabelLayout = "Mon 01/02"

// IncomeBackend is the payments part of the backend.
type IncomeBackend interface {
	Payments(ctx context.Context) (api.Record, error)
	LastSevenDays(ctx context.Context) ([]api.Record, error)
}

// Income shows the period summary and the 7-day series. The two are
// fetched independently; either may be missing.
type Income struct {
	clock
	mu      sync.Mutex
	backend IncomeBackend
	logger  *slog.Logger
	loc     *time.Location

	summary *model.IncomeSummary
	series  []model.DayIncome
}

// NewIncome returns an income view labelling days in loc (UTC when nil).
func NewIncome(backend IncomeBackend, loc *time.Location, logger *slog.Logger) *Income {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Income{backend: backend, loc: loc, logger: logger}
}

// Load fetches the summary and the series concurrently.
func (v *Income) Load(ctx context.Context) {
	var (
		summary *model.IncomeSummary
		series  []model.DayIncome
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rec, err := v.backend.Payments(gctx)
		if err != nil {
			v.logger.Warn("loading income summary", "error", err)
			return nil
		}
		s := normalize.IncomeSummary(rec)
		summary = &s
		return nil
	})
	g.Go(func() error {
		days, err := v.backend.LastSevenDays(gctx)
		if err != nil {
			v.logger.Warn("loading 7-day income", "error", err)
			return nil
		}
		series = normalize.LastSevenDays(days, v.Now())
		return nil
	})
	_ = g.Wait()
	if discarded(ctx) {
		return
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.summary = summary
	v.series = series
}

// Summary returns the period totals, or false when they could not be loaded.
func (v *Income) Summary() (model.IncomeSummary, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.summary == nil {
		return model.IncomeSummary{}, false
	}
	return *v.summary, true
}

// Series returns the 7-day points, or nil when they could not be loaded.
func (v *Income) Series() []model.DayIncome {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]model.DayIncome(nil), v.series...)
}

// Labels returns one label per series point.
func (v *Income) Labels() []string {
	series := v.Series()
	out := make([]string, 0, len(series))
	for _, p := range series {
		out = append(out, Label(p, v.loc))
	}
	return out
}

// Label renders a point's display date, read as UTC midnight, in loc.
func Label(p model.DayIncome, loc *time.Location) string {
	d, err := timecalc.ParseDate(p.DisplayDate)
	if err != nil {
		return p.DisplayDate
	}
	return d.In(loc).Format(LabelLayout)
}

// Totals returns the series values in order.
func Totals(series []model.DayIncome) []float64 {
	out := make([]float64, len(series))
	for i, p := range series {
		out[i] = p.Total
	}
	return out
}
