package views

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/parkandride/parkride/internal/api"
	"github.com/parkandride/parkride/internal/model"
	"github.com/parkandride/parkride/internal/normalize"
)

// OfficersBackend is the officer administration part of the backend.
type OfficersBackend interface {
	Officers(ctx context.Context) ([]api.Record, error)
	AddOfficer(ctx context.Context, o model.NewOfficer) (api.Record, error)
}

// Officers lists and creates fire officers.
type Officers struct {
	mu       sync.Mutex
	backend  OfficersBackend
	logger   *slog.Logger
	officers []model.Officer
}

// NewOfficers returns an empty officers view.
func NewOfficers(backend OfficersBackend, logger *slog.Logger) *Officers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Officers{backend: backend, logger: logger}
}

// Load fetches the officer list. A failure empties it.
func (v *Officers) Load(ctx context.Context) {
	records, err := v.backend.Officers(ctx)
	if discarded(ctx) {
		return
	}
	if err != nil {
		v.logger.Warn("loading officers", "error", err)
		records = nil
	}
	officers := normalize.Officers(records)
	v.mu.Lock()
	v.officers = officers
	v.mu.Unlock()
}

// Officers returns the loaded list.
func (v *Officers) Officers() []model.Officer {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]model.Officer(nil), v.officers...)
}

// Add creates an officer and reloads the list. It returns the new
// officer's id as reported by the backend.
func (v *Officers) Add(ctx context.Context, o model.NewOfficer) (string, error) {
	o.OfficerID = strings.TrimSpace(o.OfficerID)
	o.Name = strings.TrimSpace(o.Name)
	o.Email = strings.TrimSpace(o.Email)
	o.Phone = strings.TrimSpace(o.Phone)
	if o.OfficerID == "" || o.Name == "" || o.Email == "" {
		return "", ErrMissingOfficerFields
	}
	rec, err := v.backend.AddOfficer(ctx, o)
	if err != nil {
		return "", &Error{Message: api.MessageOr(err, "Failed to add officer"), Err: err}
	}
	v.Load(ctx)
	return normalize.CreatedOfficerID(rec), nil
}

// DisplayID is the id shown for an officer in the list.
func DisplayID(o model.Officer) string {
	if o.OfficerID == "" {
		return "—"
	}
	return o.OfficerID
}
