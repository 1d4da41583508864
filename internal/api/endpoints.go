package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/parkandride/parkride/internal/model"
)

// Record is a loosely shaped backend object. Normalization into model types
// happens in package normalize.
type Record = map[string]any

// LoginResponse is the body of a successful admin or officer login.
type LoginResponse struct {
	Message     string `json:"message"`
	Admin       Record `json:"admin"`
	Officer     Record `json:"officer"`
	Token       string `json:"token"`
	AccessToken string `json:"access_token"`
}

// Profile returns the admin record if present, otherwise the officer record.
func (r *LoginResponse) Profile() model.Profile {
	if r.Admin != nil {
		return model.Profile(r.Admin)
	}
	if r.Officer != nil {
		return model.Profile(r.Officer)
	}
	return nil
}

// BearerToken returns whichever token field the backend populated.
func (r *LoginResponse) BearerToken() string {
	if r.Token != "" {
		return r.Token
	}
	return r.AccessToken
}

// Login authenticates against the endpoint for role.
func (c *Client) Login(ctx context.Context, role model.Role, identifier, password string) (*LoginResponse, error) {
	path, payload := "/officer/login", map[string]string{"officer_id": identifier, "password": password}
	if role == model.RoleManager {
		path, payload = "/admin/login", map[string]string{"admin_id": identifier, "password": password}
	}
	var out LoginResponse
	if err := c.do(ctx, http.MethodPost, path, nil, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type messageResponse struct {
	Message string `json:"message"`
}

// ChangePassword changes an officer's password and returns the backend message.
func (c *Client) ChangePassword(ctx context.Context, officerID, current, next string) (string, error) {
	payload := map[string]string{
		"officer_id":       officerID,
		"current_password": current,
		"new_password":     next,
	}
	var out messageResponse
	if err := c.do(ctx, http.MethodPost, "/officer/change-password", nil, payload, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// Officers lists officer accounts.
func (c *Client) Officers(ctx context.Context) ([]Record, error) {
	var out []Record
	if err := c.do(ctx, http.MethodGet, "/admin/officers", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddOfficer creates an officer and returns the backend's answer.
func (c *Client) AddOfficer(ctx context.Context, o model.NewOfficer) (Record, error) {
	var out Record
	if err := c.do(ctx, http.MethodPost, "/admin/add-officer", nil, o, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// VehicleTypes lists the priced vehicle types. The backend answers either
// with an array or with an object holding a "rates" array; any other shape
// yields an empty list.
func (c *Client) VehicleTypes(ctx context.Context) ([]Record, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/admin/vehicle-types", nil, nil, &raw); err != nil {
		return nil, err
	}
	var list []Record
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}
	var wrapped struct {
		Rates []Record `json:"rates"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil {
		return wrapped.Rates, nil
	}
	return nil, nil
}

// UpdateCharge sets the hourly charge of one vehicle type.
func (c *Client) UpdateCharge(ctx context.Context, label string, chargePerHour float64) error {
	payload := struct {
		Type          string  `json:"type"`
		ChargePerHour float64 `json:"charge_per_hour"`
	}{label, chargePerHour}
	return c.do(ctx, http.MethodPost, "/admin/update-charge", nil, payload, nil)
}

// SlotStatus returns per-slot availability entries ({code, available}).
func (c *Client) SlotStatus(ctx context.Context) ([]Record, error) {
	var out []Record
	if err := c.do(ctx, http.MethodGet, "/slots/status", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// VehiclesInPark lists vehicles that have entered and not left.
func (c *Client) VehiclesInPark(ctx context.Context) ([]Record, error) {
	var out []Record
	if err := c.do(ctx, http.MethodGet, "/tickets/vehicles-in-park", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// EntryRequest registers a vehicle entering the park.
type EntryRequest struct {
	VehicleID   string `json:"vehicle_id"`
	VehicleType string `json:"vehicle_type"`
	OfficerID   string `json:"officer_id"`
}

// VehicleEntry records a vehicle entry and returns the backend's answer.
func (c *Client) VehicleEntry(ctx context.Context, req EntryRequest) (Record, error) {
	var out Record
	if err := c.do(ctx, http.MethodPost, "/officer/vehicle-entry", nil, req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SlipResponse is the body of a slip generation call. Slip is nil when the
// backend answered without one.
type SlipResponse struct {
	Message string `json:"message"`
	Slip    Record `json:"slip"`
}

// GenerateSlip asks the backend to close a ticket and issue its payment slip.
func (c *Client) GenerateSlip(ctx context.Context, ticketID, officerID string) (*SlipResponse, error) {
	payload := map[string]string{"ticket_id": ticketID, "officer_id": officerID}
	var out SlipResponse
	if err := c.do(ctx, http.MethodPost, "/payment/generate-slip", nil, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VehiclesExited lists exited vehicles. rangeParam is one of today, week,
// month, or "" for everything.
func (c *Client) VehiclesExited(ctx context.Context, rangeParam string) ([]Record, error) {
	var q url.Values
	if rangeParam != "" {
		q = url.Values{"range": {rangeParam}}
	}
	var out []Record
	if err := c.do(ctx, http.MethodGet, "/tickets/vehicles-exited", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Payments returns the overall income summary keyed by period.
func (c *Client) Payments(ctx context.Context) (Record, error) {
	var out Record
	if err := c.do(ctx, http.MethodGet, "/payments", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// LastSevenDays returns the per-day income entries the backend has for the
// last week. Days may be sparse or unordered.
func (c *Client) LastSevenDays(ctx context.Context) ([]Record, error) {
	var out struct {
		Days []Record `json:"days"`
	}
	if err := c.do(ctx, http.MethodGet, "/payments/last-7-days", nil, nil, &out); err != nil {
		return nil, err
	}
	if out.Days == nil {
		return nil, fmt.Errorf("decoding /payments/last-7-days response: no days array")
	}
	return out.Days, nil
}
