package views

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkandride/parkride/internal/api"
	"github.com/parkandride/parkride/internal/model"
	"github.com/parkandride/parkride/internal/timecalc"
)

var fixedNow = time.Date(2025, 6, 10, 9, 30, 0, 0, time.UTC)

type fakeIdentity struct {
	user *model.User
	id   string
}

func (f fakeIdentity) User() *model.User { return f.user }
func (f fakeIdentity) OfficerID() string { return f.id }

var (
	officer = fakeIdentity{user: &model.User{Username: "OFF1", Role: model.RoleFireOfficer}, id: "OFF1"}
	manager = fakeIdentity{user: &model.User{Username: "ADM1", Role: model.RoleManager}, id: "ADM1"}
)

// fakeBackend implements every view backend. Unset funcs fail the call.
type fakeBackend struct {
	mu    sync.Mutex
	calls []string

	inPark     func() ([]api.Record, error)
	entry      func(api.EntryRequest) (api.Record, error)
	slip       func(ticketID, officerID string) (*api.SlipResponse, error)
	exited     func(rangeParam string) ([]api.Record, error)
	types      func() ([]api.Record, error)
	charge     func(label string, price float64) error
	slots      func() ([]api.Record, error)
	officers   func() ([]api.Record, error)
	addOfficer func(model.NewOfficer) (api.Record, error)
	payments   func() (api.Record, error)
	lastSeven  func() ([]api.Record, error)
}

var errUnset = errors.New("unexpected call")

func (f *fakeBackend) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeBackend) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeBackend) VehiclesInPark(context.Context) ([]api.Record, error) {
	f.record("in-park")
	if f.inPark == nil {
		return nil, errUnset
	}
	return f.inPark()
}

func (f *fakeBackend) VehicleEntry(_ context.Context, req api.EntryRequest) (api.Record, error) {
	f.record("entry")
	if f.entry == nil {
		return nil, errUnset
	}
	return f.entry(req)
}

func (f *fakeBackend) GenerateSlip(_ context.Context, ticketID, officerID string) (*api.SlipResponse, error) {
	f.record("slip")
	if f.slip == nil {
		return nil, errUnset
	}
	return f.slip(ticketID, officerID)
}

func (f *fakeBackend) VehiclesExited(_ context.Context, rangeParam string) ([]api.Record, error) {
	f.record("exited:" + rangeParam)
	if f.exited == nil {
		return nil, errUnset
	}
	return f.exited(rangeParam)
}

func (f *fakeBackend) VehicleTypes(context.Context) ([]api.Record, error) {
	f.record("types")
	if f.types == nil {
		return nil, errUnset
	}
	return f.types()
}

func (f *fakeBackend) UpdateCharge(_ context.Context, label string, price float64) error {
	f.record("charge")
	if f.charge == nil {
		return errUnset
	}
	return f.charge(label, price)
}

func (f *fakeBackend) SlotStatus(context.Context) ([]api.Record, error) {
	f.record("slots")
	if f.slots == nil {
		return nil, errUnset
	}
	return f.slots()
}

func (f *fakeBackend) Officers(context.Context) ([]api.Record, error) {
	f.record("officers")
	if f.officers == nil {
		return nil, errUnset
	}
	return f.officers()
}

func (f *fakeBackend) AddOfficer(_ context.Context, o model.NewOfficer) (api.Record, error) {
	f.record("add-officer")
	if f.addOfficer == nil {
		return nil, errUnset
	}
	return f.addOfficer(o)
}

func (f *fakeBackend) Payments(context.Context) (api.Record, error) {
	f.record("payments")
	if f.payments == nil {
		return nil, errUnset
	}
	return f.payments()
}

func (f *fakeBackend) LastSevenDays(context.Context) ([]api.Record, error) {
	f.record("last-7")
	if f.lastSeven == nil {
		return nil, errUnset
	}
	return f.lastSeven()
}

func newVehicleIn(b *fakeBackend) *VehicleIn {
	v := NewVehicleIn(b, officer)
	v.SetClock(func() time.Time { return fixedNow })
	return v
}

func parked() []api.Record {
	return []api.Record{
		{"_id": "TICKET_1", "vehicle_id": "ABC-123", "vehicle_type": "Motor Car", "entry_time": "2025-06-10T08:00:00Z"},
		{"_id": "v2", "vehicle_id": "HV-900", "vehicle_type": "Heavy Vehicle", "ticket_id": "T-2"},
		{"_id": "v3", "vehicle_id": "bk-77", "vehicle_type": "Motor Bike"},
	}
}

func TestVehicleInLoadAndVisible(t *testing.T) {
	b := &fakeBackend{inPark: func() ([]api.Record, error) { return parked(), nil }}
	v := newVehicleIn(b)
	require.NoError(t, v.Load(context.Background()))
	assert.Len(t, v.Vehicles(), 3)

	tests := []struct {
		filter SlotFilter
		query  string
		want   []string
	}{
		{FilterAll, "", []string{"ABC-123", "HV-900", "bk-77"}},
		{"A", "", []string{"HV-900"}},
		{"C", "BK", []string{"bk-77"}},
		{FilterAll, "9", []string{"HV-900"}},
		{"B", "zzz", nil},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%s", tt.filter, tt.query), func(t *testing.T) {
			var got []string
			for _, veh := range v.Visible(tt.filter, tt.query) {
				got = append(got, veh.Number)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVehicleInLoadFailureKeepsList(t *testing.T) {
	b := &fakeBackend{inPark: func() ([]api.Record, error) { return parked(), nil }}
	v := newVehicleIn(b)
	require.NoError(t, v.Load(context.Background()))

	b.inPark = func() ([]api.Record, error) { return nil, fmt.Errorf("%w: dial", api.ErrNetwork) }
	err := v.Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Network error", v.FetchError())
	assert.Len(t, v.Vehicles(), 3)
}

func TestVehicleInLoadAfterUnmountIsDiscarded(t *testing.T) {
	b := &fakeBackend{inPark: func() ([]api.Record, error) { return parked(), nil }}
	v := newVehicleIn(b)
	l := Mount(context.Background())
	l.Unmount()
	l.Unmount()

	err := v.Load(l.Context())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, v.Vehicles())
}

func TestVehicleInAddBlankIsNoop(t *testing.T) {
	b := &fakeBackend{}
	v := newVehicleIn(b)
	for _, n := range []string{"", "   ", "\t"} {
		_, err := v.Add(context.Background(), model.SlotB, "Motor Car", n)
		assert.ErrorIs(t, err, ErrBlankNumber)
	}
	assert.Empty(t, b.Calls())
}

func TestVehicleInAddPrepends(t *testing.T) {
	var sent api.EntryRequest
	b := &fakeBackend{
		inPark: func() ([]api.Record, error) { return parked(), nil },
		entry: func(req api.EntryRequest) (api.Record, error) {
			sent = req
			return api.Record{"ticket_id": "TICKET_9", "time": "2025-06-10T09:00:00Z"}, nil
		},
	}
	v := newVehicleIn(b)
	require.NoError(t, v.Load(context.Background()))

	veh, err := v.Add(context.Background(), model.SlotC, "Truck", "  NEW-1 ")
	require.NoError(t, err)
	assert.Equal(t, api.EntryRequest{VehicleID: "NEW-1", VehicleType: "Motor Bike", OfficerID: "OFF1"}, sent)
	assert.Equal(t, "NEW-1", veh.ID)
	assert.Equal(t, "TICKET_9", veh.TicketID)
	assert.Equal(t, time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC), veh.EntryTime.UTC())
	require.NotNil(t, veh.HourlyRate)
	assert.Equal(t, 30.0, *veh.HourlyRate)

	list := v.Vehicles()
	require.Len(t, list, 4)
	assert.Equal(t, "NEW-1", list[0].Number)
}

func TestVehicleInAddFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"backend message", &api.Error{Status: 409, Message: "Vehicle already parked"}, "Vehicle already parked"},
		{"no message", &api.Error{Status: 500}, "Failed to add vehicle"},
		{"network", fmt.Errorf("%w: refused", api.ErrNetwork), "Network error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &fakeBackend{entry: func(api.EntryRequest) (api.Record, error) { return nil, tt.err }}
			v := newVehicleIn(b)
			_, err := v.Add(context.Background(), model.SlotB, "Motor Car", "X-1")
			require.Error(t, err)
			assert.Equal(t, tt.want, err.Error())
			assert.Empty(t, v.Vehicles())
		})
	}
}

func TestGenerateSlipWithoutTicketFallsBack(t *testing.T) {
	b := &fakeBackend{inPark: func() ([]api.Record, error) { return parked(), nil }}
	v := newVehicleIn(b)
	require.NoError(t, v.Load(context.Background()))
	veh, ok := v.Find("v3")
	require.True(t, ok)

	slip, err := v.GenerateSlip(context.Background(), veh)
	require.NoError(t, err)
	assert.True(t, slip.Fallback)
	assert.Equal(t, "DRAFT_v3", slip.TicketID)
	assert.Equal(t, "bk-77", slip.VehicleID)
	assert.Equal(t, fixedNow, *slip.EntryTime)
	assert.Equal(t, fixedNow, *slip.ExitTime)
	assert.Zero(t, slip.Hours)
	assert.Zero(t, slip.Amount)
	assert.Equal(t, []string{"in-park"}, b.Calls())
	assert.Len(t, v.Vehicles(), 3)
}

func TestGenerateSlipUsesTicketPrefixedID(t *testing.T) {
	var gotTicket, gotOfficer string
	b := &fakeBackend{
		inPark: func() ([]api.Record, error) { return parked(), nil },
		slip: func(ticketID, officerID string) (*api.SlipResponse, error) {
			gotTicket, gotOfficer = ticketID, officerID
			return &api.SlipResponse{Slip: api.Record{
				"ticket_id":    ticketID,
				"vehicle_id":   "ABC-123",
				"vehicle_type": map[string]any{"name": "Motor Car", "rate_per_hour": 50.0},
				"hours":        1.5,
				"amount":       75.0,
			}}, nil
		},
	}
	v := newVehicleIn(b)
	require.NoError(t, v.Load(context.Background()))
	veh, ok := v.Find("ABC-123")
	require.True(t, ok)

	slip, err := v.GenerateSlip(context.Background(), veh)
	require.NoError(t, err)
	assert.Equal(t, "TICKET_1", gotTicket)
	assert.Equal(t, "OFF1", gotOfficer)
	assert.False(t, slip.Fallback)
	assert.Equal(t, 75.0, slip.Amount)
	assert.Equal(t, "TICKET_1", v.GeneratedTicket("TICKET_1"))

	_, still := v.Find("TICKET_1")
	assert.False(t, still)
	assert.Len(t, v.Vehicles(), 2)
}

func TestGenerateSlipFailureKeepsVehicle(t *testing.T) {
	tests := []struct {
		name string
		resp *api.SlipResponse
		err  error
		want string
	}{
		{"rejected", nil, &api.Error{Status: 404, Message: "Ticket not found"}, "Ticket not found"},
		{"no slip", &api.SlipResponse{Message: "Already paid"}, nil, "Already paid"},
		{"no slip no message", &api.SlipResponse{}, nil, "Failed to generate slip"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &fakeBackend{
				inPark: func() ([]api.Record, error) { return parked(), nil },
				slip:   func(string, string) (*api.SlipResponse, error) { return tt.resp, tt.err },
			}
			v := newVehicleIn(b)
			require.NoError(t, v.Load(context.Background()))
			veh, _ := v.Find("v2")

			slip, err := v.GenerateSlip(context.Background(), veh)
			require.Error(t, err)
			assert.Equal(t, tt.want, err.Error())
			assert.True(t, slip.Fallback)
			assert.Equal(t, "T-2", slip.TicketID)
			assert.Equal(t, tt.want, v.SlipError("v2"))
			assert.Empty(t, v.GeneratedTicket("v2"))
			assert.Len(t, v.Vehicles(), 3)
		})
	}
}

func TestParseSlotFilter(t *testing.T) {
	tests := []struct {
		in      string
		want    SlotFilter
		wantErr bool
	}{
		{"", FilterAll, false},
		{"all", FilterAll, false},
		{"b", "B", false},
		{"C", "C", false},
		{"D", "", true},
	}
	for _, tt := range tests {
		got, err := ParseSlotFilter(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		assert.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func exitedRecords() []api.Record {
	return []api.Record{
		{"_id": "e1", "vehicle_id": "TODAY-1", "vehicle_type": "Motor Car",
			"entry_time": "2025-06-10T06:00:00Z", "exit_time": "2025-06-10T07:30:00Z", "amount": 75.0},
		{"_id": "e2", "vehicle_id": "WEEK-1", "vehicle_type": "Heavy Vehicle",
			"entry_time": "2025-06-05T06:00:00Z", "exit_time": "2025-06-05T08:00:00Z"},
		{"_id": "e3", "vehicle_id": "MONTH-1", "vehicle_type": "Foot Bikes",
			"entry_time": "2025-05-20T06:00:00Z", "exit_time": "2025-05-20T07:00:00Z"},
		{"_id": "e4", "vehicle_id": "OLD-1", "vehicle_type": "Motor Car",
			"entry_time": "2025-01-02T06:00:00Z", "exit_time": "2025-01-02T05:00:00Z"},
	}
}

func TestVehicleOutRanges(t *testing.T) {
	tests := []struct {
		rng   timecalc.Range
		query string
		want  []string
	}{
		{timecalc.RangeAll, "", []string{"TODAY-1", "WEEK-1", "MONTH-1", "OLD-1"}},
		{timecalc.RangeToday, "", []string{"TODAY-1"}},
		{timecalc.RangeWeek, "", []string{"TODAY-1", "WEEK-1"}},
		{timecalc.RangeMonth, "", []string{"TODAY-1", "WEEK-1", "MONTH-1"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.rng), func(t *testing.T) {
			b := &fakeBackend{exited: func(string) ([]api.Record, error) { return exitedRecords(), nil }}
			v := NewVehicleOut(b)
			v.SetClock(func() time.Time { return fixedNow })
			require.NoError(t, v.Load(context.Background(), tt.rng))
			assert.Equal(t, []string{"exited:" + tt.rng.QueryValue()}, b.Calls())

			var got []string
			for _, r := range v.Visible(FilterAll, tt.query) {
				got = append(got, r.Number)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVehicleOutSlotFallbackAndSlip(t *testing.T) {
	b := &fakeBackend{exited: func(string) ([]api.Record, error) { return exitedRecords(), nil }}
	v := NewVehicleOut(b)
	v.SetClock(func() time.Time { return fixedNow })
	require.NoError(t, v.Load(context.Background(), timecalc.RangeAll))

	assert.Len(t, v.Visible("A", ""), 1)
	assert.Len(t, v.Visible("C", ""), 1)

	r, ok := v.Find("e1")
	require.True(t, ok)
	slip := v.Slip(r)
	assert.Equal(t, 1.5, slip.Hours)
	assert.Equal(t, 75.0, slip.Amount)

	r, _ = v.Find("e4")
	slip = v.Slip(r)
	assert.Zero(t, slip.Hours)
	assert.Zero(t, slip.Amount)
}

func TestVehicleOutFindNumberIgnoresCase(t *testing.T) {
	b := &fakeBackend{exited: func(string) ([]api.Record, error) { return exitedRecords(), nil }}
	v := NewVehicleOut(b)
	v.SetClock(func() time.Time { return fixedNow })
	require.NoError(t, v.Load(context.Background(), timecalc.RangeAll))

	r, ok := v.Find("today-1")
	require.True(t, ok)
	assert.Equal(t, "TODAY-1", r.Number)

	_, ok = v.Find("today")
	assert.False(t, ok)
}

func TestRatesDefaultsAndLoad(t *testing.T) {
	b := &fakeBackend{
		types: func() ([]api.Record, error) { return nil, nil },
		slots: func() ([]api.Record, error) {
			return []api.Record{
				{"code": "a", "available": 3.0},
				{"code": "C", "capacity": 12.0},
				{"code": "x", "available": 99.0},
			}, nil
		},
	}
	v := NewRates(b, officer, nil)
	v.Load(context.Background())
	assert.Equal(t, model.DefaultRates(), v.Rates())
	assert.Equal(t, model.Slots{A: 3, B: 24, C: 12}, v.Slots())

	b.types = func() ([]api.Record, error) {
		return []api.Record{{"type": "Motor Car", "charge_per_hour": 60.0}}, nil
	}
	b.slots = func() ([]api.Record, error) { return nil, errors.New("down") }
	v.Load(context.Background())
	assert.Equal(t, []model.Rate{{Label: "Motor Car", PricePerHour: 60}}, v.Rates())
	assert.Equal(t, model.Slots{A: 3, B: 24, C: 12}, v.Slots())
}

func TestRatesLoadFailureLogsError(t *testing.T) {
	var buf bytes.Buffer
	down := errors.New("down")
	b := &fakeBackend{
		types: func() ([]api.Record, error) { return nil, down },
		slots: func() ([]api.Record, error) { return nil, down },
	}
	v := NewRates(b, officer, slog.New(slog.NewJSONHandler(&buf, nil)))
	v.Load(context.Background())

	assert.Contains(t, buf.String(), `"error":"down"`)
	assert.NotContains(t, buf.String(), `"err":`)
}

func TestRatesUpdate(t *testing.T) {
	var label string
	var price float64
	b := &fakeBackend{charge: func(l string, p float64) error {
		label, price = l, p
		return nil
	}}

	v := NewRates(b, officer, nil)
	_, err := v.Update(context.Background(), "Motor Car", "25.5")
	assert.ErrorIs(t, err, ErrForbidden)

	v = NewRates(b, manager, nil)
	for _, in := range []string{"-5", "abc", "", "NaN", "Inf"} {
		_, err := v.Update(context.Background(), "Motor Car", in)
		assert.ErrorIs(t, err, ErrInvalidRate, in)
	}
	assert.Empty(t, b.Calls())

	got, err := v.Update(context.Background(), "Motor Car", " 25.5 ")
	require.NoError(t, err)
	assert.Equal(t, 25.5, got)
	assert.Equal(t, "Motor Car", label)
	assert.Equal(t, 25.5, price)
	assert.Equal(t, "25.50", FormatPrice(v.Rates()[0].PricePerHour))
}

func TestRatesUpdateCanonicalLabel(t *testing.T) {
	var label string
	b := &fakeBackend{charge: func(l string, _ float64) error {
		label = l
		return nil
	}}
	v := NewRates(b, manager, nil)

	_, err := v.Update(context.Background(), " motor car ", "70")
	require.NoError(t, err)
	assert.Equal(t, "Motor Car", label)
	assert.Equal(t, 70.0, v.Rates()[0].PricePerHour)
}

func TestRatesUpdateFailureKeepsPrice(t *testing.T) {
	b := &fakeBackend{charge: func(string, float64) error { return &api.Error{Status: 403, Message: "Not allowed"} }}
	v := NewRates(b, manager, nil)
	_, err := v.Update(context.Background(), "Motor Car", "10")
	require.Error(t, err)
	assert.Equal(t, "Not allowed", err.Error())
	assert.Equal(t, 50.0, v.Rates()[0].PricePerHour)
}

func TestOfficersAdd(t *testing.T) {
	var sent model.NewOfficer
	b := &fakeBackend{
		officers: func() ([]api.Record, error) {
			return []api.Record{{"officer_id": "OFF1", "name": "Nimal"}, {"name": "No Id"}}, nil
		},
		addOfficer: func(o model.NewOfficer) (api.Record, error) {
			sent = o
			return api.Record{"officer": map[string]any{"officer_id": "OFF7"}}, nil
		},
	}
	v := NewOfficers(b, nil)

	_, err := v.Add(context.Background(), model.NewOfficer{OfficerID: "OFF7", Name: " "})
	assert.ErrorIs(t, err, ErrMissingOfficerFields)
	assert.Empty(t, b.Calls())

	id, err := v.Add(context.Background(), model.NewOfficer{OfficerID: "OFF7", Name: "Kamal", Email: "k@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "OFF7", id)
	assert.Empty(t, sent.Password)
	assert.Equal(t, []string{"add-officer", "officers"}, b.Calls())

	list := v.Officers()
	require.Len(t, list, 2)
	assert.Equal(t, "OFF1", DisplayID(list[0]))
	assert.Equal(t, "—", DisplayID(list[1]))
}

func TestOfficersLoadFailureEmpties(t *testing.T) {
	b := &fakeBackend{officers: func() ([]api.Record, error) { return []api.Record{{"officer_id": "A"}}, nil }}
	v := NewOfficers(b, nil)
	v.Load(context.Background())
	require.Len(t, v.Officers(), 1)

	b.officers = func() ([]api.Record, error) { return nil, errors.New("boom") }
	v.Load(context.Background())
	assert.Empty(t, v.Officers())
}

func TestIncomeLoad(t *testing.T) {
	colombo, err := time.LoadLocation(DefaultTimezone)
	require.NoError(t, err)

	b := &fakeBackend{
		payments: func() (api.Record, error) {
			return api.Record{"all": map[string]any{"total": 1200.0, "count": 12.0}, "today": map[string]any{"total": 100.0, "count": 1.0}}, nil
		},
		lastSeven: func() ([]api.Record, error) {
			return []api.Record{{"date": "2025-06-10", "total": 100.0, "count": 1.0}}, nil
		},
	}
	v := NewIncome(b, colombo, nil)
	v.SetClock(func() time.Time { return fixedNow })
	v.Load(context.Background())

	sum, ok := v.Summary()
	require.True(t, ok)
	assert.Equal(t, model.IncomeBucket{Total: 1200, Count: 12}, sum.All)
	assert.Equal(t, model.IncomeBucket{}, sum.Week)

	series := v.Series()
	require.Len(t, series, 7)
	assert.Equal(t, "2025-06-04", series[0].Date)
	assert.Equal(t, "2025-06-10", series[6].Date)
	assert.Equal(t, []float64{0, 0, 0, 0, 0, 0, 100}, Totals(series))

	labels := v.Labels()
	assert.Equal(t, "Thu 06/05", labels[0])
	assert.Equal(t, "Wed 06/11", labels[6])
}

func TestIncomeFetchesFailIndependently(t *testing.T) {
	b := &fakeBackend{
		lastSeven: func() ([]api.Record, error) { return []api.Record{}, nil },
	}
	v := NewIncome(b, nil, nil)
	v.SetClock(func() time.Time { return fixedNow })
	v.Load(context.Background())

	_, ok := v.Summary()
	assert.False(t, ok)
	series := v.Series()
	require.Len(t, series, 7)
	assert.Equal(t, "2025-06-10", series[6].Date)
	assert.ElementsMatch(t, []string{"payments", "last-7"}, b.Calls())
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinner(t *testing.T) {
	var buf syncBuffer
	s := StartSpinner(&buf, "Loading")
	s.Stop()
	s.Stop()
	assert.Contains(t, buf.String(), "Loading.")
}
