package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/parkandride/parkride/internal/chart"
	"github.com/parkandride/parkride/internal/model"
	"github.com/parkandride/parkride/internal/shell"
	"github.com/parkandride/parkride/internal/timecalc"
	"github.com/parkandride/parkride/internal/views"
)

func money(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

func optMoney(f *float64) string {
	if f == nil {
		return "-"
	}
	return money(*f)
}

// parkedFor renders how long a vehicle has been in the park.
func parkedFor(entry, now time.Time) string {
	secs := int64(now.Sub(entry).Seconds())
	if secs < 0 {
		secs = 0
	}
	return timecalc.FormatDuration(secs)
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func inParkTable(vs []model.Vehicle, v *views.VehicleIn, loc *time.Location, now time.Time) table {
	t := table{header: []string{"ID", "NUMBER", "SLOT", "TYPE", "SUBTYPE", "ENTERED", "PARKED", "RATE", "TICKET"}}
	for _, veh := range vs {
		entry := veh.EntryTime
		ticket := veh.TicketID
		if g := v.GeneratedTicket(veh.ID); g != "" {
			ticket = g + " (slip issued)"
		}
		if e := v.SlipError(veh.ID); e != "" {
			ticket = dash(ticket) + " ! " + e
		}
		t.add(veh.ID, veh.Number, string(veh.SlotType), model.TagFor(veh.Subtype, veh.SlotType), dash(veh.Subtype),
			timecalc.FormatClock(&entry, loc), parkedFor(entry, now), optMoney(veh.HourlyRate), dash(ticket))
	}
	return t
}

func exitedTable(rs []model.ExitedVehicle, loc *time.Location) table {
	t := table{header: []string{"ID", "NUMBER", "SLOT", "TYPE", "DATE", "IN", "OUT", "HOURS", "AMOUNT", "TICKET", "OFFICER"}}
	for _, r := range rs {
		t.add(r.ID, r.Number, string(r.SlotType), model.TagFor(r.Subtype, r.SlotType),
			r.ExitDate.In(loc).Format(timecalc.DateLayout),
			timecalc.FormatClock(r.InTime, loc), timecalc.FormatClock(r.OutTime, loc),
			money(timecalc.HoursBetween(r.InTime, r.OutTime)), optMoney(r.Amount),
			dash(r.TicketID), dash(r.OfficerID))
	}
	return t
}

func ratesTable(rates []model.Rate) table {
	t := table{header: []string{"VEHICLE TYPE", "TAG", "PRICE PER HOUR"}}
	for _, r := range rates {
		t.add(r.Label, model.TagFor(r.Label, model.CategorizeSubtype(r.Label)), views.FormatPrice(r.PricePerHour))
	}
	return t
}

func slotsTable(s model.Slots) table {
	t := table{header: []string{"SLOT", "DESCRIPTION", "AVAILABLE"}}
	for _, st := range model.SlotTypes {
		t.add(string(st), st.Description(), strconv.Itoa(s.Get(st)))
	}
	return t
}

func officersTable(list []model.Officer) table {
	t := table{header: []string{"OFFICER ID", "NAME", "EMAIL", "PHONE"}}
	for _, o := range list {
		t.add(views.DisplayID(o), dash(o.Name), dash(o.Email), dash(o.Phone))
	}
	return t
}

// incomeReport is the structured form of the income screen.
type incomeReport struct {
	Summary *model.IncomeSummary `json:"summary,omitempty"`
	Days    []model.DayIncome    `json:"last_7_days,omitempty"`
}

func printIncome(w io.Writer, summary *model.IncomeSummary, series []model.DayIncome, loc *time.Location) {
	fmt.Fprintln(w, "Income")
	fmt.Fprintln(w, "--------------------------------")
	if summary == nil {
		fmt.Fprintln(w, "No summary data")
	} else {
		for _, p := range summary.Periods() {
			fmt.Fprintf(w, "%-10s%12s  (%d payments)\n", p.Label, money(p.Bucket.Total), p.Bucket.Count)
		}
	}
	fmt.Fprintln(w, "--------------------------------")
	if len(series) == 0 {
		fmt.Fprintln(w, "No data for the last 7 days")
		return
	}
	fmt.Fprintf(w, "Last 7 days  %s\n", chart.Sparkline(views.Totals(series)))
	for _, p := range series {
		fmt.Fprintf(w, "  %-10s%12s  %d\n", views.Label(p, loc), money(p.Total), p.Count)
	}
}

func printSlip(w io.Writer, s model.Slip, loc *time.Location) {
	title := "Payment Slip"
	if s.Fallback {
		title += " (DRAFT, not recorded by the backend)"
	}
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("-", len(title)))
	fmt.Fprintf(w, "Ticket:       %s\n", dash(s.TicketID))
	fmt.Fprintf(w, "Vehicle:      %s\n", dash(s.VehicleID))
	fmt.Fprintf(w, "Officer:      %s\n", dash(s.OfficerID))
	fmt.Fprintf(w, "Slot:         %s\n", dash(string(s.SlotType)))
	fmt.Fprintf(w, "Vehicle type: %s (%s / hour)\n", dash(s.VehicleType.Name), money(s.VehicleType.RatePerHour))
	fmt.Fprintf(w, "Entry:        %s\n", formatStamp(s.EntryTime, loc))
	fmt.Fprintf(w, "Exit:         %s\n", formatStamp(s.ExitTime, loc))
	fmt.Fprintf(w, "Hours:        %s\n", money(s.Hours))
	fmt.Fprintf(w, "Amount:       %s\n", money(s.Amount))
}

func formatStamp(t *time.Time, loc *time.Location) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.In(loc).Format("2006-01-02 15:04:05")
}

func printHome(w io.Writer) {
	for _, l := range shell.HomeLines {
		fmt.Fprintln(w, l)
	}
}

func printFooter(w io.Writer) {
	var parts []string
	for _, f := range shell.Footer {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Label, f.Text))
	}
	fmt.Fprintf(w, "%s | %s\n", strings.Join(parts, " | "), shell.Copyright)
}

func printNav(w io.Writer, items []shell.NavItem) {
	var parts []string
	for _, it := range items {
		label := it.Label
		if it.Active {
			label = "[" + label + "]"
		}
		parts = append(parts, label)
	}
	fmt.Fprintf(w, "%s  ::  %s\n", shell.Brand, strings.Join(parts, "  "))
}
