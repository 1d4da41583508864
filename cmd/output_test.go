package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/parkandride/parkride/internal/model"
)

func sampleTable() table {
	t := table{header: []string{"NUMBER", "NOTE"}}
	t.add("ABC-1", "plain")
	t.add("XY,2", `say "hi"`)
	return t
}

func TestWriteOutputCSV(t *testing.T) {
	var b bytes.Buffer
	if err := writeOutput(&b, formatCSV, nil, sampleTable()); err != nil {
		t.Fatal(err)
	}
	want := "NUMBER,NOTE\nABC-1,plain\n\"XY,2\",\"say \"\"hi\"\"\"\n"
	if b.String() != want {
		t.Errorf("csv = %q, want %q", b.String(), want)
	}
}

func TestWriteOutputTable(t *testing.T) {
	var b bytes.Buffer
	if err := writeOutput(&b, formatTable, nil, sampleTable()); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(b.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %q", lines)
	}
	if !strings.HasPrefix(lines[0], "NUMBER  NOTE") {
		t.Errorf("header = %q", lines[0])
	}

	b.Reset()
	if err := writeOutput(&b, formatTable, nil, table{header: []string{"X"}}); err != nil {
		t.Fatal(err)
	}
	if got := b.String(); got != "No entries found.\n" {
		t.Errorf("empty table = %q", got)
	}
}

func TestWriteOutputStructured(t *testing.T) {
	rates := []model.Rate{{Label: "Motor Car", PricePerHour: 50}}
	tests := []struct {
		format string
		want   []string
	}{
		{formatJSON, []string{`"label": "Motor Car"`, `"price_per_hour": 50`}},
		{formatYAML, []string{"- label: Motor Car", "  price_per_hour: 50"}},
	}
	for _, tt := range tests {
		var b bytes.Buffer
		if err := writeOutput(&b, tt.format, rates, table{}); err != nil {
			t.Fatalf("%s: %v", tt.format, err)
		}
		for _, w := range tt.want {
			if !strings.Contains(b.String(), w) {
				t.Errorf("%s output %q missing %q", tt.format, b.String(), w)
			}
		}
	}
	if err := writeOutput(&bytes.Buffer{}, "xml", rates, table{}); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestParkedFor(t *testing.T) {
	entry := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
	tests := []struct {
		now  time.Time
		want string
	}{
		{entry, "0s"},
		{entry.Add(45 * time.Second), "45s"},
		{entry.Add(30 * time.Minute), "30m"},
		{entry.Add(100 * time.Minute), "1h 40m"},
		{entry.Add(-time.Hour), "0s"},
	}
	for _, tt := range tests {
		if got := parkedFor(entry, tt.now); got != tt.want {
			t.Errorf("parkedFor(+%v) = %q, want %q", tt.now.Sub(entry), got, tt.want)
		}
	}
}

func TestPrintSlipMarksFallback(t *testing.T) {
	now := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
	var b bytes.Buffer
	printSlip(&b, model.Slip{TicketID: "DRAFT_v1", EntryTime: &now, ExitTime: &now, Fallback: true}, time.UTC)
	out := b.String()
	for _, w := range []string{"DRAFT, not recorded", "Ticket:       DRAFT_v1", "Entry:        2025-06-10 08:00:00", "Amount:       0.00"} {
		if !strings.Contains(out, w) {
			t.Errorf("slip %q missing %q", out, w)
		}
	}
}

func TestSlotsTable(t *testing.T) {
	tb := slotsTable(model.DefaultSlots)
	if len(tb.rows) != 3 {
		t.Fatalf("rows = %d", len(tb.rows))
	}
	for i, want := range []string{"8", "24", "40"} {
		if got := tb.rows[i][2]; got != want {
			t.Errorf("row %d available = %q, want %q", i, got, want)
		}
	}
}
