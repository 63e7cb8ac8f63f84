package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rubiojr/petrolprice/internal/search"
	"github.com/rubiojr/petrolprice/pkg/api"
)

var burwood = search.Resolution{
	Query: "burwood",
	Candidates: []api.SuburbCandidate{
		{Suburb: "BURWOOD", Postcode: "2134"},
		{Suburb: "BURWOOD", Postcode: "3125"},
	},
}

func TestPromptCandidate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{name: "first", input: "1\n", want: "2134"},
		{name: "second with spaces", input: "  2 \n", want: "3125"},
		{name: "out of range", input: "3\n", wantErr: search.ErrInvalidChoice},
		{name: "not a number", input: "melbourne\n", wantErr: search.ErrInvalidChoice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			cand, err := promptCandidate(strings.NewReader(tt.input), &out, burwood)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cand.Postcode != tt.want {
				t.Errorf("expected postcode %s, got %s", tt.want, cand.Postcode)
			}
			if !strings.Contains(out.String(), "2. BURWOOD 3125") {
				t.Errorf("candidates not listed: %q", out.String())
			}
		})
	}
}

func TestPromptCandidateNoInput(t *testing.T) {
	var out bytes.Buffer
	if _, err := promptCandidate(strings.NewReader(""), &out, burwood); err == nil {
		t.Fatal("expected error on empty input")
	}
}

func TestParseDisplay(t *testing.T) {
	for in, want := range map[string]bool{"": false, "simple": false, "Detailed": true} {
		got, err := parseDisplay(in)
		if err != nil {
			t.Fatalf("parseDisplay(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("parseDisplay(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := parseDisplay("fancy"); err == nil {
		t.Error("expected error for unknown display")
	}
}

func TestPrintStations(t *testing.T) {
	st := search.NewState()
	st.Selected = &api.SuburbCandidate{Suburb: "CAMBERWELL", Postcode: "3124"}
	st.Stations = []api.Station{
		{Name: "Shell Camberwell", Address: "1 Burke Rd", Price: api.Num(189.9), DistanceKm: api.Num(0.5)},
		{Name: "7-Eleven Hawthorn", Address: "2 Glenferrie Rd", Price: api.Num(179.9), DistanceKm: api.Num(1.25)},
		{Name: "Independent", Address: "3 Riversdale Rd"},
	}

	var out bytes.Buffer
	if err := printStations(&out, st, false); err != nil {
		t.Fatalf("printStations: %v", err)
	}
	got := out.String()

	if !strings.Contains(got, "Stations within 5 km of CAMBERWELL 3124") {
		t.Errorf("missing header: %q", got)
	}
	if strings.Index(got, "7-Eleven Hawthorn") > strings.Index(got, "Shell Camberwell") {
		t.Errorf("stations not ordered by price: %q", got)
	}
	if !strings.Contains(got, "179.9") || !strings.Contains(got, "1.25 km") {
		t.Errorf("price or distance missing: %q", got)
	}
	if !strings.Contains(got, "Found 3 stations") {
		t.Errorf("missing total: %q", got)
	}
}

func TestPrintStationsLatestRecord(t *testing.T) {
	st := search.NewState()
	st.Selected = &api.SuburbCandidate{Suburb: "CONCORD", Postcode: "2137"}
	st.Stations = []api.Station{
		{Name: "BP Concord", Address: "1 Concord Rd", Postcode: "2137", Date: "2025-08-06", Price: api.Num(150)},
		{Name: "BP Concord", Address: "1 Concord Rd", Postcode: "2137", Date: "2025-08-07", Price: api.Num(190)},
	}

	var out bytes.Buffer
	if err := printStations(&out, st, true); err != nil {
		t.Fatalf("printStations: %v", err)
	}
	got := out.String()
	if strings.Contains(got, "150.0") || !strings.Contains(got, "190.0") {
		t.Errorf("expected only the latest price: %q", got)
	}
	if !strings.Contains(got, "Found 1 stations") {
		t.Errorf("expected a single row: %q", got)
	}
}

func TestPrintStationsEmpty(t *testing.T) {
	st := search.NewState()
	st.Selected = &api.SuburbCandidate{Suburb: "CAMBERWELL", Postcode: "3124"}

	var out bytes.Buffer
	if err := printStations(&out, st, true); err != nil {
		t.Fatalf("printStations: %v", err)
	}
	if !strings.Contains(out.String(), "No results found.") {
		t.Errorf("expected no results message, got %q", out.String())
	}

	if err := printStations(&out, search.NewState(), false); err == nil {
		t.Error("expected error without a selected suburb")
	}
}

func TestFormatPrice(t *testing.T) {
	if got := formatPrice(api.Station{}); got != "-" {
		t.Errorf("expected -, got %s", got)
	}
	if got := formatPrice(api.Station{Price: api.Num(175)}); got != "175.0" {
		t.Errorf("expected 175.0, got %s", got)
	}
}
