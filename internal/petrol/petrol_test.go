package petrol

import (
	"reflect"
	"testing"

	"github.com/rubiojr/petrolprice/pkg/api"
)

func named(names ...string) []api.Station {
	stations := make([]api.Station, 0, len(names))
	for _, n := range names {
		stations = append(stations, api.Station{Name: n})
	}
	return stations
}

func names(stations []api.Station) []string {
	out := make([]string, 0, len(stations))
	for _, s := range stations {
		out = append(out, s.Name)
	}
	return out
}

func priced(name string, price, distance float64) api.Station {
	return api.Station{Name: name, Address: name + " address", Price: api.Num(price), DistanceKm: api.Num(distance)}
}

// Stations returned for Burwood 2134 by the backend fixture.
var burwoodStations = named(
	"Metro Petroleum Croydon Park",
	"7-Eleven Croydon Park",
	"BP Croydon Park",
	"7-Eleven Croydon Park",
	"Budget Enfield",
	"Speedway Petroleum",
	"Tanwar Petroleum",
	"Budget Petersham",
	"EG Ampol Strathfield",
	"Metro Croydon",
	"Budget Ashfield",
	"Metro Petroleum Chullora",
	"Enhance Homebush",
	"7-Eleven Strathfield South",
	"Speedway Petroleum",
	"Metro Leichhardt",
	"Metro Haberfield",
	"BP Enfield",
	"BP Connect Ashfield",
	"7-Eleven Ashfield",
	"EG Ampol Chullora",
	"Coles Express Lidcombe",
	"Shell OTR Strathfield",
	"Ampol Homebush",
)

func TestClassify(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"EG Ampol Burwood", "Ampol"},
		{"eg ampol lewisham", "Ampol"},
		{"7-Eleven Ashfield", "7-Eleven"},
		{"Unknown Fuel Co", ""},
		{"Metro Petroleum Croydon Park", "Metro Petroleum"},
		{"Metro Croydon", ""},
		{"BP Connect Ashfield", "BP"},
		{"Shell OTR Strathfield", "Shell"},
		{"Coles Express Five Dock", "Coles Express"},
		{"speedway petroleum", "Speedway"},
		{"Ampol Concord", "Ampol"},
		{"", ""},
	}

	for _, test := range tests {
		if got := Classify(test.input, Catalog); got != test.expected {
			t.Errorf("Classify(%q) = %q, expected %q", test.input, got, test.expected)
		}
	}
}

func TestClassifyLongestPrefix(t *testing.T) {
	catalog := []string{"Metro", "Metro Petroleum", "All"}
	if got := Classify("Metro Petroleum Chullora", catalog); got != "Metro Petroleum" {
		t.Errorf("Expected the longest prefix to win, got %q", got)
	}
	if got := Classify("Metro Leichhardt", catalog); got != "Metro" {
		t.Errorf("Expected Metro, got %q", got)
	}
	if got := Classify("All Fuels", catalog); got != "" {
		t.Errorf("The All sentinel must never classify a station, got %q", got)
	}
}

func TestClassifyIsPure(t *testing.T) {
	for i := 0; i < 3; i++ {
		if got := Classify("7-Eleven Burwood", Catalog); got != "7-Eleven" {
			t.Fatalf("run %d: got %q", i, got)
		}
	}
}

func TestLabel(t *testing.T) {
	if got := Label("Tanwar Petroleum"); got != OtherLabel {
		t.Errorf("Label() = %q, expected %q", got, OtherLabel)
	}
	if got := Label("BP Concord"); got != "BP" {
		t.Errorf("Label() = %q, expected BP", got)
	}
}

func TestCanonicalBrand(t *testing.T) {
	tests := map[string]string{
		"bp":            "BP",
		"coles express": "Coles Express",
		"others":        BrandOthers,
		"ALL":           BrandAll,
		"Nope":          "Nope",
	}
	for in, expected := range tests {
		if got := CanonicalBrand(in); got != expected {
			t.Errorf("CanonicalBrand(%q) = %q, expected %q", in, got, expected)
		}
	}
}

func TestDedupe(t *testing.T) {
	a := api.Station{Name: "BP Concord", Address: "1 Rd", Postcode: "2137", Date: "2025-08-07", Price: api.Num(1)}
	b := a
	b.Price = api.Num(2)
	c := a
	c.Date = "2025-08-08"

	out := Dedupe([]api.Station{a, b, c})
	if len(out) != 2 {
		t.Fatalf("Expected 2 stations, got %d", len(out))
	}
	if out[0].PriceValue() != 1 {
		t.Errorf("Expected the first record to be kept, got price %f", out[0].PriceValue())
	}
	if out[1].Date != "2025-08-08" {
		t.Errorf("Expected the second date to survive, got %q", out[1].Date)
	}
}

func TestLatestPerStation(t *testing.T) {
	old := api.Station{Name: "BP Concord", Address: "1 Rd", Postcode: "2137", Date: "2025-08-06 09:00:00", Price: api.Num(1)}
	latest := old
	latest.Date = "2025-08-07 09:00:00"
	latest.Price = api.Num(2)
	other := api.Station{Name: "Ampol Croydon", Address: "2 Rd", Postcode: "2132", Date: "2025-08-01"}

	out := LatestPerStation([]api.Station{old, other, latest})
	if len(out) != 2 {
		t.Fatalf("Expected 2 stations, got %d", len(out))
	}
	if out[0].Name != "BP Concord" || out[0].PriceValue() != 2 {
		t.Errorf("Expected latest BP Concord record first, got %+v", out[0])
	}
	if out[1].Name != "Ampol Croydon" {
		t.Errorf("Expected group order preserved, got %q", out[1].Name)
	}
}

func TestNewerDate(t *testing.T) {
	tests := []struct {
		a, b     string
		expected bool
	}{
		{"2025-08-07", "2025-08-06", true},
		{"2025-08-06 10:00:00", "2025-08-06 09:00:00", true},
		{"2025-08-06", "2025-08-06", false},
		{"2025-08-06", "garbage", true},
		{"", "2025-08-06", false},
	}
	for _, test := range tests {
		if got := newerDate(test.a, test.b); got != test.expected {
			t.Errorf("newerDate(%q, %q) = %v, expected %v", test.a, test.b, got, test.expected)
		}
	}
}

func TestProjectSortsByPrice(t *testing.T) {
	stations := []api.Station{
		priced("C", 190.9, 1),
		{Name: "Missing", Address: "x"},
		priced("A", 180.5, 3),
		priced("B", 180.5, 2),
	}

	got := names(Project(stations, NewBrandSet(), OrderPrice))
	expected := []string{"Missing", "A", "B", "C"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("Project() = %v, expected %v", got, expected)
	}
}

func TestProjectSortsByDistance(t *testing.T) {
	stations := []api.Station{
		priced("Far", 150, 9),
		priced("Near", 200, 0.5),
		{Name: "Unknown", Address: "y", Price: api.Num(100)},
		priced("Mid", 170, 4),
	}

	got := names(Project(stations, nil, OrderDistance))
	expected := []string{"Unknown", "Near", "Mid", "Far"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("Project() = %v, expected %v", got, expected)
	}
}

func TestProjectOthers(t *testing.T) {
	got := names(Project(burwoodStations, NewBrandSet(BrandOthers), OrderPrice))
	expected := []string{"Tanwar Petroleum", "Metro Croydon", "Enhance Homebush", "Metro Leichhardt", "Metro Haberfield"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("Project(Others) = %v, expected %v", got, expected)
	}
	for _, s := range Project(burwoodStations, NewBrandSet(BrandOthers), OrderDistance) {
		if Classify(s.Name, Catalog) != "" {
			t.Errorf("Others selection returned branded station %q", s.Name)
		}
	}
}

func TestProjectOthersPlusBrand(t *testing.T) {
	got := Project(burwoodStations, NewBrandSet(BrandOthers, "Ampol"), OrderPrice)
	for _, s := range got {
		brand := Classify(s.Name, Catalog)
		if brand != "" && brand != "Ampol" {
			t.Errorf("Unexpected brand %q in result", brand)
		}
	}
	if len(got) != 8 {
		t.Errorf("Expected 5 unbranded + 3 Ampol stations, got %d: %v", len(got), names(got))
	}
}

func TestProjectBrandFilter(t *testing.T) {
	got := names(Project(burwoodStations, NewBrandSet("7-Eleven"), OrderPrice))
	expected := []string{"7-Eleven Croydon Park", "7-Eleven Strathfield South", "7-Eleven Ashfield"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("Project(7-Eleven) = %v, expected %v", got, expected)
	}
}

func TestProjectAllDisablesFilter(t *testing.T) {
	all := Project(burwoodStations, NewBrandSet(BrandAll, "BP"), OrderPrice)
	none := Project(burwoodStations, NewBrandSet(), OrderPrice)
	if len(all) != len(none) {
		t.Errorf("All selection returned %d stations, empty selection %d", len(all), len(none))
	}
}

func TestProjectDedupes(t *testing.T) {
	got := Project(burwoodStations, nil, OrderPrice)
	seen := map[string]bool{}
	for _, s := range got {
		key := DedupKey(s)
		if seen[key] {
			t.Errorf("Duplicate dedup key %q", key)
		}
		seen[key] = true
	}
	if len(got) != len(burwoodStations)-2 {
		t.Errorf("Expected 2 duplicates dropped, got %d stations", len(got))
	}
}

func TestProjectKeepsLatestRecord(t *testing.T) {
	old := api.Station{Name: "BP Concord", Address: "1 Rd", Postcode: "2137", Date: "2025-08-06", Price: api.Num(150)}
	latest := old
	latest.Date = "2025-08-07"
	latest.Price = api.Num(190)
	other := priced("Ampol Concord", 170, 1)

	got := Project([]api.Station{old, latest, other}, nil, OrderPrice)
	if len(got) != 2 {
		t.Fatalf("Expected 2 stations, got %d: %v", len(got), names(got))
	}
	if got[0].Name != "Ampol Concord" {
		t.Errorf("Expected Ampol Concord first, got %q", got[0].Name)
	}
	if got[1].Date != "2025-08-07" || got[1].PriceValue() != 190 {
		t.Errorf("Expected the 2025-08-07 BP Concord record, got %+v", got[1])
	}
}

func TestProjectIdempotent(t *testing.T) {
	stations := append([]api.Station{}, burwoodStations...)
	stations = append(stations, priced("BP Concord", 175, 3), priced("Ampol Concord", 175, 1))

	selections := []BrandSet{nil, NewBrandSet(BrandOthers), NewBrandSet("BP", "Ampol"), NewBrandSet(BrandAll)}
	for _, sel := range selections {
		for _, order := range []OrderBy{OrderPrice, OrderDistance} {
			once := Project(stations, sel, order)
			twice := Project(once, sel, order)
			if !reflect.DeepEqual(once, twice) {
				t.Errorf("Project not idempotent for %v/%s", sel.Names(), order)
			}
		}
	}
}

func TestProjectDoesNotMutateInput(t *testing.T) {
	stations := []api.Station{priced("B", 2, 1), priced("A", 1, 2)}
	Project(stations, nil, OrderPrice)
	if stations[0].Name != "B" {
		t.Error("Project reordered its input slice")
	}
}

func TestParseOrderBy(t *testing.T) {
	tests := []struct {
		input    string
		expected OrderBy
		hasError bool
	}{
		{"", OrderPrice, false},
		{"price", OrderPrice, false},
		{"Distance", OrderDistance, false},
		{"name", "", true},
	}
	for _, test := range tests {
		got, err := ParseOrderBy(test.input)
		if test.hasError {
			if err == nil {
				t.Errorf("ParseOrderBy(%q) expected error but got none", test.input)
			}
			continue
		}
		if err != nil || got != test.expected {
			t.Errorf("ParseOrderBy(%q) = %q, %v, expected %q", test.input, got, err, test.expected)
		}
	}
}

func TestBrandSetNames(t *testing.T) {
	set := NewBrandSet("Shell", "Others", "BP", "Zed Fuel", "")
	expected := []string{"Others", "BP", "Shell", "Zed Fuel"}
	if got := set.Names(); !reflect.DeepEqual(got, expected) {
		t.Errorf("Names() = %v, expected %v", got, expected)
	}
}

func TestChangeTrend(t *testing.T) {
	tests := []struct {
		input   string
		trend   Trend
		display string
	}{
		{"+1.2C", TrendUp, "+1.2C"},
		{"-0.8C", TrendDown, "-0.8C"},
		{"0C", TrendFlat, "-"},
		{"", TrendUnknown, "-"},
		{"n/a", TrendUnknown, "n/a"},
	}
	for _, test := range tests {
		if got := ChangeTrend(test.input); got != test.trend {
			t.Errorf("ChangeTrend(%q) = %s, expected %s", test.input, got, test.trend)
		}
		if got := FormatChange(test.input); got != test.display {
			t.Errorf("FormatChange(%q) = %q, expected %q", test.input, got, test.display)
		}
	}
}

func BenchmarkProject(b *testing.B) {
	stations := make([]api.Station, 0, len(burwoodStations)*20)
	for i := 0; i < 20; i++ {
		for j, s := range burwoodStations {
			s.Price = api.Num(float64(150 + (i*7+j)%40))
			s.Date = api.FlexString("2025-08-07")
			stations = append(stations, s)
		}
	}
	sel := NewBrandSet("BP", "Ampol", BrandOthers)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Project(stations, sel, OrderPrice)
	}
}
