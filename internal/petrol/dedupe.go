package petrol

import (
	"time"

	"github.com/rubiojr/petrolprice/pkg/api"
)

var dateLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// DedupKey identifies a price record: station name, address, postcode and date.
func DedupKey(s api.Station) string {
	return s.Name + "|" + s.Address + "|" + s.Postcode.String() + "|" + s.Date.String()
}

func stationKey(s api.Station) string {
	return s.Name + "|" + s.Address + "|" + s.Postcode.String()
}

// Dedupe drops records whose DedupKey was already seen, keeping the first one.
func Dedupe(stations []api.Station) []api.Station {
	seen := make(map[string]struct{}, len(stations))
	out := make([]api.Station, 0, len(stations))
	for _, s := range stations {
		key := DedupKey(s)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}

// LatestPerStation groups records by station name, address and postcode and
// keeps only the most recent one of each group. Groups keep the order in
// which they first appear.
func LatestPerStation(stations []api.Station) []api.Station {
	index := make(map[string]int, len(stations))
	out := make([]api.Station, 0, len(stations))
	for _, s := range stations {
		key := stationKey(s)
		i, ok := index[key]
		if !ok {
			index[key] = len(out)
			out = append(out, s)
			continue
		}
		if newerDate(s.Date.String(), out[i].Date.String()) {
			out[i] = s
		}
	}
	return out
}

// newerDate reports whether a is strictly after b. Unparseable dates
// compare as strings, which orders ISO dates correctly.
func newerDate(a, b string) bool {
	ta, errA := parseDate(a)
	tb, errB := parseDate(b)
	if errA == nil && errB == nil {
		return ta.After(tb)
	}
	if errA == nil {
		return true
	}
	if errB == nil {
		return false
	}
	return a > b
}

func parseDate(s string) (time.Time, error) {
	var err error
	for _, layout := range dateLayouts {
		var t time.Time
		t, err = time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}
