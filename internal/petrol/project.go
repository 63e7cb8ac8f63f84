// Package petrol holds the station filter/sort pipeline: brand
// classification, deduplication, brand filtering and ordering. Everything
// here is pure and safe to call from any goroutine.
package petrol

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rubiojr/petrolprice/pkg/api"
)

// OrderBy selects the station ordering.
type OrderBy string

const (
	OrderPrice    OrderBy = "price"
	OrderDistance OrderBy = "distance"
)

// ParseOrderBy parses "price" or "distance". An empty string means price.
func ParseOrderBy(s string) (OrderBy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(OrderPrice):
		return OrderPrice, nil
	case string(OrderDistance):
		return OrderDistance, nil
	default:
		return "", fmt.Errorf("invalid order %q: expected price or distance", s)
	}
}

// BrandSet is a set of selected brand names, including the All and Others sentinels.
type BrandSet map[string]struct{}

// NewBrandSet builds a set from brand names. Empty names are ignored.
func NewBrandSet(brands ...string) BrandSet {
	set := make(BrandSet, len(brands))
	for _, b := range brands {
		if b == "" {
			continue
		}
		set[b] = struct{}{}
	}
	return set
}

func (s BrandSet) Has(brand string) bool {
	_, ok := s[brand]
	return ok
}

// Names returns the selected brands in catalog order, sentinels first.
func (s BrandSet) Names() []string {
	var names []string
	for _, b := range []string{BrandAll, BrandOthers} {
		if s.Has(b) {
			names = append(names, b)
		}
	}
	for _, b := range Catalog {
		if s.Has(b) {
			names = append(names, b)
		}
	}
	var extra []string
	for b := range s {
		if !IsKnownBrand(b) {
			extra = append(extra, b)
		}
	}
	sort.Strings(extra)
	return append(names, extra...)
}

// FilterBrands keeps the stations whose brand is selected. An empty
// selection or one containing All keeps everything; Others adds the
// unbranded stations to whatever real brands are selected.
func FilterBrands(stations []api.Station, selected BrandSet, catalog []string) []api.Station {
	if len(selected) == 0 || selected.Has(BrandAll) {
		return append([]api.Station(nil), stations...)
	}

	others := selected.Has(BrandOthers)
	out := make([]api.Station, 0, len(stations))
	for _, s := range stations {
		brand := Classify(s.Name, catalog)
		if brand == "" {
			if others {
				out = append(out, s)
			}
			continue
		}
		if selected.Has(brand) {
			out = append(out, s)
		}
	}
	return out
}

// Sort orders a copy of stations by price or distance, ascending. Missing
// values count as 0 and ties keep their input order.
func Sort(stations []api.Station, orderBy OrderBy) []api.Station {
	out := append([]api.Station(nil), stations...)
	switch orderBy {
	case OrderDistance:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].DistanceValue() < out[j].DistanceValue()
		})
	case OrderPrice:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].PriceValue() < out[j].PriceValue()
		})
	}
	return out
}

// Project runs the whole pipeline against the default brand catalog.
func Project(stations []api.Station, selected BrandSet, orderBy OrderBy) []api.Station {
	return ProjectWith(stations, selected, orderBy, Catalog)
}

// ProjectWith dedupes, keeps the latest record of each station,
// brand-filters and orders stations. Applying it to its own output with the
// same arguments returns the same list.
func ProjectWith(stations []api.Station, selected BrandSet, orderBy OrderBy, catalog []string) []api.Station {
	out := Dedupe(stations)
	out = LatestPerStation(out)
	out = FilterBrands(out, selected, catalog)
	return Sort(out, orderBy)
}
