package forecast

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/rubiojr/petrolprice/internal/geo"
	"github.com/rubiojr/petrolprice/pkg/api"
)

var stateNames = []string{"victoria", "new south wales", "queensland"}

// GeocodeResolver resolves the forecast city by geocoding the suburb and
// reading the state from the best match.
type GeocodeResolver struct {
	geocoder geo.Geocoder
	log      *slog.Logger
}

func NewGeocodeResolver(geocoder geo.Geocoder, logger *slog.Logger) *GeocodeResolver {
	return &GeocodeResolver{geocoder: geocoder, log: logger}
}

// GeocodeQuery is the free-text query sent to the geocoder for a candidate.
func GeocodeQuery(c api.SuburbCandidate) string {
	return c.Suburb + " " + c.Postcode + ", Australia"
}

func (r *GeocodeResolver) ResolveCity(ctx context.Context, c api.SuburbCandidate) (string, error) {
	query := GeocodeQuery(c)
	places, err := r.geocoder.Search(ctx, query)
	if errors.Is(err, geo.ErrNoResults) || (err == nil && len(places) == 0) {
		return "", fmt.Errorf("%w: nothing found for %q", ErrNoForecast, query)
	}
	if err != nil {
		r.log.Error("Error geocoding suburb", "query", query, "error", err)
		return "", fmt.Errorf("%w: %w", ErrLocationUnknown, err)
	}

	best := places[0]
	state := placeState(best)
	r.log.Debug("Geocoded suburb", "query", query, "display_name", best.DisplayName, "state", state)

	city, ok := cityForStateName(state)
	if !ok {
		return "", fmt.Errorf("%w: %q is not in VIC/NSW/QLD", ErrNoForecast, best.DisplayName)
	}
	return city, nil
}

// placeState returns the lowercased state name of a place, from the
// structured field when present or else from the display name parts.
func placeState(p geo.Place) string {
	if p.State != "" {
		return strings.ToLower(p.State)
	}
	for _, part := range strings.Split(p.DisplayName, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if slices.Contains(stateNames, part) {
			return part
		}
	}
	return ""
}

func cityForStateName(name string) (string, bool) {
	switch {
	case strings.Contains(name, "victoria"):
		return Melbourne, true
	case strings.Contains(name, "new south wales"):
		return Sydney, true
	case strings.Contains(name, "queensland"):
		return Brisbane, true
	default:
		return "", false
	}
}
