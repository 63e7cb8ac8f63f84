package search

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/rubiojr/petrolprice/internal/geo"
	"github.com/rubiojr/petrolprice/pkg/api"
)

const (
	DefaultRadiusKm = 5.0
	MinRadiusKm     = 1.0
	MaxRadiusKm     = 50.0
)

// ClampRadius brings a user-supplied radius into [MinRadiusKm, MaxRadiusKm].
// Zero, negative and NaN values fall back to DefaultRadiusKm.
func ClampRadius(km float64) float64 {
	switch {
	case math.IsNaN(km) || km <= 0:
		return DefaultRadiusKm
	case km < MinRadiusKm:
		return MinRadiusKm
	case km > MaxRadiusKm:
		return MaxRadiusKm
	default:
		return km
	}
}

// ValidateRadius reports whether km lies within the accepted range.
func ValidateRadius(km float64) error {
	if math.IsNaN(km) || km < MinRadiusKm || km > MaxRadiusKm {
		return fmt.Errorf("radius must be between %g and %g km, got %g", MinRadiusKm, MaxRadiusKm, km)
	}
	return nil
}

// Fetcher retrieves the stations around a resolved candidate.
type Fetcher struct {
	backend Backend
	log     *slog.Logger
}

func NewFetcher(backend Backend, logger *slog.Logger) *Fetcher {
	return &Fetcher{backend: backend, log: logger}
}

// FetchStations returns the stations within radiusKm of the candidate. The
// radius is passed through unchanged. On failure it returns an empty list
// together with the error, so callers can tell failures from empty results.
func (f *Fetcher) FetchStations(ctx context.Context, c api.SuburbCandidate, radiusKm float64) ([]api.Station, error) {
	stations, err := f.backend.StationsInRange(ctx, c.Suburb, c.Postcode, radiusKm)
	if err != nil {
		f.log.Error("Error fetching stations", "suburb", c.Suburb, "postcode", c.Postcode, "distance", radiusKm, "error", err)
		return []api.Station{}, fmt.Errorf("error fetching stations for %s: %w", c, err)
	}
	if stations == nil {
		stations = []api.Station{}
	}

	f.log.Debug("Fetched stations", "suburb", c.Suburb, "postcode", c.Postcode, "distance", radiusKm, "count", len(stations))
	return FillDistances(stations), nil
}

// FillDistances computes distance_km for records that lack it but carry
// both the station coordinates and the suburb centre.
func FillDistances(stations []api.Station) []api.Station {
	for i := range stations {
		s := &stations[i]
		if s.DistanceKm != nil {
			continue
		}
		lat, lng, ok := s.Coordinates()
		if !ok {
			continue
		}
		cLat, cLng, ok := s.Center()
		if !ok {
			continue
		}
		s.DistanceKm = api.Num(geo.RoundKm(geo.DistanceKm(cLat, cLng, lat, lng)))
	}
	return stations
}
