// Package forecast maps a resolved suburb to the capital city whose price
// forecast covers it and loads that forecast.
package forecast

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rubiojr/petrolprice/internal/geo"
	"github.com/rubiojr/petrolprice/pkg/api"
)

var (
	// ErrNoForecast means the location has no forecast city. It is terminal.
	ErrNoForecast = errors.New("no forecast available for this location")
	// ErrLocationUnknown means the geocoder could not be reached or failed.
	ErrLocationUnknown = errors.New("could not determine suburb location")
)

const (
	NoticeEmpty  = "No forecast available at this time."
	NoticeFailed = "Failed to fetch forecast."
	NoticeError  = "Error loading forecast."
)

// Strategy selects how the forecast city is derived from a suburb.
type Strategy string

const (
	StrategyPostcode Strategy = "postcode"
	StrategyGeocode  Strategy = "geocode"
)

// ParseStrategy parses "postcode" or "geocode". An empty string means postcode.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(StrategyPostcode):
		return StrategyPostcode, nil
	case string(StrategyGeocode):
		return StrategyGeocode, nil
	default:
		return "", fmt.Errorf("invalid strategy %q: expected postcode or geocode", s)
	}
}

// CityResolver derives the forecast city for a suburb candidate.
type CityResolver interface {
	ResolveCity(ctx context.Context, c api.SuburbCandidate) (string, error)
}

// NewResolver returns the resolver for strategy. The geocoder is only used
// by the geocode strategy.
func NewResolver(strategy Strategy, geocoder geo.Geocoder, logger *slog.Logger) CityResolver {
	if strategy == StrategyGeocode {
		return NewGeocodeResolver(geocoder, logger)
	}
	return PostcodeResolver{}
}

// Backend is the forecast part of the petrol API.
type Backend interface {
	Forecast(ctx context.Context, city string) (*api.Forecast, error)
}

// Result is a loaded forecast. SVGPath is always set once the city is
// known. When the text could not be loaded Text is empty and Notice says why.
type Result struct {
	City      string
	SVGPath   string
	Text      string
	CreatedAt string
	Notice    string
}

// SVGPath returns the path of the static forecast graph for city.
func SVGPath(city string) string {
	return "/graph/" + strings.ToLower(city) + ".svg"
}

type Service struct {
	resolver CityResolver
	backend  Backend
	log      *slog.Logger
}

func NewService(resolver CityResolver, backend Backend, logger *slog.Logger) *Service {
	return &Service{resolver: resolver, backend: backend, log: logger}
}

// ResolveCity returns the forecast city for c.
func (s *Service) ResolveCity(ctx context.Context, c api.SuburbCandidate) (string, error) {
	return s.resolver.ResolveCity(ctx, c)
}

// Fetch loads the forecast text for city. Text failures never fail the
// result: they are reported through Notice while SVGPath stays set.
func (s *Service) Fetch(ctx context.Context, city string) Result {
	res := Result{City: city, SVGPath: SVGPath(city)}

	f, err := s.backend.Forecast(ctx, city)
	var statusErr *api.StatusError
	switch {
	case errors.As(err, &statusErr):
		s.log.Debug("Forecast request failed", "city", city, "status", statusErr.StatusCode)
		res.Notice = NoticeFailed
	case err != nil:
		s.log.Error("Error loading forecast", "city", city, "error", err)
		res.Notice = NoticeError
	case f == nil || strings.TrimSpace(f.Text) == "":
		res.Notice = NoticeEmpty
	default:
		res.Text = f.Text
		res.CreatedAt = f.CreatedAt
	}
	return res
}

// ForCandidate resolves the city for c and fetches its forecast.
func (s *Service) ForCandidate(ctx context.Context, c api.SuburbCandidate) (Result, error) {
	city, err := s.ResolveCity(ctx, c)
	if err != nil {
		return Result{}, err
	}
	return s.Fetch(ctx, city), nil
}

// UserMessage converts a resolution error into the text shown to the user.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrLocationUnknown):
		return "Could not determine suburb location. Please try again."
	case errors.Is(err, ErrNoForecast):
		return "Suburb not found or not in VIC/NSW/QLD."
	default:
		return NoticeError
	}
}
