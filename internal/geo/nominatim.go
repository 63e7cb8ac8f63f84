// Package geo wraps the external geocoder and the distance helpers used to
// fill in missing station distances and build map links.
package geo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/muesli/gominatim"
	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultServer = "https://nominatim.openstreetmap.org/"

	cacheExpiry  = 30 * time.Minute
	cacheCleanup = 90 * time.Minute
)

// ErrNoResults is returned when the geocoder found nothing for a query.
var ErrNoResults = errors.New("no results found")

// Place is a single geocoding result.
type Place struct {
	Lat         float64
	Lng         float64
	DisplayName string
	// State is the structured state name, when the provider returns one.
	State string
}

// Geocoder resolves free-text queries to places, best match first.
type Geocoder interface {
	Search(ctx context.Context, query string) ([]Place, error)
}

type searchFunc func(query string) ([]gominatim.SearchResult, error)

// Nominatim is a Geocoder backed by an OpenStreetMap Nominatim server.
// Results are cached per query and concurrent identical queries share one request.
type Nominatim struct {
	cache  *cache.Cache
	group  singleflight.Group
	log    *slog.Logger
	search searchFunc
}

// NewNominatim configures the Nominatim server and returns a cached geocoder.
func NewNominatim(server string, logger *slog.Logger) *Nominatim {
	if server == "" {
		server = DefaultServer
	}
	gominatim.SetServer(server)

	return &Nominatim{
		cache: cache.New(cacheExpiry, cacheCleanup),
		log:   logger,
		search: func(query string) ([]gominatim.SearchResult, error) {
			qry := searchQuery(query)
			return qry.Get()
		},
	}
}

// searchQuery asks for the structured address so results carry their state.
func searchQuery(query string) gominatim.SearchQuery {
	return gominatim.SearchQuery{
		Q:              query,
		Addressdetails: true,
	}
}

// Search geocodes query. It returns ErrNoResults when nothing matched.
func (n *Nominatim) Search(ctx context.Context, query string) ([]Place, error) {
	key := strings.ToLower(strings.TrimSpace(query))
	if key == "" {
		return nil, errors.New("query cannot be empty")
	}

	if cached, found := n.cache.Get(key); found {
		n.log.Debug("Using cached geocoding result", "query", key)
		return cached.([]Place), nil
	}

	ch := n.group.DoChan(key, func() (any, error) {
		results, err := n.search(query)
		if err != nil {
			return nil, fmt.Errorf("geocoding error: %w", err)
		}
		places := toPlaces(results)
		if len(places) == 0 {
			return nil, fmt.Errorf("%w for location: %s", ErrNoResults, query)
		}
		n.cache.Set(key, places, cache.DefaultExpiration)
		return places, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			n.log.Debug("Geocoding failed", "query", query, "error", res.Err)
			return nil, res.Err
		}
		return res.Val.([]Place), nil
	}
}

func toPlaces(results []gominatim.SearchResult) []Place {
	places := make([]Place, 0, len(results))
	for _, r := range results {
		lat, lng, err := resultToLatLng(r)
		if err != nil {
			continue
		}
		places = append(places, Place{
			Lat:         lat,
			Lng:         lng,
			DisplayName: r.DisplayName,
			State:       r.Address.State,
		})
	}
	return places
}

func resultToLatLng(result gominatim.SearchResult) (lat, lng float64, err error) {
	lat, err = strconv.ParseFloat(result.Lat, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("error parsing latitude: %w", err)
	}

	lng, err = strconv.ParseFloat(result.Lon, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("error parsing longitude: %w", err)
	}

	return lat, lng, nil
}
