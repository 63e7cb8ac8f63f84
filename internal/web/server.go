// Package web serves the petrol price client as server-rendered HTML pages.
// Every page is stateless: the URL carries the suburb and view options.
package web

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/httprate"
	"github.com/patrickmn/go-cache"
	"github.com/rubiojr/petrolprice/internal/forecast"
	"github.com/rubiojr/petrolprice/internal/geo"
	"github.com/rubiojr/petrolprice/internal/search"
	"github.com/rubiojr/petrolprice/internal/searchlog"
	"github.com/rubiojr/petrolprice/pkg/api"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultRateLimit = 20

	candidateCacheExpiry  = 10 * time.Minute
	candidateCacheCleanup = 30 * time.Minute
	popularLimit          = 10
	recentLimit           = 5
)

// Config holds the dependencies of the web server.
type Config struct {
	API *api.PetrolAPI
	// Geocoder is only used by the geocode forecast strategy.
	Geocoder geo.Geocoder
	Strategy forecast.Strategy
	// SearchLog is optional. Without it no popular suburbs are shown.
	SearchLog *searchlog.Store
	// GraphURL is where forecast graphs are served from. Defaults to the API base URL.
	GraphURL string
	// RateLimit is the number of requests allowed per IP and minute.
	RateLimit int
	Logger    *httplog.Logger
}

type Server struct {
	resolver   *search.Resolver
	fetcher    *search.Fetcher
	forecast   *forecast.Service
	searchLog  *searchlog.Store
	candidates *cache.Cache
	group      singleflight.Group
	graphs     http.Handler
	rateLimit  int
	httpLog    *httplog.Logger
	log        *slog.Logger
}

func NewServer(cfg Config) (*Server, error) {
	if cfg.API == nil {
		return nil, fmt.Errorf("petrol API client is required")
	}
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if cfg.Strategy == forecast.StrategyGeocode && cfg.Geocoder == nil {
		return nil, fmt.Errorf("geocode strategy requires a geocoder")
	}

	graphURL := cfg.GraphURL
	if graphURL == "" {
		graphURL = cfg.API.BaseURL()
	}
	target, err := url.Parse(graphURL)
	if err != nil {
		return nil, fmt.Errorf("error parsing graph URL: %w", err)
	}

	rateLimit := cfg.RateLimit
	if rateLimit <= 0 {
		rateLimit = DefaultRateLimit
	}

	logger := cfg.Logger.Logger
	resolver := forecast.NewResolver(cfg.Strategy, cfg.Geocoder, logger)

	return &Server{
		resolver:   search.NewResolver(cfg.API, logger),
		fetcher:    search.NewFetcher(cfg.API, logger),
		forecast:   forecast.NewService(resolver, cfg.API, logger),
		searchLog:  cfg.SearchLog,
		candidates: cache.New(candidateCacheExpiry, candidateCacheCleanup),
		graphs:     httputil.NewSingleHostReverseProxy(target),
		rateLimit:  rateLimit,
		httpLog:    cfg.Logger,
		log:        logger,
	}, nil
}

// Router returns the HTTP handler with all routes and middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(s.httpLog))
	r.Use(middleware.Recoverer)
	r.Use(httprate.LimitByIP(s.rateLimit, time.Minute))

	r.Get("/", s.handleHome)
	r.Get("/search", s.handleSearch)
	r.Get("/stations", s.handleStations)
	r.Get("/forecast", s.handleForecast)
	r.Get("/forecast/city", s.handleForecastCity)
	r.Handle("/graph/*", s.graphs)
	r.Get("/api/popular", s.handlePopular)
	r.Get("/health", s.handleHealth)

	return r
}
