// Package api provides types and functions to interact with the petrol price
// backend: suburb candidate lookup, stations in range and city forecasts.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "http://127.0.0.1:5000"
	DefaultTimeout = 30 * time.Second
	userAgent      = "petrolprice/1.0"
)

// StatusError is returned when the backend answers with a non-200 status.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.StatusCode)
}

// BackendError carries an error message the backend returned in a 200 response.
type BackendError struct {
	Message    string
	Suggestion string
}

func (e *BackendError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s (did you mean %s?)", e.Message, e.Suggestion)
	}
	return e.Message
}

// PetrolAPI provides methods to query the petrol price backend.
type PetrolAPI struct {
	baseURL      string
	httpClient   *http.Client
	customClient bool
	timeout      time.Duration
}

// Option configures a PetrolAPI.
type Option func(*PetrolAPI)

// WithBaseURL points the client at a different backend.
func WithBaseURL(baseURL string) Option {
	return func(api *PetrolAPI) {
		api.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient replaces the default HTTP client. The client is used as
// given: WithTimeout does not change it.
func WithHTTPClient(c *http.Client) Option {
	return func(api *PetrolAPI) {
		api.httpClient = c
		api.customClient = true
	}
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(api *PetrolAPI) {
		api.timeout = d
	}
}

// NewPetrolAPI creates a new PetrolAPI client with default settings.
func NewPetrolAPI(opts ...Option) *PetrolAPI {
	api := &PetrolAPI{
		baseURL: DefaultBaseURL,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(api)
	}
	if !api.customClient {
		api.httpClient = &http.Client{Timeout: api.timeout}
	}
	return api
}

// BaseURL returns the backend base URL without a trailing slash.
func (api *PetrolAPI) BaseURL() string {
	return api.baseURL
}

// SuburbCandidates returns every (suburb, postcode) pair matching suburb.
func (api *PetrolAPI) SuburbCandidates(ctx context.Context, suburb string) ([]SuburbCandidate, error) {
	query := "suburb=" + url.QueryEscape(suburb)

	var list CandidateList
	if err := api.get(ctx, "/api/suburb_candidates", query, &list); err != nil {
		return nil, err
	}
	return list.Candidates, nil
}

// StationsInRange returns the stations within distanceKm of the given suburb and postcode.
// The distance is sent as given; range checks belong to the caller.
func (api *PetrolAPI) StationsInRange(ctx context.Context, suburb, postcode string, distanceKm float64) ([]Station, error) {
	query := fmt.Sprintf("suburb=%s&postcode=%s&distance=%s",
		url.QueryEscape(suburb),
		url.QueryEscape(postcode),
		strconv.FormatFloat(distanceKm, 'f', -1, 64),
	)

	var list StationList
	if err := api.get(ctx, "/api/stations_in_range", query, &list); err != nil {
		return nil, err
	}
	if list.Error != "" {
		return nil, &BackendError{Message: list.Error, Suggestion: list.Suggestion}
	}
	return list.Stations, nil
}

// Forecast fetches the latest forecast text for a capital city. The backend
// keys forecasts by lowercase city name.
// A 200 response without forecast text returns an empty Forecast and no error.
func (api *PetrolAPI) Forecast(ctx context.Context, city string) (*Forecast, error) {
	query := "city=" + url.QueryEscape(strings.ToLower(city))

	var forecast Forecast
	if err := api.get(ctx, "/api/forecast", query, &forecast); err != nil {
		return nil, err
	}
	return &forecast, nil
}

func (api *PetrolAPI) get(ctx context.Context, path, rawQuery string, v any) error {
	u := api.baseURL + path
	if rawQuery != "" {
		u += "?" + rawQuery
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := api.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error fetching data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{URL: u, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response body: %w", err)
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("error unmarshaling JSON: %w", err)
	}
	return nil
}
