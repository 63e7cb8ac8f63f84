// Package search resolves free-text suburbs to (suburb, postcode)
// candidates, fetches the stations around a resolved candidate and keeps
// the state of one interactive search session.
package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rubiojr/petrolprice/pkg/api"
)

var (
	// ErrEmptySuburb is returned before any network call when the input is blank.
	ErrEmptySuburb = errors.New("please enter the suburb")
	// ErrLookupFailed wraps transport and decoding failures of the candidate lookup.
	ErrLookupFailed = errors.New("suburb lookup failed")
	// ErrInvalidChoice is returned when a candidate index is out of range.
	ErrInvalidChoice = errors.New("invalid candidate choice")
)

// Backend is the subset of the petrol API used by the resolver and fetcher.
type Backend interface {
	SuburbCandidates(ctx context.Context, suburb string) ([]api.SuburbCandidate, error)
	StationsInRange(ctx context.Context, suburb, postcode string, distanceKm float64) ([]api.Station, error)
}

// CleanSuburb trims the input and keeps only the text before the first comma.
func CleanSuburb(raw string) string {
	s := strings.TrimSpace(raw)
	if i := strings.Index(s, ","); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// Resolution is the outcome of a suburb lookup.
type Resolution struct {
	Query      string
	Candidates []api.SuburbCandidate
}

// Empty reports whether no suburb matched. This is not an error.
func (r Resolution) Empty() bool {
	return len(r.Candidates) == 0
}

// Ambiguous reports whether the user must pick one of several candidates.
func (r Resolution) Ambiguous() bool {
	return len(r.Candidates) > 1
}

// Auto returns the candidate when exactly one matched.
func (r Resolution) Auto() (api.SuburbCandidate, bool) {
	if len(r.Candidates) != 1 {
		return api.SuburbCandidate{}, false
	}
	return r.Candidates[0], true
}

// Pick returns the candidate at index i, as chosen by the user.
func (r Resolution) Pick(i int) (api.SuburbCandidate, error) {
	if i < 0 || i >= len(r.Candidates) {
		return api.SuburbCandidate{}, fmt.Errorf("%w: %d (have %d)", ErrInvalidChoice, i+1, len(r.Candidates))
	}
	return r.Candidates[i], nil
}

// Find returns the candidate matching suburb and postcode, ignoring case.
func (r Resolution) Find(suburb, postcode string) (api.SuburbCandidate, bool) {
	for _, c := range r.Candidates {
		if strings.EqualFold(c.Suburb, suburb) && c.Postcode == postcode {
			return c, true
		}
	}
	return api.SuburbCandidate{}, false
}

// Resolver looks up suburb candidates.
type Resolver struct {
	backend Backend
	log     *slog.Logger
}

func NewResolver(backend Backend, logger *slog.Logger) *Resolver {
	return &Resolver{backend: backend, log: logger}
}

// ResolveSuburb cleans raw and asks the backend for matching candidates.
// Blank input fails with ErrEmptySuburb without a request. Lookup failures
// return an empty Resolution and an error wrapping ErrLookupFailed.
func (r *Resolver) ResolveSuburb(ctx context.Context, raw string) (Resolution, error) {
	suburb := CleanSuburb(raw)
	if suburb == "" {
		return Resolution{}, ErrEmptySuburb
	}

	res := Resolution{Query: suburb}
	candidates, err := r.backend.SuburbCandidates(ctx, suburb)
	if err != nil {
		r.log.Error("Error fetching suburb candidates", "suburb", suburb, "error", err)
		return res, fmt.Errorf("%w: %w", ErrLookupFailed, err)
	}

	res.Candidates = candidates
	r.log.Debug("Suburb candidates", "suburb", suburb, "count", len(candidates))
	return res, nil
}

// UserMessage converts a search error into the text shown to the user.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptySuburb):
		return "Please enter the suburb"
	case errors.Is(err, ErrLookupFailed):
		return "Error fetching suburb candidates."
	case errors.Is(err, ErrInvalidChoice):
		return "Please choose one of the listed suburbs."
	default:
		var backendErr *api.BackendError
		if errors.As(err, &backendErr) {
			return backendErr.Error()
		}
		return "Error loading data."
	}
}

// NoMatchMessage is shown when the lookup returned no candidates.
func NoMatchMessage(suburb string) string {
	return "No suburb found for: " + suburb
}
