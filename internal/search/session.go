package search

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/rubiojr/petrolprice/internal/petrol"
	"github.com/rubiojr/petrolprice/pkg/api"
)

// Phase is the step a search session is in.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseResolving
	PhaseChoosing
	PhaseFetching
	PhaseReady
	PhaseNoMatch
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseResolving:
		return "resolving"
	case PhaseChoosing:
		return "choosing"
	case PhaseFetching:
		return "fetching"
	case PhaseReady:
		return "ready"
	case PhaseNoMatch:
		return "no-match"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// State is an immutable snapshot of a search session. Stations holds the
// raw fetched records; Visible applies the current brand filter and order.
type State struct {
	Generation  uint64
	Phase       Phase
	Query       string
	Candidates  []api.SuburbCandidate
	Selected    *api.SuburbCandidate
	RadiusKm    float64
	Order       petrol.OrderBy
	Brands      petrol.BrandSet
	Stations    []api.Station
	FetchFailed bool
	Message     string
}

// NewState returns the idle state with default options.
func NewState() State {
	return State{
		Phase:    PhaseIdle,
		RadiusKm: DefaultRadiusKm,
		Order:    petrol.OrderPrice,
		Brands:   petrol.NewBrandSet(),
	}
}

// Visible returns the deduplicated, filtered and ordered stations.
func (s State) Visible() []api.Station {
	return petrol.Project(s.Stations, s.Brands, s.Order)
}

// Action is an event that moves a session from one State to the next.
type Action interface {
	apply(State) State
}

// Reduce returns the state that results from applying a to s. It never
// mutates s. Completion actions carrying a stale generation are ignored.
func Reduce(s State, a Action) State {
	return a.apply(s)
}

// SearchStarted begins a new lookup and supersedes any request in flight.
type SearchStarted struct {
	Query string
}

func (a SearchStarted) apply(s State) State {
	s.Generation++
	s.Phase = PhaseResolving
	s.Query = a.Query
	s.Candidates = nil
	s.Selected = nil
	s.Stations = nil
	s.FetchFailed = false
	s.Message = ""
	return s
}

// InputRejected records a search refused before any request was made.
type InputRejected struct {
	Err error
}

func (a InputRejected) apply(s State) State {
	s.Phase = PhaseIdle
	s.Message = UserMessage(a.Err)
	return s
}

// CandidatesLoaded delivers the lookup result for Generation.
type CandidatesLoaded struct {
	Generation uint64
	Candidates []api.SuburbCandidate
}

func (a CandidatesLoaded) apply(s State) State {
	if a.Generation != s.Generation || s.Phase != PhaseResolving {
		return s
	}
	s.Candidates = slices.Clone(a.Candidates)
	switch len(a.Candidates) {
	case 0:
		s.Phase = PhaseNoMatch
		s.Message = NoMatchMessage(s.Query)
	case 1:
		c := a.Candidates[0]
		s.Selected = &c
		s.Phase = PhaseFetching
	default:
		s.Phase = PhaseChoosing
	}
	return s
}

// LookupFailed reports a failed candidate lookup for Generation.
type LookupFailed struct {
	Generation uint64
	Err        error
}

func (a LookupFailed) apply(s State) State {
	if a.Generation != s.Generation || s.Phase != PhaseResolving {
		return s
	}
	s.Phase = PhaseFailed
	s.Message = UserMessage(a.Err)
	return s
}

// CandidateChosen selects one of the listed candidates and starts a fetch.
type CandidateChosen struct {
	Candidate api.SuburbCandidate
}

func (a CandidateChosen) apply(s State) State {
	if s.Phase != PhaseChoosing || !slices.Contains(s.Candidates, a.Candidate) {
		return s
	}
	c := a.Candidate
	s.Generation++
	s.Selected = &c
	s.Phase = PhaseFetching
	s.Message = ""
	return s
}

// Refresh refetches the stations of the selected candidate, typically after
// the radius changed.
type Refresh struct{}

func (Refresh) apply(s State) State {
	if s.Selected == nil || s.Phase == PhaseResolving || s.Phase == PhaseChoosing {
		return s
	}
	s.Generation++
	s.Phase = PhaseFetching
	s.FetchFailed = false
	s.Message = ""
	return s
}

// StationsLoaded delivers the fetched stations for Generation.
type StationsLoaded struct {
	Generation uint64
	Stations   []api.Station
}

func (a StationsLoaded) apply(s State) State {
	if a.Generation != s.Generation || s.Phase != PhaseFetching {
		return s
	}
	s.Phase = PhaseReady
	s.Stations = slices.Clone(a.Stations)
	s.FetchFailed = false
	s.Message = ""
	if len(s.Stations) == 0 {
		s.Message = "No results found."
	}
	return s
}

// StationsFailed reports a failed station fetch for Generation. The result
// list is cleared and the failure is distinguishable from an empty result.
type StationsFailed struct {
	Generation uint64
	Err        error
}

func (a StationsFailed) apply(s State) State {
	if a.Generation != s.Generation || s.Phase != PhaseFetching {
		return s
	}
	s.Phase = PhaseReady
	s.Stations = []api.Station{}
	s.FetchFailed = true
	s.Message = UserMessage(a.Err)
	return s
}

// OptionsChanged updates the view options. Nil fields are left unchanged.
// Order and brand changes apply to the stations already fetched; a radius
// change takes effect on the next fetch.
type OptionsChanged struct {
	RadiusKm *float64
	Order    *petrol.OrderBy
	Brands   petrol.BrandSet
}

func (a OptionsChanged) apply(s State) State {
	if a.RadiusKm != nil {
		s.RadiusKm = ClampRadius(*a.RadiusKm)
	}
	if a.Order != nil {
		s.Order = *a.Order
	}
	if a.Brands != nil {
		s.Brands = petrol.NewBrandSet(a.Brands.Names()...)
	}
	return s
}

// Session drives the reducer with real lookups and fetches. It is safe for
// concurrent use; the latest search always wins.
type Session struct {
	mu       sync.Mutex
	state    State
	resolver *Resolver
	fetcher  *Fetcher
	log      *slog.Logger
}

func NewSession(backend Backend, logger *slog.Logger) *Session {
	return &Session{
		state:    NewState(),
		resolver: NewResolver(backend, logger),
		fetcher:  NewFetcher(backend, logger),
		log:      logger,
	}
}

// State returns the current snapshot.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) dispatch(a Action) State {
	_, next := s.transition(a)
	return next
}

// transition applies a and returns the states before and after it, both
// read under the same lock.
func (s *Session) transition(a Action) (prev, next State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev = s.state
	s.state = Reduce(s.state, a)
	return prev, s.state
}

// Search resolves raw and, when exactly one candidate matches, fetches its
// stations. With several candidates the session waits for Choose.
func (s *Session) Search(ctx context.Context, raw string) (State, error) {
	suburb := CleanSuburb(raw)
	if suburb == "" {
		return s.dispatch(InputRejected{Err: ErrEmptySuburb}), ErrEmptySuburb
	}

	st := s.dispatch(SearchStarted{Query: suburb})
	gen := st.Generation

	res, err := s.resolver.ResolveSuburb(ctx, suburb)
	if err != nil {
		return s.dispatch(LookupFailed{Generation: gen, Err: err}), err
	}

	st = s.dispatch(CandidatesLoaded{Generation: gen, Candidates: res.Candidates})
	if st.Generation != gen || st.Phase != PhaseFetching {
		return st, nil
	}
	return s.fetch(ctx, st)
}

// Choose selects the candidate at index i and fetches its stations.
func (s *Session) Choose(ctx context.Context, i int) (State, error) {
	st := s.State()
	if st.Phase != PhaseChoosing {
		return st, errors.New("no suburb selection pending")
	}
	c, err := Resolution{Candidates: st.Candidates}.Pick(i)
	if err != nil {
		return st, err
	}
	return s.ChooseCandidate(ctx, c)
}

// ChooseCandidate selects c, which must be one of the pending candidates.
func (s *Session) ChooseCandidate(ctx context.Context, c api.SuburbCandidate) (State, error) {
	prev, st := s.transition(CandidateChosen{Candidate: c})
	if st.Generation == prev.Generation {
		return st, ErrInvalidChoice
	}
	return s.fetch(ctx, st)
}

// SetOptions applies new view options without refetching.
func (s *Session) SetOptions(opts OptionsChanged) State {
	return s.dispatch(opts)
}

// Refresh refetches the selected candidate with the current radius.
func (s *Session) Refresh(ctx context.Context) (State, error) {
	prev, st := s.transition(Refresh{})
	if st.Generation == prev.Generation {
		return st, nil
	}
	return s.fetch(ctx, st)
}

// fetch loads stations for a state that has just entered PhaseFetching.
func (s *Session) fetch(ctx context.Context, st State) (State, error) {
	if st.Phase != PhaseFetching || st.Selected == nil {
		return st, nil
	}
	gen := st.Generation
	stations, err := s.fetcher.FetchStations(ctx, *st.Selected, st.RadiusKm)
	if err != nil {
		return s.dispatch(StationsFailed{Generation: gen, Err: err}), err
	}

	next := s.dispatch(StationsLoaded{Generation: gen, Stations: stations})
	if next.Generation != gen {
		s.log.Debug("Discarding stale stations", "generation", gen, "current", next.Generation)
	}
	return next, nil
}
