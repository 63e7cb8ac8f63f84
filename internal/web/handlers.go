package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/httplog/v2"
	"github.com/patrickmn/go-cache"
	"github.com/rubiojr/petrolprice/internal/forecast"
	"github.com/rubiojr/petrolprice/internal/petrol"
	"github.com/rubiojr/petrolprice/internal/search"
	"github.com/rubiojr/petrolprice/internal/searchlog"
	"github.com/rubiojr/petrolprice/internal/web/templates"
	"github.com/rubiojr/petrolprice/pkg/api"
)

var errMissingCandidate = errors.New("suburb and postcode are required")

// parseForm reads the view options from the query string. Invalid values
// fall back to their defaults.
func parseForm(r *http.Request) searchForm {
	q := r.URL.Query()

	distance := search.DefaultRadiusKm
	if v := q.Get("distance"); v != "" {
		if d, err := strconv.ParseFloat(v, 64); err == nil {
			distance = search.ClampRadius(d)
		}
	}

	order, err := petrol.ParseOrderBy(q.Get("order"))
	if err != nil {
		order = petrol.OrderPrice
	}

	var brands []string
	for _, b := range q["brand"] {
		brands = append(brands, petrol.CanonicalBrand(strings.TrimSpace(b)))
	}

	return searchForm{
		Suburb:   search.CleanSuburb(q.Get("suburb")),
		Distance: distance,
		Order:    order,
		Brands:   petrol.NewBrandSet(brands...),
		Detailed: q.Get("display") == "detailed",
	}
}

func newPage(title string, form searchForm) templates.Page {
	return templates.Page{Title: title, Form: form.view()}
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	form := parseForm(r)
	p := newPage(templates.Text.HomeTitle, form)
	if s.searchLog != nil {
		popular, err := s.searchLog.Popular(r.Context(), popularLimit)
		p.Popular = s.suburbLinks(form, popular, err)
		recent, err := s.searchLog.Recent(r.Context(), recentLimit)
		p.Recent = s.suburbLinks(form, recent, err)
	}
	s.render(w, r, http.StatusOK, templates.Home(p))
}

func (s *Server) suburbLinks(form searchForm, suburbs []searchlog.PopularSuburb, err error) []templates.SuburbLink {
	if err != nil {
		s.log.Error("Error getting logged suburbs", "error", err)
		return nil
	}

	links := make([]templates.SuburbLink, 0, len(suburbs))
	for _, p := range suburbs {
		links = append(links, templates.SuburbLink{
			Label: p.Candidate().String(),
			URL:   "/stations?" + form.query(p.Candidate()).Encode(),
			Count: p.Count,
		})
	}
	return links
}

// lookupCandidates resolves a suburb through the candidate cache. Concurrent
// lookups of the same suburb share one backend request.
func (s *Server) lookupCandidates(ctx context.Context, suburb string) (search.Resolution, error) {
	key := strings.ToLower(search.CleanSuburb(suburb))
	if key == "" {
		return search.Resolution{}, search.ErrEmptySuburb
	}
	if cached, found := s.candidates.Get(key); found {
		return cached.(search.Resolution), nil
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		res, err := s.resolver.ResolveSuburb(ctx, suburb)
		if err != nil {
			return res, err
		}
		s.candidates.Set(key, res, cache.DefaultExpiration)
		return res, nil
	})
	return v.(search.Resolution), err
}

// cachedResolution returns the candidates last looked up for suburb, if
// they are still cached.
func (s *Server) cachedResolution(suburb string) (search.Resolution, bool) {
	cached, found := s.candidates.Get(strings.ToLower(search.CleanSuburb(suburb)))
	if !found {
		return search.Resolution{}, false
	}
	return cached.(search.Resolution), true
}

func (s *Server) renderMessage(w http.ResponseWriter, r *http.Request, status int, title string, form searchForm, msg string) {
	p := newPage(title, form)
	p.Message = msg
	s.render(w, r, status, templates.Message(p))
}

func searchStatus(err error) int {
	if errors.Is(err, search.ErrEmptySuburb) {
		return http.StatusBadRequest
	}
	return http.StatusBadGateway
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	form := parseForm(r)
	httplog.LogEntrySetField(r.Context(), "suburb", slog.StringValue(form.Suburb))

	res, err := s.lookupCandidates(r.Context(), form.Suburb)
	if err != nil {
		s.renderMessage(w, r, searchStatus(err), templates.Text.HomeTitle, form, search.UserMessage(err))
		return
	}

	if res.Ambiguous() {
		s.renderCandidates(w, r, form, res, "/stations")
		return
	}
	if c, ok := res.Auto(); ok {
		s.renderStations(w, r, form, c)
		return
	}
	s.renderMessage(w, r, http.StatusOK, templates.Text.HomeTitle, form, search.NoMatchMessage(res.Query))
}

func (s *Server) renderCandidates(w http.ResponseWriter, r *http.Request, form searchForm, res search.Resolution, target string) {
	p := templates.CandidatesPage{Page: newPage(templates.Text.CandidatesTitle, form)}
	for _, c := range res.Candidates {
		p.Candidates = append(p.Candidates, templates.SuburbLink{
			Label: c.String(),
			URL:   target + "?" + form.query(c).Encode(),
		})
	}
	s.render(w, r, http.StatusOK, templates.Candidates(p))
}

// candidateFromQuery reads an explicitly selected suburb and postcode. When
// the suburb was looked up recently the pair must be one of its candidates.
func (s *Server) candidateFromQuery(r *http.Request) (api.SuburbCandidate, error) {
	q := r.URL.Query()
	c := api.SuburbCandidate{
		Suburb:   strings.TrimSpace(q.Get("suburb")),
		Postcode: strings.TrimSpace(q.Get("postcode")),
	}
	if c.Suburb == "" || c.Postcode == "" {
		return c, errMissingCandidate
	}
	if res, ok := s.cachedResolution(c.Suburb); ok {
		listed, found := res.Find(c.Suburb, c.Postcode)
		if !found {
			return c, fmt.Errorf("%w: %s", search.ErrInvalidChoice, c)
		}
		return listed, nil
	}
	return c, nil
}

func (s *Server) candidateMessage(err error) string {
	if errors.Is(err, errMissingCandidate) {
		return templates.Text.ChoosePostcode
	}
	return search.UserMessage(err)
}

func (s *Server) handleStations(w http.ResponseWriter, r *http.Request) {
	form := parseForm(r)
	c, err := s.candidateFromQuery(r)
	if err != nil {
		s.renderMessage(w, r, http.StatusBadRequest, templates.Text.StationsTitle, form, s.candidateMessage(err))
		return
	}
	s.renderStations(w, r, form, c)
}

func (s *Server) renderStations(w http.ResponseWriter, r *http.Request, form searchForm, c api.SuburbCandidate) {
	httplog.LogEntrySetField(r.Context(), "postcode", slog.StringValue(c.Postcode))

	stations, err := s.fetcher.FetchStations(r.Context(), c, form.Distance)
	if err != nil {
		s.renderMessage(w, r, http.StatusBadGateway, templates.Text.StationsTitle, form, search.UserMessage(err))
		return
	}

	if s.searchLog != nil {
		if err := s.searchLog.LogSearch(r.Context(), c, form.Distance); err != nil {
			s.log.Error("Error logging search", "error", err)
		}
	}

	form.Suburb = c.Suburb
	p := templates.StationsPage{
		Page:     newPage(templates.Text.StationsTitle, form),
		Suburb:   c.Suburb,
		Postcode: c.Postcode,
		Stations: stationRows(petrol.Project(stations, form.Brands, form.Order), c),
	}
	if len(p.Stations) == 0 {
		p.Message = templates.Text.NoResults
	}
	s.render(w, r, http.StatusOK, templates.Stations(p))
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	form := parseForm(r)

	res, err := s.lookupCandidates(r.Context(), form.Suburb)
	if err != nil {
		msg := search.UserMessage(err)
		if errors.Is(err, search.ErrEmptySuburb) {
			msg = "Please enter a suburb for the forecast."
		}
		s.renderMessage(w, r, searchStatus(err), templates.Text.ForecastTitle, form, msg)
		return
	}

	if res.Ambiguous() {
		s.renderCandidates(w, r, form, res, "/forecast/city")
		return
	}
	if c, ok := res.Auto(); ok {
		s.renderForecast(w, r, form, c)
		return
	}
	s.renderMessage(w, r, http.StatusOK, templates.Text.ForecastTitle, form, search.NoMatchMessage(res.Query))
}

func (s *Server) handleForecastCity(w http.ResponseWriter, r *http.Request) {
	form := parseForm(r)
	c, err := s.candidateFromQuery(r)
	if err != nil {
		s.renderMessage(w, r, http.StatusBadRequest, templates.Text.ForecastTitle, form, s.candidateMessage(err))
		return
	}
	s.renderForecast(w, r, form, c)
}

func (s *Server) renderForecast(w http.ResponseWriter, r *http.Request, form searchForm, c api.SuburbCandidate) {
	res, err := s.forecast.ForCandidate(r.Context(), c)
	if err != nil {
		status := http.StatusNotFound
		if errors.Is(err, forecast.ErrLocationUnknown) {
			status = http.StatusBadGateway
		}
		s.renderMessage(w, r, status, templates.Text.ForecastTitle, form, forecast.UserMessage(err))
		return
	}

	form.Suburb = c.Suburb
	p := templates.ForecastPage{
		Page:      newPage(templates.Text.ForecastTitle, form),
		Suburb:    c.Suburb,
		Postcode:  c.Postcode,
		City:      res.City,
		SVGPath:   res.SVGPath,
		CreatedAt: res.CreatedAt,
		Notice:    res.Notice,
	}
	if res.Text != "" {
		p.Forecast = renderMarkdown(res.Text)
	}
	s.render(w, r, http.StatusOK, templates.Forecast(p))
}

func (s *Server) handlePopular(w http.ResponseWriter, r *http.Request) {
	limit := popularLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
			return
		}
		limit = n
	}

	if s.searchLog == nil {
		writeJSON(w, http.StatusOK, []any{})
		return
	}

	var popular []searchlog.PopularSuburb
	var err error
	switch r.URL.Query().Get("sort") {
	case "", "count":
		popular, err = s.searchLog.Popular(r.Context(), limit)
	case "recent":
		popular, err = s.searchLog.Recent(r.Context(), limit)
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid sort"})
		return
	}
	if err != nil {
		s.log.Error("Error getting popular suburbs", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "could not load popular suburbs"})
		return
	}
	writeJSON(w, http.StatusOK, popular)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
