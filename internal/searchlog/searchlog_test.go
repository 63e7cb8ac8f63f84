package searchlog

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/rubiojr/petrolprice/pkg/api"
)

func newTestStore(t *testing.T) (*Store, *time.Time) {
	t.Helper()
	s, err := New(context.Background(), slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	return s, &now
}

func TestLogSearchAndPopular(t *testing.T) {
	s, now := newTestStore(t)
	ctx := context.Background()

	burwood := api.SuburbCandidate{Suburb: "Burwood", Postcode: "2134"}
	camberwell := api.SuburbCandidate{Suburb: "Camberwell", Postcode: "3124"}
	burwoodVIC := api.SuburbCandidate{Suburb: "Burwood", Postcode: "3125"}

	searches := []struct {
		c        api.SuburbCandidate
		distance float64
	}{
		{burwood, 5},
		{camberwell, 5},
		{burwood, 10},
		{burwoodVIC, 2},
		{burwood, 3},
		{camberwell, 5},
	}
	for _, search := range searches {
		*now = now.Add(time.Minute)
		if err := s.LogSearch(ctx, search.c, search.distance); err != nil {
			t.Fatalf("LogSearch(%s) failed: %v", search.c, err)
		}
	}

	popular, err := s.Popular(ctx, 10)
	if err != nil {
		t.Fatalf("Popular() failed: %v", err)
	}
	if len(popular) != 3 {
		t.Fatalf("Expected 3 suburbs, got %d", len(popular))
	}

	expected := []struct {
		c        api.SuburbCandidate
		count    int64
		distance float64
	}{
		{burwood, 3, 3},
		{camberwell, 2, 5},
		{burwoodVIC, 1, 2},
	}
	for i, e := range expected {
		p := popular[i]
		if p.Candidate() != e.c || p.Count != e.count || p.Distance != e.distance {
			t.Errorf("popular[%d] = %+v, expected %s count %d distance %v", i, p, e.c, e.count, e.distance)
		}
	}

	top, err := s.Popular(ctx, 1)
	if err != nil {
		t.Fatalf("Popular() failed: %v", err)
	}
	if len(top) != 1 || top[0].Candidate() != burwood {
		t.Errorf("Expected only Burwood 2134, got %+v", top)
	}

	recent, err := s.Recent(ctx, 1)
	if err != nil {
		t.Fatalf("Recent() failed: %v", err)
	}
	if len(recent) != 1 || recent[0].Candidate() != camberwell {
		t.Errorf("Expected Camberwell as most recent, got %+v", recent)
	}
	if !recent[0].LastSearch.Equal(*now) {
		t.Errorf("LastSearch = %v, expected %v", recent[0].LastSearch, *now)
	}
}

func TestPopularCacheInvalidation(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	popular, err := s.Popular(ctx, 5)
	if err != nil {
		t.Fatalf("Popular() failed: %v", err)
	}
	if len(popular) != 0 {
		t.Fatalf("Expected an empty log, got %+v", popular)
	}

	if err := s.LogSearch(ctx, api.SuburbCandidate{Suburb: "Ashfield", Postcode: "2131"}, 5); err != nil {
		t.Fatalf("LogSearch() failed: %v", err)
	}
	popular, err = s.Popular(ctx, 5)
	if err != nil {
		t.Fatalf("Popular() failed: %v", err)
	}
	if len(popular) != 1 {
		t.Errorf("Expected the cached result to be invalidated, got %+v", popular)
	}
}

func TestLogSearchRejectsIncompleteCandidate(t *testing.T) {
	s, _ := newTestStore(t)

	if err := s.LogSearch(context.Background(), api.SuburbCandidate{Suburb: "Burwood"}, 5); err == nil {
		t.Error("Expected an error without postcode")
	}
}

func TestPrune(t *testing.T) {
	s, now := newTestStore(t)
	ctx := context.Background()

	if err := s.LogSearch(ctx, api.SuburbCandidate{Suburb: "Burwood", Postcode: "2134"}, 5); err != nil {
		t.Fatalf("LogSearch() failed: %v", err)
	}
	*now = now.Add(48 * time.Hour)
	if err := s.LogSearch(ctx, api.SuburbCandidate{Suburb: "Camberwell", Postcode: "3124"}, 5); err != nil {
		t.Fatalf("LogSearch() failed: %v", err)
	}

	n, err := s.Prune(ctx, 24*time.Hour)
	if err != nil {
		t.Fatalf("Prune() failed: %v", err)
	}
	if n != 1 {
		t.Errorf("Expected 1 pruned search, got %d", n)
	}

	popular, err := s.Popular(ctx, 0)
	if err != nil {
		t.Fatalf("Popular() failed: %v", err)
	}
	if len(popular) != 1 || popular[0].Suburb != "Camberwell" {
		t.Errorf("Unexpected searches after prune: %+v", popular)
	}
}
