// Package searchlog keeps an in-memory SQLite log of resolved suburb
// searches, used to list the most popular suburbs. Nothing is written to disk.
package searchlog

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/patrickmn/go-cache"
	"github.com/rubiojr/petrolprice/pkg/api"
)

const (
	memoryDSN = "file:searchlog?mode=memory"

	cacheExpiry     = time.Minute
	cacheCleanup    = 5 * time.Minute
	defaultCacheKiB = -8 * 1024 // negative value for KiB
)

type Store struct {
	db    *sql.DB
	cache *cache.Cache
	log   *slog.Logger
	now   func() time.Time
}

// PopularSuburb is a suburb/postcode pair with its search statistics.
type PopularSuburb struct {
	Suburb     string    `json:"suburb"`
	Postcode   string    `json:"postcode"`
	Distance   float64   `json:"distance"`
	Count      int64     `json:"count"`
	LastSearch time.Time `json:"last_search"`
}

func (p PopularSuburb) Candidate() api.SuburbCandidate {
	return api.SuburbCandidate{Suburb: p.Suburb, Postcode: p.Postcode}
}

// New opens a private in-memory database. The pool is limited to a single
// connection because every in-memory connection sees its own database.
func New(ctx context.Context, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite3", memoryDSN)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := configurePragmas(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	if err := createTables(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("error creating tables: %w", err)
	}

	return &Store{
		db:    db,
		cache: cache.New(cacheExpiry, cacheCleanup),
		log:   logger,
		now:   time.Now,
	}, nil
}

func configurePragmas(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 10000;"); err != nil {
		return fmt.Errorf("error setting busy timeout: %w", err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA temp_store = MEMORY;"); err != nil {
		return fmt.Errorf("error setting temp store: %w", err)
	}

	if _, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA cache_size = %d;", defaultCacheKiB)); err != nil {
		return fmt.Errorf("error setting cache size: %w", err)
	}
	return nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS searches (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		suburb TEXT NOT NULL,
		postcode TEXT NOT NULL,
		distance REAL NOT NULL,
		search_count INTEGER NOT NULL DEFAULT 1,
		last_search INTEGER NOT NULL,
		UNIQUE (suburb, postcode)
	);

	CREATE INDEX IF NOT EXISTS idx_searches_count ON searches (search_count DESC, last_search DESC);
	`

	_, err := db.ExecContext(ctx, createTableSQL)
	if err != nil {
		return fmt.Errorf("error creating searches table: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	if s.cache != nil {
		s.cache.Flush()
	}
	return s.db.Close()
}

// LogSearch records a search for a resolved candidate. Repeated searches
// for the same suburb and postcode bump the counter and keep the latest radius.
func (s *Store) LogSearch(ctx context.Context, c api.SuburbCandidate, distanceKm float64) error {
	suburb := strings.TrimSpace(c.Suburb)
	postcode := strings.TrimSpace(c.Postcode)
	if suburb == "" || postcode == "" {
		return fmt.Errorf("cannot log search without suburb and postcode: %q", c.String())
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO searches (suburb, postcode, distance, last_search)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (suburb, postcode) DO UPDATE SET
			search_count = search_count + 1,
			distance = excluded.distance,
			last_search = excluded.last_search
	`, suburb, postcode, distanceKm, s.now().Unix())
	if err != nil {
		return fmt.Errorf("error logging search: %w", err)
	}

	s.cache.Flush()
	s.log.Debug("Logged search", "suburb", suburb, "postcode", postcode, "distance", distanceKm)
	return nil
}

// Popular returns the most searched suburbs, most searched first. Ties go to
// the most recent search.
func (s *Store) Popular(ctx context.Context, limit int) ([]PopularSuburb, error) {
	cacheKey := fmt.Sprintf("popular:%d", limit)
	if cached, found := s.cache.Get(cacheKey); found {
		return cached.([]PopularSuburb), nil
	}

	popular, err := s.query(ctx, "ORDER BY search_count DESC, last_search DESC, suburb ASC", limit)
	if err != nil {
		return nil, fmt.Errorf("error querying popular suburbs: %w", err)
	}

	s.cache.Set(cacheKey, popular, cache.DefaultExpiration)
	return popular, nil
}

// Recent returns the most recently searched suburbs.
func (s *Store) Recent(ctx context.Context, limit int) ([]PopularSuburb, error) {
	recent, err := s.query(ctx, "ORDER BY last_search DESC, id DESC", limit)
	if err != nil {
		return nil, fmt.Errorf("error querying recent suburbs: %w", err)
	}
	return recent, nil
}

func (s *Store) query(ctx context.Context, orderBy string, limit int) ([]PopularSuburb, error) {
	query := "SELECT suburb, postcode, distance, search_count, last_search FROM searches " + orderBy
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []PopularSuburb{}
	for rows.Next() {
		var p PopularSuburb
		var lastSearch int64
		if err := rows.Scan(&p.Suburb, &p.Postcode, &p.Distance, &p.Count, &lastSearch); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		p.LastSearch = time.Unix(lastSearch, 0).UTC()
		out = append(out, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return out, nil
}

// Prune deletes searches last made more than maxAge ago and returns how
// many were removed.
func (s *Store) Prune(ctx context.Context, maxAge time.Duration) (int64, error) {
	cutoff := s.now().Add(-maxAge).Unix()
	res, err := s.db.ExecContext(ctx, "DELETE FROM searches WHERE last_search < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("error deleting old searches: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("error counting deleted searches: %w", err)
	}
	if n > 0 {
		s.cache.Flush()
		s.log.Info("Pruned old searches", "deleted_count", n)
	}
	return n, nil
}
