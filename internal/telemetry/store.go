// Package telemetry records local query usage statistics.
//
// Everything stays on disk next to the index; nothing is ever sent
// anywhere. The numbers exist to answer two operator questions: what
// do people ask, and which queries come back empty.
package telemetry

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Store persists query telemetry in SQLite.
type Store struct {
	db *sql.DB
}

// QueryEvent describes one resolved query.
type QueryEvent struct {
	Query    string
	Terms    []string
	Hits     int
	Cached   bool
	Duration time.Duration
}

// TermCount is one entry of the top-terms report.
type TermCount struct {
	Term  string
	Count int64
}

// Summary aggregates the stored telemetry.
type Summary struct {
	TotalQueries int64
	CacheHits    int64
	ZeroResults  int64
}

// zeroResultLimit bounds the zero-result log like a circular buffer.
const zeroResultLimit = 100

// Open opens (or creates) the telemetry database at path and ensures
// the schema exists. Use ":memory:" for tests.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open telemetry db: %w", err)
	}
	// modernc sqlite serializes writes itself; one connection avoids
	// SQLITE_BUSY churn for this write-light workload.
	db.SetMaxOpenConns(1)

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS query_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		hits INTEGER NOT NULL,
		cached INTEGER NOT NULL DEFAULT 0,
		duration_ms INTEGER NOT NULL,
		timestamp TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS query_terms (
		term TEXT PRIMARY KEY,
		count INTEGER NOT NULL DEFAULT 1,
		last_seen TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_query_terms_count ON query_terms(count DESC);

	CREATE TABLE IF NOT EXISTS zero_result_queries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		query TEXT NOT NULL,
		timestamp TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("create telemetry schema: %w", err)
	}
	return nil
}

// Record stores one query event.
func (s *Store) Record(ev QueryEvent) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	cached := 0
	if ev.Cached {
		cached = 1
	}
	if _, err := tx.Exec(
		`INSERT INTO query_log (hits, cached, duration_ms) VALUES (?, ?, ?)`,
		ev.Hits, cached, ev.Duration.Milliseconds()); err != nil {
		return fmt.Errorf("insert query log: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO query_terms (term, count, last_seen)
		VALUES (?, 1, CURRENT_TIMESTAMP)
		ON CONFLICT(term) DO UPDATE SET
			count = count + 1,
			last_seen = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return fmt.Errorf("prepare term upsert: %w", err)
	}
	defer stmt.Close()
	for _, term := range ev.Terms {
		if _, err := stmt.Exec(term); err != nil {
			return fmt.Errorf("upsert query term: %w", err)
		}
	}

	if ev.Hits == 0 {
		if _, err := tx.Exec(`INSERT INTO zero_result_queries (query) VALUES (?)`, ev.Query); err != nil {
			return fmt.Errorf("insert zero-result query: %w", err)
		}
		if _, err := tx.Exec(`
			DELETE FROM zero_result_queries WHERE id NOT IN (
				SELECT id FROM zero_result_queries ORDER BY id DESC LIMIT ?
			)`, zeroResultLimit); err != nil {
			return fmt.Errorf("trim zero-result queries: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit telemetry: %w", err)
	}
	return nil
}

// TopTerms returns the n most frequent query terms.
func (s *Store) TopTerms(n int) ([]TermCount, error) {
	rows, err := s.db.Query(`
		SELECT term, count FROM query_terms
		ORDER BY count DESC, term ASC
		LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query top terms: %w", err)
	}
	defer rows.Close()

	var out []TermCount
	for rows.Next() {
		var tc TermCount
		if err := rows.Scan(&tc.Term, &tc.Count); err != nil {
			return nil, fmt.Errorf("scan term count: %w", err)
		}
		out = append(out, tc)
	}
	return out, rows.Err()
}

// ZeroResultQueries returns the most recent queries that matched
// nothing, newest first.
func (s *Store) ZeroResultQueries(n int) ([]string, error) {
	rows, err := s.db.Query(`
		SELECT query FROM zero_result_queries
		ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query zero results: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var q string
		if err := rows.Scan(&q); err != nil {
			return nil, fmt.Errorf("scan zero-result query: %w", err)
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// LatencyBuckets histograms query durations: <10ms, 10-50ms, 50-100ms,
// 100-500ms, >=500ms.
func (s *Store) LatencyBuckets() (map[string]int64, error) {
	rows, err := s.db.Query(`
		SELECT CASE
			WHEN duration_ms < 10 THEN '<10ms'
			WHEN duration_ms < 50 THEN '10-50ms'
			WHEN duration_ms < 100 THEN '50-100ms'
			WHEN duration_ms < 500 THEN '100-500ms'
			ELSE '>=500ms'
		END AS bucket, COUNT(*)
		FROM query_log GROUP BY bucket`)
	if err != nil {
		return nil, fmt.Errorf("query latency buckets: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int64)
	for rows.Next() {
		var bucket string
		var count int64
		if err := rows.Scan(&bucket, &count); err != nil {
			return nil, fmt.Errorf("scan latency bucket: %w", err)
		}
		out[bucket] = count
	}
	return out, rows.Err()
}

// Summarize aggregates the query log.
func (s *Store) Summarize() (Summary, error) {
	var sum Summary
	err := s.db.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(cached), 0),
		       COALESCE(SUM(CASE WHEN hits = 0 THEN 1 ELSE 0 END), 0)
		FROM query_log`).Scan(&sum.TotalQueries, &sum.CacheHits, &sum.ZeroResults)
	if err != nil {
		return Summary{}, fmt.Errorf("summarize telemetry: %w", err)
	}
	return sum, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
