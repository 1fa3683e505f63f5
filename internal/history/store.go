// Package history persists projection samples over time, so consumers
// can follow how the projected race moves as more actas are counted.
package history

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"escrutinio/internal/projection"
)

// ErrNoSamples is returned when the store has nothing recorded yet.
var ErrNoSamples = errors.New("history: no samples recorded")

// Sample is one recorded engine run with its headline entries.
type Sample struct {
	ID              int64
	TakenAt         string // RFC 3339, UTC
	Granularity     string
	LeafCount       int
	AvgCompleteness float64
	GrandCurrent    int64
	GrandProjected  int64
	Entries         []Entry
}

// Entry is one headline candidate captured with a sample.
type Entry struct {
	Rank       int
	Candidate  string
	Current    int64
	Projected  int64
	Percentage float64
}

// TrendPoint is a candidate's percentage movement between the first
// and last recorded samples.
type TrendPoint struct {
	Candidate string
	FirstPct  float64
	LastPct   float64
	Change    float64
}

// Store persists samples in SQLite.
type Store struct {
	db *sql.DB
}

// nowUTC returns the current UTC time as an ISO 8601 string.
func nowUTC() string { return time.Now().UTC().Format(time.RFC3339) }

// Open opens or creates the history DB at path and runs migrations.
// Creates the parent directory (e.g. .escrutinio) if it does not exist.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying DB.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	var version int
	err := s.db.QueryRow(`SELECT version FROM schema_version LIMIT 1`).Scan(&version)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := s.db.Exec(`INSERT INTO schema_version (version) VALUES (?)`, schemaVersion); err != nil {
			return fmt.Errorf("init schema version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read schema version: %w", err)
	case version != schemaVersion:
		return fmt.Errorf("history db schema version %d, want %d", version, schemaVersion)
	}
	return nil
}

// Record captures a summary's headline as a new sample and returns its ID.
func (s *Store) Record(sum *projection.Summary) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec(
		`INSERT INTO samples (taken_at, granularity, leaf_count, avg_completeness, grand_current, grand_projected)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		nowUTC(), string(sum.Granularity), sum.LeafCount, sum.AvgCompleteness, sum.GrandCurrent, sum.GrandProjected,
	)
	if err != nil {
		return 0, fmt.Errorf("insert sample: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("sample id: %w", err)
	}

	for _, e := range sum.Headline {
		if _, err := tx.Exec(
			`INSERT INTO sample_entries (sample_id, rank, candidate, current, projected, percentage)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			id, e.Rank, e.Candidate, e.CurrentVotes, e.ProjectedVotes, e.Percentage,
		); err != nil {
			return 0, fmt.Errorf("insert entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

// List returns the most recent samples, newest first, entries included.
// limit <= 0 means no limit.
func (s *Store) List(limit int) ([]Sample, error) {
	query := `SELECT id, taken_at, granularity, leaf_count, avg_completeness, grand_current, grand_projected
	          FROM samples ORDER BY id DESC`
	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = s.db.Query(query+` LIMIT ?`, limit)
	} else {
		rows, err = s.db.Query(query)
	}
	if err != nil {
		return nil, fmt.Errorf("list samples: %w", err)
	}
	defer rows.Close()

	var samples []Sample
	for rows.Next() {
		var sm Sample
		if err := rows.Scan(&sm.ID, &sm.TakenAt, &sm.Granularity, &sm.LeafCount,
			&sm.AvgCompleteness, &sm.GrandCurrent, &sm.GrandProjected); err != nil {
			return nil, fmt.Errorf("scan sample: %w", err)
		}
		samples = append(samples, sm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate samples: %w", err)
	}

	for i := range samples {
		entries, err := s.entries(samples[i].ID)
		if err != nil {
			return nil, err
		}
		samples[i].Entries = entries
	}
	return samples, nil
}

// Latest returns the newest sample, or ErrNoSamples.
func (s *Store) Latest() (*Sample, error) {
	samples, err := s.List(1)
	if err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, ErrNoSamples
	}
	return &samples[0], nil
}

// Trend reports each headline candidate's percentage change between
// the first and the last sample that mention them. Needs at least two
// samples to say anything.
func (s *Store) Trend() ([]TrendPoint, error) {
	samples, err := s.List(0)
	if err != nil {
		return nil, err
	}
	if len(samples) < 2 {
		return nil, ErrNoSamples
	}

	// List is newest-first.
	last, first := samples[0], samples[len(samples)-1]

	firstPct := make(map[string]float64, len(first.Entries))
	for _, e := range first.Entries {
		firstPct[e.Candidate] = e.Percentage
	}

	var points []TrendPoint
	for _, e := range last.Entries {
		start, ok := firstPct[e.Candidate]
		if !ok {
			start = 0
		}
		points = append(points, TrendPoint{
			Candidate: e.Candidate,
			FirstPct:  start,
			LastPct:   e.Percentage,
			Change:    e.Percentage - start,
		})
	}
	return points, nil
}

func (s *Store) entries(sampleID int64) ([]Entry, error) {
	rows, err := s.db.Query(
		`SELECT rank, candidate, current, projected, percentage
		 FROM sample_entries WHERE sample_id = ? ORDER BY rank`, sampleID)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Rank, &e.Candidate, &e.Current, &e.Projected, &e.Percentage); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, nil
}
