package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// RunRecord is one archived report run.
type RunRecord struct {
	ID          int64
	RunID       string
	StartedAt   time.Time
	FinishedAt  time.Time
	Endpoints   int
	Failed      int
	Hosts       int
	Nics        int
	DatasetJSON string
}

// Store archives report runs in a local SQLite database.
type Store struct {
	db *sql.DB
}

// New opens the SQLite database at path and runs migrations.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Insert archives a run and returns the new row ID.
func (s *Store) Insert(ctx context.Context, rec *RunRecord) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (run_id, started_at, finished_at, endpoints, failed, hosts, nics, dataset_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID,
		rec.StartedAt.UTC().Format(time.RFC3339),
		rec.FinishedAt.UTC().Format(time.RFC3339),
		rec.Endpoints,
		rec.Failed,
		rec.Hosts,
		rec.Nics,
		rec.DatasetJSON,
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id: %w", err)
	}
	return id, nil
}

// List returns the most recent runs, newest first, without their dataset
// payloads.
func (s *Store) List(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run_id, started_at, finished_at, endpoints, failed, hosts, nics, ''
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var rec RunRecord
		var startedAt, finishedAt string
		if err := rows.Scan(&rec.ID, &rec.RunID, &startedAt, &finishedAt,
			&rec.Endpoints, &rec.Failed, &rec.Hosts, &rec.Nics, &rec.DatasetJSON); err != nil {
			return nil, err
		}
		rec.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
		rec.FinishedAt, _ = time.Parse(time.RFC3339, finishedAt)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Get retrieves one archived run with its dataset payload.
func (s *Store) Get(ctx context.Context, id int64) (*RunRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, run_id, started_at, finished_at, endpoints, failed, hosts, nics, dataset_json
		 FROM runs WHERE id = ?`, id)

	var rec RunRecord
	var startedAt, finishedAt string
	err := row.Scan(&rec.ID, &rec.RunID, &startedAt, &finishedAt,
		&rec.Endpoints, &rec.Failed, &rec.Hosts, &rec.Nics, &rec.DatasetJSON)
	if err != nil {
		return nil, err
	}
	rec.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
	rec.FinishedAt, _ = time.Parse(time.RFC3339, finishedAt)
	return &rec, nil
}

// Purge deletes runs older than the given duration.
func (s *Store) Purge(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan).Format(time.RFC3339)
	result, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE started_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge runs: %w", err)
	}
	return result.RowsAffected()
}
