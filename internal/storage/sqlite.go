// Package storage exports normalized records into a SQLite database.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"schaledb/internal/models"
	"schaledb/pkg/metadata"
)

// ErrRunNotFound is returned when no run matches a lookup.
var ErrRunNotFound = errors.New("run not found")

// timeLayout is fixed-width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store handles all database operations.
type Store struct {
	db *sql.DB
}

// StoredRecord is one exported record row.
type StoredRecord struct {
	RunID    string
	Kind     string
	Position int
	RecordID int
	Name     string
	Data     json.RawMessage
}

// Open opens or creates the database at path and applies the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// one writer, no pool contention
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(ctx); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	migrations := []string{
		`PRAGMA journal_mode = WAL`,
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			source TEXT NOT NULL,
			output TEXT NOT NULL,
			count INTEGER NOT NULL,
			skipped INTEGER NOT NULL,
			checksum TEXT NOT NULL,
			started_at TEXT NOT NULL,
			finished_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS records (
			run_id TEXT NOT NULL REFERENCES runs(id),
			kind TEXT NOT NULL,
			position INTEGER NOT NULL,
			record_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			data TEXT NOT NULL,
			PRIMARY KEY (run_id, position)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_kind_id ON records(kind, record_id)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_kind ON runs(kind, finished_at)`,
	}

	for _, m := range migrations {
		if _, err := s.db.ExecContext(ctx, m); err != nil {
			return err
		}
	}

	return nil
}

// SaveRun stores the run row and all of its records in one transaction.
// Records keep their output order in the position column; duplicate record
// ids are stored as-is.
func (s *Store) SaveRun(ctx context.Context, meta *metadata.Metadata, records []models.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, kind, source, output, count, skipped, checksum, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, meta.RunID, meta.Kind, meta.Source, meta.Output, meta.Count, meta.Skipped, meta.Hash,
		meta.StartedAt.Format(timeLayout), meta.FinishedAt.Format(timeLayout))
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (run_id, kind, position, record_id, name, data)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range records {
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("failed to marshal record %d: %w", i, err)
		}

		if _, err := stmt.ExecContext(ctx, meta.RunID, rec.Kind().String(), i, rec.RecordID(), rec.DisplayName(), string(data)); err != nil {
			return fmt.Errorf("failed to insert record %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// GetRecords returns the records of a run in output order.
func (s *Store) GetRecords(ctx context.Context, runID string) ([]StoredRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, kind, position, record_id, name, data
		FROM records WHERE run_id = ? ORDER BY position
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StoredRecord

	for rows.Next() {
		var (
			rec  StoredRecord
			data string
		)

		if err := rows.Scan(&rec.RunID, &rec.Kind, &rec.Position, &rec.RecordID, &rec.Name, &data); err != nil {
			return nil, err
		}

		rec.Data = json.RawMessage(data)
		out = append(out, rec)
	}

	return out, rows.Err()
}

// GetLatestRun returns the most recently finished run of a kind.
func (s *Store) GetLatestRun(ctx context.Context, kind models.Kind) (*metadata.Metadata, error) {
	var (
		m                 metadata.Metadata
		started, finished string
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT id, kind, source, output, count, skipped, checksum, started_at, finished_at
		FROM runs WHERE kind = ? ORDER BY finished_at DESC LIMIT 1
	`, kind.String()).Scan(&m.RunID, &m.Kind, &m.Source, &m.Output, &m.Count, &m.Skipped, &m.Hash, &started, &finished)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: kind %s", ErrRunNotFound, kind)
	}

	if err != nil {
		return nil, err
	}

	m.StartedAt, _ = time.Parse(timeLayout, started)
	m.FinishedAt, _ = time.Parse(timeLayout, finished)

	return &m, nil
}
