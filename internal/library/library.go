// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package library keeps imported reference lists and the results of dedupe
// runs over them in a local SQLite database, so runs under different
// strategies can be compared without re-reading the source files.
package library

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/dedupe-engine/pkg/types"
)

const (
	dbFile = "library.db"

	// insertBatch bounds rows per INSERT to stay under SQLite's bound
	// parameter limit.
	insertBatch = 500
)

// Errors returned by lookups.
var (
	ErrUnknownSource = errors.New("unknown source")
	ErrUnknownRun    = errors.New("unknown run")
)

// Store manages the library SQLite database.
type Store struct {
	db         *sql.DB
	dir        string
	maxResults int
}

// Open opens or creates the library database at cfg.LibraryDir/library.db
// and creates the schema if it does not exist.
func Open(cfg types.LibraryConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.LibraryDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating library directory: %w", err)
	}

	dbPath := filepath.Join(cfg.LibraryDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 50
	}

	s := &Store{db: db, dir: cfg.LibraryDir, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return filepath.Join(s.dir, dbFile)
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS refs (
			source TEXT NOT NULL,
			position INTEGER NOT NULL,
			data TEXT NOT NULL,
			imported_at TEXT NOT NULL,
			PRIMARY KEY (source, position)
		)`,
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			strategy TEXT NOT NULL,
			threshold REAL NOT NULL,
			records INTEGER NOT NULL,
			duplicates INTEGER NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_source ON runs(source)`,
		`CREATE TABLE IF NOT EXISTS run_results (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			score REAL NOT NULL,
			dupe_of TEXT NOT NULL,
			PRIMARY KEY (run_id, position)
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Source summarizes one imported reference list.
type Source struct {
	Name       string
	Records    int
	ImportedAt time.Time
}

// Import stores recs under source, replacing any earlier import with the
// same name. Runs recorded against the old import are kept.
func (s *Store) Import(ctx context.Context, source string, recs []types.Record) (Source, error) {
	if source == "" {
		return Source{}, fmt.Errorf("import needs a source name")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Source{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	query, args, err := sq.Delete("refs").Where(sq.Eq{"source": source}).ToSql()
	if err != nil {
		return Source{}, err
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return Source{}, fmt.Errorf("clearing previous import: %w", err)
	}

	now := time.Now().UTC()
	for start := 0; start < len(recs); start += insertBatch {
		end := min(start+insertBatch, len(recs))
		insert := sq.Insert("refs").Columns("source", "position", "data", "imported_at")
		for i := start; i < end; i++ {
			data, err := json.Marshal(recs[i])
			if err != nil {
				return Source{}, fmt.Errorf("encoding record %d: %w", i, err)
			}
			insert = insert.Values(source, i, string(data), now.Format(time.RFC3339Nano))
		}
		query, args, err := insert.ToSql()
		if err != nil {
			return Source{}, err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return Source{}, fmt.Errorf("inserting records: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Source{}, fmt.Errorf("committing import: %w", err)
	}
	return Source{Name: source, Records: len(recs), ImportedAt: now}, nil
}

// Sources lists imported reference lists by name.
func (s *Store) Sources(ctx context.Context) ([]Source, error) {
	query, args, err := sq.Select("source", "COUNT(*)", "MAX(imported_at)").
		From("refs").
		GroupBy("source").
		OrderBy("source").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing sources: %w", err)
	}
	defer rows.Close()

	var out []Source
	for rows.Next() {
		var src Source
		var importedAt string
		if err := rows.Scan(&src.Name, &src.Records, &importedAt); err != nil {
			return nil, fmt.Errorf("scanning source: %w", err)
		}
		src.ImportedAt, _ = time.Parse(time.RFC3339Nano, importedAt)
		out = append(out, src)
	}
	return out, rows.Err()
}

// Records loads an imported reference list in its original order.
func (s *Store) Records(ctx context.Context, source string) ([]types.Record, error) {
	query, args, err := sq.Select("data").
		From("refs").
		Where(sq.Eq{"source": source}).
		OrderBy("position").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("loading records: %w", err)
	}
	defer rows.Close()

	var recs []types.Record
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		var rec types.Record
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			return nil, fmt.Errorf("decoding record: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if recs == nil {
		return nil, fmt.Errorf("%w %q", ErrUnknownSource, source)
	}
	return recs, nil
}
