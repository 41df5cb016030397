// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/pdiddy/dedupe-engine/internal/dedupe"
	"github.com/pdiddy/dedupe-engine/pkg/types"
)

// Run describes one recorded dedupe run.
type Run struct {
	ID         string
	Source     string
	Strategy   string
	Threshold  float64
	Records    int
	Duplicates int
	CreatedAt  time.Time
}

// Duplicate is a record that met the threshold in a run.
type Duplicate struct {
	Position int
	Score    float64
	DupeOf   []int
	Record   types.Record
}

// Run scores the records imported under source with engine and persists
// the results. opts are passed to the engine unchanged; only the scores
// are stored, never the action output.
func (s *Store) Run(ctx context.Context, engine *dedupe.Engine, source string, opts ...dedupe.Option) (Run, error) {
	recs, err := s.Records(ctx, source)
	if err != nil {
		return Run{}, err
	}
	results, err := engine.Score(recs, opts...)
	if err != nil {
		return Run{}, fmt.Errorf("scoring %s: %w", source, err)
	}
	settings := dedupe.NewSettings(opts...)
	return s.RecordRun(ctx, source, settings.Strategy, settings.Threshold, results)
}

// RecordRun persists the results of one run under a new ID. results are
// indexed by record position in the source.
func (s *Store) RecordRun(ctx context.Context, source, strategy string, threshold float64, results []dedupe.Result) (Run, error) {
	run := Run{
		ID:        uuid.NewString(),
		Source:    source,
		Strategy:  strategy,
		Threshold: threshold,
		Records:   len(results),
		CreatedAt: time.Now().UTC(),
	}
	for _, r := range results {
		if r.IsDuplicate(threshold) {
			run.Duplicates++
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	query, args, err := sq.Insert("runs").
		Columns("id", "source", "strategy", "threshold", "records", "duplicates", "created_at").
		Values(run.ID, run.Source, run.Strategy, run.Threshold, run.Records, run.Duplicates, run.CreatedAt.Format(time.RFC3339Nano)).
		ToSql()
	if err != nil {
		return Run{}, err
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return Run{}, fmt.Errorf("inserting run: %w", err)
	}

	for start := 0; start < len(results); start += insertBatch {
		end := min(start+insertBatch, len(results))
		insert := sq.Insert("run_results").Columns("run_id", "position", "score", "dupe_of")
		for i := start; i < end; i++ {
			dupeOf, err := json.Marshal(results[i].DupeOf)
			if err != nil {
				return Run{}, fmt.Errorf("encoding result %d: %w", i, err)
			}
			insert = insert.Values(run.ID, i, results[i].Score, string(dupeOf))
		}
		query, args, err := insert.ToSql()
		if err != nil {
			return Run{}, err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return Run{}, fmt.Errorf("inserting results: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("committing run: %w", err)
	}
	return run, nil
}

// Runs lists recorded runs, newest first. An empty source lists runs over
// every source.
func (s *Store) Runs(ctx context.Context, source string) ([]Run, error) {
	q := sq.Select("id", "source", "strategy", "threshold", "records", "duplicates", "created_at").
		From("runs").
		OrderBy("created_at DESC", "id").
		Limit(uint64(s.maxResults))
	if source != "" {
		q = q.Where(sq.Eq{"source": source})
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRun returns one run by ID.
func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	query, args, err := sq.Select("id", "source", "strategy", "threshold", "records", "duplicates", "created_at").
		From("runs").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return Run{}, err
	}
	run, err := scanRun(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w %q", ErrUnknownRun, id)
	}
	return run, err
}

// Duplicates lists the records of a run whose score is at or above
// threshold, in source order. The records are read from the current import
// of the run's source.
func (s *Store) Duplicates(ctx context.Context, runID string, threshold float64) ([]Duplicate, error) {
	if _, err := s.GetRun(ctx, runID); err != nil {
		return nil, err
	}

	query, args, err := sq.Select("rr.position", "rr.score", "rr.dupe_of", "COALESCE(refs.data, '{}')").
		From("run_results rr").
		Join("runs ON runs.id = rr.run_id").
		LeftJoin("refs ON refs.source = runs.source AND refs.position = rr.position").
		Where(sq.Eq{"rr.run_id": runID}).
		Where(sq.GtOrEq{"rr.score": threshold}).
		OrderBy("rr.position").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing duplicates: %w", err)
	}
	defer rows.Close()

	var dupes []Duplicate
	for rows.Next() {
		var d Duplicate
		var dupeOf, data string
		if err := rows.Scan(&d.Position, &d.Score, &dupeOf, &data); err != nil {
			return nil, fmt.Errorf("scanning duplicate: %w", err)
		}
		if err := json.Unmarshal([]byte(dupeOf), &d.DupeOf); err != nil {
			return nil, fmt.Errorf("decoding dupe_of: %w", err)
		}
		if err := json.Unmarshal([]byte(data), &d.Record); err != nil {
			return nil, fmt.Errorf("decoding record: %w", err)
		}
		dupes = append(dupes, d)
	}
	return dupes, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var run Run
	var createdAt string
	if err := row.Scan(&run.ID, &run.Source, &run.Strategy, &run.Threshold,
		&run.Records, &run.Duplicates, &createdAt); err != nil {
		return Run{}, err
	}
	run.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return run, nil
}
