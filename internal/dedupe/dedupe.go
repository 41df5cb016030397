// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dedupe finds duplicate bibliographic records that share no
// stable key. A named strategy normalizes each record's fields, then runs
// a sequence of sorted sweeps that compare neighbouring records. Each
// record ends up with an aggregate score and the list of records it
// duplicates, which the configured action turns into annotated, marked,
// or filtered output.
//
// A call is a pure function of its input and settings. Independent calls
// share no mutable state and may run concurrently.
package dedupe

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/pdiddy/dedupe-engine/internal/comparison"
	"github.com/pdiddy/dedupe-engine/internal/mutate"
	"github.com/pdiddy/dedupe-engine/internal/strategy"
	"github.com/pdiddy/dedupe-engine/pkg/types"
)

// Engine resolves strategies and handlers by name at call time. Callers
// extend it by registering into its store and registries.
type Engine struct {
	Strategies  *strategy.Store
	Comparisons *comparison.Registry
	Mutators    *mutate.Registry
	Logger      *slog.Logger
}

// New returns an engine holding the preset strategies and the built-in
// comparators and mutators. It logs nothing until Logger is replaced.
func New() *Engine {
	return &Engine{
		Strategies:  strategy.Presets(),
		Comparisons: comparison.Default(),
		Mutators:    mutate.Default(),
		Logger:      slog.New(slog.DiscardHandler),
	}
}

var defaultEngine = sync.OnceValue(New)

// Dedupe runs the default engine.
func Dedupe(input []types.Record, opts ...Option) ([]types.Record, error) {
	return defaultEngine().Dedupe(input, opts...)
}

// Dedupe scores input under the configured strategy and applies the
// configured action. Input records are never modified: STATS and MARK
// return shallow copies carrying one extra key, DELETE returns the
// surviving input records in input order.
func (e *Engine) Dedupe(input []types.Record, opts ...Option) ([]types.Record, error) {
	s := NewSettings(opts...)
	results, err := e.score(input, s)
	if err != nil {
		return nil, err
	}
	out := apply(input, results, s)
	e.logger().Debug("dedupe complete",
		"strategy", s.Strategy,
		"action", s.Action,
		"records", len(input),
		"output", len(out),
	)
	return out, nil
}

// Score returns the aggregate result of every input record, in input
// order, without applying an action.
func (e *Engine) Score(input []types.Record, opts ...Option) ([]Result, error) {
	return e.score(input, NewSettings(opts...))
}

func (e *Engine) score(input []types.Record, s Settings) ([]Result, error) {
	if input == nil {
		return nil, ErrInvalidInput
	}
	for i, rec := range input {
		if rec == nil {
			return nil, fmt.Errorf("%w: record %d is nil", ErrInvalidInput, i)
		}
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	st, err := e.resolveStrategy(s)
	if err != nil {
		return nil, err
	}

	p, err := newPlan(s, st, e.Comparisons, e.Mutators)
	if err != nil {
		return nil, fmt.Errorf("resolving strategy %q: %w", s.Strategy, err)
	}

	log := e.logger()
	log.Debug("strategy resolved",
		"strategy", s.Strategy,
		"title", st.Title,
		"steps", len(st.Steps),
		"field_weight", s.FieldWeight,
	)

	recs := p.working(input)
	table := p.sweep(recs, func(k int, step types.Step, matches int) {
		log.Debug("step swept",
			"step", k+1,
			"sort", step.Sort,
			"comparison", step.Comparison,
			"matches", matches,
		)
	})
	return aggregate(table), nil
}

func (e *Engine) resolveStrategy(s Settings) (types.Strategy, error) {
	st, ok := e.Strategies.Lookup(s.Strategy)
	if !ok {
		return types.Strategy{}, fmt.Errorf("%w %q", ErrUnknownStrategy, s.Strategy)
	}
	if len(st.Steps) == 0 {
		return types.Strategy{}, fmt.Errorf("%w: strategy %q has no steps", ErrInvalidStrategySchema, s.Strategy)
	}
	if s.ValidateStrategy {
		if errs := strategy.Validate(st, e.Comparisons, e.Mutators); len(errs) > 0 {
			return types.Strategy{}, &InvalidStrategyError{Strategy: s.Strategy, Violations: errs}
		}
	}
	return st, nil
}

func (e *Engine) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return e.Logger
}

// apply runs the action against the original records.
func apply(input []types.Record, results []Result, s Settings) []types.Record {
	switch s.Action {
	case ActionDelete:
		out := make([]types.Record, 0, len(input))
		for i, rec := range input {
			if !results[i].IsDuplicate(s.Threshold) {
				out = append(out, rec)
			}
		}
		return out

	case ActionMark:
		out := make([]types.Record, len(input))
		for i, rec := range input {
			mark := s.MarkOK
			if results[i].IsDuplicate(s.Threshold) {
				mark = s.MarkDupe
			}
			c := rec.Clone()
			c[s.ActionField] = mark.Resolve(rec)
			out[i] = c
		}
		return out

	default:
		out := make([]types.Record, len(input))
		for i, rec := range input {
			c := rec.Clone()
			c[s.ActionField] = results[i]
			out[i] = c
		}
		return out
	}
}
