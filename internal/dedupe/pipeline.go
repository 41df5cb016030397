// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dedupe

import (
	"github.com/pdiddy/dedupe-engine/internal/comparison"
	"github.com/pdiddy/dedupe-engine/internal/mutate"
	"github.com/pdiddy/dedupe-engine/pkg/types"
)

// workingRecord is the comparison-facing copy of one input record. The
// original is never modified.
type workingRecord struct {
	index     int
	recNumber int
	values    map[types.Field]string
}

// plan is a strategy with every handler name resolved, ready to run.
type plan struct {
	settings Settings
	strategy types.Strategy

	// compare holds one comparator per step.
	compare []comparison.Func

	// mutators holds the composed chain per mutated field.
	mutators map[types.Field]mutate.Func

	// fields lists every field a step sorts by or compares.
	fields []types.Field
}

func newPlan(s Settings, st types.Strategy, comparisons *comparison.Registry, mutators *mutate.Registry) (*plan, error) {
	p := &plan{
		settings: s,
		strategy: st,
		compare:  make([]comparison.Func, len(st.Steps)),
		mutators: make(map[types.Field]mutate.Func, len(st.Mutators)),
	}

	for k, step := range st.Steps {
		c, err := comparisons.Lookup(step.Comparison)
		if err != nil {
			return nil, err
		}
		p.compare[k] = c.Handler
	}

	for field, chain := range st.Mutators {
		fn, err := mutators.Chain(chain)
		if err != nil {
			return nil, err
		}
		p.mutators[field] = fn
	}

	seen := map[types.Field]bool{}
	add := func(f types.Field) {
		if !seen[f] {
			seen[f] = true
			p.fields = append(p.fields, f)
		}
	}
	for _, step := range st.Steps {
		add(step.Sort)
		for _, f := range step.Fields {
			add(f)
		}
	}
	return p, nil
}

// working builds the comparison-facing copies of input, one per record in
// input order.
func (p *plan) working(input []types.Record) []workingRecord {
	out := make([]workingRecord, len(input))
	for i, rec := range input {
		w := workingRecord{
			index:     i,
			recNumber: recordNumber(rec, i),
			values:    make(map[types.Field]string, len(p.fields)),
		}
		for _, f := range p.fields {
			if fn, ok := p.mutators[f]; ok {
				w.values[f] = fn(rec.Text(string(f)), rec)
				continue
			}
			w.values[f] = rec.Canonical(string(f))
		}
		out[i] = w
	}
	return out
}

// recordNumber prefers an explicit recNumber, then a non-zero refNumber,
// then the 1-based position.
func recordNumber(rec types.Record, index int) int {
	if n, ok := rec.Number(types.KeyRecNumber); ok {
		return n
	}
	if n, ok := rec.Number(string(types.FieldRefNumber)); ok && n != 0 {
		return n
	}
	return index + 1
}
