// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dedupe

import (
	"slices"
	"strings"

	"github.com/pdiddy/dedupe-engine/pkg/types"
)

// stepResult is one record's outcome for one step. A zero value means the
// record was not involved in any match during that step.
type stepResult struct {
	set    bool
	score  float64
	linked bool
	dupeOf int
}

// Result is the aggregate outcome for one record.
type Result struct {
	// Score is the mean of the record's recorded step scores, 0 if none.
	Score float64 `json:"score" yaml:"score"`

	// DupeOf lists the distinct originals this record was linked to, in
	// step order.
	DupeOf []int `json:"dupeOf" yaml:"dupeOf"`
}

// IsDuplicate reports whether the result meets threshold.
func (r Result) IsDuplicate(threshold float64) bool {
	return r.Score >= threshold
}

// sweep runs every step in order and returns the [record][step] table.
func (p *plan) sweep(recs []workingRecord, onStep func(k int, step types.Step, matches int)) [][]stepResult {
	table := make([][]stepResult, len(recs))
	for i := range table {
		table[i] = make([]stepResult, len(p.strategy.Steps))
	}

	order := make([]int, len(recs))
	var sortedBy types.Field
	for k, step := range p.strategy.Steps {
		if k == 0 || step.Sort != sortedBy {
			// Always sort from input order so ties keep input position.
			for i := range order {
				order[i] = i
			}
			slices.SortStableFunc(order, func(a, b int) int {
				return strings.Compare(recs[a].values[step.Sort], recs[b].values[step.Sort])
			})
			sortedBy = step.Sort
		}
		matches := p.sweepStep(k, step, recs, order, table)
		if onStep != nil {
			onStep(k, step, matches)
		}
	}
	return table
}

// sweepStep walks the sorted view with an original cursor i and a
// candidate cursor n. Once sort keys diverge without a match, i moves on
// and never backtracks.
func (p *plan) sweepStep(k int, step types.Step, recs []workingRecord, order []int, table [][]stepResult) int {
	matches := 0
	i, n := 0, 1
	for n < len(order) {
		orig, cand := &recs[order[i]], &recs[order[n]]
		score := p.score(k, step, orig, cand)

		switch {
		case score > 0:
			matches++
			if slot := &table[orig.index][k]; !slot.set {
				*slot = stepResult{set: true}
				if p.settings.MarkOriginal {
					slot.score = score
				}
			}
			// Ties go to the later original.
			if slot := &table[cand.index][k]; !slot.set || score >= slot.score {
				*slot = stepResult{set: true, score: score, linked: true, dupeOf: p.link(orig)}
			}
			n++
		case orig.values[step.Sort] == cand.values[step.Sort]:
			n++
		default:
			i++
			n = i + 1
			continue
		}

		if n >= len(order) {
			i++
			n = i + 1
		}
	}
	return matches
}

// score combines the step's per-field comparator scores.
func (p *plan) score(k int, step types.Step, a, b *workingRecord) float64 {
	if len(step.Fields) == 0 {
		return 0
	}
	compare := p.compare[k]
	skip := step.SkipsOmitted()

	total, minimum := 0.0, 1.0
	for _, f := range step.Fields {
		av, bv := a.values[f], b.values[f]
		s := 0.0
		if !skip || (av != "" && bv != "") {
			s = compare(av, bv)
		}
		total += s
		minimum = min(minimum, s)
	}

	if p.settings.FieldWeight == FieldWeightAverage {
		return total / float64(len(step.Fields))
	}
	return minimum
}

func (p *plan) link(orig *workingRecord) int {
	if p.settings.DupeRef == DupeRefRecNumber {
		return orig.recNumber
	}
	return orig.index
}

// aggregate folds each record's step results into one Result.
func aggregate(table [][]stepResult) []Result {
	results := make([]Result, len(table))
	for i, steps := range table {
		sum, count := 0.0, 0
		dupeOf := []int{}
		for _, r := range steps {
			if !r.set {
				continue
			}
			sum += r.score
			count++
			if r.linked && !slices.Contains(dupeOf, r.dupeOf) {
				dupeOf = append(dupeOf, r.dupeOf)
			}
		}
		if count > 0 {
			results[i].Score = sum / float64(count)
		}
		results[i].DupeOf = dupeOf
	}
	return results
}
