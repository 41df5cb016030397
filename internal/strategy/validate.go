// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package strategy

import (
	"fmt"
	"sort"

	"github.com/pdiddy/dedupe-engine/pkg/types"
)

// Resolver reports whether a handler name is registered. Both the
// comparison and the mutate registries satisfy it.
type Resolver interface {
	Has(name string) bool
}

// Validate checks the structure of st and returns every violation found,
// in a stable order. A nil resolver skips the corresponding name checks.
func Validate(st types.Strategy, comparisons, mutators Resolver) []string {
	var errs []string
	if st.Title == "" {
		errs = append(errs, "Field title is missing")
	}
	if st.Description == "" {
		errs = append(errs, "Field description is missing")
	}
	if st.Steps == nil {
		errs = append(errs, "Field steps is missing")
	}
	if len(st.Steps) == 0 {
		errs = append(errs, "Should contain at least one step")
	}

	for i, step := range st.Steps {
		n := i + 1
		if len(step.Fields) == 0 {
			errs = append(errs, fmt.Sprintf("Step #%d contains no fields", n))
		}
		for _, f := range step.Fields {
			if !f.Valid() {
				errs = append(errs, fmt.Sprintf("Step #%d compares unknown field %q", n, f))
			}
		}
		switch {
		case step.Sort == "":
			errs = append(errs, fmt.Sprintf("Step #%d contains no sort field(s)", n))
		case !step.Sort.Valid():
			errs = append(errs, fmt.Sprintf("Step #%d sorts by unknown field %q", n, step.Sort))
		}
		switch {
		case step.Comparison == "":
			errs = append(errs, fmt.Sprintf("Step #%d contains no comparison", n))
		case comparisons != nil && !comparisons.Has(step.Comparison):
			errs = append(errs, fmt.Sprintf("Step #%d uses unknown comparison %q", n, step.Comparison))
		}
	}

	fields := make([]string, 0, len(st.Mutators))
	for f := range st.Mutators {
		fields = append(fields, string(f))
	}
	sort.Strings(fields)
	for _, name := range fields {
		f := types.Field(name)
		if !f.Valid() {
			errs = append(errs, fmt.Sprintf("Mutators reference unknown field %q", f))
		}
		if mutators == nil {
			continue
		}
		for _, m := range st.Mutators[f] {
			if !mutators.Has(m) {
				errs = append(errs, fmt.Sprintf("Field %s uses unknown mutator %q", f, m))
			}
		}
	}
	return errs
}
