// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package comparison holds the named field comparators used by dedupe
// strategies. A comparator scores two comparison-ready field values from
// 0.0 (completely different) to 1.0 (identical).
package comparison

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"sync"

	"github.com/xrash/smetrics"
)

// ErrUnknownComparator is returned when a strategy references a comparator
// name that is not registered.
var ErrUnknownComparator = errors.New("unknown comparison")

// Func scores the similarity of two values.
type Func func(a, b string) float64

// Comparator is a registered comparison with its display metadata.
type Comparator struct {
	Name        string
	Title       string
	Description string
	Handler     Func
}

// Registry maps comparator names to their implementations. It is safe for
// concurrent use.
type Registry struct {
	mu          sync.RWMutex
	comparators map[string]Comparator
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{comparators: map[string]Comparator{}}
}

// Default returns a registry holding the built-in comparators:
// exact, exactTruncate, jaroWinkler, and random.
func Default() *Registry {
	r := NewRegistry()
	r.Register("exact", "Exact comparison",
		"Simple character-by-character exact comparison", Exact)
	r.Register("exactTruncate", "Exact comparison with truncate",
		"Exact comparison but truncate strings to the shortest", ExactTruncate)
	r.Register("jaroWinkler", "Jaro-Winkler",
		"String distance / difference calculator using the Jaro-Winkler metric", JaroWinkler)
	r.Register("random", "Random",
		"Ignore comparisons and pick a number between 0 and 1", Random)
	return r
}

// Register adds or replaces a comparator.
func (r *Registry) Register(name, title, description string, fn Func) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.comparators == nil {
		r.comparators = map[string]Comparator{}
	}
	r.comparators[name] = Comparator{Name: name, Title: title, Description: description, Handler: fn}
}

// Lookup returns the comparator registered under name.
func (r *Registry) Lookup(name string) (Comparator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if c, ok := r.comparators[name]; ok {
		return c, nil
	}
	return Comparator{}, fmt.Errorf("%w %q", ErrUnknownComparator, name)
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, err := r.Lookup(name)
	return err == nil
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.comparators))
	for name := range r.comparators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Exact returns 1 when a and b are identical.
func Exact(a, b string) float64 {
	if a == b {
		return 1
	}
	return 0
}

// ExactTruncate truncates both values to the shorter length before an
// exact comparison, so a prefix always matches.
func ExactTruncate(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	n := min(len(ra), len(rb))
	return Exact(string(ra[:n]), string(rb[:n]))
}

// JaroWinkler returns the Jaro-Winkler similarity of a and b with the
// usual 0.7 boost threshold and a four character prefix. Empty values
// never match.
func JaroWinkler(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}
	return smetrics.JaroWinkler(a, b, 0.7, 4)
}

// Random ignores its inputs and returns a uniform value in [0, 1).
// It exists only as a baseline for evaluating strategies.
func Random(_, _ string) float64 {
	return rand.Float64()
}
