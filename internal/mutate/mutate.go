// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package mutate holds the named field normalizers ("mutators") that
// strategies apply to record values before comparison. Mutators are pure:
// they receive the running value and the untouched original record and
// return a new value.
package mutate

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/pdiddy/dedupe-engine/pkg/types"
)

// ErrUnknownMutator is returned when a strategy references a mutator name
// that is not registered.
var ErrUnknownMutator = errors.New("unknown mutator")

// Func transforms a field value. original is read-only context, used for
// example to recover a DOI from the record's url list.
type Func func(value string, original types.Record) string

// Mutator is a registered transform with its display metadata.
type Mutator struct {
	Name        string
	Title       string
	Description string
	Handler     Func
}

// Registry maps mutator names to their implementations. It is safe for
// concurrent use.
type Registry struct {
	mu       sync.RWMutex
	mutators map[string]Mutator
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{mutators: map[string]Mutator{}}
}

// Default returns a registry holding every built-in mutator.
func Default() *Registry {
	r := NewRegistry()
	r.Register("alphaNumericOnly", "Alpha-Numeric only",
		"Remove all punctuation except characters and numbers", AlphaNumericOnly)
	r.Register("noSpace", "Remove whitespace",
		"Remove all whitespace", NoSpace)
	r.Register("authorRewrite", "Rewrite author names",
		"Clean up various author specifications into one standard format", AuthorRewrite)
	r.Register("authorRewriteSingle", "Rewrite singular author name",
		"Clean up a single author specification into one standard format", AuthorRewriteSingle)
	r.Register("deburr", "Deburr",
		"Convert latin-1 supplementary letters to basic latin letters and remove combining diacritical marks", Deburr)
	r.Register("noCase", "Case insensitive",
		"Convert all upper-case alpha characters to lower case", NoCase)
	r.Register("doiRewrite", "Rewrite DOIs",
		"Tidy up mangled DOI fields from partial DOIs to full URLs", DOIRewrite)
	r.Register("numericOnly", "Numeric only",
		"Remove all non-numeric characters", NumericOnly)
	r.Register("removeEnclosingBrackets", "Remove enclosing brackets",
		"Remove all wrapping brackets or other parenthesis, useful for translated titles", RemoveEnclosingBrackets)
	r.Register("stripHtmlTags", "Remove html/xml tags",
		"Remove html tags from a value", StripHTMLTags)
	r.Register("consistentPageNumbering", "Consistent page numbering",
		"Expand abbreviated page ranges, e.g. 244-58 => 244-258", ConsistentPageNumbering)
	return r
}

// Register adds or replaces a mutator.
func (r *Registry) Register(name, title, description string, fn Func) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.mutators == nil {
		r.mutators = map[string]Mutator{}
	}
	r.mutators[name] = Mutator{Name: name, Title: title, Description: description, Handler: fn}
}

// Lookup returns the mutator registered under name.
func (r *Registry) Lookup(name string) (Mutator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if m, ok := r.mutators[name]; ok {
		return m, nil
	}
	return Mutator{}, fmt.Errorf("%w %q", ErrUnknownMutator, name)
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
	names := make([]string, 0, len(r.mutators))
	for name := range r.mutators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Chain resolves names into a single function applying each mutator left
// to right.
func (r *Registry) Chain(names []string) (Func, error) {
	fns := make([]Func, len(names))
	for i, name := range names {
		m, err := r.Lookup(name)
		if err != nil {
			return nil, err
		}
		fns[i] = m.Handler
	}
	return func(value string, original types.Record) string {
		for _, fn := range fns {
			value = fn(value, original)
		}
		return value
	}, nil
}
