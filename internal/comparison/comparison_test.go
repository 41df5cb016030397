// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package comparison

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExact(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"one", "one", 1},
		{"one", "One", 0},
		{"", "", 1},
		{"one", "", 0},
		{"https://doi.org/10.1000/182", "https://doi.org/10.1000/182", 1},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, Exact(tc.a, tc.b), "Exact(%q, %q)", tc.a, tc.b)
		assert.Equal(t, Exact(tc.a, tc.b), Exact(tc.b, tc.a), "symmetry for %q, %q", tc.a, tc.b)
	}
}

func TestExactTruncate(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"one", "one", 1},
		{"one two", "one", 1},
		{"one", "one two", 1},
		{"one", "onx two", 0},
		{"", "anything", 1},
		{"café au lait", "café", 1},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, ExactTruncate(tc.a, tc.b), "ExactTruncate(%q, %q)", tc.a, tc.b)
	}
}

func TestJaroWinkler(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"One", "one", 0.7777777777777777},
		{"one", "on!", 0.8222222222222222},
		{"one", "two", 0},
		{"onetwothree", "onetXothree", 0.9636363636363636},
		{"same", "same", 1},
		{"", "", 0},
		{"one", "", 0},
	}
	for _, tc := range tests {
		assert.InDelta(t, tc.want, JaroWinkler(tc.a, tc.b), 1e-9, "JaroWinkler(%q, %q)", tc.a, tc.b)
		assert.InDelta(t, JaroWinkler(tc.a, tc.b), JaroWinkler(tc.b, tc.a), 1e-9, "symmetry for %q, %q", tc.a, tc.b)
	}
}

func TestRandomRange(t *testing.T) {
	for range 1000 {
		v := Random("a", "b")
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}

func TestRegistry(t *testing.T) {
	r := Default()
	assert.Equal(t, []string{"exact", "exactTruncate", "jaroWinkler", "random"}, r.Names())

	c, err := r.Lookup("jaroWinkler")
	require.NoError(t, err)
	assert.Equal(t, "Jaro-Winkler", c.Title)
	assert.Equal(t, 1.0, c.Handler("abc", "abc"))

	_, err = r.Lookup("levenshtein")
	require.ErrorIs(t, err, ErrUnknownComparator)
	assert.Contains(t, err.Error(), `"levenshtein"`)

	r.Register("levenshtein", "Levenshtein", "Edit distance", func(a, b string) float64 { return 0.5 })
	assert.True(t, r.Has("levenshtein"))
}
