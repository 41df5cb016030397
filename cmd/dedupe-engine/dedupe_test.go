// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/dedupe-engine/internal/dedupe"
	"github.com/pdiddy/dedupe-engine/internal/records"
)

const doiRefs = `[
  {"title": "Handbook", "doi": "https://doi.org/10.1000/182"},
  {"title": "Handbook", "doi": "10.1000/182"},
  {"title": "Other", "doi": "10.1234/123"}
]`

func TestDedupeFileWritesOutput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "refs.json")
	require.NoError(t, os.WriteFile(path, []byte(doiRefs), 0o644))

	settings := dedupe.NewSettings(dedupe.WithStrategy("doiOnly"), dedupe.WithAction(dedupe.ActionDelete))
	var mu sync.Mutex
	s, err := dedupeFile(dedupe.New(), path, settings, false, &mu)
	require.NoError(t, err)

	assert.Equal(t, 3, s.Records)
	assert.Equal(t, 1, s.Duplicates)
	assert.Equal(t, 2, s.Kept)
	assert.Equal(t, filepath.Join(dir, "refs.dedupe.json"), s.Output)

	out, err := records.ReadFile(s.Output)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "Other", out[1].Text("title"))
}

func TestDedupeFileUnknownFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "refs.ris")
	require.NoError(t, os.WriteFile(path, []byte("TY  - JOUR"), 0o644))

	var mu sync.Mutex
	_, err := dedupeFile(dedupe.New(), path, dedupe.DefaultSettings(), false, &mu)
	assert.Error(t, err)
}

func TestPrintSummary(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	printSummary(&buf, dedupe.DefaultSettings(), []fileSummary{
		{Path: "a.json", Output: "a.dedupe.json", Records: 3, Duplicates: 1, Kept: 3},
		{Path: "b.yaml", Output: "-", Records: 2, Kept: 2},
	})
	out := buf.String()
	assert.Contains(t, out, "strategy=clark action=STATS threshold=0.1")
	assert.Contains(t, out, "a.dedupe.json")
	assert.Contains(t, out, "5 records, 1 duplicates in 2 file(s)")
}

func TestLookupStrategy(t *testing.T) {
	engine := dedupe.New()

	name, st, err := lookupStrategy(engine, "forbes")
	require.NoError(t, err)
	assert.Equal(t, "forbes", name)
	assert.NotEmpty(t, st.Steps)

	path := filepath.Join(t.TempDir(), "titles.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`title: Titles
description: Title only
steps:
  - fields: [title]
    sort: title
    comparison: exact
`), 0o644))
	name, st, err = lookupStrategy(engine, path)
	require.NoError(t, err)
	assert.Equal(t, "titles", name)
	assert.Equal(t, "Titles", st.Title)

	_, _, err = lookupStrategy(engine, "nope")
	assert.ErrorIs(t, err, dedupe.ErrUnknownStrategy)
}

func TestFormatRefs(t *testing.T) {
	assert.Equal(t, "", formatRefs([]int{}))
	assert.Equal(t, "0,3", formatRefs([]int{0, 3}))
}
