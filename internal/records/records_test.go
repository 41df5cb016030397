// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package records

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/dedupe-engine/internal/dedupe"
	"github.com/pdiddy/dedupe-engine/pkg/types"
)

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
		err  bool
	}{
		{"refs.json", FormatJSON, false},
		{"dir/refs.JSON", FormatJSON, false},
		{"refs.yaml", FormatYAML, false},
		{"refs.yml", FormatYAML, false},
		{"library.csl.yaml", FormatCSL, false},
		{"library.csl.yml", FormatCSL, false},
		{"refs.ris", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFromPath(tt.path)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("CSL")
	require.NoError(t, err)
	assert.Equal(t, FormatCSL, f)

	_, err = ParseFormat("bibtex")
	assert.Error(t, err)
}

func TestReadJSON(t *testing.T) {
	in := `[
  {"title": "Attention is all you need", "year": 2017, "urls": ["https://doi.org/10.1/x"]},
  {"doi": "10.1000/182"}
]`
	recs, err := Read(strings.NewReader(in), FormatJSON)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, "Attention is all you need", recs[0].Text("title"))
	assert.Equal(t, "2017", recs[0].Text("year"))
	assert.Equal(t, []string{"https://doi.org/10.1/x"}, recs[0].URLs())
	assert.Equal(t, "10.1000/182", recs[1].Text("doi"))
}

func TestReadYAML(t *testing.T) {
	in := `- title: Deep residual learning
  authors: [Kaiming He, Xiangyu Zhang]
  year: 2016
- title: Generative adversarial nets
  recNumber: 7
`
	recs, err := Read(strings.NewReader(in), FormatYAML)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, "Kaiming He,Xiangyu Zhang", recs[0].Text("authors"))
	n, ok := recs[1].Number("recNumber")
	require.True(t, ok)
	assert.Equal(t, 7, n)
}

func TestReadEmptyYAML(t *testing.T) {
	recs, err := Read(strings.NewReader(""), FormatYAML)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestReadRejectsNonLists(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		format Format
	}{
		{"json object", `{"title": "x"}`, FormatJSON},
		{"json scalar entry", `[{"title": "x"}, 3]`, FormatJSON},
		{"json null entry", `[null]`, FormatJSON},
		{"yaml mapping", "title: x\n", FormatYAML},
		{"yaml scalar entry", "- just a string\n", FormatYAML},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.in), tt.format)
			assert.ErrorIs(t, err, dedupe.ErrInvalidInput)
		})
	}
}

func TestReadCSL(t *testing.T) {
	in := `- id: vaswani2017
  type: paper-conference
  title: Attention is all you need
  author:
    - family: Vaswani
      given: Ashish
    - literal: Google Brain
  issued:
    date-parts:
      - [2017, 6, 12]
  DOI: 10.48550/arXiv.1706.03762
  container-title: NeurIPS
  volume: "30"
  page: 5998-6008
  URL: https://arxiv.org/abs/1706.03762
  custom:
    recNumber: 12
`
	recs, err := Read(strings.NewReader(in), FormatCSL)
	require.NoError(t, err)
	require.Len(t, recs, 1)

	r := recs[0]
	assert.Equal(t, "vaswani2017", r.Text("id"))
	assert.Equal(t, "Ashish Vaswani, Google Brain", r.Text("authors"))
	assert.Equal(t, 2017, r["year"])
	assert.Equal(t, "10.48550/arXiv.1706.03762", r.Text("doi"))
	assert.Equal(t, "NeurIPS", r.Text("journal"))
	assert.Equal(t, "30", r.Text("volume"))
	assert.Equal(t, "5998-6008", r.Text("pages"))
	assert.Equal(t, []string{"https://arxiv.org/abs/1706.03762"}, r.URLs())
	n, ok := r.Number("recNumber")
	require.True(t, ok)
	assert.Equal(t, 12, n)
}

func TestWriteCSLKeepsAnnotations(t *testing.T) {
	recs := []types.Record{
		{
			"title":   "Attention is all you need",
			"authors": "Ashish Vaswani, Noam Shazeer",
			"year":    2017,
			"dedupe":  dedupe.Result{Score: 1, DupeOf: []int{0}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, recs, FormatCSL))
	s := buf.String()

	assert.Contains(t, s, "id: ref-1")
	assert.Contains(t, s, "type: article-journal")
	assert.Contains(t, s, "family: Vaswani")
	assert.Contains(t, s, "given: Noam")
	assert.Contains(t, s, "custom:")
	assert.Contains(t, s, "dupeOf:")

	back, err := Read(strings.NewReader(s), FormatCSL)
	require.NoError(t, err)
	require.Len(t, back, 1)
	assert.Equal(t, "Ashish Vaswani, Noam Shazeer", back[0].Text("authors"))
	assert.Equal(t, 2017, back[0]["year"])
	assert.Contains(t, back[0], "dedupe")
}

func TestWriteJSONIncludesResults(t *testing.T) {
	recs := []types.Record{
		{"doi": "10.1000/182", "dedupe": dedupe.Result{Score: 1, DupeOf: []int{0}}},
	}
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, recs, FormatJSON))
	assert.JSONEq(t, `[{"doi": "10.1000/182", "dedupe": {"score": 1, "dupeOf": [0]}}]`, buf.String())
}

func TestReadWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "refs.yaml")
	recs := []types.Record{
		{"title": "One", "year": 2001},
		{"title": "Two", "urls": []string{"https://example.com"}},
	}

	require.NoError(t, WriteFile(path, recs))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "title: One")

	got, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "One", got[0].Text("title"))
	assert.Equal(t, []string{"https://example.com"}, got[1].URLs())
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, filepath.Join("data", "refs.dedupe.json"), OutputPath(filepath.Join("data", "refs.json")))
	assert.Equal(t, "refs.dedupe.yml", OutputPath("refs.yml"))
	assert.Equal(t, "library.dedupe.csl.yaml", OutputPath("library.csl.yaml"))
}

func TestAuthorNames(t *testing.T) {
	assert.Equal(t, []string{"Ashish Vaswani", "Noam Shazeer"}, authorNames("Ashish Vaswani, Noam Shazeer"))
	assert.Equal(t, []string{"Gates, B", "Balmer, S"}, authorNames("Gates, B; Balmer, S"))
	assert.Equal(t, []string{"A", "B"}, authorNames([]any{"A", 3, "B"}))
	assert.Nil(t, authorNames(nil))
}
