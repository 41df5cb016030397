// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package strategy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/dedupe-engine/internal/comparison"
	"github.com/pdiddy/dedupe-engine/internal/mutate"
	"github.com/pdiddy/dedupe-engine/pkg/types"
)

func TestPresetsAreValid(t *testing.T) {
	store := Presets()
	assert.Equal(t, []string{Bramer, Clark, DOIOnly, Forbes, ForbesMinFn, ForbesMinFp, Random}, store.Names())

	for _, name := range store.Names() {
		t.Run(name, func(t *testing.T) {
			st, ok := store.Lookup(name)
			require.True(t, ok)
			assert.Empty(t, Validate(st, comparison.Default(), mutate.Default()))
		})
	}
}

func TestPresetShapes(t *testing.T) {
	store := Presets()

	clark, _ := store.Lookup(Clark)
	require.Len(t, clark.Steps, 4)
	assert.Equal(t, types.FieldDOI, clark.Steps[0].Sort)
	assert.Equal(t, types.MutatorChain{"deburr", "alphaNumericOnly", "noCase"}, clark.Mutators[types.FieldTitle])

	bramer, _ := store.Lookup(Bramer)
	assert.Len(t, bramer.Steps, 8)
	assert.Equal(t, types.MutatorChain{"consistentPageNumbering"}, bramer.Mutators[types.FieldPages])

	minFn, _ := store.Lookup(ForbesMinFn)
	require.Len(t, minFn.Steps, 10)
	assert.Equal(t, "exactTruncate", minFn.Steps[8].Comparison)

	random, _ := store.Lookup(Random)
	require.Len(t, random.Steps, 1)
	assert.False(t, random.Steps[0].SkipsOmitted())
	assert.Empty(t, random.Mutators)
}

func TestPresetsAreIndependent(t *testing.T) {
	a := Presets()
	b := Presets()

	st, _ := a.Lookup(Clark)
	st.Mutators[types.FieldTitle][0] = "noSpace"

	other, _ := b.Lookup(Clark)
	assert.Equal(t, "deburr", other.Mutators[types.FieldTitle][0])
}

func TestValidate(t *testing.T) {
	valid := types.Strategy{
		Title:       "Valid",
		Description: "A valid strategy",
		Steps:       []types.Step{{Fields: []types.Field{types.FieldTitle}, Sort: types.FieldTitle, Comparison: "exact"}},
	}

	tests := []struct {
		name  string
		strat func() types.Strategy
		want  []string
	}{
		{
			name:  "valid without mutators",
			strat: func() types.Strategy { return valid },
		},
		{
			name:  "empty strategy reports every top level field",
			strat: func() types.Strategy { return types.Strategy{} },
			want: []string{
				"Field title is missing",
				"Field description is missing",
				"Field steps is missing",
				"Should contain at least one step",
			},
		},
		{
			name: "empty step list",
			strat: func() types.Strategy {
				s := valid
				s.Steps = []types.Step{}
				return s
			},
			want: []string{"Should contain at least one step"},
		},
		{
			name: "blank step",
			strat: func() types.Strategy {
				s := valid
				s.Steps = []types.Step{valid.Steps[0], {}}
				return s
			},
			want: []string{
				"Step #2 contains no fields",
				"Step #2 contains no sort field(s)",
				"Step #2 contains no comparison",
			},
		},
		{
			name: "unknown names",
			strat: func() types.Strategy {
				s := valid
				s.Steps = []types.Step{{Fields: []types.Field{"isbn"}, Sort: "isbn", Comparison: "soundex"}}
				s.Mutators = map[types.Field]types.MutatorChain{
					types.FieldTitle: {"noCase", "shout"},
					"isbn":           {"noCase"},
				}
				return s
			},
			want: []string{
				`Step #1 compares unknown field "isbn"`,
				`Step #1 sorts by unknown field "isbn"`,
				`Step #1 uses unknown comparison "soundex"`,
				`Mutators reference unknown field "isbn"`,
				`Field title uses unknown mutator "shout"`,
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Validate(tc.strat(), comparison.Default(), mutate.Default())
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestValidateWithoutResolvers(t *testing.T) {
	st := types.Strategy{
		Title:       "Custom",
		Description: "Uses handlers registered elsewhere",
		Mutators:    map[types.Field]types.MutatorChain{types.FieldTitle: {"custom"}},
		Steps:       []types.Step{{Fields: []types.Field{types.FieldTitle}, Sort: types.FieldTitle, Comparison: "custom"}},
	}
	assert.Empty(t, Validate(st, nil, nil))
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "titleOnly.yaml", `title: Title only
description: Exact title match after folding
mutators:
  title: [deburr, noCase]
  doi: doiRewrite
steps:
  - fields: [title]
    sort: title
    comparison: exact
  - fields: [doi]
    sort: doi
    comparison: jaroWinkler
    skipOmitted: false
`)
	writeFile(t, dir, "notes.txt", "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.yaml"), 0o755))

	store := Presets()
	names, err := store.LoadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"titleOnly"}, names)

	st, ok := store.Lookup("titleOnly")
	require.True(t, ok)
	assert.Equal(t, "Title only", st.Title)
	assert.Equal(t, types.MutatorChain{"deburr", "noCase"}, st.Mutators[types.FieldTitle])
	assert.Equal(t, types.MutatorChain{"doiRewrite"}, st.Mutators[types.FieldDOI])
	require.Len(t, st.Steps, 2)
	assert.True(t, st.Steps[0].SkipsOmitted())
	assert.False(t, st.Steps[1].SkipsOmitted())
	assert.Empty(t, Validate(st, comparison.Default(), mutate.Default()))
}

func TestLoadDirMissing(t *testing.T) {
	names, err := NewStore().LoadDir(filepath.Join(t.TempDir(), "does-not-exist"))
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestLoadFileMalformed(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "broken.yaml", "steps: [unterminated\n")

	_, _, err := LoadFile(filepath.Join(dir, "broken.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing strategy file")
}

func TestWriteFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doiOnly.yml")
	st, _ := Presets().Lookup(DOIOnly)
	require.NoError(t, WriteFile(path, st))

	name, got, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "doiOnly", name)
	assert.Equal(t, st, got)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
