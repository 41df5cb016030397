// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mutate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/dedupe-engine/pkg/types"
)

func TestAuthorRewrite(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Bill Gates", "B. Gates"},
		{"William Henry Gates", "W. Gates"},
		{"Bill Gates, Steven Anthony Balmer", "B. Gates, S. Balmer"},
		{"B Gates, S Balmer", "B. Gates, S. Balmer"},
		{"Gates B., Balmer S.", "B. Gates, S. Balmer"},
		{"Gates BH, Balmer SF", "B. Gates, S. Balmer"},
		{"W H Gates, S F Balmer", "W. Gates, S. Balmer"},
		{"Gates, B; Balmer S", "B. Gates, S. Balmer"},
		{"Gates, Bill; Balmer Steven", "B. Gates, S. Balmer"},
		{"Gates, B. H.; Balmer S. F.", "B. Gates, S. Balmer"},
		{"Bill Gates, Steven Balmer, et al.", "B. Gates, S. Balmer"},
		{"Gates, B; Balmer, S; et al", "B. Gates, S. Balmer"},
		{"", ""},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, AuthorRewrite(tc.in, nil))
		})
	}
}

func TestAuthorRewriteKeepsUnrecognizedNames(t *testing.T) {
	assert.Equal(t, "B. Gates, 1234", AuthorRewrite("Bill Gates, 1234", nil))
}

func TestAuthorRewriteSingle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Gates, B", "B. Gates"},
		{"Gates, Bill", "B. Gates"},
		{"Gates, B. H. M", "B. Gates"},
		{"Bill Gates", "B. Gates"},
		{"W H Gates", "W. Gates"},
		{"Gates BH", "B. Gates"},
		{"De Arruda, L. H. F", "L. De Arruda"},
		{"de Arruda, L. H. F", "L. De Arruda"},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, AuthorRewriteSingle(tc.in, nil))
		})
	}
}

func TestTextMutators(t *testing.T) {
	tests := []struct {
		name string
		fn   Func
		in   string
		want string
	}{
		{"deburr", Deburr, "ÕÑÎÔÑ", "ONION"},
		{"deburr ligature", Deburr, "Æther straße", "Aether strasse"},
		{"deburr plain", Deburr, "plain ascii", "plain ascii"},
		{"stripHtmlTags", StripHTMLTags, "CO<sup>2</sup>", "CO2"},
		{"stripHtmlTags nested", StripHTMLTags, "<i>In vitro</i> <b>study</b>", "In vitro study"},
		{"stripHtmlTags without markup", StripHTMLTags, "a > b", "a > b"},
		{"alphaNumericOnly", AlphaNumericOnly, "one$two_three()", "one two three "},
		{"noSpace", NoSpace, " one two\tthree\n", "onetwothree"},
		{"noCase", NoCase, "The Lancet", "the lancet"},
		{"numericOnly", NumericOnly, "2019a (online)", "2019"},
		{"removeEnclosingBrackets", RemoveEnclosingBrackets, "[Translated title]", "Translated title"},
		{"removeEnclosingBrackets nested", RemoveEnclosingBrackets, "({Title})", "Title"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.fn(tc.in, nil))
		})
	}
}

func TestDOIRewrite(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		original types.Record
		want     string
	}{
		{name: "bare doi", in: "10.1000/182", want: "https://doi.org/10.1000/182"},
		{name: "https kept", in: "https://doi.org/10.1000/182", want: "https://doi.org/10.1000/182"},
		{name: "http upgraded", in: "http://doi.org/10.1000/182", want: "https://doi.org/10.1000/182"},
		{
			name:     "recovered from urls",
			original: types.Record{"urls": []any{"https://example.com/paper", "http://doi.org/10.1234/123"}},
			want:     "https://doi.org/10.1234/123",
		},
		{
			name:     "urls without doi",
			original: types.Record{"urls": []string{"https://example.com/paper"}},
			want:     "",
		},
		{name: "nothing to recover", want: ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DOIRewrite(tc.in, tc.original))
		})
	}
}

func TestConsistentPageNumbering(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"244-58", "244-258"},
		{"244-8", "244-248"},
		{"244-258", "244-258"},
		{"445-59", "445-459"},
		{"12–15", "12-15"},
		{"9-112", "9-112"},
		{"1", "1"},
		{"", ""},
		{"e1234", ""},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, ConsistentPageNumbering(tc.in, nil))
		})
	}
}

func TestRegistryChain(t *testing.T) {
	r := Default()

	fn, err := r.Chain([]string{"deburr", "alphaNumericOnly", "noCase"})
	require.NoError(t, err)
	assert.Equal(t, "nono  a study", fn("Ñoño: A Study", nil))

	empty, err := r.Chain(nil)
	require.NoError(t, err)
	assert.Equal(t, "As Is", empty("As Is", nil))
}

func TestRegistryUnknownMutator(t *testing.T) {
	r := Default()

	_, err := r.Chain([]string{"noCase", "shout"})
	require.ErrorIs(t, err, ErrUnknownMutator)
	assert.Contains(t, err.Error(), `"shout"`)

	assert.False(t, r.Has("shout"))
	assert.True(t, r.Has("doiRewrite"))
}

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry()
	r.Register("upper", "Upper", "Upper-case", func(v string, _ types.Record) string {
		return v + "!"
	})

	m, err := r.Lookup("upper")
	require.NoError(t, err)
	assert.Equal(t, "Upper", m.Title)
	assert.Equal(t, "x!", m.Handler("x", nil))
	assert.Equal(t, []string{"upper"}, r.Names())
}

func TestDefaultNames(t *testing.T) {
	assert.Equal(t, []string{
		"alphaNumericOnly",
		"authorRewrite",
		"authorRewriteSingle",
		"consistentPageNumbering",
		"deburr",
		"doiRewrite",
		"noCase",
		"noSpace",
		"numericOnly",
		"removeEnclosingBrackets",
		"stripHtmlTags",
	}, Default().Names())
}
