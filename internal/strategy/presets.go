// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package strategy

import "github.com/pdiddy/dedupe-engine/pkg/types"

// Preset strategy names.
const (
	Clark       = "clark"
	Bramer      = "bramer"
	DOIOnly     = "doiOnly"
	Forbes      = "forbes"
	ForbesMinFn = "forbesMinFn"
	ForbesMinFp = "forbesMinFp"
	Random      = "random"
)

func exact(sort types.Field, fields ...types.Field) types.Step {
	return types.Step{Fields: fields, Sort: sort, Comparison: "exact"}
}

// presets builds fresh copies of the built-in strategies so callers of one
// store cannot alter another's tables.
func presets() map[string]types.Strategy {
	clarkMutators := map[types.Field]types.MutatorChain{
		types.FieldAuthors: {"authorRewrite"},
		types.FieldDOI:     {"doiRewrite"},
		types.FieldTitle:   {"deburr", "alphaNumericOnly", "noCase"},
		types.FieldYear:    {"numericOnly"},
	}

	forbesMutators := func() map[types.Field]types.MutatorChain {
		return map[types.Field]types.MutatorChain{
			types.FieldAuthors: {"authorRewriteSingle"},
			types.FieldDOI:     {"doiRewrite"},
			types.FieldTitle:   {"stripHtmlTags", "deburr", "alphaNumericOnly", "noCase", "noSpace"},
			types.FieldJournal: {"noCase"},
			types.FieldYear:    {"numericOnly"},
			types.FieldPages:   {"consistentPageNumbering"},
		}
	}

	bramerMutators := map[types.Field]types.MutatorChain{types.FieldPages: {"consistentPageNumbering"}}
	for f, chain := range clarkMutators {
		bramerMutators[f] = append(types.MutatorChain(nil), chain...)
	}

	noSkip := false

	return map[string]types.Strategy{
		Clark: {
			Title:       "IEBH Deduplication Sweep",
			Description: "IEBH recommended deduplication four step sweep method",
			Mutators:    clarkMutators,
			Steps: []types.Step{
				exact(types.FieldDOI, types.FieldDOI),
				exact(types.FieldTitle, types.FieldAuthors, types.FieldYear, types.FieldTitle, types.FieldVolume, types.FieldIssue, types.FieldType),
				exact(types.FieldTitle, types.FieldTitle),
				exact(types.FieldAuthors, types.FieldAuthors, types.FieldYear),
			},
		},
		Bramer: {
			Title:       "Bramer et. al.",
			Description: `<a href="https://doi.org/10.3163/1536-5050.104.3.014">Bramer et. al.</a> deduplication sweep strategy`,
			Mutators:    bramerMutators,
			Steps: []types.Step{
				exact(types.FieldDOI, types.FieldDOI),
				exact(types.FieldTitle, types.FieldAuthors, types.FieldYear, types.FieldTitle, types.FieldJournal),
				exact(types.FieldPages, types.FieldAuthors, types.FieldYear, types.FieldTitle, types.FieldPages),
				exact(types.FieldTitle, types.FieldTitle, types.FieldVolume, types.FieldPages),
				exact(types.FieldTitle, types.FieldAuthors, types.FieldVolume, types.FieldPages),
				exact(types.FieldTitle, types.FieldYear, types.FieldVolume, types.FieldIssue, types.FieldPages),
				exact(types.FieldTitle, types.FieldTitle),
				exact(types.FieldTitle, types.FieldAuthors, types.FieldYear),
			},
		},
		DOIOnly: {
			Title:       "DOI only",
			Description: "Compare references against DOI fields only",
			Mutators:    map[types.Field]types.MutatorChain{types.FieldDOI: {"doiRewrite"}},
			Steps:       []types.Step{exact(types.FieldDOI, types.FieldDOI)},
		},
		Forbes: {
			Title:       "Forbes Automated Deduplication Sweep (Balanced)",
			Description: "Deduplication Sweep with balance between False Positives and False Negatives",
			Mutators:    forbesMutators(),
			Steps: []types.Step{
				exact(types.FieldTitle, types.FieldTitle, types.FieldVolume),
				exact(types.FieldTitle, types.FieldTitle, types.FieldYear),
				exact(types.FieldPages, types.FieldPages, types.FieldAuthors),
				exact(types.FieldPages, types.FieldPages, types.FieldTitle),
				exact(types.FieldPages, types.FieldPages, types.FieldJournal, types.FieldVolume, types.FieldAuthors),
			},
		},
		ForbesMinFp: {
			Title:       "Forbes Automated Deduplication Sweep (Cautious)",
			Description: "Deduplication Sweep with Low Rate of False Positives",
			Mutators:    forbesMutators(),
			Steps: []types.Step{
				exact(types.FieldTitle, types.FieldTitle, types.FieldVolume, types.FieldAuthors),
				exact(types.FieldTitle, types.FieldTitle, types.FieldDOI),
				exact(types.FieldPages, types.FieldPages, types.FieldAuthors, types.FieldVolume),
				exact(types.FieldPages, types.FieldPages, types.FieldTitle),
				exact(types.FieldPages, types.FieldPages, types.FieldJournal, types.FieldVolume, types.FieldAuthors),
			},
		},
		ForbesMinFn: {
			Title:       "Forbes Automated Deduplication Sweep (Thorough)",
			Description: "Deduplication Sweep with Low Rate of False Negatives",
			Mutators: map[types.Field]types.MutatorChain{
				types.FieldAuthors:  {"authorRewriteSingle"},
				types.FieldDOI:      {"doiRewrite", "noCase"},
				types.FieldTitle:    {"stripHtmlTags", "alphaNumericOnly", "noCase", "noSpace"},
				types.FieldAbstract: {"stripHtmlTags", "alphaNumericOnly", "noCase", "noSpace"},
				types.FieldJournal:  {"noCase"},
				types.FieldYear:     {"numericOnly"},
				types.FieldPages:    {"consistentPageNumbering"},
			},
			Steps: []types.Step{
				exact(types.FieldDOI, types.FieldDOI, types.FieldPages),
				exact(types.FieldDOI, types.FieldDOI, types.FieldTitle),
				exact(types.FieldDOI, types.FieldDOI, types.FieldAuthors),
				exact(types.FieldAbstract, types.FieldAbstract),
				exact(types.FieldTitle, types.FieldTitle, types.FieldVolume),
				exact(types.FieldTitle, types.FieldTitle, types.FieldYear),
				exact(types.FieldPages, types.FieldPages, types.FieldAuthors),
				exact(types.FieldPages, types.FieldPages, types.FieldTitle),
				{Fields: []types.Field{types.FieldTitle, types.FieldJournal, types.FieldYear}, Sort: types.FieldTitle, Comparison: "exactTruncate"},
				exact(types.FieldPages, types.FieldPages, types.FieldJournal, types.FieldVolume, types.FieldAuthors),
			},
		},
		Random: {
			Title:       "Random guess",
			Description: "Test only strategy that is no better than flipping a coin",
			Steps: []types.Step{
				{Fields: []types.Field{types.FieldDOI}, Sort: types.FieldDOI, Comparison: "random", SkipOmitted: &noSkip},
			},
		},
	}
}
