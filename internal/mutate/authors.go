// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mutate

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pdiddy/dedupe-engine/pkg/types"
)

// Author name shapes, tried in order. Each must expose "first" and "last"
// groups; the rewritten form is "F. Last".
var (
	// Last, F. M.
	lastCommaFirstRe = regexp.MustCompile(`^(?P<last>[A-Za-z\s]+),+\s+(?P<first>[A-Z])`)
	// Last, F (inside a semicolon separated list)
	listLastFirstRe = regexp.MustCompile(`^(?P<last>[A-Z][a-z]+),?\s+(?P<first>[A-Z])`)

	nameShapes = []*regexp.Regexp{
		// First Last
		regexp.MustCompile(`^(?P<first>[A-Z][a-z]+)\s+(?P<last>[A-Z][a-z]+)$`),
		// F. Last, F. M. Last
		regexp.MustCompile(`^(?P<first>[A-Z])\.?\s+(?P<middle>.*?)\s*(?P<last>[A-Z][a-z]+)$`),
		// First Middle Last
		regexp.MustCompile(`^(?P<first>[A-Z][a-z]+?)\s+(?P<middle>.*?)\s*(?P<last>[A-Z][a-z]+)$`),
		// Last F.
		regexp.MustCompile(`^(?P<last>[A-Z][a-z]+)\s+(?P<middle>.*?)\s*(?P<first>[A-Z]\.?)`),
	}

	singleNameShapes = append([]*regexp.Regexp{lastCommaFirstRe}, nameShapes...)

	semicolonSplitRe = regexp.MustCompile(`\s*;\s*`)
	commaSplitRe     = regexp.MustCompile(`\s*,\s*`)
	etAlRe           = regexp.MustCompile(`(?i)^et\.?\s*al`)
)

// AuthorRewrite normalizes an author list into "F. Last, F. Last". Lists
// containing a semicolon are read as "Last, F; Last, F"; everything else
// is split on commas and each name is matched against the known shapes.
// A trailing "et al." is dropped. Names that match no shape are kept.
func AuthorRewrite(v string, _ types.Record) string {
	if strings.Contains(v, ";") {
		names := dropEtAl(semicolonSplitRe.Split(v, -1))
		for i, name := range names {
			if m := matchGroups(listLastFirstRe, name); m != nil {
				names[i] = initialAndLast(m)
			}
		}
		return strings.Join(names, ", ")
	}

	names := dropEtAl(commaSplitRe.Split(v, -1))
	for i, name := range names {
		names[i] = rewriteName(name, nameShapes)
	}
	return strings.Join(names, ", ")
}

// AuthorRewriteSingle normalizes a single author name into "F. Last".
func AuthorRewriteSingle(v string, _ types.Record) string {
	return rewriteName(v, singleNameShapes)
}

func rewriteName(name string, shapes []*regexp.Regexp) string {
	for _, re := range shapes {
		if m := matchGroups(re, name); m != nil {
			return initialAndLast(m)
		}
	}
	return name
}

func dropEtAl(names []string) []string {
	for len(names) > 0 && etAlRe.MatchString(names[len(names)-1]) {
		names = names[:len(names)-1]
	}
	return names
}

// matchGroups returns the named groups of the first match, or nil.
func matchGroups(re *regexp.Regexp, s string) map[string]string {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return nil
	}
	groups := make(map[string]string, len(m))
	for i, name := range re.SubexpNames() {
		if name != "" {
			groups[name] = m[i]
		}
	}
	return groups
}

func initialAndLast(groups map[string]string) string {
	initial := ""
	if r, _ := utf8.DecodeRuneInString(groups["first"]); r != utf8.RuneError {
		initial = string(unicode.ToUpper(r))
	}
	return initial + ". " + upperFirst(groups["last"])
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
