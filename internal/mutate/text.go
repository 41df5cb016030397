// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mutate

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/pdiddy/dedupe-engine/pkg/types"
)

var (
	punctuationRe = regexp.MustCompile(`[^0-9A-Za-z\s]+`)
	whitespaceRe  = regexp.MustCompile(`\s+`)
	nonDigitRe    = regexp.MustCompile(`[^0-9]+`)
	htmlTagRe     = regexp.MustCompile(`<[^>]+>`)
)

// Letters that have no canonical decomposition but still need folding to
// basic latin.
var latinFolds = strings.NewReplacer(
	"Æ", "Ae", "æ", "ae",
	"Ø", "O", "ø", "o",
	"Œ", "Oe", "œ", "oe",
	"Đ", "D", "đ", "d",
	"Ð", "D", "ð", "d",
	"Ł", "L", "ł", "l",
	"Þ", "Th", "þ", "th",
	"ß", "ss",
	"ı", "i",
)

// AlphaNumericOnly replaces every run of punctuation with a single space.
func AlphaNumericOnly(v string, _ types.Record) string {
	return punctuationRe.ReplaceAllString(v, " ")
}

// NoSpace removes all whitespace.
func NoSpace(v string, _ types.Record) string {
	return whitespaceRe.ReplaceAllString(v, "")
}

// NoCase lower-cases the value.
func NoCase(v string, _ types.Record) string {
	return strings.ToLower(v)
}

// NumericOnly keeps only ASCII digits.
func NumericOnly(v string, _ types.Record) string {
	return nonDigitRe.ReplaceAllString(v, "")
}

// RemoveEnclosingBrackets trims wrapping brackets and parentheses, as seen
// around translated titles.
func RemoveEnclosingBrackets(v string, _ types.Record) string {
	return strings.Trim(v, "()[]{}")
}

// Deburr folds accented latin letters to their basic form and drops
// combining diacritical marks: "ÕÑÎÔÑ" becomes "ONION".
func Deburr(v string, _ types.Record) string {
	// Transformers carry state, so the chain is built per call.
	strip := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(strip, v)
	if err != nil {
		return latinFolds.Replace(v)
	}
	return latinFolds.Replace(out)
}

// StripHTMLTags removes markup such as "CO<sup>2</sup>" and returns the
// text content. Values without a tag opener are returned unchanged.
func StripHTMLTags(v string, _ types.Record) string {
	if !strings.Contains(v, "<") {
		return v
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(v))
	if err != nil {
		return htmlTagRe.ReplaceAllString(v, "")
	}
	return doc.Text()
}
