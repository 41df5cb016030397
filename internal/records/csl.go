package records

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/dedupe-engine/pkg/types"
)

// CSLItem represents a bibliographic entry in CSL (Citation Style Language)
// format. The field names and structure follow the CSL-YAML schema so that
// bibliographies exported by Pandoc and reference managers can be read
// directly.
type CSLItem struct {
	ID             string         `yaml:"id,omitempty"`
	Type           string         `yaml:"type,omitempty"`
	Title          string         `yaml:"title,omitempty"`
	Author         []CSLName      `yaml:"author,omitempty"`
	Abstract       string         `yaml:"abstract,omitempty"`
	Issued         *CSLDate       `yaml:"issued,omitempty"`
	DOI            string         `yaml:"DOI,omitempty"`
	ContainerTitle string         `yaml:"container-title,omitempty"`
	Volume         string         `yaml:"volume,omitempty"`
	Issue          string         `yaml:"issue,omitempty"`
	Page           string         `yaml:"page,omitempty"`
	URL            string         `yaml:"URL,omitempty"`
	Custom         map[string]any `yaml:"custom,omitempty"`
}

// CSLName represents a person's name in CSL format.
type CSLName struct {
	Family  string `yaml:"family,omitempty"`
	Given   string `yaml:"given,omitempty"`
	Literal string `yaml:"literal,omitempty"`
}

// String renders the name as "Given Family".
func (n CSLName) String() string {
	if n.Literal != "" {
		return n.Literal
	}
	return strings.TrimSpace(n.Given + " " + n.Family)
}

// CSLDate represents a date in CSL format using date-parts.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

// Record keys that map onto CSL variables; everything else travels in
// the custom block.
var cslKeys = map[string]bool{
	"id": true, "type": true, "title": true, "authors": true, "abstract": true, "year": true,
	"doi": true, "journal": true, "volume": true, "issue": true, "pages": true, "urls": true,
}

var authorListSep = regexp.MustCompile(`\s*;\s*`)

func readCSL(r io.Reader) ([]types.Record, error) {
	var items []CSLItem
	if err := yaml.NewDecoder(r).Decode(&items); err != nil {
		if err == io.EOF {
			return []types.Record{}, nil
		}
		return nil, fmt.Errorf("parsing csl: %w", err)
	}
	recs := make([]types.Record, len(items))
	for i, item := range items {
		recs[i] = fromCSLItem(item)
	}
	return recs, nil
}

func writeCSL(w io.Writer, recs []types.Record) error {
	items := make([]CSLItem, len(recs))
	for i, rec := range recs {
		items[i] = toCSLItem(rec, i)
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(items)
}

// fromCSLItem flattens a CSL entry into a Record using the engine's
// field names. Authors become one "Given Family, Given Family" string.
func fromCSLItem(item CSLItem) types.Record {
	rec := types.Record{}
	for k, v := range item.Custom {
		rec[k] = v
	}
	set := func(key, value string) {
		if value != "" {
			rec[key] = value
		}
	}
	set("id", item.ID)
	set(string(types.FieldType), item.Type)
	set(string(types.FieldTitle), item.Title)
	set(string(types.FieldAbstract), item.Abstract)
	set(string(types.FieldDOI), item.DOI)
	set(string(types.FieldJournal), item.ContainerTitle)
	set(string(types.FieldVolume), item.Volume)
	set(string(types.FieldIssue), item.Issue)
	set(string(types.FieldPages), item.Page)

	if len(item.Author) > 0 {
		names := make([]string, 0, len(item.Author))
		for _, a := range item.Author {
			if s := a.String(); s != "" {
				names = append(names, s)
			}
		}
		set(string(types.FieldAuthors), strings.Join(names, ", "))
	}
	if item.Issued != nil && len(item.Issued.DateParts) > 0 && len(item.Issued.DateParts[0]) > 0 {
		rec[string(types.FieldYear)] = item.Issued.DateParts[0][0]
	}
	if item.URL != "" {
		rec[types.KeyURLs] = []any{item.URL}
	}
	return rec
}

// toCSLItem converts a Record back to CSL. Keys without a CSL variable,
// including dedupe annotations, are kept under custom.
func toCSLItem(rec types.Record, index int) CSLItem {
	item := CSLItem{
		ID:             rec.Text("id"),
		Type:           rec.Text(string(types.FieldType)),
		Title:          rec.Text(string(types.FieldTitle)),
		Abstract:       rec.Text(string(types.FieldAbstract)),
		DOI:            rec.Text(string(types.FieldDOI)),
		ContainerTitle: rec.Text(string(types.FieldJournal)),
		Volume:         rec.Text(string(types.FieldVolume)),
		Issue:          rec.Text(string(types.FieldIssue)),
		Page:           rec.Text(string(types.FieldPages)),
	}
	if item.ID == "" {
		item.ID = fmt.Sprintf("ref-%d", index+1)
	}
	if item.Type == "" {
		item.Type = "article-journal"
	}
	for _, a := range authorNames(rec[string(types.FieldAuthors)]) {
		item.Author = append(item.Author, parseAuthorName(a))
	}
	if year, ok := rec.Number(string(types.FieldYear)); ok {
		item.Issued = &CSLDate{DateParts: [][]int{{year}}}
	}
	if urls := rec.URLs(); len(urls) > 0 {
		item.URL = urls[0]
	}
	for k, v := range rec {
		if cslKeys[k] {
			continue
		}
		if item.Custom == nil {
			item.Custom = map[string]any{}
		}
		item.Custom[k] = v
	}
	return item
}

// authorNames splits an authors value into individual names. Lists are
// taken as-is; strings are split on semicolons when present, otherwise
// on commas.
func authorNames(v any) []string {
	var names []string
	switch val := v.(type) {
	case []string:
		names = val
	case []any:
		for _, item := range val {
			if s, ok := item.(string); ok {
				names = append(names, s)
			}
		}
	case string:
		if strings.Contains(val, ";") {
			names = authorListSep.Split(val, -1)
		} else {
			names = strings.Split(val, ",")
		}
	}
	var out []string
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// parseAuthorName splits a full name string into CSL family/given parts.
// It splits on the last space: everything before is given, the last token
// is family. Single-token names use the literal field.
func parseAuthorName(name string) CSLName {
	name = strings.TrimSpace(name)
	if name == "" {
		return CSLName{}
	}
	idx := strings.LastIndex(name, " ")
	if idx < 0 {
		return CSLName{Literal: name}
	}
	return CSLName{
		Given:  name[:idx],
		Family: name[idx+1:],
	}
}
