// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the dedupe-engine.
// Records, strategies, and configuration live here so the engine, the
// file readers, the library store, and the CLI agree on one shape.
package types

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Field names a bibliographic field that strategies can mutate, sort by,
// and compare.
type Field string

const (
	FieldAuthors   Field = "authors"
	FieldTitle     Field = "title"
	FieldAbstract  Field = "abstract"
	FieldDOI       Field = "doi"
	FieldYear      Field = "year"
	FieldVolume    Field = "volume"
	FieldIssue     Field = "issue"
	FieldType      Field = "type"
	FieldPages     Field = "pages"
	FieldJournal   Field = "journal"
	FieldRefNumber Field = "refNumber"
)

// Keys outside the comparable field set that the engine still reads.
const (
	KeyRecNumber = "recNumber"
	KeyURLs      = "urls"
)

// Fields lists every comparable field in a stable order.
var Fields = []Field{
	FieldAuthors, FieldTitle, FieldAbstract, FieldDOI, FieldYear,
	FieldVolume, FieldIssue, FieldType, FieldPages, FieldJournal, FieldRefNumber,
}

// Valid reports whether f belongs to the closed field set.
func (f Field) Valid() bool {
	for _, known := range Fields {
		if f == known {
			return true
		}
	}
	return false
}

// Record is one bibliographic reference as an open field→value map.
// Values are whatever JSON or YAML decoding produced: strings, numbers,
// or lists. A Record handed to the engine is treated as read-only.
type Record map[string]any

// Clone returns a shallow copy of r.
func (r Record) Clone() Record {
	out := make(Record, len(r)+1)
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Text returns the value of key as a string suitable for feeding into a
// mutator chain. Lists are joined with "," and absent values are "".
func (r Record) Text(key string) string {
	return stringify(r[key], func(items []string) string {
		return strings.Join(items, ",")
	})
}

// Canonical returns the comparison form of an unmutated value. Lists are
// encoded as compact JSON so that list equality is element-wise and
// order-sensitive. Empty lists are "".
func (r Record) Canonical(key string) string {
	return stringify(r[key], func(items []string) string {
		data, _ := json.Marshal(items)
		return string(data)
	})
}

// URLs returns the record's url list, ignoring non-string entries.
func (r Record) URLs() []string {
	switch v := r[KeyURLs].(type) {
	case []string:
		return v
	case []any:
		urls := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				urls = append(urls, s)
			}
		}
		return urls
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	default:
		return nil
	}
}

// Number returns the value of key as an integer when it holds a whole
// number or a numeric string.
func (r Record) Number(key string) (int, bool) {
	switch v := r[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if v == math.Trunc(v) {
			return int(v), true
		}
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n), true
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n, true
		}
	}
	return 0, false
}

func stringify(v any, joinList func([]string) string) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []string:
		if len(val) == 0 {
			return ""
		}
		return joinList(val)
	case []any:
		if len(val) == 0 {
			return ""
		}
		items := make([]string, len(val))
		for i, item := range val {
			items[i] = stringify(item, joinList)
		}
		return joinList(items)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}
