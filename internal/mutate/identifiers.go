// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mutate

import (
	"regexp"
	"strings"

	"github.com/pdiddy/dedupe-engine/pkg/types"
)

const doiBase = "https://doi.org/"

var (
	// doiURLRe matches resolver URLs that carry a DOI.
	doiURLRe = regexp.MustCompile(`^https?://doi\.org/`)

	// pageRangeRe matches "244", "244-58", "244–258" and similar.
	pageRangeRe = regexp.MustCompile(`^(?P<from>\d+)\s*(\p{Pd}+(?P<to>\d+)\s*)?$`)
)

// DOIRewrite turns partial DOIs into https resolver URLs. When the value
// is empty it looks for a misfiled DOI URL in the original record's urls.
func DOIRewrite(v string, original types.Record) string {
	if v != "" {
		switch {
		case strings.HasPrefix(v, "https://"):
			return v
		case strings.HasPrefix(v, "http://"):
			return "https://" + strings.TrimPrefix(v, "http://")
		default:
			return doiBase + v
		}
	}

	for _, u := range original.URLs() {
		if doiURLRe.MatchString(u) {
			if strings.HasPrefix(u, "http://") {
				return "https://" + strings.TrimPrefix(u, "http://")
			}
			return u
		}
	}
	return ""
}

// ConsistentPageNumbering expands abbreviated page ranges so that
// "244-58" and "244-258" compare equal. A single page is returned as is;
// anything unparseable becomes "".
func ConsistentPageNumbering(v string, _ types.Record) string {
	m := matchGroups(pageRangeRe, v)
	if m == nil {
		return ""
	}
	from, to := m["from"], m["to"]
	if to == "" {
		return from
	}
	offset := max(len(from)-len(to), 0)
	return from + "-" + from[:offset] + to
}
