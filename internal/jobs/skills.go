package jobs

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseSkills resolves the heterogeneous skills field into an ordered list
// of strings. The backend stores skills as a JSON list, but historic rows
// carry a JSON-encoded string or a bare comma-delimited string, and some
// carry null.
//
// Resolution order:
//  1. empty or JSON null → empty list
//  2. JSON array → string elements pass through unchanged, null elements
//     are skipped, other scalars are stringified
//  3. JSON string → comma-split of the decoded text
//  4. anything else → comma-split of the raw text
//
// ParseSkills never fails: malformed input degrades to a best-effort list.
func ParseSkills(raw json.RawMessage) []string {
	text := strings.TrimSpace(string(raw))
	if text == "" || text == "null" {
		return []string{}
	}

	var items []any
	if err := json.Unmarshal(raw, &items); err == nil {
		out := make([]string, 0, len(items))
		for _, it := range items {
			switch v := it.(type) {
			case string:
				out = append(out, v)
			case nil:
				// skip null elements
			default:
				out = append(out, fmt.Sprint(v))
			}
		}
		return out
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		s = text
	}
	return splitCommaList(s)
}

// splitCommaList splits on commas, trims each element and drops empties.
func splitCommaList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
