// Package strings holds small helpers for list-valued flags and env vars.
package strings

import "strings"

// Clean trims each value and drops blanks and repeats, keeping first-seen
// order.
func Clean(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
