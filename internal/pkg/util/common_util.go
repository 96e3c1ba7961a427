package util

import (
	"strings"
)

// NormalizeSet trims values and drops empties and duplicates, keeping first-seen order.
func NormalizeSet(values []string) []string {
	set := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))

	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, exists := set[v]; !exists {
			set[v] = struct{}{}
			out = append(out, v)
		}
	}

	return out
}

// NormalizeTags is NormalizeSet over lowercase tags without a leading '#'.
func NormalizeTags(tags []string) []string {
	cleaned := make([]string, 0, len(tags))
	for _, t := range tags {
		cleaned = append(cleaned, strings.ToLower(strings.TrimLeft(strings.TrimSpace(t), "#")))
	}
	return NormalizeSet(cleaned)
}

func PtrString(s string) *string {
	return &s
}
