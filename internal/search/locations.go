package search

import (
	"sort"
	"strings"
)

// Locations lists the distinct shop locations in the corpus, compared the same
// way the location filter compares them, keeping the first spelling seen.
func Locations(corpus []Shop) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, shop := range corpus {
		display := strings.TrimSpace(shop.Location)
		key := NormalizeLocation(display)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, display)
	}
	sort.Slice(out, func(i, j int) bool {
		return NormalizeLocation(out[i]) < NormalizeLocation(out[j])
	})
	return out
}
