package search

import (
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Highlight returns the byte offsets in text that the query's terms match
// as subsequences, for display only. Ranking never uses it.
func Highlight(q, text string) []int {
	if strings.TrimSpace(q) == "" || text == "" {
		return nil
	}

	seen := map[int]bool{}
	for _, pattern := range parseQuery(strings.ToLower(q), bitapOptions{}).plainTerms() {
		for _, m := range fuzzy.Find(pattern, []string{text}) {
			for _, i := range m.MatchedIndexes {
				seen[i] = true
			}
		}
	}
	if len(seen) == 0 {
		return nil
	}

	out := make([]int, 0, len(seen))
	for i := range seen {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}
