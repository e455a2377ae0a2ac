// Package signal scans turns for keyword signals indicating save-worthy or
// search-worthy content.
//
// Matching is deliberately permissive: case-insensitive literal substring
// matching over the combined user+assistant text, no stemming, no word
// boundaries. The keyword lists are configuration, not code.
package signal

import (
	"sort"
	"strings"

	"github.com/mnemo-sh/mnemo/internal/transcript"
)

// Detect returns the indices of turns whose combined user+assistant text
// contains at least one keyword.
func Detect(turns []transcript.Turn, keywords []string) []int {
	var hits []int
	for i, turn := range turns {
		text := strings.ToLower(turn.UserText + "\n" + turn.AssistantText)
		for _, kw := range keywords {
			if kw == "" {
				continue
			}
			if strings.Contains(text, strings.ToLower(kw)) {
				hits = append(hits, i)
				break
			}
		}
	}
	return hits
}

// Window expands each signal index into the closed range
// [max(0, idx-before), idx] and returns the union of all ranges,
// deduplicated, sorted ascending. Overlapping windows merge rather than
// duplicate, so every signal turn arrives with its preceding context
// exactly once.
func Window(signalIndices []int, before int) []int {
	if before < 0 {
		before = 0
	}
	seen := map[int]bool{}
	for _, idx := range signalIndices {
		start := idx - before
		if start < 0 {
			start = 0
		}
		for i := start; i <= idx; i++ {
			seen[i] = true
		}
	}

	out := make([]int, 0, len(seen))
	for i := range seen {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}
