package config

import (
	"sort"
	"strings"
)

// maxSuggestions bounds how many did-you-mean candidates a diagnostic carries.
const maxSuggestions = 3

// Suggest returns the candidates closest to the unknown name, best first,
// for did-you-mean diagnostics. Candidates further than a third of the
// name's length (minimum 2 edits) are considered unrelated and dropped.
func Suggest(name string, candidates []string) []string {
	type scored struct {
		name string
		dist int
	}

	limit := max(2, len(name)/3)

	var matches []scored

	for _, candidate := range candidates {
		if candidate == name {
			continue
		}

		dist := levenshtein(strings.ToLower(name), strings.ToLower(candidate))
		if dist <= limit {
			matches = append(matches, scored{name: candidate, dist: dist})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].dist != matches[j].dist {
			return matches[i].dist < matches[j].dist
		}

		return matches[i].name < matches[j].name
	})

	if len(matches) > maxSuggestions {
		matches = matches[:maxSuggestions]
	}

	result := make([]string, len(matches))
	for i, m := range matches {
		result[i] = m.name
	}

	return result
}

// levenshtein computes the edit distance between two strings using two
// rows instead of the full matrix.
func levenshtein(a, b string) int {
	if a == b {
		return 0
	}

	if len(a) == 0 {
		return len(b)
	}

	if len(b) == 0 {
		return len(a)
	}

	// Ensure a is the shorter string for space optimization
	if len(a) > len(b) {
		a, b = b, a
	}

	prev := make([]int, len(a)+1)
	curr := make([]int, len(a)+1)

	for i := range prev {
		prev[i] = i
	}

	for j := 1; j <= len(b); j++ {
		curr[0] = j

		for i := 1; i <= len(a); i++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}

			curr[i] = min3(
				prev[i]+1,      // deletion
				curr[i-1]+1,    // insertion
				prev[i-1]+cost, // substitution
			)
		}

		prev, curr = curr, prev
	}

	return prev[len(a)]
}

func min3(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}

		return c
	}

	if b < c {
		return b
	}

	return c
}
