// Package scorer implements bounded string similarity scoring and best-match
// selection over candidate lists.
package scorer

import (
	"math"

	"github.com/agnivade/levenshtein"
)

// Best is a best-match selection result.
type Best struct {
	Text  string
	Score int
	Index int
}

// Ratio returns a similarity score in [0,100] between two strings, based on
// normalized Levenshtein edit distance over runes. Identical strings score
// 100; an empty string against a non-empty one scores 0.
func Ratio(a, b string) int {
	if a == b {
		return 100
	}
	la := len([]rune(a))
	lb := len([]rune(b))
	longest := la
	if lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 100
	}
	d := levenshtein.ComputeDistance(a, b)
	return int(math.Round(100 * (1 - float64(d)/float64(longest))))
}

// BestMatch scores query against every candidate and returns the single
// highest-scoring one, or nil when the top score falls below threshold. Ties
// are broken by first-encountered order in the candidate slice, so results
// are deterministic for a fixed input ordering. An empty query never invokes
// the scorer and never matches.
func BestMatch(query string, candidates []string, threshold int) *Best {
	if query == "" || len(candidates) == 0 {
		return nil
	}

	best := Best{Index: -1, Score: -1}
	for i, cand := range candidates {
		if s := Ratio(query, cand); s > best.Score {
			best = Best{Text: cand, Score: s, Index: i}
		}
	}

	if best.Score < threshold {
		return nil
	}
	return &best
}
