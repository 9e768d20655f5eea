// Package sentiment scores messages against fixed positive and negative
// word lists.
package sentiment

import "strings"

// Scorer holds the two word lists. It is immutable after construction and
// safe to share across concurrent analyses.
type Scorer struct {
	positive []string
	negative []string
}

// NewScorer builds a scorer from the given word lists. Words are
// lower-cased; blank words are dropped.
func NewScorer(positive, negative []string) Scorer {
	return Scorer{
		positive: normalizeWords(positive),
		negative: normalizeWords(negative),
	}
}

// Score returns (positive words contained) - (negative words contained)
// for the message. Each list word counts at most once regardless of how
// many times it occurs, matching is substring containment, and the result
// is not clamped.
func (s Scorer) Score(text string) int {
	t := strings.ToLower(strings.TrimSpace(text))
	score := 0
	for _, w := range s.positive {
		if strings.Contains(t, w) {
			score++
		}
	}
	for _, w := range s.negative {
		if strings.Contains(t, w) {
			score--
		}
	}
	return score
}

func normalizeWords(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			out = append(out, w)
		}
	}
	return out
}
