// Package match pairs quotes across venues that likely reference the same
// underlying event, using fuzzy title similarity.
package match

import (
	"strings"

	"github.com/brennershearn-bot/Arb-Bot/internal/domain"
)

// Matcher scores quote pairs by fuzzy title similarity and accepts a pair iff
// the score is at or above the configured threshold.
type Matcher struct {
	threshold float64
}

// NewMatcher creates a Matcher with the given acceptance threshold.
func NewMatcher(threshold float64) *Matcher {
	return &Matcher{threshold: threshold}
}

// Pairs evaluates every cross-venue combination of the two quote sets. This
// is O(N*M) per cycle, acceptable at the expected set sizes (hundreds).
// Multiple matches for the same quote are all forwarded; each viable match is
// a separate opportunity candidate.
func (m *Matcher) Pairs(a, b []domain.MarketQuote) []domain.MatchedPair {
	var pairs []domain.MatchedPair
	for _, qa := range a {
		ta := strings.ToLower(qa.Title)
		for _, qb := range b {
			score := Similarity(ta, strings.ToLower(qb.Title))
			if score < m.threshold {
				continue
			}
			pairs = append(pairs, domain.MatchedPair{A: qa, B: qb, Similarity: score})
		}
	}
	return pairs
}
