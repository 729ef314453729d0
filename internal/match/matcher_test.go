package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brennershearn-bot/Arb-Bot/internal/domain"
)

func q(venue, id, title string) domain.MarketQuote {
	return domain.MarketQuote{Venue: venue, MarketID: id, Title: title}
}

func TestPairs_AcceptsAtExactThreshold(t *testing.T) {
	// Similarity("abcd", "abce") is exactly 0.75; the threshold is inclusive.
	m := NewMatcher(0.75)
	pairs := m.Pairs(
		[]domain.MarketQuote{q("kalshi", "K1", "abcd")},
		[]domain.MarketQuote{q("polymarket", "P1", "abce")},
	)
	require.Len(t, pairs, 1)
	assert.InDelta(t, 0.75, pairs[0].Similarity, 1e-9)
}

func TestPairs_RejectsBelowThreshold(t *testing.T) {
	m := NewMatcher(0.76)
	pairs := m.Pairs(
		[]domain.MarketQuote{q("kalshi", "K1", "abcd")},
		[]domain.MarketQuote{q("polymarket", "P1", "abce")},
	)
	assert.Empty(t, pairs)
}

func TestPairs_CaseFolding(t *testing.T) {
	m := NewMatcher(0.99)
	pairs := m.Pairs(
		[]domain.MarketQuote{q("kalshi", "K1", "Will BTC Close Above 100K?")},
		[]domain.MarketQuote{q("polymarket", "P1", "will btc close above 100k?")},
	)
	require.Len(t, pairs, 1)
	assert.Equal(t, 1.0, pairs[0].Similarity)
}

func TestPairs_MultipleMatchesAllForwarded(t *testing.T) {
	m := NewMatcher(0.9)
	pairs := m.Pairs(
		[]domain.MarketQuote{q("kalshi", "K1", "fed cuts rates in march")},
		[]domain.MarketQuote{
			q("polymarket", "P1", "fed cuts rates in march"),
			q("polymarket", "P2", "fed cuts rates in march?"),
		},
	)
	assert.Len(t, pairs, 2)
}

func TestPairs_EmptyInputs(t *testing.T) {
	m := NewMatcher(0.72)
	assert.Empty(t, m.Pairs(nil, []domain.MarketQuote{q("polymarket", "P1", "x")}))
	assert.Empty(t, m.Pairs([]domain.MarketQuote{q("kalshi", "K1", "x")}, nil))
}
