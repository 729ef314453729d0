package domain

import "github.com/shopspring/decimal"

// MatchedPair is two quotes from different venues that likely reference the
// same underlying event. It is a derived, ephemeral value: pairs live only
// within one matching pass and are never persisted.
type MatchedPair struct {
	A          MarketQuote
	B          MarketQuote
	Similarity float64
}

// Opportunity is a matched pair with a chosen leg assignment whose net,
// cost-adjusted edge clears the configured minimum. BuyYes identifies the
// quote whose YES outcome we buy; BuyNo the quote whose NO outcome we buy.
type Opportunity struct {
	Pair    MatchedPair
	BuyYes  MarketQuote
	BuyNo   MarketQuote
	RawEdge decimal.Decimal
	NetEdge decimal.Decimal
}

// Combo returns a short identifier of the venue pairing, e.g.
// "kalshi_yes+polymarket_no".
func (o Opportunity) Combo() string {
	return o.BuyYes.Venue + "_yes+" + o.BuyNo.Venue + "_no"
}
