// Package edge computes the net, cost-adjusted arbitrage edge for matched
// pairs and decides tradability.
package edge

import (
	"github.com/shopspring/decimal"

	"github.com/brennershearn-bot/Arb-Bot/internal/domain"
)

var (
	one = decimal.NewFromInt(1)
	two = decimal.NewFromInt(2)
)

// Evaluator holds the fixed per-leg cost estimates. Fee and slippage are
// conservative configuration constants, an approximation rather than measured
// cost; they are not fetched live.
type Evaluator struct {
	minEdge  decimal.Decimal
	perTrade decimal.Decimal // 2*fee + 2*slippage, deducted once per pair
}

// NewEvaluator creates an Evaluator from the configured minimum edge and
// per-leg fee/slippage estimates.
func NewEvaluator(minEdge, feeRate, slippageRate decimal.Decimal) *Evaluator {
	return &Evaluator{
		minEdge:  minEdge,
		perTrade: feeRate.Mul(two).Add(slippageRate.Mul(two)),
	}
}

// MinEdge returns the configured tradability threshold.
func (e *Evaluator) MinEdge() decimal.Decimal { return e.minEdge }

// Evaluate checks both leg assignments of a matched pair (buy YES on A / buy
// NO on B, and the reverse) and returns an Opportunity for each direction
// whose net edge reaches the minimum. Directionality is never assumed.
func (e *Evaluator) Evaluate(pair domain.MatchedPair) []domain.Opportunity {
	var opps []domain.Opportunity
	if opp, ok := e.direction(pair, pair.A, pair.B); ok {
		opps = append(opps, opp)
	}
	if opp, ok := e.direction(pair, pair.B, pair.A); ok {
		opps = append(opps, opp)
	}
	return opps
}

// direction prices buying YES on yesQ and NO on noQ:
//
//	raw_edge = 1 - yes(yesQ) - no(noQ)
//	net_edge = raw_edge - 2*fee - 2*slippage
func (e *Evaluator) direction(pair domain.MatchedPair, yesQ, noQ domain.MarketQuote) (domain.Opportunity, bool) {
	raw := one.Sub(yesQ.YesPrice).Sub(noQ.NoPrice)
	net := raw.Sub(e.perTrade)
	if net.LessThan(e.minEdge) {
		return domain.Opportunity{}, false
	}
	return domain.Opportunity{
		Pair:    pair,
		BuyYes:  yesQ,
		BuyNo:   noQ,
		RawEdge: domain.Quantize(raw),
		NetEdge: domain.Quantize(net),
	}, true
}
