// Package risk converts an edge and current capital into a bounded stake.
package risk

import (
	"github.com/shopspring/decimal"

	"github.com/brennershearn-bot/Arb-Bot/internal/domain"
)

var (
	one      = decimal.NewFromInt(1)
	minFloor = decimal.RequireFromString("0.01")
)

// Sizer computes per-trade stakes. It is pure: capital is read as of decision
// time and never mutated here.
type Sizer struct {
	riskPerTrade   decimal.Decimal
	minEdge        decimal.Decimal
	maxPerMarket   decimal.Decimal
	maxPerTradeCap decimal.Decimal
}

// NewSizer creates a Sizer. A MinEdge of zero is substituted with a small
// positive floor to avoid division by zero in the edge scaling.
func NewSizer(riskPerTrade, minEdge, maxPerMarket, maxPerTradeCap decimal.Decimal) *Sizer {
	if minEdge.LessThanOrEqual(decimal.Zero) {
		minEdge = minFloor
	}
	return &Sizer{
		riskPerTrade:   riskPerTrade,
		minEdge:        minEdge,
		maxPerMarket:   maxPerMarket,
		maxPerTradeCap: maxPerTradeCap,
	}
}

// ComputeStake sizes one arbitrage attempt:
//
//	base  = capital * risk_per_trade
//	scale = 1 + net_edge/min_edge
//	stake = min(base*scale, capital*max_per_market, capital*max_per_trade_cap)
//
// quantized to the price precision with round-half-up.
func (s *Sizer) ComputeStake(netEdge, capital decimal.Decimal) decimal.Decimal {
	base := capital.Mul(s.riskPerTrade)
	scale := one.Add(netEdge.Div(s.minEdge))
	stake := base.Mul(scale)

	marketCap := capital.Mul(s.maxPerMarket)
	tradeCap := capital.Mul(s.maxPerTradeCap)
	stake = decimal.Min(stake, marketCap, tradeCap)

	// Stakes are never negative, so rounding half away from zero is
	// round-half-up here.
	return domain.Quantize(stake)
}
