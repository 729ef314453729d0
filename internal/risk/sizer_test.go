package risk

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestSizer() *Sizer {
	return NewSizer(dec("0.25"), dec("0.03"), dec("0.25"), dec("0.5"))
}

func TestComputeStake_MarketCapBinds(t *testing.T) {
	s := newTestSizer()

	// base 650 * scale 2 = 1300, clamped by capital * 0.25 = 650.
	stake := s.ComputeStake(dec("0.03"), dec("2600"))
	assert.True(t, stake.Equal(dec("650")), "stake %s", stake)
}

func TestComputeStake_ScalesWithEdge(t *testing.T) {
	s := NewSizer(dec("0.1"), dec("0.03"), dec("1"), dec("1"))

	// base 100, scale 1 + 0.06/0.03 = 3.
	stake := s.ComputeStake(dec("0.06"), dec("1000"))
	assert.True(t, stake.Equal(dec("300")), "stake %s", stake)
}

func TestComputeStake_TradeCapBinds(t *testing.T) {
	s := NewSizer(dec("0.25"), dec("0.03"), dec("1"), dec("0.5"))

	// base 650 * scale 3.667 = 2383.37..., market cap 2600, trade cap 1300.
	stake := s.ComputeStake(dec("0.08"), dec("2600"))
	assert.True(t, stake.Equal(dec("1300")), "stake %s", stake)
}

func TestComputeStake_QuantizedToPricePlaces(t *testing.T) {
	s := NewSizer(dec("0.1"), dec("0.03"), dec("1"), dec("1"))

	// base 0.175 * scale 2 = 0.35; a third-ish edge produces a long fraction.
	stake := s.ComputeStake(dec("0.01"), dec("1.75"))
	assert.Equal(t, int32(-4), stake.Exponent())
}

func TestComputeStake_ZeroMinEdgeUsesFloor(t *testing.T) {
	// MinEdge 0 must not divide by zero.
	s := NewSizer(dec("0.25"), decimal.Zero, dec("1"), dec("1"))
	stake := s.ComputeStake(dec("0.05"), dec("100"))
	assert.True(t, stake.GreaterThan(decimal.Zero))
}

func TestComputeStake_ZeroCapital(t *testing.T) {
	s := newTestSizer()
	stake := s.ComputeStake(dec("0.08"), decimal.Zero)
	assert.True(t, stake.IsZero())
}
