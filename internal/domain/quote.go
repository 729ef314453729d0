// Package domain defines the shared types exchanged between the arbitrage
// engine's components: quotes, matched pairs, opportunities, orders, trade
// records, and the ledger snapshot.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PricePlaces is the number of fractional digits all prices, stakes, and PnL
// amounts are quantized to. Quantization uses round-half-up.
const PricePlaces = 4

// Quantize rounds d to PricePlaces fractional digits, half away from zero.
// All ledger-visible amounts pass through this before being stored or
// compared.
func Quantize(d decimal.Decimal) decimal.Decimal {
	return d.Round(PricePlaces)
}

// RawQuote is a venue-shaped market record as returned by a QuoteProvider.
// Price fields are kept as strings because venues disagree on units and
// encoding; the normalizer owns parsing and validation.
type RawQuote struct {
	Venue      string
	MarketID   string
	Title      string
	YesPrice   string
	NoPrice    string // optional; derived as 1-yes when empty
	Volume     float64
	ObservedAt time.Time
}

// MarketQuote is a normalized quote. Prices are probabilities in [0,1] with
// PricePlaces fractional digits. Quotes are immutable once constructed; each
// poll cycle produces a fresh set that supersedes the previous one.
type MarketQuote struct {
	Venue      string
	MarketID   string
	Title      string
	YesPrice   decimal.Decimal
	NoPrice    decimal.Decimal
	Volume     float64
	ObservedAt time.Time
}
