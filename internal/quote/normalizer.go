// Package quote converts raw per-venue market records into normalized
// MarketQuote values and applies the liquidity floor.
package quote

import (
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/brennershearn-bot/Arb-Bot/internal/domain"
)

var one = decimal.NewFromInt(1)

// Normalizer validates raw quotes and filters out illiquid markets so
// downstream components only see tradable ones.
type Normalizer struct {
	volumeFloor float64
	logger      *slog.Logger
}

// NewNormalizer creates a Normalizer with the given liquidity floor.
func NewNormalizer(volumeFloor float64, logger *slog.Logger) *Normalizer {
	return &Normalizer{
		volumeFloor: volumeFloor,
		logger:      logger.With(slog.String("component", "normalizer")),
	}
}

// Normalize converts one raw record into a MarketQuote. It returns an error
// wrapping domain.ErrMalformedQuote when the yes price is absent, non-numeric,
// or outside [0,1]. NoPrice is derived as 1-yes when the venue did not quote
// it. Side effect free.
func Normalize(raw domain.RawQuote) (domain.MarketQuote, error) {
	if raw.YesPrice == "" {
		return domain.MarketQuote{}, fmt.Errorf("%w: %s/%s: missing yes price", domain.ErrMalformedQuote, raw.Venue, raw.MarketID)
	}

	yes, err := decimal.NewFromString(raw.YesPrice)
	if err != nil {
		return domain.MarketQuote{}, fmt.Errorf("%w: %s/%s: yes price %q: %v", domain.ErrMalformedQuote, raw.Venue, raw.MarketID, raw.YesPrice, err)
	}
	if yes.IsNegative() || yes.GreaterThan(one) {
		return domain.MarketQuote{}, fmt.Errorf("%w: %s/%s: yes price %s out of [0,1]", domain.ErrMalformedQuote, raw.Venue, raw.MarketID, yes)
	}

	var no decimal.Decimal
	if raw.NoPrice == "" {
		no = one.Sub(yes)
	} else {
		no, err = decimal.NewFromString(raw.NoPrice)
		if err != nil {
			return domain.MarketQuote{}, fmt.Errorf("%w: %s/%s: no price %q: %v", domain.ErrMalformedQuote, raw.Venue, raw.MarketID, raw.NoPrice, err)
		}
		if no.IsNegative() || no.GreaterThan(one) {
			return domain.MarketQuote{}, fmt.Errorf("%w: %s/%s: no price %s out of [0,1]", domain.ErrMalformedQuote, raw.Venue, raw.MarketID, no)
		}
	}

	return domain.MarketQuote{
		Venue:      raw.Venue,
		MarketID:   raw.MarketID,
		Title:      raw.Title,
		YesPrice:   domain.Quantize(yes),
		NoPrice:    domain.Quantize(no),
		Volume:     raw.Volume,
		ObservedAt: raw.ObservedAt,
	}, nil
}

// NormalizeAll normalizes a batch. Malformed records are skipped, quotes below
// the volume floor are dropped, and the number of discarded records is
// returned alongside the survivors.
func (n *Normalizer) NormalizeAll(raws []domain.RawQuote) (quotes []domain.MarketQuote, skipped int) {
	quotes = make([]domain.MarketQuote, 0, len(raws))
	for _, raw := range raws {
		q, err := Normalize(raw)
		if err != nil {
			n.logger.Debug("skipping malformed quote", slog.String("error", err.Error()))
			skipped++
			continue
		}
		if q.Volume < n.volumeFloor {
			skipped++
			continue
		}
		quotes = append(quotes, q)
	}
	return quotes, skipped
}
