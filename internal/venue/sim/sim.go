// Package sim provides a simulated order venue for dry_run mode. Quotes still
// come from the real venues; only order submission is replaced, so sizing,
// reconciliation, and the ledger exercise the same paths as live trading.
package sim

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/brennershearn-bot/Arb-Bot/internal/domain"
)

// Exchange is a seedable simulated order venue wrapping a real venue name.
// Each submitted leg fully fills with probability fillRate; otherwise it fills
// a uniform partial fraction in [0.5, 0.95), which usually lands below the
// coordinator's fill threshold and exercises the rollback path.
type Exchange struct {
	venue    string
	fillRate float64

	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a simulated exchange standing in for venue. seed 0 selects a
// time-based seed.
func New(venue string, fillRate float64, seed int64) *Exchange {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Exchange{
		venue:    venue,
		fillRate: fillRate,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// Venue implements domain.OrderProvider.
func (e *Exchange) Venue() string { return e.venue }

// SubmitOrder implements domain.OrderProvider. It never returns a transport
// error; every simulated order reaches a terminal venue status.
func (e *Exchange) SubmitOrder(ctx context.Context, req domain.OrderRequest) (domain.OrderResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.OrderResult{}, err
	}

	e.mu.Lock()
	roll := e.rng.Float64()
	frac := 0.5 + 0.45*e.rng.Float64()
	e.mu.Unlock()

	result := domain.OrderResult{
		OrderID:  "sim-" + uuid.NewString(),
		AvgPrice: req.LimitPrice,
	}
	if roll < e.fillRate {
		result.Status = domain.OrderFilled
		result.FilledQty = req.Quantity
		return result, nil
	}

	result.Status = domain.OrderPartialFilled
	result.FilledQty = domain.Quantize(req.Quantity.Mul(decimal.NewFromFloat(frac)))
	return result, nil
}
