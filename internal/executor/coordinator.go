// Package executor implements the dual-leg execution coordinator: it sizes an
// attempt, reserves exposure, dispatches both legs concurrently, and decides
// commit versus rollback from the collected outcomes.
package executor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/brennershearn-bot/Arb-Bot/internal/domain"
	"github.com/brennershearn-bot/Arb-Bot/internal/ledger"
	"github.com/brennershearn-bot/Arb-Bot/internal/risk"
)

// State is the coordinator's position in the attempt lifecycle:
// Idle -> Sizing -> Dispatching -> Reconciling -> Committed | RolledBack.
type State string

const (
	StateIdle        State = "idle"
	StateSizing      State = "sizing"
	StateDispatching State = "dispatching"
	StateReconciling State = "reconciling"
	StateCommitted   State = "committed"
	StateRolledBack  State = "rolled_back"
)

// Outcome summarizes one execution attempt. Legs holds the yes leg at index 0
// and the no leg at index 1. Record is non-nil only when State is
// StateCommitted.
type Outcome struct {
	State  State
	Stake  decimal.Decimal
	PnL    decimal.Decimal
	Legs   [2]domain.OrderResult
	Record *domain.TradeRecord
}

// Coordinator drives the attempt state machine. It is the only component that
// mutates the ledger, and processes one opportunity at a time: a single
// attempt is ever in flight system-wide, which bounds exposure growth
// predictably.
type Coordinator struct {
	ledger    *ledger.Ledger
	sizer     *risk.Sizer
	providers map[string]domain.OrderProvider
	sink      domain.TradeSink
	store     domain.LedgerStore   // optional
	bus       domain.TradeEventBus // optional

	legTimeout    time.Duration
	fillThreshold decimal.Decimal

	logger *slog.Logger
}

// NewCoordinator creates a Coordinator. providers maps venue name to its
// order provider; fillThreshold is the minimum fill fraction per leg for a
// commit (e.g. 0.95); legTimeout bounds each leg submission independently.
func NewCoordinator(
	led *ledger.Ledger,
	sizer *risk.Sizer,
	providers map[string]domain.OrderProvider,
	sink domain.TradeSink,
	legTimeout time.Duration,
	fillThreshold decimal.Decimal,
	logger *slog.Logger,
) *Coordinator {
	return &Coordinator{
		ledger:        led,
		sizer:         sizer,
		providers:     providers,
		sink:          sink,
		legTimeout:    legTimeout,
		fillThreshold: fillThreshold,
		logger:        logger.With(slog.String("component", "coordinator")),
	}
}

// SetPersistence wires the optional ledger store and trade event bus. Both
// are best-effort: failures are logged, never fatal to an attempt.
func (c *Coordinator) SetPersistence(store domain.LedgerStore, bus domain.TradeEventBus) {
	c.store = store
	c.bus = bus
}

// Execute runs one arbitrage attempt end to end. Admission refusals return
// the ledger's typed error with State still Idle and no state mutated. Once
// dispatched, the attempt always resolves to Committed or RolledBack; leg
// failures never propagate as errors.
func (c *Coordinator) Execute(ctx context.Context, opp domain.Opportunity) (Outcome, error) {
	// Sizing: capital read as of decision time.
	snap := c.ledger.Snapshot()
	stake := c.sizer.ComputeStake(opp.NetEdge, snap.Capital)
	out := Outcome{State: StateSizing, Stake: stake}

	// Admission check and exposure reservation in one atomic step. The
	// reservation is released on every resolution path below.
	if err := c.ledger.Reserve(stake); err != nil {
		out.State = StateIdle
		return out, err
	}

	out.State = StateDispatching
	yesReq := domain.OrderRequest{
		Venue:      opp.BuyYes.Venue,
		MarketID:   opp.BuyYes.MarketID,
		Side:       domain.OrderSideYes,
		LimitPrice: opp.BuyYes.YesPrice,
		Quantity:   stake,
	}
	noReq := domain.OrderRequest{
		Venue:      opp.BuyNo.Venue,
		MarketID:   opp.BuyNo.MarketID,
		Side:       domain.OrderSideNo,
		LimitPrice: opp.BuyNo.NoPrice,
		Quantity:   stake,
	}

	// Both legs in flight simultaneously to minimize the window of one-sided
	// price risk. The join is structured: we suspend until both legs have
	// resolved or timed out, never detaching them.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out.Legs[0] = c.submitLeg(gctx, yesReq)
		return nil
	})
	g.Go(func() error {
		out.Legs[1] = c.submitLeg(gctx, noReq)
		return nil
	})
	_ = g.Wait()

	out.State = StateReconciling
	bothFilled := out.Legs[0].FilledAtLeast(stake, c.fillThreshold) &&
		out.Legs[1].FilledAtLeast(stake, c.fillThreshold)

	if !bothFilled {
		return c.rollback(out, opp)
	}
	return c.commit(ctx, out, opp)
}

// submitLeg calls the venue's order provider under an independent timeout and
// normalizes every failure shape (missing provider, transport error, timeout,
// panic) into a failed OrderResult so reconciliation is exhaustive.
func (c *Coordinator) submitLeg(ctx context.Context, req domain.OrderRequest) (res domain.OrderResult) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("order provider panicked",
				slog.String("venue", req.Venue),
				slog.Any("panic", r),
			)
			res = domain.OrderResult{Status: domain.OrderFailed, Reason: fmt.Sprintf("panic: %v", r)}
		}
	}()

	provider, ok := c.providers[req.Venue]
	if !ok {
		return domain.OrderResult{Status: domain.OrderFailed, Reason: "no order provider for venue " + req.Venue}
	}

	legCtx, cancel := context.WithTimeout(ctx, c.legTimeout)
	defer cancel()

	res, err := provider.SubmitOrder(legCtx, req)
	if err != nil {
		reason := err.Error()
		if errors.Is(err, context.DeadlineExceeded) {
			reason = domain.ErrOrderTimeout.Error()
		}
		return domain.OrderResult{Status: domain.OrderFailed, Reason: reason}
	}
	return res
}

// commit finalizes a both-legs-filled attempt: the trade record is appended
// to the sink before the ledger commit so the log is a faithful record of
// every capital movement, then capital, exposure, and the daily counter are
// mutated as one unit.
func (c *Coordinator) commit(ctx context.Context, out Outcome, opp domain.Opportunity) (Outcome, error) {
	pnl := domain.Quantize(opp.NetEdge.Mul(out.Stake))

	rec := domain.TradeRecord{
		ID:        uuid.New().String(),
		Timestamp: time.Now().UTC(),
		Combo:     opp.Combo(),
		Title:     opp.BuyYes.Title,
		NetEdge:   opp.NetEdge,
		Stake:     out.Stake,
		PnL:       pnl,
		Legs: []domain.LegRecord{
			legRecord(opp.BuyYes.Venue, opp.BuyYes.MarketID, domain.OrderSideYes, out.Legs[0]),
			legRecord(opp.BuyNo.Venue, opp.BuyNo.MarketID, domain.OrderSideNo, out.Legs[1]),
		},
	}

	if err := c.sink.Append(rec); err != nil {
		// Both legs are filled; capital has genuinely moved. The ledger must
		// still reflect reality, so the commit proceeds and the lost record
		// is surfaced loudly instead.
		c.logger.Error("trade log append failed",
			slog.String("trade_id", rec.ID),
			slog.String("error", err.Error()),
		)
	}

	snap, err := c.ledger.Commit(out.Stake, pnl)
	if err != nil {
		return out, err
	}

	out.State = StateCommitted
	out.PnL = pnl
	out.Record = &rec

	c.logger.Info("trade committed",
		slog.String("trade_id", rec.ID),
		slog.String("combo", rec.Combo),
		slog.String("net_edge", rec.NetEdge.String()),
		slog.String("stake", rec.Stake.String()),
		slog.String("pnl", rec.PnL.String()),
		slog.String("capital", snap.Capital.String()),
	)

	if c.store != nil {
		if err := c.store.InsertTrade(ctx, rec); err != nil {
			c.logger.Warn("trade persist failed", slog.String("error", err.Error()))
		}
		if err := c.store.Save(ctx, snap); err != nil {
			c.logger.Warn("ledger snapshot persist failed", slog.String("error", err.Error()))
		}
	}
	if c.bus != nil {
		if err := c.bus.PublishTrade(ctx, rec); err != nil {
			c.logger.Warn("trade event publish failed", slog.String("error", err.Error()))
		}
	}

	return out, nil
}

// rollback releases the reservation and discards the attempt. No capital or
// counter mutation, no retry: if the opportunity is still present it will be
// re-evaluated from fresh quotes next cycle.
func (c *Coordinator) rollback(out Outcome, opp domain.Opportunity) (Outcome, error) {
	if err := c.ledger.Release(out.Stake); err != nil {
		return out, err
	}
	out.State = StateRolledBack

	c.logger.Warn("attempt rolled back",
		slog.String("combo", opp.Combo()),
		slog.String("stake", out.Stake.String()),
		slog.String("yes_leg", string(out.Legs[0].Status)),
		slog.String("yes_reason", out.Legs[0].Reason),
		slog.String("no_leg", string(out.Legs[1].Status)),
		slog.String("no_reason", out.Legs[1].Reason),
	)
	return out, nil
}

func legRecord(venue, marketID string, side domain.OrderSide, res domain.OrderResult) domain.LegRecord {
	return domain.LegRecord{
		Venue:     venue,
		MarketID:  marketID,
		Side:      side,
		Status:    res.Status,
		FilledQty: res.FilledQty,
		AvgPrice:  res.AvgPrice,
		OrderID:   res.OrderID,
		Reason:    res.Reason,
	}
}
