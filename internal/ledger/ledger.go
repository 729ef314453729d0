// Package ledger owns the trader's capital, open exposure, and daily trade
// counters. It is the single point of mutation for financial state: the
// execution coordinator reserves exposure before dispatch and either commits
// or releases it on resolution, and no other component writes these fields.
package ledger

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/brennershearn-bot/Arb-Bot/internal/domain"
)

// Ledger guards financial state with a mutex so every mutation is applied
// atomically as one unit. Between poll cycles the invariants hold:
// open_exposure >= 0 and open_exposure <= capital * max_total_exposure_frac.
type Ledger struct {
	mu sync.Mutex

	capital       decimal.Decimal
	openExposure  decimal.Decimal
	dailyTrades   int
	lastReportDay int

	maxExposureFrac decimal.Decimal
	maxDailyTrades  int

	logger *slog.Logger
}

// New creates a Ledger seeded with startingCapital.
func New(startingCapital, maxExposureFrac decimal.Decimal, maxDailyTrades int, logger *slog.Logger) *Ledger {
	return &Ledger{
		capital:         startingCapital,
		openExposure:    decimal.Zero,
		maxExposureFrac: maxExposureFrac,
		maxDailyTrades:  maxDailyTrades,
		logger:          logger.With(slog.String("component", "ledger")),
	}
}

// Restore overwrites the ledger state from a persisted snapshot. Called once
// at startup, before the poll loop begins.
func (l *Ledger) Restore(snap domain.LedgerSnapshot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.capital = snap.Capital
	l.openExposure = snap.OpenExposure
	l.dailyTrades = snap.DailyTrades
	l.lastReportDay = snap.LastReportDay
}

// Snapshot returns a read-only copy of the current state.
func (l *Ledger) Snapshot() domain.LedgerSnapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked()
}

func (l *Ledger) snapshotLocked() domain.LedgerSnapshot {
	return domain.LedgerSnapshot{
		Capital:       l.capital,
		OpenExposure:  l.openExposure,
		DailyTrades:   l.dailyTrades,
		LastReportDay: l.lastReportDay,
	}
}

// Reserve is the admission check and exposure reservation in one atomic step.
// It refuses with domain.ErrDailyCap once the daily counter is exhausted and
// with domain.ErrExposureCap when the reservation would push open exposure
// past capital * max_total_exposure_frac. No state mutates on refusal.
func (l *Ledger) Reserve(stake decimal.Decimal) error {
	if stake.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: non-positive stake %s", domain.ErrLedgerInvariant, stake)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.dailyTrades >= l.maxDailyTrades {
		return fmt.Errorf("%w (%d/%d)", domain.ErrDailyCap, l.dailyTrades, l.maxDailyTrades)
	}
	limit := l.capital.Mul(l.maxExposureFrac)
	if l.openExposure.Add(stake).GreaterThan(limit) {
		return fmt.Errorf("%w: exposure %s + stake %s > limit %s",
			domain.ErrExposureCap, l.openExposure, stake, limit)
	}

	l.openExposure = l.openExposure.Add(stake)
	return nil
}

// Commit finalizes a successful attempt: the reservation for stake is
// released, realized PnL is added to capital, and the daily counter
// increments, all under one lock acquisition so no partial update is ever
// observable. The returned snapshot reflects the post-commit state.
func (l *Ledger) Commit(stake, pnl decimal.Decimal) (domain.LedgerSnapshot, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.openExposure.LessThan(stake) {
		return l.snapshotLocked(), fmt.Errorf("%w: commit of %s exceeds open exposure %s",
			domain.ErrLedgerInvariant, stake, l.openExposure)
	}

	l.openExposure = l.openExposure.Sub(stake)
	l.capital = l.capital.Add(pnl)
	l.dailyTrades++

	if err := l.checkLocked(); err != nil {
		return l.snapshotLocked(), err
	}
	return l.snapshotLocked(), nil
}

// Release drops the reservation for a rolled-back attempt. Capital and the
// daily trade counter are untouched; rollback is a no-op on both.
func (l *Ledger) Release(stake decimal.Decimal) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.openExposure.LessThan(stake) {
		return fmt.Errorf("%w: release of %s exceeds open exposure %s",
			domain.ErrLedgerInvariant, stake, l.openExposure)
	}
	l.openExposure = l.openExposure.Sub(stake)
	return nil
}

// Rollover emits the day's trade count and resets the daily counter, at most
// once per calendar day. The second return is false when the rollover for
// this day already happened.
func (l *Ledger) Rollover(day int) (int, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.lastReportDay == day {
		return 0, false
	}
	trades := l.dailyTrades
	l.dailyTrades = 0
	l.lastReportDay = day
	return trades, true
}

// checkLocked re-validates the invariants after a mutation. A violation is a
// logic error, not a transient condition.
func (l *Ledger) checkLocked() error {
	if l.openExposure.IsNegative() {
		return fmt.Errorf("%w: negative exposure %s", domain.ErrLedgerInvariant, l.openExposure)
	}
	limit := l.capital.Mul(l.maxExposureFrac)
	if l.openExposure.GreaterThan(limit) {
		l.logger.Error("exposure exceeds limit",
			slog.String("exposure", l.openExposure.String()),
			slog.String("limit", limit.String()),
		)
		return fmt.Errorf("%w: exposure %s > limit %s", domain.ErrLedgerInvariant, l.openExposure, limit)
	}
	return nil
}
