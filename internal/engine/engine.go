// Package engine drives the poll cycle: fetch quotes from every venue,
// normalize, match across venues, evaluate edges, and hand opportunities to
// the execution coordinator one at a time.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/brennershearn-bot/Arb-Bot/internal/domain"
	"github.com/brennershearn-bot/Arb-Bot/internal/edge"
	"github.com/brennershearn-bot/Arb-Bot/internal/executor"
	"github.com/brennershearn-bot/Arb-Bot/internal/ledger"
	"github.com/brennershearn-bot/Arb-Bot/internal/match"
	"github.com/brennershearn-bot/Arb-Bot/internal/notify"
	"github.com/brennershearn-bot/Arb-Bot/internal/quote"
)

// Mode selects how far a cycle goes: scan stops after evaluation and only
// logs what it found; dry_run and live both dispatch through the coordinator,
// differing only in which order providers are wired behind it.
type Mode string

const (
	ModeLive   Mode = "live"
	ModeDryRun Mode = "dry_run"
	ModeScan   Mode = "scan"
)

// Config holds the engine's loop parameters.
type Config struct {
	Mode          Mode
	PollInterval  time.Duration
	ReportHourUTC int
}

// Engine owns the poll loop. One cycle at a time; opportunities within a
// cycle are processed sequentially so at most one attempt is ever in flight.
type Engine struct {
	cfg Config

	providers   []domain.QuoteProvider
	normalizer  *quote.Normalizer
	matcher     *match.Matcher
	evaluator   *edge.Evaluator
	coordinator *executor.Coordinator
	ledger      *ledger.Ledger
	notifier    *notify.Notifier

	logger *slog.Logger
}

// New creates an Engine. providers must contain at least two venues; the
// matcher only pairs quotes across distinct providers.
func New(
	cfg Config,
	providers []domain.QuoteProvider,
	normalizer *quote.Normalizer,
	matcher *match.Matcher,
	evaluator *edge.Evaluator,
	coordinator *executor.Coordinator,
	led *ledger.Ledger,
	notifier *notify.Notifier,
	logger *slog.Logger,
) *Engine {
	return &Engine{
		cfg:         cfg,
		providers:   providers,
		normalizer:  normalizer,
		matcher:     matcher,
		evaluator:   evaluator,
		coordinator: coordinator,
		ledger:      led,
		notifier:    notifier,
		logger:      logger.With(slog.String("component", "engine")),
	}
}

// Run executes poll cycles until ctx is cancelled. A panic inside one cycle
// is contained: it is reported and the next tick proceeds, so a single bad
// quote batch cannot take the process down.
func (e *Engine) Run(ctx context.Context) error {
	e.logger.Info("engine started",
		slog.String("mode", string(e.cfg.Mode)),
		slog.Duration("poll_interval", e.cfg.PollInterval),
	)

	ticker := time.NewTicker(e.cfg.PollInterval)
	defer ticker.Stop()

	for {
		e.safeCycle(ctx)
		e.maybeDailyReport(ctx, time.Now().UTC())

		select {
		case <-ctx.Done():
			e.logger.Info("engine stopped")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// safeCycle runs one cycle under a recover boundary.
func (e *Engine) safeCycle(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("cycle panicked", slog.Any("panic", r))
			e.notifier.Notify(ctx, "error", "Cycle failure", fmt.Sprintf("poll cycle panicked: %v", r))
		}
	}()
	e.cycle(ctx)
}

// cycle runs one full poll pass.
func (e *Engine) cycle(ctx context.Context) {
	byVenue := e.fetchAll(ctx)
	if len(byVenue) < 2 {
		return
	}

	opps := e.findOpportunities(byVenue)
	if len(opps) == 0 {
		return
	}
	e.logger.Info("opportunities found", slog.Int("count", len(opps)))

	for _, opp := range opps {
		if ctx.Err() != nil {
			return
		}
		e.process(ctx, opp)
	}
}

// fetchAll pulls raw quotes from every provider concurrently and normalizes
// per venue. A venue whose fetch fails degrades to an empty set for this
// cycle; the error is logged and the cycle continues with whatever arrived.
func (e *Engine) fetchAll(ctx context.Context) map[string][]domain.MarketQuote {
	results := make([][]domain.RawQuote, len(e.providers))

	g, gctx := errgroup.WithContext(ctx)
	for i, p := range e.providers {
		i, p := i, p
		g.Go(func() error {
			raws, err := p.FetchQuotes(gctx)
			if err != nil {
				e.logger.Warn("quote fetch failed",
					slog.String("venue", p.Venue()),
					slog.String("error", err.Error()),
				)
				return nil
			}
			results[i] = raws
			return nil
		})
	}
	_ = g.Wait()

	byVenue := make(map[string][]domain.MarketQuote, len(e.providers))
	for i, p := range e.providers {
		if len(results[i]) == 0 {
			continue
		}
		quotes, skipped := e.normalizer.NormalizeAll(results[i])
		if skipped > 0 {
			e.logger.Debug("quotes skipped",
				slog.String("venue", p.Venue()),
				slog.Int("skipped", skipped),
				slog.Int("kept", len(quotes)),
			)
		}
		if len(quotes) > 0 {
			byVenue[p.Venue()] = quotes
		}
	}
	return byVenue
}

// findOpportunities matches quotes across every distinct venue pair and
// evaluates each matched pair in both leg directions.
func (e *Engine) findOpportunities(byVenue map[string][]domain.MarketQuote) []domain.Opportunity {
	venues := make([]string, 0, len(byVenue))
	for v := range byVenue {
		venues = append(venues, v)
	}

	var opps []domain.Opportunity
	for i := 0; i < len(venues); i++ {
		for j := i + 1; j < len(venues); j++ {
			pairs := e.matcher.Pairs(byVenue[venues[i]], byVenue[venues[j]])
			for _, pair := range pairs {
				opps = append(opps, e.evaluator.Evaluate(pair)...)
			}
		}
	}
	return opps
}

// process handles one opportunity. Scan mode stops at logging; otherwise the
// coordinator runs the attempt and the outcome decides the notification.
func (e *Engine) process(ctx context.Context, opp domain.Opportunity) {
	if e.cfg.Mode == ModeScan {
		e.logger.Info("opportunity (scan only)",
			slog.String("combo", opp.Combo()),
			slog.String("title", opp.BuyYes.Title),
			slog.String("raw_edge", opp.RawEdge.String()),
			slog.String("net_edge", opp.NetEdge.String()),
		)
		return
	}

	out, err := e.coordinator.Execute(ctx, opp)
	switch {
	case errors.Is(err, domain.ErrDailyCap), errors.Is(err, domain.ErrExposureCap):
		e.logger.Info("attempt refused", slog.String("reason", err.Error()))
	case errors.Is(err, domain.ErrLedgerInvariant):
		e.logger.Error("ledger invariant violated", slog.String("error", err.Error()))
		e.notifier.Notify(ctx, "ledger_alert", "Ledger invariant violated", err.Error())
	case err != nil:
		e.logger.Error("attempt failed", slog.String("error", err.Error()))
	case out.State == executor.StateCommitted:
		e.notifier.Notify(ctx, "trade_committed", "Trade committed",
			fmt.Sprintf("%s | %s | stake %s, edge %s, pnl %s",
				out.Record.Combo, out.Record.Title,
				out.Record.Stake, out.Record.NetEdge, out.Record.PnL))
	}
}

// maybeDailyReport emits the daily summary once the clock passes the
// configured report hour. The ledger guarantees at most one rollover per
// calendar day.
func (e *Engine) maybeDailyReport(ctx context.Context, now time.Time) {
	if now.Hour() < e.cfg.ReportHourUTC {
		return
	}
	trades, ok := e.ledger.Rollover(now.Day())
	if !ok {
		return
	}

	snap := e.ledger.Snapshot()
	msg := fmt.Sprintf("trades: %d | capital: %s | open exposure: %s",
		trades, snap.Capital, snap.OpenExposure)
	e.logger.Info("daily report",
		slog.Int("trades", trades),
		slog.String("capital", snap.Capital.String()),
		slog.String("open_exposure", snap.OpenExposure.String()),
	)
	e.notifier.Notify(ctx, "daily_report", "Daily report", msg)
}
