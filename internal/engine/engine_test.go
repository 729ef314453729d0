package engine

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brennershearn-bot/Arb-Bot/internal/domain"
	"github.com/brennershearn-bot/Arb-Bot/internal/edge"
	"github.com/brennershearn-bot/Arb-Bot/internal/executor"
	"github.com/brennershearn-bot/Arb-Bot/internal/ledger"
	"github.com/brennershearn-bot/Arb-Bot/internal/match"
	"github.com/brennershearn-bot/Arb-Bot/internal/notify"
	"github.com/brennershearn-bot/Arb-Bot/internal/quote"
	"github.com/brennershearn-bot/Arb-Bot/internal/risk"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubQuotes serves a fixed raw quote set, or an error.
type stubQuotes struct {
	venue string
	raws  []domain.RawQuote
	err   error
}

func (s *stubQuotes) Venue() string { return s.venue }

func (s *stubQuotes) FetchQuotes(ctx context.Context) ([]domain.RawQuote, error) {
	return s.raws, s.err
}

// fullFillProvider fills every order completely.
type fullFillProvider struct {
	venue string
	calls int
}

func (p *fullFillProvider) Venue() string { return p.venue }

func (p *fullFillProvider) SubmitOrder(ctx context.Context, req domain.OrderRequest) (domain.OrderResult, error) {
	p.calls++
	return domain.OrderResult{Status: domain.OrderFilled, FilledQty: req.Quantity, AvgPrice: req.LimitPrice}, nil
}

// memSink collects records in memory.
type memSink struct {
	records []domain.TradeRecord
}

func (s *memSink) Append(rec domain.TradeRecord) error {
	s.records = append(s.records, rec)
	return nil
}

func rawQuote(venue, id, title, yes string) domain.RawQuote {
	return domain.RawQuote{
		Venue: venue, MarketID: id, Title: title,
		YesPrice: yes, Volume: 5000, ObservedAt: time.Now().UTC(),
	}
}

type fixture struct {
	engine *Engine
	ledger *ledger.Ledger
	sink   *memSink
	orders map[string]domain.OrderProvider
}

func newFixture(mode Mode, providers []domain.QuoteProvider) *fixture {
	logger := testLogger()
	led := ledger.New(dec("2600"), dec("0.9"), 500, logger)
	sizer := risk.NewSizer(dec("0.25"), dec("0.03"), dec("0.25"), dec("0.5"))
	sink := &memSink{}
	orders := map[string]domain.OrderProvider{
		"kalshi":     &fullFillProvider{venue: "kalshi"},
		"polymarket": &fullFillProvider{venue: "polymarket"},
	}
	coordinator := executor.NewCoordinator(led, sizer, orders, sink, 200*time.Millisecond, dec("0.95"), logger)

	eng := New(
		Config{Mode: mode, PollInterval: time.Millisecond, ReportHourUTC: 9},
		providers,
		quote.NewNormalizer(1000, logger),
		match.NewMatcher(0.72),
		edge.NewEvaluator(dec("0.03"), dec("0.004"), dec("0.006")),
		coordinator,
		led,
		notify.NewNotifier(nil, []string{"trade_committed", "daily_report", "error"}, logger),
		logger,
	)
	return &fixture{engine: eng, ledger: led, sink: sink, orders: orders}
}

func crossVenueProviders() []domain.QuoteProvider {
	return []domain.QuoteProvider{
		&stubQuotes{venue: "kalshi", raws: []domain.RawQuote{
			rawQuote("kalshi", "K1", "will btc close above 100k?", "0.40"),
		}},
		&stubQuotes{venue: "polymarket", raws: []domain.RawQuote{
			rawQuote("polymarket", "P1", "will btc close above 100k?", "0.50"),
		}},
	}
}

func TestCycle_ExecutesMatchedOpportunity(t *testing.T) {
	f := newFixture(ModeDryRun, crossVenueProviders())

	f.engine.cycle(context.Background())

	snap := f.ledger.Snapshot()
	assert.Equal(t, 1, snap.DailyTrades)
	assert.True(t, snap.Capital.GreaterThan(dec("2600")), "committed trade must realize pnl")
	assert.True(t, snap.OpenExposure.IsZero())
	require.Len(t, f.sink.records, 1)
	assert.Equal(t, "kalshi_yes+polymarket_no", f.sink.records[0].Combo)
}

func TestCycle_ScanModeNeverDispatches(t *testing.T) {
	f := newFixture(ModeScan, crossVenueProviders())

	f.engine.cycle(context.Background())

	assert.Equal(t, 0, f.ledger.Snapshot().DailyTrades)
	assert.Empty(t, f.sink.records)
	assert.Equal(t, 0, f.orders["kalshi"].(*fullFillProvider).calls)
}

func TestCycle_NoEdgeNoTrade(t *testing.T) {
	providers := []domain.QuoteProvider{
		&stubQuotes{venue: "kalshi", raws: []domain.RawQuote{
			rawQuote("kalshi", "K1", "will btc close above 100k?", "0.52"),
		}},
		&stubQuotes{venue: "polymarket", raws: []domain.RawQuote{
			rawQuote("polymarket", "P1", "will btc close above 100k?", "0.50"),
		}},
	}
	f := newFixture(ModeDryRun, providers)

	f.engine.cycle(context.Background())
	assert.Empty(t, f.sink.records)
}

func TestCycle_UnrelatedTitlesNeverPair(t *testing.T) {
	providers := []domain.QuoteProvider{
		&stubQuotes{venue: "kalshi", raws: []domain.RawQuote{
			rawQuote("kalshi", "K1", "will btc close above 100k?", "0.40"),
		}},
		&stubQuotes{venue: "polymarket", raws: []domain.RawQuote{
			rawQuote("polymarket", "P1", "who wins the super bowl?", "0.50"),
		}},
	}
	f := newFixture(ModeDryRun, providers)

	f.engine.cycle(context.Background())
	assert.Empty(t, f.sink.records)
}

func TestCycle_VenueFetchFailureDegrades(t *testing.T) {
	providers := []domain.QuoteProvider{
		&stubQuotes{venue: "kalshi", raws: []domain.RawQuote{
			rawQuote("kalshi", "K1", "will btc close above 100k?", "0.40"),
		}},
		&stubQuotes{venue: "polymarket", err: domain.ErrTransport},
	}
	f := newFixture(ModeDryRun, providers)

	// One venue down leaves nothing to pair against; the cycle completes
	// without trading instead of failing.
	f.engine.cycle(context.Background())
	assert.Empty(t, f.sink.records)
}

func TestSafeCycle_ContainsPanics(t *testing.T) {
	f := newFixture(ModeDryRun, []domain.QuoteProvider{
		&stubQuotes{venue: "kalshi"},
		&panickingProvider{},
	})

	assert.NotPanics(t, func() {
		f.engine.safeCycle(context.Background())
	})
}

type panickingProvider struct{}

func (p *panickingProvider) Venue() string { return "polymarket" }

func (p *panickingProvider) FetchQuotes(ctx context.Context) ([]domain.RawQuote, error) {
	panic("malformed payload")
}

func TestMaybeDailyReport_FiresOncePastReportHour(t *testing.T) {
	f := newFixture(ModeDryRun, crossVenueProviders())
	f.engine.cycle(context.Background())
	require.Equal(t, 1, f.ledger.Snapshot().DailyTrades)

	before := time.Date(2025, 6, 1, 8, 59, 0, 0, time.UTC)
	f.engine.maybeDailyReport(context.Background(), before)
	assert.Equal(t, 1, f.ledger.Snapshot().DailyTrades, "no report before the configured hour")

	at := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	f.engine.maybeDailyReport(context.Background(), at)
	assert.Equal(t, 0, f.ledger.Snapshot().DailyTrades, "rollover resets the daily counter")

	// Same day again: no second rollover.
	f.engine.cycle(context.Background())
	f.engine.maybeDailyReport(context.Background(), at.Add(time.Hour))
	assert.Equal(t, 1, f.ledger.Snapshot().DailyTrades)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	f := newFixture(ModeScan, crossVenueProviders())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := f.engine.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
