package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	redisbus "github.com/brennershearn-bot/Arb-Bot/internal/bus/redis"
	"github.com/brennershearn-bot/Arb-Bot/internal/config"
	"github.com/brennershearn-bot/Arb-Bot/internal/domain"
	"github.com/brennershearn-bot/Arb-Bot/internal/edge"
	"github.com/brennershearn-bot/Arb-Bot/internal/executor"
	"github.com/brennershearn-bot/Arb-Bot/internal/ledger"
	"github.com/brennershearn-bot/Arb-Bot/internal/match"
	"github.com/brennershearn-bot/Arb-Bot/internal/notify"
	"github.com/brennershearn-bot/Arb-Bot/internal/quote"
	"github.com/brennershearn-bot/Arb-Bot/internal/risk"
	"github.com/brennershearn-bot/Arb-Bot/internal/store/postgres"
	"github.com/brennershearn-bot/Arb-Bot/internal/tradelog"
	"github.com/brennershearn-bot/Arb-Bot/internal/venue/kalshi"
	"github.com/brennershearn-bot/Arb-Bot/internal/venue/polymarket"
	"github.com/brennershearn-bot/Arb-Bot/internal/venue/sim"
)

// Dependencies bundles everything the engine needs to run. It is constructed
// by Wire and torn down by the returned cleanup function.
type Dependencies struct {
	QuoteProviders []domain.QuoteProvider
	Normalizer     *quote.Normalizer
	Matcher        *match.Matcher
	Evaluator      *edge.Evaluator
	Coordinator    *executor.Coordinator
	Ledger         *ledger.Ledger
	Notifier       *notify.Notifier
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	t := cfg.Trading
	mode := strings.ToLower(cfg.Mode)

	// --- Venue clients ---
	var kalshiClient *kalshi.Client
	var quoteProviders []domain.QuoteProvider
	if cfg.Kalshi.Enabled {
		kalshiClient = kalshi.NewClient(cfg.Kalshi.BaseURL, cfg.Kalshi.ApiKey, cfg.Kalshi.QuoteLimit)
		if mode == "live" && cfg.Kalshi.RsaPrivateKeyPath != "" {
			pemBytes, err := os.ReadFile(cfg.Kalshi.RsaPrivateKeyPath)
			if err != nil {
				cleanup()
				return nil, nil, fmt.Errorf("wire: read kalshi private key: %w", err)
			}
			if err := kalshiClient.SetRSAPrivateKey(pemBytes); err != nil {
				cleanup()
				return nil, nil, fmt.Errorf("wire: kalshi private key: %w", err)
			}
		}
		quoteProviders = append(quoteProviders, kalshiClient)
	}
	if cfg.Polymarket.Enabled {
		quoteProviders = append(quoteProviders, polymarket.NewGammaClient(cfg.Polymarket.GammaHost, cfg.Polymarket.QuoteLimit))
	}

	// --- Order providers per mode ---
	orderProviders := make(map[string]domain.OrderProvider)
	switch mode {
	case "live":
		if kalshiClient != nil {
			orderProviders[kalshiClient.Venue()] = kalshiClient
		}
		if cfg.Polymarket.Enabled {
			clob := polymarket.NewClobClient(cfg.Polymarket.ClobHost, polymarket.HMACAuth{
				Key:        cfg.Polymarket.ApiKey,
				Secret:     cfg.Polymarket.ApiSecret,
				Passphrase: cfg.Polymarket.ApiPassphrase,
			})
			orderProviders[clob.Venue()] = clob
		}
	case "dry_run":
		// Real quotes, simulated fills. Seeds are offset per venue so the two
		// legs do not share a fill sequence.
		for i, p := range quoteProviders {
			seed := cfg.Sim.Seed
			if seed != 0 {
				seed += int64(i)
			}
			orderProviders[p.Venue()] = sim.New(p.Venue(), cfg.Sim.FillRate, seed)
		}
	}

	// --- Core pipeline ---
	led := ledger.New(
		decimal.NewFromFloat(t.StartingCapital),
		decimal.NewFromFloat(t.MaxTotalExposureFrac),
		t.MaxDailyTrades,
		logger,
	)
	sizer := risk.NewSizer(
		decimal.NewFromFloat(t.RiskPerTrade),
		decimal.NewFromFloat(t.MinEdge),
		decimal.NewFromFloat(t.MaxPerMarket),
		decimal.NewFromFloat(t.MaxPerTradeCap),
	)
	evaluator := edge.NewEvaluator(
		decimal.NewFromFloat(t.MinEdge),
		decimal.NewFromFloat(t.FeeRate),
		decimal.NewFromFloat(t.SlippageRate),
	)
	matcher := match.NewMatcher(t.MatchThreshold)
	normalizer := quote.NewNormalizer(t.VolumeFloor, logger)

	sink := tradelog.NewWriter(cfg.TradeLog.Path)
	closers = append(closers, func() { _ = sink.Close() })

	legTimeout := t.LegTimeout.Duration
	if legTimeout <= 0 {
		legTimeout = t.PollInterval.Duration
	}
	coordinator := executor.NewCoordinator(
		led, sizer, orderProviders, sink,
		legTimeout,
		decimal.NewFromFloat(t.FillRateThreshold),
		logger,
	)

	// --- PostgreSQL ledger persistence (optional) ---
	var store domain.LedgerStore
	if cfg.Postgres.Enabled() {
		pgClient, err := postgres.New(ctx, postgres.ClientConfig{
			DSN:      cfg.Postgres.DSN,
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			Database: cfg.Postgres.Database,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			SSLMode:  cfg.Postgres.SSLMode,
			MaxConns: cfg.Postgres.MaxConns,
			MinConns: cfg.Postgres.MinConns,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: postgres: %w", err)
		}
		closers = append(closers, pgClient.Close)

		if err := pgClient.EnsureSchema(ctx); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: postgres schema: %w", err)
		}

		ledgerStore := postgres.NewLedgerStore(pgClient.Pool())
		store = ledgerStore

		snap, found, err := ledgerStore.Load(ctx)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: load ledger snapshot: %w", err)
		}
		if found {
			led.Restore(snap)
			logger.Info("ledger restored",
				slog.String("capital", snap.Capital.String()),
				slog.String("open_exposure", snap.OpenExposure.String()),
			)
		}
	}

	// --- Redis trade event bus (optional) ---
	var bus domain.TradeEventBus
	if cfg.Redis.Enabled() {
		redisClient, err := redisbus.New(ctx, redisbus.ClientConfig{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			PoolSize:   cfg.Redis.PoolSize,
			MaxRetries: cfg.Redis.MaxRetries,
			TLSEnabled: cfg.Redis.TLSEnabled,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: redis: %w", err)
		}
		closers = append(closers, func() { _ = redisClient.Close() })

		bus = redisbus.NewTradeBus(redisClient, cfg.Redis.Stream, int64(cfg.Redis.StreamMaxLen))
	}
	if store != nil || bus != nil {
		coordinator.SetPersistence(store, bus)
	}

	// --- Notifications ---
	var senders []notify.Sender
	if cfg.Notify.TelegramToken != "" && cfg.Notify.TelegramChatID != "" {
		senders = append(senders, notify.NewTelegramSender(cfg.Notify.TelegramToken, cfg.Notify.TelegramChatID))
	}
	if cfg.Notify.DiscordWebhookURL != "" {
		senders = append(senders, notify.NewDiscordSender(cfg.Notify.DiscordWebhookURL))
	}
	notifier := notify.NewNotifier(senders, cfg.Notify.Events, logger)

	return &Dependencies{
		QuoteProviders: quoteProviders,
		Normalizer:     normalizer,
		Matcher:        matcher,
		Evaluator:      evaluator,
		Coordinator:    coordinator,
		Ledger:         led,
		Notifier:       notifier,
	}, cleanup, nil
}
