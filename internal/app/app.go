// Package app provides top-level lifecycle management for the arbitrage bot.
// It wires together the venue clients, core pipeline, ledger, persistence, and
// notifications, then runs the poll engine until shutdown.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/brennershearn-bot/Arb-Bot/internal/config"
	"github.com/brennershearn-bot/Arb-Bot/internal/engine"
)

// App is the root application object. It owns the configuration, logger, and
// a list of cleanup functions that are called in reverse order on shutdown.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	closers []func()
}

// New creates a new App from the given configuration and logger.
func New(cfg *config.Config, logger *slog.Logger) *App {
	return &App{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "app")),
	}
}

// Run is the main entry point. It wires all dependencies, starts the poll
// engine, and blocks until the context is cancelled.
func (a *App) Run(ctx context.Context) error {
	a.logger.InfoContext(ctx, "starting application",
		slog.String("mode", a.cfg.Mode),
		slog.String("log_level", a.cfg.LogLevel),
	)

	deps, cleanup, err := Wire(ctx, a.cfg, a.logger)
	if err != nil {
		return fmt.Errorf("app: wire dependencies: %w", err)
	}
	a.closers = append(a.closers, cleanup)

	eng := engine.New(
		engine.Config{
			Mode:          engine.Mode(a.cfg.Mode),
			PollInterval:  a.cfg.Trading.PollInterval.Duration,
			ReportHourUTC: a.cfg.Trading.ReportHourUTC,
		},
		deps.QuoteProviders,
		deps.Normalizer,
		deps.Matcher,
		deps.Evaluator,
		deps.Coordinator,
		deps.Ledger,
		deps.Notifier,
		a.logger,
	)
	return eng.Run(ctx)
}

// Close tears down all resources in reverse registration order. Safe to call
// multiple times.
func (a *App) Close() {
	a.logger.Info("shutting down application")
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
