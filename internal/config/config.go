// Package config defines the configuration surface for the arbitrage bot and
// provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration structure. Fields are populated from a TOML
// file and then optionally overridden by ARBBOT_* environment variables.
type Config struct {
	Trading    TradingConfig    `toml:"trading"`
	Kalshi     KalshiConfig     `toml:"kalshi"`
	Polymarket PolymarketConfig `toml:"polymarket"`
	Sim        SimConfig        `toml:"sim"`
	Postgres   PostgresConfig   `toml:"postgres"`
	Redis      RedisConfig      `toml:"redis"`
	Notify     NotifyConfig     `toml:"notify"`
	TradeLog   TradeLogConfig   `toml:"tradelog"`
	Mode       string           `toml:"mode"`
	LogLevel   string           `toml:"log_level"`
}

// TradingConfig holds the capital, risk, and matching parameters of the core
// engine. Fee and slippage are fixed per-leg estimates, not measured costs.
type TradingConfig struct {
	StartingCapital      float64  `toml:"starting_capital"`
	RiskPerTrade         float64  `toml:"risk_per_trade"`
	MinEdge              float64  `toml:"min_edge"`
	MaxPerMarket         float64  `toml:"max_per_market"`
	MaxPerTradeCap       float64  `toml:"max_per_trade_cap"`
	MaxTotalExposureFrac float64  `toml:"max_total_exposure_frac"`
	MaxDailyTrades       int      `toml:"max_daily_trades"`
	PollInterval         duration `toml:"poll_interval"`
	LegTimeout           duration `toml:"leg_timeout"` // defaults to poll_interval when zero
	MatchThreshold       float64  `toml:"match_threshold"`
	VolumeFloor          float64  `toml:"volume_floor"`
	FeeRate              float64  `toml:"fee_rate"`
	SlippageRate         float64  `toml:"slippage_rate"`
	FillRateThreshold    float64  `toml:"fill_rate_threshold"`
	ReportHourUTC        int      `toml:"report_hour_utc"`
}

// KalshiConfig holds Kalshi exchange API parameters.
type KalshiConfig struct {
	Enabled           bool   `toml:"enabled"`
	BaseURL           string `toml:"base_url"`
	ApiKey            string `toml:"api_key"`
	RsaPrivateKeyPath string `toml:"rsa_private_key_path"`
	QuoteLimit        int    `toml:"quote_limit"`
}

// PolymarketConfig holds Polymarket Gamma and CLOB API parameters.
type PolymarketConfig struct {
	Enabled       bool   `toml:"enabled"`
	GammaHost     string `toml:"gamma_host"`
	ClobHost      string `toml:"clob_host"`
	ApiKey        string `toml:"api_key"`
	ApiSecret     string `toml:"api_secret"`
	ApiPassphrase string `toml:"api_passphrase"`
	QuoteLimit    int    `toml:"quote_limit"`
}

// SimConfig tunes the simulated exchange used in dry_run mode.
type SimConfig struct {
	FillRate float64 `toml:"fill_rate"` // probability a leg fully fills
	Seed     int64   `toml:"seed"`      // 0 = time-seeded
}

// PostgresConfig holds optional ledger persistence parameters. Persistence is
// enabled when DSN (or Host) is set.
type PostgresConfig struct {
	DSN      string `toml:"dsn"`
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Database string `toml:"database"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	SSLMode  string `toml:"ssl_mode"`
	MaxConns int    `toml:"pool_max_conns"`
	MinConns int    `toml:"pool_min_conns"`
}

// Enabled reports whether ledger persistence should be wired.
func (p PostgresConfig) Enabled() bool {
	return strings.TrimSpace(p.DSN) != "" || strings.TrimSpace(p.Host) != ""
}

// RedisConfig holds optional trade event stream parameters. The bus is wired
// when Addr is set.
type RedisConfig struct {
	Addr         string `toml:"addr"`
	Password     string `toml:"password"`
	DB           int    `toml:"db"`
	PoolSize     int    `toml:"pool_size"`
	MaxRetries   int    `toml:"max_retries"`
	TLSEnabled   bool   `toml:"tls_enabled"`
	Stream       string `toml:"stream"`
	StreamMaxLen int    `toml:"stream_max_len"`
}

// Enabled reports whether the trade event bus should be wired.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.Addr) != ""
}

// NotifyConfig holds notification channel credentials.
type NotifyConfig struct {
	TelegramToken     string   `toml:"telegram_token"`
	TelegramChatID    string   `toml:"telegram_chat_id"`
	DiscordWebhookURL string   `toml:"discord_webhook_url"`
	Events            []string `toml:"events"`
}

// TradeLogConfig holds the append-only trade log parameters.
type TradeLogConfig struct {
	Path string `toml:"path"`
}

// duration wraps time.Duration so the TOML decoder can parse strings like
// "1s" or "500ms".
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler for round-trip encoding.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns a Config populated with the stock parameters.
func Defaults() Config {
	return Config{
		Trading: TradingConfig{
			StartingCapital:      2600,
			RiskPerTrade:         0.25,
			MinEdge:              0.03,
			MaxPerMarket:         0.25,
			MaxPerTradeCap:       0.5,
			MaxTotalExposureFrac: 0.9,
			MaxDailyTrades:       500,
			PollInterval:         duration{1 * time.Second},
			MatchThreshold:       0.72,
			VolumeFloor:          1000,
			FeeRate:              0.004,
			SlippageRate:         0.006,
			FillRateThreshold:    0.95,
			ReportHourUTC:        9,
		},
		Kalshi: KalshiConfig{
			Enabled:    true,
			BaseURL:    "https://api.elections.kalshi.com/trade-api/v2",
			QuoteLimit: 200,
		},
		Polymarket: PolymarketConfig{
			Enabled:    true,
			GammaHost:  "https://gamma-api.polymarket.com",
			ClobHost:   "https://clob.polymarket.com",
			QuoteLimit: 200,
		},
		Sim: SimConfig{
			FillRate: 0.887,
		},
		Postgres: PostgresConfig{
			Port:     5432,
			Database: "arbbot",
			User:     "postgres",
			SSLMode:  "disable",
			MaxConns: 5,
			MinConns: 1,
		},
		Redis: RedisConfig{
			DB:           0,
			PoolSize:     10,
			MaxRetries:   3,
			Stream:       "arbbot:trades",
			StreamMaxLen: 10000,
		},
		Notify: NotifyConfig{
			Events: []string{"trade_committed", "daily_report", "error", "ledger_alert"},
		},
		TradeLog: TradeLogConfig{
			Path: "trades.jsonl",
		},
		Mode:     "dry_run",
		LogLevel: "info",
	}
}

// validModes enumerates the accepted values for Config.Mode.
var validModes = map[string]bool{
	"live":    true,
	"dry_run": true,
	"scan":    true,
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks Config for invalid or missing values and returns a combined
// error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	if !validModes[strings.ToLower(c.Mode)] {
		errs = append(errs, fmt.Sprintf("unknown mode %q (valid: live, dry_run, scan)", c.Mode))
	}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	t := c.Trading
	if t.StartingCapital <= 0 {
		errs = append(errs, "trading: starting_capital must be > 0")
	}
	if t.RiskPerTrade <= 0 || t.RiskPerTrade > 1 {
		errs = append(errs, "trading: risk_per_trade must be in (0, 1]")
	}
	if t.MinEdge < 0 {
		errs = append(errs, "trading: min_edge must be >= 0")
	}
	if t.MaxPerMarket <= 0 || t.MaxPerMarket > 1 {
		errs = append(errs, "trading: max_per_market must be in (0, 1]")
	}
	if t.MaxPerTradeCap <= 0 || t.MaxPerTradeCap > 1 {
		errs = append(errs, "trading: max_per_trade_cap must be in (0, 1]")
	}
	if t.MaxTotalExposureFrac <= 0 || t.MaxTotalExposureFrac > 1 {
		errs = append(errs, "trading: max_total_exposure_frac must be in (0, 1]")
	}
	if t.MaxDailyTrades < 1 {
		errs = append(errs, "trading: max_daily_trades must be >= 1")
	}
	if t.PollInterval.Duration <= 0 {
		errs = append(errs, "trading: poll_interval must be > 0")
	}
	if t.MatchThreshold <= 0 || t.MatchThreshold > 1 {
		errs = append(errs, "trading: match_threshold must be in (0, 1]")
	}
	if t.FeeRate < 0 || t.SlippageRate < 0 {
		errs = append(errs, "trading: fee_rate and slippage_rate must be >= 0")
	}
	if t.FillRateThreshold <= 0 || t.FillRateThreshold > 1 {
		errs = append(errs, "trading: fill_rate_threshold must be in (0, 1]")
	}
	if t.ReportHourUTC < 0 || t.ReportHourUTC > 23 {
		errs = append(errs, fmt.Sprintf("trading: report_hour_utc must be 0-23, got %d", t.ReportHourUTC))
	}

	if c.Kalshi.Enabled && c.Kalshi.BaseURL == "" {
		errs = append(errs, "kalshi: base_url must not be empty when enabled")
	}
	if c.Polymarket.Enabled && c.Polymarket.GammaHost == "" {
		errs = append(errs, "polymarket: gamma_host must not be empty when enabled")
	}
	if !c.Kalshi.Enabled && !c.Polymarket.Enabled {
		errs = append(errs, "at least two venues are required; enable kalshi and polymarket")
	}

	if c.Mode == "live" {
		if c.Kalshi.Enabled && c.Kalshi.ApiKey == "" {
			errs = append(errs, "kalshi: api_key is required for live mode")
		}
		if c.Polymarket.Enabled && c.Polymarket.ApiKey == "" {
			errs = append(errs, "polymarket: api_key is required for live mode")
		}
	}

	if c.Sim.FillRate < 0 || c.Sim.FillRate > 1 {
		errs = append(errs, "sim: fill_rate must be in [0, 1]")
	}

	if c.Postgres.Enabled() {
		if c.Postgres.MaxConns < 1 {
			errs = append(errs, "postgres: pool_max_conns must be >= 1")
		}
		if c.Postgres.MinConns < 0 || c.Postgres.MinConns > c.Postgres.MaxConns {
			errs = append(errs, "postgres: pool_min_conns must be in [0, pool_max_conns]")
		}
	}
	if c.Redis.Enabled() {
		if c.Redis.PoolSize < 1 {
			errs = append(errs, "redis: pool_size must be >= 1")
		}
		if c.Redis.Stream == "" {
			errs = append(errs, "redis: stream must not be empty")
		}
	}

	if strings.TrimSpace(c.TradeLog.Path) == "" {
		errs = append(errs, "tradelog: path must not be empty")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
