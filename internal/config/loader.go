package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies ARBBOT_* environment variable overrides, and
// returns the final Config. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load.
//
// A missing file is not an error: defaults plus environment overrides make a
// runnable dry_run configuration on their own.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known ARBBOT_* environment variables and
// overwrites the corresponding Config fields when a variable is set. This
// lets operators inject secrets at deploy time without touching the TOML
// file.
func applyEnvOverrides(cfg *Config) {
	// ── Trading ──
	setFloat64(&cfg.Trading.StartingCapital, "ARBBOT_STARTING_CAPITAL")
	setFloat64(&cfg.Trading.RiskPerTrade, "ARBBOT_RISK_PER_TRADE")
	setFloat64(&cfg.Trading.MinEdge, "ARBBOT_MIN_EDGE")
	setFloat64(&cfg.Trading.MaxPerMarket, "ARBBOT_MAX_PER_MARKET")
	setFloat64(&cfg.Trading.MaxPerTradeCap, "ARBBOT_MAX_PER_TRADE_CAP")
	setFloat64(&cfg.Trading.MaxTotalExposureFrac, "ARBBOT_MAX_TOTAL_EXPOSURE_FRAC")
	setInt(&cfg.Trading.MaxDailyTrades, "ARBBOT_MAX_DAILY_TRADES")
	setDuration(&cfg.Trading.PollInterval, "ARBBOT_POLL_INTERVAL")
	setDuration(&cfg.Trading.LegTimeout, "ARBBOT_LEG_TIMEOUT")
	setFloat64(&cfg.Trading.MatchThreshold, "ARBBOT_MATCH_THRESHOLD")
	setFloat64(&cfg.Trading.VolumeFloor, "ARBBOT_VOLUME_FLOOR")
	setFloat64(&cfg.Trading.FeeRate, "ARBBOT_FEE_RATE")
	setFloat64(&cfg.Trading.SlippageRate, "ARBBOT_SLIPPAGE_RATE")
	setInt(&cfg.Trading.ReportHourUTC, "ARBBOT_REPORT_HOUR_UTC")

	// ── Kalshi ──
	setBool(&cfg.Kalshi.Enabled, "ARBBOT_KALSHI_ENABLED")
	setStr(&cfg.Kalshi.BaseURL, "ARBBOT_KALSHI_BASE_URL")
	setStr(&cfg.Kalshi.ApiKey, "ARBBOT_KALSHI_API_KEY")
	setStr(&cfg.Kalshi.RsaPrivateKeyPath, "ARBBOT_KALSHI_RSA_PRIVATE_KEY_PATH")

	// ── Polymarket ──
	setBool(&cfg.Polymarket.Enabled, "ARBBOT_POLYMARKET_ENABLED")
	setStr(&cfg.Polymarket.GammaHost, "ARBBOT_POLYMARKET_GAMMA_HOST")
	setStr(&cfg.Polymarket.ClobHost, "ARBBOT_POLYMARKET_CLOB_HOST")
	setStr(&cfg.Polymarket.ApiKey, "ARBBOT_POLYMARKET_API_KEY")
	setStr(&cfg.Polymarket.ApiSecret, "ARBBOT_POLYMARKET_API_SECRET")
	setStr(&cfg.Polymarket.ApiPassphrase, "ARBBOT_POLYMARKET_API_PASSPHRASE")

	// ── Sim ──
	setFloat64(&cfg.Sim.FillRate, "ARBBOT_SIM_FILL_RATE")
	setInt64(&cfg.Sim.Seed, "ARBBOT_SIM_SEED")

	// ── Postgres ──
	setStr(&cfg.Postgres.DSN, "ARBBOT_POSTGRES_DSN")
	setStr(&cfg.Postgres.Host, "ARBBOT_POSTGRES_HOST")
	setInt(&cfg.Postgres.Port, "ARBBOT_POSTGRES_PORT")
	setStr(&cfg.Postgres.Database, "ARBBOT_POSTGRES_DATABASE")
	setStr(&cfg.Postgres.User, "ARBBOT_POSTGRES_USER")
	setStr(&cfg.Postgres.Password, "ARBBOT_POSTGRES_PASSWORD")
	setStr(&cfg.Postgres.SSLMode, "ARBBOT_POSTGRES_SSLMODE")

	// ── Redis ──
	setStr(&cfg.Redis.Addr, "ARBBOT_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "ARBBOT_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "ARBBOT_REDIS_DB")
	setStr(&cfg.Redis.Stream, "ARBBOT_REDIS_STREAM")

	// ── Notify ──
	setStr(&cfg.Notify.TelegramToken, "ARBBOT_TELEGRAM_TOKEN")
	setStr(&cfg.Notify.TelegramChatID, "ARBBOT_TELEGRAM_CHAT_ID")
	setStr(&cfg.Notify.DiscordWebhookURL, "ARBBOT_DISCORD_WEBHOOK_URL")
	setStringSlice(&cfg.Notify.Events, "ARBBOT_NOTIFY_EVENTS")

	// ── Trade log ──
	setStr(&cfg.TradeLog.Path, "ARBBOT_TRADELOG_PATH")

	// ── Top-level ──
	setStr(&cfg.Mode, "ARBBOT_MODE")
	setStr(&cfg.LogLevel, "ARBBOT_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
