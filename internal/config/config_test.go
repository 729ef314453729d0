package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults_AreValid(t *testing.T) {
	cfg := Defaults()
	assert.NoError(t, cfg.Validate())
}

func TestDefaults_StockParameters(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, 2600.0, cfg.Trading.StartingCapital)
	assert.Equal(t, 0.72, cfg.Trading.MatchThreshold)
	assert.Equal(t, time.Second, cfg.Trading.PollInterval.Duration)
	assert.Equal(t, "dry_run", cfg.Mode)
	assert.Equal(t, 0.887, cfg.Sim.FillRate)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Defaults().Trading.StartingCapital, cfg.Trading.StartingCapital)
}

func TestLoad_TOMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
mode = "scan"

[trading]
starting_capital = 5000.0
poll_interval = "250ms"

[kalshi]
enabled = false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "scan", cfg.Mode)
	assert.Equal(t, 5000.0, cfg.Trading.StartingCapital)
	assert.Equal(t, 250*time.Millisecond, cfg.Trading.PollInterval.Duration)
	assert.False(t, cfg.Kalshi.Enabled)

	// Untouched fields keep their defaults.
	assert.Equal(t, 0.03, cfg.Trading.MinEdge)
}

func TestLoad_EnvOverridesTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`mode = "scan"`), 0o644))

	t.Setenv("ARBBOT_MODE", "dry_run")
	t.Setenv("ARBBOT_MIN_EDGE", "0.05")
	t.Setenv("ARBBOT_POLL_INTERVAL", "2s")
	t.Setenv("ARBBOT_NOTIFY_EVENTS", "trade_committed, daily_report")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "dry_run", cfg.Mode)
	assert.Equal(t, 0.05, cfg.Trading.MinEdge)
	assert.Equal(t, 2*time.Second, cfg.Trading.PollInterval.Duration)
	assert.Equal(t, []string{"trade_committed", "daily_report"}, cfg.Notify.Events)
}

func TestValidate_RejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"unknown mode", func(c *Config) { c.Mode = "paper" }, "unknown mode"},
		{"zero capital", func(c *Config) { c.Trading.StartingCapital = 0 }, "starting_capital"},
		{"risk above one", func(c *Config) { c.Trading.RiskPerTrade = 1.5 }, "risk_per_trade"},
		{"negative min edge", func(c *Config) { c.Trading.MinEdge = -0.01 }, "min_edge"},
		{"zero poll interval", func(c *Config) { c.Trading.PollInterval.Duration = 0 }, "poll_interval"},
		{"threshold above one", func(c *Config) { c.Trading.MatchThreshold = 1.2 }, "match_threshold"},
		{"bad report hour", func(c *Config) { c.Trading.ReportHourUTC = 24 }, "report_hour_utc"},
		{"bad fill rate", func(c *Config) { c.Sim.FillRate = 1.5 }, "fill_rate"},
		{"no venues", func(c *Config) { c.Kalshi.Enabled = false; c.Polymarket.Enabled = false }, "venues"},
		{"empty trade log", func(c *Config) { c.TradeLog.Path = " " }, "tradelog"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Defaults()
			tc.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestValidate_LiveModeRequiresCredentials(t *testing.T) {
	cfg := Defaults()
	cfg.Mode = "live"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api_key")
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := Defaults()
	cfg.Mode = "paper"
	cfg.Trading.StartingCapital = -1
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
	assert.Contains(t, err.Error(), "starting_capital")
}
