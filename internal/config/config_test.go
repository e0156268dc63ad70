package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{"SYMBOL", "PRICE_CSV", "SQLITE_PATH", "CHART_OUTPUT",
		"TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID", "HTTPS_PROXY", "LOG_LEVEL", "CRON_SCHEDULE"} {
		t.Setenv(k, "")
	}
}

func TestLoad_DefaultsMatchOriginalRun(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "SPY", cfg.DataSource.Symbol)
	assert.Equal(t, 0.05, cfg.Analysis.Alpha)
	assert.True(t, *cfg.DataSource.Adjusted)
	assert.Equal(t, "calendar_effects.png", cfg.Chart.Output)
	assert.False(t, cfg.TelegramEnabled())

	start, end, err := cfg.DateRange(time.Now())
	require.NoError(t, err)
	assert.Equal(t, time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), end)
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := `
data_source:
  symbol: QQQ
  start: "2010-01-01"
  end: "2020-01-01"
  adjusted: false
analysis:
  alpha: 0.01
chart:
  output: out.png
database:
  sqlite_path: cache.db
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))
	t.Setenv("SYMBOL", "IWM")
	t.Setenv("CHART_OUTPUT", "env.png")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "IWM", cfg.DataSource.Symbol)
	assert.Equal(t, "env.png", cfg.Chart.Output)
	assert.Equal(t, 0.01, cfg.Analysis.Alpha)
	assert.False(t, *cfg.DataSource.Adjusted)
	assert.Equal(t, "cache.db", cfg.Database.SQLitePath)
}

func TestLoad_BadYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data_source: [unclosed"), 0o644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "parse config")
}

func TestValidate(t *testing.T) {
	clearEnv(t)
	base := func() *Config {
		cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"reversed range", func(c *Config) { c.DataSource.Start = "2025-01-01" }, "must be before"},
		{"bad start", func(c *Config) { c.DataSource.Start = "01/01/2000" }, "data_source.start"},
		{"alpha too big", func(c *Config) { c.Analysis.Alpha = 1 }, "analysis.alpha"},
		{"half telegram", func(c *Config) { c.Telegram.BotToken = "x" }, "set together"},
		{"bad cron", func(c *Config) { c.Schedule.Cron = "every day" }, "schedule.cron"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.errMsg)
		})
	}

	cfg := base()
	cfg.Schedule.Cron = "0 30 22 * * 1-5"
	assert.NoError(t, cfg.Validate())
}

func TestDateRange_Now(t *testing.T) {
	cfg := &Config{}
	cfg.DataSource.Start = "2020-01-01"
	cfg.DataSource.End = "now"

	now := time.Date(2026, 10, 16, 15, 4, 5, 0, time.UTC)
	_, end, err := cfg.DateRange(now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC), end)
}
