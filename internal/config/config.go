package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

const dateLayout = "2006-01-02"

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		Symbol   string `yaml:"symbol"`
		Start    string `yaml:"start"`
		End      string `yaml:"end"` // exclusive; "now" rolls to today
		CSVPath  string `yaml:"csv_path"`
		BaseURL  string `yaml:"base_url"`
		Adjusted *bool  `yaml:"adjusted"`
	} `yaml:"data_source"`
	Analysis struct {
		Alpha float64 `yaml:"alpha"`
	} `yaml:"analysis"`
	Chart struct {
		Output   string  `yaml:"output"`
		WidthIn  float64 `yaml:"width_in"`
		HeightIn float64 `yaml:"height_in"`
		DPI      int     `yaml:"dpi"`
		Disabled bool    `yaml:"disabled"`
	} `yaml:"chart"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Schedule struct {
		Cron string `yaml:"cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("SYMBOL"); v != "" {
		cfg.DataSource.Symbol = v
	}
	if v := os.Getenv("PRICE_CSV"); v != "" {
		cfg.DataSource.CSVPath = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("CHART_OUTPUT"); v != "" {
		cfg.Chart.Output = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("CRON_SCHEDULE"); v != "" {
		cfg.Schedule.Cron = v
	}

	// Defaults
	if cfg.DataSource.Symbol == "" {
		cfg.DataSource.Symbol = "SPY"
	}
	if cfg.DataSource.Start == "" {
		cfg.DataSource.Start = "2000-01-01"
	}
	if cfg.DataSource.End == "" {
		cfg.DataSource.End = "2024-01-01"
	}
	if cfg.DataSource.Adjusted == nil {
		adjusted := true
		cfg.DataSource.Adjusted = &adjusted
	}
	if cfg.Analysis.Alpha == 0 {
		cfg.Analysis.Alpha = 0.05
	}
	if cfg.Chart.Output == "" {
		cfg.Chart.Output = "calendar_effects.png"
	}
	if cfg.Chart.WidthIn == 0 {
		cfg.Chart.WidthIn = 12
	}
	if cfg.Chart.HeightIn == 0 {
		cfg.Chart.HeightIn = 10
	}
	if cfg.Chart.DPI == 0 {
		cfg.Chart.DPI = 96
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	return cfg, nil
}

// Validate checks that all required fields are set and consistent.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DataSource.Symbol) == "" {
		return fmt.Errorf("data_source.symbol is required")
	}
	start, end, err := c.DateRange(time.Now())
	if err != nil {
		return err
	}
	if !start.Before(end) {
		return fmt.Errorf("data_source.start %s must be before end %s",
			start.Format(dateLayout), end.Format(dateLayout))
	}
	if c.Analysis.Alpha <= 0 || c.Analysis.Alpha >= 1 {
		return fmt.Errorf("analysis.alpha must be in (0, 1), got %v", c.Analysis.Alpha)
	}
	if c.Chart.WidthIn <= 0 || c.Chart.HeightIn <= 0 || c.Chart.DPI <= 0 {
		return fmt.Errorf("chart dimensions must be positive")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	if c.Schedule.Cron != "" {
		if _, err := cron.NewParser(CronFields).Parse(c.Schedule.Cron); err != nil {
			return fmt.Errorf("schedule.cron: %w", err)
		}
	}
	return nil
}

// CronFields is the cron dialect accepted by schedule.cron (leading seconds field).
const CronFields = cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor

// DateRange parses the configured range; start is inclusive, end exclusive.
// An end of "now" resolves to the day after now, so today is included.
func (c *Config) DateRange(now time.Time) (start, end time.Time, err error) {
	start, err = time.Parse(dateLayout, c.DataSource.Start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("data_source.start: %w", err)
	}
	if strings.EqualFold(c.DataSource.End, "now") {
		y, m, d := now.Date()
		end = time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
		return start, end, nil
	}
	end, err = time.Parse(dateLayout, c.DataSource.End)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("data_source.end: %w", err)
	}
	return start, end, nil
}

// TelegramEnabled reports whether report delivery to Telegram is configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}
