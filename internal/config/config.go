package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"FolioSentinel/internal/calendar"
)

// Config holds all application configuration.
type Config struct {
	Store struct {
		Kind    string `yaml:"kind"` // "file" or "rest"
		Dir     string `yaml:"dir"`
		BaseURL string `yaml:"base_url"`
		Auth    string `yaml:"auth"`
	} `yaml:"store"`
	Provider struct {
		Kind         string `yaml:"kind"` // "yahoo" or "alphavantage"
		APIKey       string `yaml:"api_key"`
		BatchSize    int    `yaml:"batch_size"`
		BatchPauseMS int    `yaml:"batch_pause_ms"`
		Retries      int    `yaml:"retries"`
		RetryDelayMS int    `yaml:"retry_delay_ms"`
		TimeoutSec   int    `yaml:"timeout_sec"`
	} `yaml:"provider"`
	Benchmark struct {
		Symbol          string  `yaml:"symbol"`
		StartingCapital float64 `yaml:"starting_capital"`
		InceptionDate   string  `yaml:"inception_date"`
	} `yaml:"benchmark"`
	Schedule struct {
		SyncCron string `yaml:"sync_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides. A .env file in the working directory is folded into the
// environment first.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[WARN] load .env: %v", err)
	}

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
	if v := os.Getenv("STORE_KIND"); v != "" {
		cfg.Store.Kind = v
	}
	if v := os.Getenv("STORE_DIR"); v != "" {
		cfg.Store.Dir = v
	}
	if v := os.Getenv("STORE_BASE_URL"); v != "" {
		cfg.Store.BaseURL = v
	}
	if v := os.Getenv("STORE_AUTH"); v != "" {
		cfg.Store.Auth = v
	}
	if v := os.Getenv("PROVIDER_KIND"); v != "" {
		cfg.Provider.Kind = v
	}
	if v := os.Getenv("ALPHAVANTAGE_API_KEY"); v != "" {
		cfg.Provider.APIKey = v
	}
	if v := os.Getenv("BENCHMARK_SYMBOL"); v != "" {
		cfg.Benchmark.Symbol = v
	}
	if v := os.Getenv("STARTING_CAPITAL"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Benchmark.StartingCapital = f
		}
	}
	if v := os.Getenv("INCEPTION_DATE"); v != "" {
		cfg.Benchmark.InceptionDate = v
	}
	if v := os.Getenv("SYNC_CRON"); v != "" {
		cfg.Schedule.SyncCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
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

	// Defaults
	if cfg.Store.Kind == "" {
		cfg.Store.Kind = "file"
	}
	if cfg.Store.Kind == "file" && cfg.Store.Dir == "" {
		cfg.Store.Dir = "data/documents"
	}
	if cfg.Provider.Kind == "" {
		cfg.Provider.Kind = "yahoo"
	}
	if cfg.Provider.BatchSize == 0 {
		cfg.Provider.BatchSize = 5
	}
	if cfg.Provider.BatchPauseMS == 0 {
		cfg.Provider.BatchPauseMS = 1000
	}
	if cfg.Provider.Retries == 0 {
		cfg.Provider.Retries = 3
	}
	if cfg.Provider.RetryDelayMS == 0 {
		cfg.Provider.RetryDelayMS = 500
	}
	if cfg.Provider.TimeoutSec == 0 {
		cfg.Provider.TimeoutSec = 15
	}
	if cfg.Benchmark.Symbol == "" {
		cfg.Benchmark.Symbol = "SPY"
	}

	return cfg, nil
}

// Validate checks that all required fields are set. A failure here aborts the
// run before any network activity.
func (c *Config) Validate() error {
	switch c.Store.Kind {
	case "file":
		if c.Store.Dir == "" {
			return fmt.Errorf("store.dir is required for the file store")
		}
	case "rest":
		if c.Store.BaseURL == "" {
			return fmt.Errorf("store.base_url is required for the rest store")
		}
	default:
		return fmt.Errorf("store.kind must be \"file\" or \"rest\", got %q", c.Store.Kind)
	}

	switch c.Provider.Kind {
	case "yahoo":
	case "alphavantage":
		if c.Provider.APIKey == "" {
			return fmt.Errorf("provider.api_key is required for alphavantage")
		}
	default:
		return fmt.Errorf("provider.kind must be \"yahoo\" or \"alphavantage\", got %q", c.Provider.Kind)
	}

	if c.Benchmark.Symbol == "" {
		return fmt.Errorf("benchmark.symbol is required")
	}
	if c.Benchmark.InceptionDate != "" {
		if _, err := calendar.Parse(c.Benchmark.InceptionDate); err != nil {
			return fmt.Errorf("benchmark.inception_date: %w", err)
		}
		if c.Benchmark.StartingCapital <= 0 {
			return fmt.Errorf("benchmark.starting_capital must be positive when an inception date is set")
		}
	}
	return nil
}
