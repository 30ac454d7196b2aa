package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store.Kind != "file" || cfg.Store.Dir != "data/documents" {
		t.Errorf("store defaults = %+v", cfg.Store)
	}
	if cfg.Provider.Kind != "yahoo" {
		t.Errorf("provider kind = %q, want yahoo", cfg.Provider.Kind)
	}
	if cfg.Provider.BatchSize != 5 || cfg.Provider.BatchPauseMS != 1000 ||
		cfg.Provider.Retries != 3 || cfg.Provider.RetryDelayMS != 500 || cfg.Provider.TimeoutSec != 15 {
		t.Errorf("provider defaults = %+v", cfg.Provider)
	}
	if cfg.Benchmark.Symbol != "SPY" {
		t.Errorf("benchmark symbol = %q, want SPY", cfg.Benchmark.Symbol)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	path := writeConfig(t, `
store:
  kind: rest
  base_url: https://folio.example.firebaseio.com
  auth: token123
provider:
  kind: alphavantage
  api_key: demo
  batch_size: 2
benchmark:
  symbol: voo
  starting_capital: 10000
  inception_date: "2025-01-02"
schedule:
  sync_cron: "0 18 * * 1-5"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store.Kind != "rest" || cfg.Store.BaseURL != "https://folio.example.firebaseio.com" {
		t.Errorf("store = %+v", cfg.Store)
	}
	if cfg.Provider.Kind != "alphavantage" || cfg.Provider.APIKey != "demo" || cfg.Provider.BatchSize != 2 {
		t.Errorf("provider = %+v", cfg.Provider)
	}
	if cfg.Benchmark.StartingCapital != 10000 || cfg.Benchmark.InceptionDate != "2025-01-02" {
		t.Errorf("benchmark = %+v", cfg.Benchmark)
	}
	if cfg.Schedule.SyncCron != "0 18 * * 1-5" {
		t.Errorf("cron = %q", cfg.Schedule.SyncCron)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
store:
  kind: file
  dir: data/documents
benchmark:
  symbol: SPY
`)
	t.Setenv("STORE_KIND", "rest")
	t.Setenv("STORE_BASE_URL", "https://env.example.com")
	t.Setenv("BENCHMARK_SYMBOL", "QQQ")
	t.Setenv("STARTING_CAPITAL", "25000")
	t.Setenv("SYNC_CRON", "30 17 * * *")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store.Kind != "rest" || cfg.Store.BaseURL != "https://env.example.com" {
		t.Errorf("env override lost: %+v", cfg.Store)
	}
	if cfg.Benchmark.Symbol != "QQQ" || cfg.Benchmark.StartingCapital != 25000 {
		t.Errorf("benchmark override lost: %+v", cfg.Benchmark)
	}
	if cfg.Schedule.SyncCron != "30 17 * * *" {
		t.Errorf("cron override lost: %q", cfg.Schedule.SyncCron)
	}
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown store kind", func(c *Config) { c.Store.Kind = "s3" }},
		{"rest without base url", func(c *Config) { c.Store.Kind = "rest"; c.Store.BaseURL = "" }},
		{"file without dir", func(c *Config) { c.Store.Dir = "" }},
		{"unknown provider", func(c *Config) { c.Provider.Kind = "bloomberg" }},
		{"alphavantage without key", func(c *Config) { c.Provider.Kind = "alphavantage"; c.Provider.APIKey = "" }},
		{"empty benchmark symbol", func(c *Config) { c.Benchmark.Symbol = "" }},
		{"bad inception date", func(c *Config) {
			c.Benchmark.InceptionDate = "01-02-2025x"
			c.Benchmark.StartingCapital = 1000
		}},
		{"inception without capital", func(c *Config) {
			c.Benchmark.InceptionDate = "2025-01-02"
			c.Benchmark.StartingCapital = 0
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}
