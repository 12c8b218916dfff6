package infra

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

const validYAML = `
app:
  name: crypto-arbitrage-backend
  version: 1.0.0
server:
  host: 0.0.0.0
  port: 8000
exchanges:
  - name: binance
    timeout_sec: 10
  - name: coinbase
  - name: kraken
    symbols:
      BTC: XXBTZUSD
monitor:
  symbols: [BTC, ETH]
  min_profit_percentage: 0.5
  max_price_difference: 10.0
  update_interval_sec: 30
logging:
  level: info
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if len(cfg.Exchanges) != 3 {
		t.Errorf("got %d exchanges, want 3", len(cfg.Exchanges))
	}
	if cfg.Exchanges[2].Symbols["BTC"] != "XXBTZUSD" {
		t.Errorf("kraken symbol map not parsed: %v", cfg.Exchanges[2].Symbols)
	}
	if !cfg.Monitor.MinProfitPercentage.Equal(decimal.NewFromFloat(0.5)) {
		t.Errorf("MinProfitPercentage = %v, want 0.5", cfg.Monitor.MinProfitPercentage)
	}
	if cfg.UpdateInterval() != 30*time.Second {
		t.Errorf("UpdateInterval = %v, want 30s", cfg.UpdateInterval())
	}
	if cfg.StalenessHorizon() != 60*time.Second {
		t.Errorf("StalenessHorizon = %v, want 60s (2 x interval)", cfg.StalenessHorizon())
	}
	if cfg.ListenAddr() != "0.0.0.0:8000" {
		t.Errorf("ListenAddr = %q", cfg.ListenAddr())
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("MIN_PROFIT_PERCENTAGE", "1.25")
	t.Setenv("MAX_PRICE_DIFFERENCE", "20")
	t.Setenv("UPDATE_INTERVAL", "5")
	t.Setenv("PORT", "9000")

	cfg, err := LoadConfig(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if !cfg.Monitor.MinProfitPercentage.Equal(decimal.NewFromFloat(1.25)) {
		t.Errorf("MinProfitPercentage = %v, want env override 1.25", cfg.Monitor.MinProfitPercentage)
	}
	if !cfg.Monitor.MaxPriceDifference.Equal(decimal.NewFromInt(20)) {
		t.Errorf("MaxPriceDifference = %v, want env override 20", cfg.Monitor.MaxPriceDifference)
	}
	if cfg.Monitor.UpdateIntervalSec != 5 {
		t.Errorf("UpdateIntervalSec = %d, want 5", cfg.Monitor.UpdateIntervalSec)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Port = %d, want 9000", cfg.Server.Port)
	}
}

func TestLoadConfig_ExplicitStaleness(t *testing.T) {
	yaml := validYAML + "\n"
	cfg, err := LoadConfig(writeConfig(t, yaml))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	cfg.Monitor.StaleAfterSec = 90
	if cfg.StalenessHorizon() != 90*time.Second {
		t.Errorf("StalenessHorizon = %v, want explicit 90s", cfg.StalenessHorizon())
	}
}

func TestConfig_Validate(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"no exchanges", `
monitor:
  symbols: [BTC]
  min_profit_percentage: 0.5
  max_price_difference: 10
  update_interval_sec: 30
`},
		{"no symbols", `
exchanges:
  - name: binance
monitor:
  symbols: []
  min_profit_percentage: 0.5
  max_price_difference: 10
  update_interval_sec: 30
`},
		{"zero interval", `
exchanges:
  - name: binance
monitor:
  symbols: [BTC]
  min_profit_percentage: 0.5
  max_price_difference: 10
  update_interval_sec: 0
`},
		{"negative min profit", `
exchanges:
  - name: binance
monitor:
  symbols: [BTC]
  min_profit_percentage: -1
  max_price_difference: 10
  update_interval_sec: 30
`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := LoadConfig(writeConfig(t, tc.yaml)); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
