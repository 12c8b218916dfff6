package infra

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/lDz7-anony/crypto-arbitrage-backend/internal/domain"
)

// ExchangeConfig describes one exchange entry in the configuration file
type ExchangeConfig struct {
	Name       string            `yaml:"name"`
	BaseURL    string            `yaml:"base_url"`
	TimeoutSec int               `yaml:"timeout_sec"`
	Symbols    map[string]string `yaml:"symbols"`
}

// Config holds every application setting. After loading, sensitive or
// deployment-specific values may be overridden through environment variables.
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"server"`

	Exchanges []ExchangeConfig `yaml:"exchanges"`

	Monitor struct {
		Symbols             []string        `yaml:"symbols"`
		MinProfitPercentage decimal.Decimal `yaml:"min_profit_percentage"`
		MaxPriceDifference  decimal.Decimal `yaml:"max_price_difference"`
		UpdateIntervalSec   int             `yaml:"update_interval_sec"`
		StaleAfterSec       int             `yaml:"stale_after_sec"` // 0 = derive from update interval
	} `yaml:"monitor"`

	Storage struct {
		Path string `yaml:"path"`
	} `yaml:"storage"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// LoadConfig reads and parses the configuration file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrConfigNotFound, path)
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	overrideWithEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks configuration validity
func (c *Config) Validate() error {
	if len(c.Exchanges) == 0 {
		return fmt.Errorf("at least one exchange is required")
	}
	for _, ex := range c.Exchanges {
		if ex.Name == "" {
			return fmt.Errorf("exchange entry missing a name")
		}
		if ex.TimeoutSec < 0 {
			return fmt.Errorf("exchange %s: negative timeout", ex.Name)
		}
	}

	if len(c.Monitor.Symbols) == 0 {
		return fmt.Errorf("at least one symbol is required")
	}
	if c.Monitor.UpdateIntervalSec <= 0 {
		return fmt.Errorf("update interval must be positive")
	}
	if c.Monitor.MinProfitPercentage.IsNegative() {
		return fmt.Errorf("min profit percentage must not be negative")
	}
	if !c.Monitor.MaxPriceDifference.IsPositive() {
		return fmt.Errorf("max price difference must be positive")
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	return nil
}

// UpdateInterval returns the refresh interval as a duration
func (c *Config) UpdateInterval() time.Duration {
	return time.Duration(c.Monitor.UpdateIntervalSec) * time.Second
}

// StalenessHorizon returns the maximum quote age served from the cache.
// Defaults to twice the update interval: anything older has missed at least
// one full refresh cycle and cannot be trusted.
func (c *Config) StalenessHorizon() time.Duration {
	if c.Monitor.StaleAfterSec > 0 {
		return time.Duration(c.Monitor.StaleAfterSec) * time.Second
	}
	return 2 * c.UpdateInterval()
}

// ListenAddr returns the host:port the HTTP server binds to
func (c *Config) ListenAddr() string {
	host := c.Server.Host
	port := c.Server.Port
	if port == 0 {
		port = 8000
	}
	return fmt.Sprintf("%s:%d", host, port)
}

// overrideWithEnv applies environment variable overrides when present
func overrideWithEnv(cfg *Config) {
	if v := os.Getenv("HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("MIN_PROFIT_PERCENTAGE"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			cfg.Monitor.MinProfitPercentage = d
		}
	}
	if v := os.Getenv("MAX_PRICE_DIFFERENCE"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			cfg.Monitor.MaxPriceDifference = d
		}
	}
	if v := os.Getenv("UPDATE_INTERVAL"); v != "" {
		if sec, err := strconv.Atoi(v); err == nil && sec > 0 {
			cfg.Monitor.UpdateIntervalSec = sec
		}
	}
	if v := os.Getenv("STORAGE_PATH"); v != "" {
		cfg.Storage.Path = v
	}
}
