package app

import (
	"log/slog"
	"os"
	"time"

	"github.com/lDz7-anony/crypto-arbitrage-backend/internal/exchange"
	"github.com/lDz7-anony/crypto-arbitrage-backend/internal/infra"
	"github.com/lDz7-anony/crypto-arbitrage-backend/internal/infra/storage"
	"github.com/lDz7-anony/crypto-arbitrage-backend/internal/server"
	"github.com/lDz7-anony/crypto-arbitrage-backend/internal/service"
)

const defaultConfigPath = "configs/config.yaml"

// Bootstrap orchestrates the application startup sequence
type Bootstrap struct {
	Config    *infra.Config
	Storage   *storage.Storage
	Registry  *exchange.Registry
	Monitor   *service.Monitor
	Scheduler *service.Scheduler
	Server    *server.Server
}

// NewBootstrap creates a new Bootstrap instance
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize performs core system initialization: config, logger, storage,
// exchange clients and the monitoring pipeline.
func (b *Bootstrap) Initialize() error {
	slog.Info("🚀 Bootstrapping arbitrage backend...")

	// 1. Load Config
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = defaultConfigPath
	}
	cfg, err := infra.LoadConfig(path)
	if err != nil {
		return err // Let main handle the error
	}
	b.Config = cfg

	// 2. Setup Logger
	logger := infra.NewLogger(cfg)
	slog.SetDefault(logger)

	// 3. Initialize Storage (symbol watchlist). A broken database is logged
	// and the service falls back to the configured symbol list.
	store, err := storage.NewStorage(cfg.Storage.Path)
	if err != nil {
		slog.Warn("⚠️ Storage unavailable, watchlist runs from config only", slog.Any("error", err))
	} else {
		b.Storage = store
		if err := store.SeedSymbols(cfg.Monitor.Symbols); err != nil {
			slog.Warn("Failed to seed symbol watchlist", slog.Any("error", err))
		}
		slog.Info("✅ Database initialized")
	}

	// 4. Exchange clients. Init continues past individual failures; the
	// registry tracks per-exchange health either way.
	b.Registry = exchange.NewRegistry()
	b.Registry.Init(exchangeConfigs(cfg))

	// 5. Monitoring pipeline
	cache := service.NewPriceCache(cfg.StalenessHorizon())
	monitorCfg := service.MonitorConfig{
		Registry:         b.Registry,
		Cache:            cache,
		Aggregator:       service.NewAggregator(b.Registry, cache),
		Detector:         service.NewDetector(cache),
		Symbols:          cfg.Monitor.Symbols,
		MinProfitPercent: cfg.Monitor.MinProfitPercentage,
		MaxPriceDiff:     cfg.Monitor.MaxPriceDifference,
	}
	if b.Storage != nil {
		monitorCfg.Catalog = b.Storage
	}
	b.Monitor = service.NewMonitor(monitorCfg)

	// 6. HTTP layer and refresh loop. Each completed cycle is pushed to the
	// websocket consumers.
	b.Server = server.NewServer(b.Monitor, monitorCfg.Catalog, cfg.App.Name, cfg.App.Version)
	b.Scheduler = service.NewScheduler(b.Monitor, cfg.UpdateInterval(), b.Server.BroadcastCycle)

	slog.Info("✅ Monitoring pipeline ready",
		slog.Int("exchanges", len(cfg.Exchanges)),
		slog.Any("symbols", cfg.Monitor.Symbols),
		slog.Duration("interval", cfg.UpdateInterval()))
	return nil
}

// exchangeConfigs maps file-level exchange entries to client configs
func exchangeConfigs(cfg *infra.Config) []exchange.Config {
	out := make([]exchange.Config, 0, len(cfg.Exchanges))
	for _, ex := range cfg.Exchanges {
		out = append(out, exchange.Config{
			Name:    ex.Name,
			BaseURL: ex.BaseURL,
			Timeout: time.Duration(ex.TimeoutSec) * time.Second,
			Symbols: ex.Symbols,
		})
	}
	return out
}
