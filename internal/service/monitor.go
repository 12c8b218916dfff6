package service

import (
	"context"
	"log/slog"
	"sort"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"github.com/lDz7-anony/crypto-arbitrage-backend/internal/domain"
	"github.com/lDz7-anony/crypto-arbitrage-backend/internal/exchange"
)

// Monitor is the narrow query surface the core exposes to transport layers.
// All reads come from the cache snapshot and return promptly; nothing here
// blocks on network I/O.
type Monitor struct {
	registry   *exchange.Registry
	cache      *PriceCache
	aggregator *Aggregator
	detector   *Detector
	catalog    domain.SymbolCatalog // optional persisted watchlist
	symbols    []string             // fallback from config

	minProfitPercent decimal.Decimal
	maxPriceDiff     decimal.Decimal

	refreshGroup singleflight.Group
	logger       *slog.Logger
}

// MonitorConfig carries the tunables and collaborators for a Monitor
type MonitorConfig struct {
	Registry         *exchange.Registry
	Cache            *PriceCache
	Aggregator       *Aggregator
	Detector         *Detector
	Catalog          domain.SymbolCatalog
	Symbols          []string
	MinProfitPercent decimal.Decimal
	MaxPriceDiff     decimal.Decimal
}

// NewMonitor wires the query surface over the core components
func NewMonitor(cfg MonitorConfig) *Monitor {
	return &Monitor{
		registry:         cfg.Registry,
		cache:            cfg.Cache,
		aggregator:       cfg.Aggregator,
		detector:         cfg.Detector,
		catalog:          cfg.Catalog,
		symbols:          cfg.Symbols,
		minProfitPercent: cfg.MinProfitPercent,
		maxPriceDiff:     cfg.MaxPriceDiff,
		logger:           slog.Default().With("module", "monitor"),
	}
}

// Symbols returns the active watchlist. The persisted catalog wins when
// available; the configured list is the fallback so a broken database never
// silences the whole service.
func (m *Monitor) Symbols() []string {
	if m.catalog != nil {
		symbols, err := m.catalog.ActiveSymbols()
		if err == nil && len(symbols) > 0 {
			return symbols
		}
		if err != nil {
			m.logger.Warn("symbol catalog unavailable, using configured list", slog.Any("error", err))
		}
	}
	return m.symbols
}

// GetPrice returns the current non-stale quotes for a symbol across exchanges
func (m *Monitor) GetPrice(symbol string) []domain.Quote {
	return m.cache.GetAll(symbol)
}

// GetOpportunities returns the current arbitrage opportunities for a symbol,
// best profit first.
func (m *Monitor) GetOpportunities(symbol string) []domain.ArbitrageOpportunity {
	return m.detector.Detect(symbol, m.minProfitPercent, m.maxPriceDiff)
}

// GetAllOpportunities scans the whole watchlist and merges the results,
// best profit first across symbols.
func (m *Monitor) GetAllOpportunities() []domain.ArbitrageOpportunity {
	var all []domain.ArbitrageOpportunity
	for _, symbol := range m.Symbols() {
		all = append(all, m.detector.Detect(symbol, m.minProfitPercent, m.maxPriceDiff)...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].ProfitPercent.GreaterThan(all[j].ProfitPercent)
	})
	return all
}

// GetComparison summarizes a symbol's quotes across exchanges, or nil when
// fewer than two exchanges have fresh data.
func (m *Monitor) GetComparison(symbol string) *domain.PriceComparison {
	return m.detector.Compare(symbol)
}

// GetHealth returns every exchange's health record
func (m *Monitor) GetHealth() map[string]domain.ExchangeHealth {
	return m.registry.Health()
}

// TriggerRefresh runs one refresh cycle for the full watchlist. Concurrent
// callers (a manual trigger racing a scheduled tick) are coalesced into the
// single in-flight cycle instead of doubling the outbound request volume.
func (m *Monitor) TriggerRefresh(ctx context.Context) {
	m.refreshGroup.Do("refresh", func() (any, error) {
		m.aggregator.Refresh(ctx, m.Symbols())
		return nil, nil
	})
}
