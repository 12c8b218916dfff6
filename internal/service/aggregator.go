package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/lDz7-anony/crypto-arbitrage-backend/internal/domain"
	"github.com/lDz7-anony/crypto-arbitrage-backend/internal/exchange"
	"github.com/lDz7-anony/crypto-arbitrage-backend/internal/infra"
)

// Aggregator fans a symbol set out to every active exchange concurrently
// and commits the surviving quotes to the price cache. Each (exchange,
// symbol) fetch is its own unit of work: failures are recorded against that
// exchange's health and never touch the other fetches.
type Aggregator struct {
	registry *exchange.Registry
	cache    *PriceCache
	logger   *slog.Logger
}

// NewAggregator creates an aggregator writing through the given cache
func NewAggregator(registry *exchange.Registry, cache *PriceCache) *Aggregator {
	return &Aggregator{
		registry: registry,
		cache:    cache,
		logger:   slog.Default().With("module", "aggregator"),
	}
}

// Refresh fetches every symbol from every active exchange and returns once
// all dispatched fetches have completed or timed out. There is no early
// abort: a batch with nine failures still commits its one success.
func (a *Aggregator) Refresh(ctx context.Context, symbols []string) {
	clients := a.registry.ActiveClients()
	if len(clients) == 0 {
		a.logger.Warn("no active exchanges, skipping refresh")
		return
	}

	var wg sync.WaitGroup
	for _, client := range clients {
		for _, symbol := range symbols {
			wg.Add(1)
			go func(client domain.ExchangeClient, symbol string) {
				defer wg.Done()
				a.fetchOne(ctx, client, symbol)
			}(client, symbol)
		}
	}
	wg.Wait()
}

// fetchOne performs a single (exchange, symbol) fetch and classifies the outcome
func (a *Aggregator) fetchOne(ctx context.Context, client domain.ExchangeClient, symbol string) {
	name := client.Name()

	quote, err := client.FetchQuote(ctx, symbol)
	if err != nil {
		if errors.Is(err, domain.ErrSymbolNotSupported) {
			// The transport worked, the exchange just doesn't list this
			// symbol. Not a health signal.
			a.logger.Debug("symbol not supported",
				slog.String("exchange", name),
				slog.String("symbol", symbol),
			)
			return
		}

		infra.GlobalMetrics.RecordFetch(false)
		a.registry.RecordFailure(name, err)
		a.logger.Warn("quote fetch failed",
			slog.String("exchange", name),
			slog.String("symbol", symbol),
			slog.Any("error", err),
		)
		return
	}

	infra.GlobalMetrics.RecordFetch(true)

	if err := quote.Validate(); err != nil {
		// Bad data from a live exchange: discard the quote but leave health
		// alone, the transport itself succeeded.
		infra.GlobalMetrics.RecordQuoteRejected()
		a.logger.Warn("quote rejected",
			slog.String("exchange", name),
			slog.String("symbol", symbol),
			slog.Any("error", err),
		)
		return
	}

	a.registry.RecordSuccess(name)
	if a.cache.Put(quote) {
		infra.GlobalMetrics.RecordQuoteCached()
	}
}
