package domain

import (
	"context"
)

// ExchangeClient defines the contract for per-exchange REST quote fetchers.
// Construction must never perform network I/O; only FetchQuote touches the
// network, bounded by the client's own request timeout.
type ExchangeClient interface {
	Name() string
	FetchQuote(ctx context.Context, symbol string) (Quote, error)
}

// QuoteCache holds the most recent quote per (exchange, symbol) key.
// Staleness is a read-time filter: writes stay O(1), nothing is evicted.
type QuoteCache interface {
	Put(q Quote) bool
	Get(exchange, symbol string) (Quote, bool)
	GetAll(symbol string) []Quote
}

// SymbolCatalog is the persisted watchlist of symbols to monitor
type SymbolCatalog interface {
	ActiveSymbols() ([]string, error)
	UpsertSymbol(info *SymbolInfo) error
	SetActive(symbol string, active bool) (bool, error)
}
