package service

import (
	"sort"
	"sync"
	"time"

	"github.com/lDz7-anony/crypto-arbitrage-backend/internal/domain"
)

// PriceCache holds the most recent quote per (exchange, symbol) key.
// Staleness is enforced at read time only: writes stay a single map upsert
// and old entries are simply filtered out of query results, never evicted.
type PriceCache struct {
	mu      sync.RWMutex
	quotes  map[cacheKey]domain.Quote
	horizon time.Duration
}

type cacheKey struct {
	exchange string
	symbol   string
}

// NewPriceCache creates a cache with the given staleness horizon. Quotes
// older than the horizon are invisible to Get and GetAll.
func NewPriceCache(horizon time.Duration) *PriceCache {
	return &PriceCache{
		quotes:  make(map[cacheKey]domain.Quote),
		horizon: horizon,
	}
}

// Put upserts a quote by (exchange, symbol). When two fetches race across
// overlapping cycles, the quote with the later timestamp wins. Returns
// whether the quote was stored.
func (c *PriceCache) Put(q domain.Quote) bool {
	key := cacheKey{exchange: q.Exchange, symbol: q.Symbol}

	c.mu.Lock()
	defer c.mu.Unlock()

	if cur, ok := c.quotes[key]; ok && cur.Timestamp.After(q.Timestamp) {
		return false
	}
	c.quotes[key] = q
	return true
}

// Get returns the cached quote for one exchange, or false if absent or stale
func (c *PriceCache) Get(exchange, symbol string) (domain.Quote, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	q, ok := c.quotes[cacheKey{exchange: exchange, symbol: symbol}]
	if !ok || q.OlderThan(c.horizon, time.Now()) {
		return domain.Quote{}, false
	}
	return q, true
}

// GetAll returns every non-stale quote for a symbol, ordered by exchange
// name for determinism. This is the arbitrage detector's input.
func (c *PriceCache) GetAll(symbol string) []domain.Quote {
	now := time.Now()

	c.mu.RLock()
	out := make([]domain.Quote, 0, 4)
	for key, q := range c.quotes {
		if key.symbol != symbol || q.OlderThan(c.horizon, now) {
			continue
		}
		out = append(out, q)
	}
	c.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].Exchange < out[j].Exchange
	})
	return out
}

// Horizon returns the configured staleness horizon
func (c *PriceCache) Horizon() time.Duration {
	return c.horizon
}
