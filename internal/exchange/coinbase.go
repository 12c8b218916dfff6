package exchange

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lDz7-anony/crypto-arbitrage-backend/internal/domain"
)

// CoinbaseBaseURL is the public Coinbase Exchange REST API host
const CoinbaseBaseURL = "https://api.exchange.coinbase.com"

// coinbaseTicker is the /products/{id}/ticker response shape
type coinbaseTicker struct {
	TradeID int    `json:"trade_id"`
	Price   string `json:"price"`
	Bid     string `json:"bid"`
	Ask     string `json:"ask"`
	Volume  string `json:"volume"`
	Time    string `json:"time"`
}

// CoinbaseClient fetches spot quotes from the Coinbase product ticker endpoint
type CoinbaseClient struct {
	baseClient
}

// NewCoinbaseClient creates a Coinbase client. No network I/O happens here.
func NewCoinbaseClient(cfg Config, opts ...Option) (*CoinbaseClient, error) {
	base, err := newBaseClient(cfg, CoinbaseBaseURL, opts...)
	if err != nil {
		return nil, err
	}
	return &CoinbaseClient{baseClient: base}, nil
}

// Name returns the configured exchange name
func (c *CoinbaseClient) Name() string { return c.name }

// FetchQuote fetches the current best bid/ask for a canonical symbol.
// Coinbase products quote against USD (e.g. "BTC" -> "BTC-USD") unless the
// config maps the symbol explicitly.
func (c *CoinbaseClient) FetchQuote(ctx context.Context, symbol string) (domain.Quote, error) {
	native, ok := c.symbols[symbol]
	if !ok {
		native = symbol
		if !strings.HasSuffix(native, "-USD") {
			native += "-USD"
		}
	}

	var ticker coinbaseTicker
	if err := c.getJSON(ctx, "/products/"+native+"/ticker", symbol, &ticker); err != nil {
		return domain.Quote{}, err
	}

	bid, err := decimal.NewFromString(ticker.Bid)
	if err != nil {
		return domain.Quote{}, domain.NewParseError(c.name, err)
	}
	ask, err := decimal.NewFromString(ticker.Ask)
	if err != nil {
		return domain.Quote{}, domain.NewParseError(c.name, err)
	}

	// Timestamp is the fetch instant, not ticker.Time: the ticker carries the
	// last trade time, which lags far behind for illiquid products and would
	// trip the staleness filter on perfectly fresh data.
	return domain.Quote{
		Exchange:  c.name,
		Symbol:    symbol,
		Bid:       bid,
		Ask:       ask,
		Timestamp: time.Now().UTC(),
	}, nil
}
