package exchange

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lDz7-anony/crypto-arbitrage-backend/internal/domain"
)

// BinanceBaseURL is the public Binance REST API host
const BinanceBaseURL = "https://api.binance.com"

// binanceBookTicker is the /api/v3/ticker/bookTicker response shape
type binanceBookTicker struct {
	Symbol   string `json:"symbol"`
	BidPrice string `json:"bidPrice"`
	BidQty   string `json:"bidQty"`
	AskPrice string `json:"askPrice"`
	AskQty   string `json:"askQty"`
}

// BinanceClient fetches spot quotes from the Binance book-ticker endpoint
type BinanceClient struct {
	baseClient
}

// NewBinanceClient creates a Binance client. No network I/O happens here.
func NewBinanceClient(cfg Config, opts ...Option) (*BinanceClient, error) {
	base, err := newBaseClient(cfg, BinanceBaseURL, opts...)
	if err != nil {
		return nil, err
	}
	return &BinanceClient{baseClient: base}, nil
}

// Name returns the configured exchange name
func (c *BinanceClient) Name() string { return c.name }

// FetchQuote fetches the current best bid/ask for a canonical symbol.
// Binance quotes against USDT (e.g. "BTC" -> "BTCUSDT") unless the config
// maps the symbol explicitly.
func (c *BinanceClient) FetchQuote(ctx context.Context, symbol string) (domain.Quote, error) {
	native, ok := c.symbols[symbol]
	if !ok {
		native = symbol
		if !strings.HasSuffix(native, "USDT") {
			native += "USDT"
		}
	}

	var ticker binanceBookTicker
	if err := c.getJSON(ctx, "/api/v3/ticker/bookTicker?symbol="+native, symbol, &ticker); err != nil {
		return domain.Quote{}, err
	}

	bid, err := decimal.NewFromString(ticker.BidPrice)
	if err != nil {
		return domain.Quote{}, domain.NewParseError(c.name, err)
	}
	ask, err := decimal.NewFromString(ticker.AskPrice)
	if err != nil {
		return domain.Quote{}, domain.NewParseError(c.name, err)
	}

	return domain.Quote{
		Exchange:  c.name,
		Symbol:    symbol,
		Bid:       bid,
		Ask:       ask,
		Timestamp: time.Now().UTC(),
	}, nil
}
