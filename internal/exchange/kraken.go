package exchange

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lDz7-anony/crypto-arbitrage-backend/internal/domain"
)

// KrakenBaseURL is the public Kraken REST API host
const KrakenBaseURL = "https://api.kraken.com"

// defaultKrakenPairs maps canonical symbols to Kraken's legacy pair names
var defaultKrakenPairs = map[string]string{
	"BTC": "XXBTZUSD",
	"ETH": "XETHZUSD",
	"SOL": "SOLUSD",
	"XRP": "XXRPZUSD",
}

// krakenTickerResponse is the /0/public/Ticker response shape.
// "a" and "b" are [price, whole lot volume, lot volume] string triples.
type krakenTickerResponse struct {
	Error  []string `json:"error"`
	Result map[string]struct {
		Ask []string `json:"a"`
		Bid []string `json:"b"`
	} `json:"result"`
}

// KrakenClient fetches spot quotes from the Kraken public ticker endpoint
type KrakenClient struct {
	baseClient
}

// NewKrakenClient creates a Kraken client. No network I/O happens here.
func NewKrakenClient(cfg Config, opts ...Option) (*KrakenClient, error) {
	base, err := newBaseClient(cfg, KrakenBaseURL, opts...)
	if err != nil {
		return nil, err
	}
	if base.symbols == nil {
		base.symbols = defaultKrakenPairs
	}
	return &KrakenClient{baseClient: base}, nil
}

// Name returns the configured exchange name
func (c *KrakenClient) Name() string { return c.name }

// FetchQuote fetches the current best bid/ask for a canonical symbol.
// Kraken uses legacy pair names ("BTC" -> "XXBTZUSD"); symbols outside the
// mapping are passed through as-is and rejected by the API if unknown.
func (c *KrakenClient) FetchQuote(ctx context.Context, symbol string) (domain.Quote, error) {
	native, ok := c.symbols[symbol]
	if !ok {
		native = symbol
	}

	var resp krakenTickerResponse
	if err := c.getJSON(ctx, "/0/public/Ticker?pair="+native, symbol, &resp); err != nil {
		return domain.Quote{}, err
	}

	// Kraken reports errors in-band with a 200 status
	if len(resp.Error) > 0 {
		msg := strings.Join(resp.Error, "; ")
		if strings.Contains(msg, "Unknown asset pair") {
			return domain.Quote{}, domain.NewNotSupportedError(c.name, symbol)
		}
		return domain.Quote{}, domain.NewParseError(c.name, errors.New(msg))
	}

	ticker, ok := resp.Result[native]
	if !ok {
		// Kraken occasionally answers under a normalized pair name
		for _, v := range resp.Result {
			ticker, ok = v, true
			break
		}
	}
	if !ok || len(ticker.Ask) == 0 || len(ticker.Bid) == 0 {
		return domain.Quote{}, domain.NewParseError(c.name, fmt.Errorf("pair %s missing from result", native))
	}

	ask, err := decimal.NewFromString(ticker.Ask[0])
	if err != nil {
		return domain.Quote{}, domain.NewParseError(c.name, err)
	}
	bid, err := decimal.NewFromString(ticker.Bid[0])
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
