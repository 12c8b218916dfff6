package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote represents a single exchange's bid/ask snapshot for a symbol.
// Quotes are immutable: a newer quote for the same (exchange, symbol) key
// supersedes the old one, it never mutates it.
type Quote struct {
	Exchange  string          `json:"exchange"`
	Symbol    string          `json:"symbol"`
	Bid       decimal.Decimal `json:"bid"`
	Ask       decimal.Decimal `json:"ask"`
	Timestamp time.Time       `json:"timestamp"`
}

// Validate checks the quote invariant: bid > 0, ask > 0, ask >= bid.
// A quote failing validation is discarded, never cached.
func (q Quote) Validate() error {
	if !q.Bid.IsPositive() {
		return NewDataQualityError(q.Exchange, q.Symbol, "bid must be positive, got "+q.Bid.String())
	}
	if !q.Ask.IsPositive() {
		return NewDataQualityError(q.Exchange, q.Symbol, "ask must be positive, got "+q.Ask.String())
	}
	if q.Ask.LessThan(q.Bid) {
		return NewDataQualityError(q.Exchange, q.Symbol, "ask "+q.Ask.String()+" below bid "+q.Bid.String())
	}
	return nil
}

// Spread returns the ask-bid gap on this single exchange.
func (q Quote) Spread() decimal.Decimal {
	return q.Ask.Sub(q.Bid)
}

// Mid returns the bid/ask midpoint, used for price comparison summaries.
func (q Quote) Mid() decimal.Decimal {
	return q.Bid.Add(q.Ask).Div(decimal.NewFromInt(2))
}

// OlderThan reports whether the quote's age exceeds horizon at time now.
func (q Quote) OlderThan(horizon time.Duration, now time.Time) bool {
	return now.Sub(q.Timestamp) > horizon
}
