package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ArbitrageOpportunity is a buy-low/sell-high pair across two exchanges.
// Created fresh on every detection cycle and never mutated.
type ArbitrageOpportunity struct {
	Symbol        string          `json:"symbol"`
	BuyExchange   string          `json:"buy_exchange"`
	BuyPrice      decimal.Decimal `json:"buy_price"`
	SellExchange  string          `json:"sell_exchange"`
	SellPrice     decimal.Decimal `json:"sell_price"`
	ProfitPercent decimal.Decimal `json:"profit_percent"`
	ProfitAmount  decimal.Decimal `json:"profit_amount"`
	DetectedAt    time.Time       `json:"detected_at"`
}

// NewArbitrageOpportunity builds an opportunity from a cross-exchange pair.
// buyPrice is the buy side's ask (cost to acquire), sellPrice the sell side's
// bid (proceeds to dispose); using ask/bid instead of a single price avoids
// overstating profit by ignoring each exchange's own spread.
func NewArbitrageOpportunity(symbol, buyExchange string, buyPrice decimal.Decimal, sellExchange string, sellPrice decimal.Decimal) ArbitrageOpportunity {
	gap := sellPrice.Sub(buyPrice)
	return ArbitrageOpportunity{
		Symbol:        symbol,
		BuyExchange:   buyExchange,
		BuyPrice:      buyPrice,
		SellExchange:  sellExchange,
		SellPrice:     sellPrice,
		ProfitPercent: gap.Div(buyPrice).Mul(hundred),
		ProfitAmount:  gap,
		DetectedAt:    time.Now().UTC(),
	}
}

// PriceComparison summarizes one symbol's quotes across all exchanges
type PriceComparison struct {
	Symbol            string          `json:"symbol"`
	Quotes            []Quote         `json:"quotes"`
	Highest           Quote           `json:"highest"`
	Lowest            Quote           `json:"lowest"`
	PriceDifference   decimal.Decimal `json:"price_difference"`
	PriceDifferencePc decimal.Decimal `json:"price_difference_percentage"`
	Timestamp         time.Time       `json:"timestamp"`
}

// NewPriceComparison ranks quotes by mid price. Returns nil when fewer than
// two quotes exist; a single data point compares against nothing.
func NewPriceComparison(symbol string, quotes []Quote) *PriceComparison {
	if len(quotes) < 2 {
		return nil
	}

	highest, lowest := quotes[0], quotes[0]
	for _, q := range quotes[1:] {
		if q.Mid().GreaterThan(highest.Mid()) {
			highest = q
		}
		if q.Mid().LessThan(lowest.Mid()) {
			lowest = q
		}
	}

	diff := highest.Mid().Sub(lowest.Mid())
	return &PriceComparison{
		Symbol:            symbol,
		Quotes:            quotes,
		Highest:           highest,
		Lowest:            lowest,
		PriceDifference:   diff,
		PriceDifferencePc: diff.Div(lowest.Mid()).Mul(hundred),
		Timestamp:         time.Now().UTC(),
	}
}
