package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestNewArbitrageOpportunity(t *testing.T) {
	opp := NewArbitrageOpportunity("BTC",
		"binance", decimal.NewFromInt(100),
		"kraken", decimal.NewFromInt(101),
	)

	if opp.BuyExchange != "binance" || opp.SellExchange != "kraken" {
		t.Errorf("unexpected exchanges: buy=%s sell=%s", opp.BuyExchange, opp.SellExchange)
	}
	if !opp.ProfitPercent.Equal(decimal.NewFromInt(1)) {
		t.Errorf("ProfitPercent = %v, want 1", opp.ProfitPercent)
	}
	if !opp.ProfitAmount.Equal(decimal.NewFromInt(1)) {
		t.Errorf("ProfitAmount = %v, want 1", opp.ProfitAmount)
	}
	if opp.DetectedAt.IsZero() {
		t.Error("DetectedAt should be set")
	}
}

func TestNewPriceComparison(t *testing.T) {
	t.Run("ranks by mid price", func(t *testing.T) {
		quotes := []Quote{
			{Exchange: "binance", Bid: decimal.NewFromInt(99), Ask: decimal.NewFromInt(101)},   // mid 100
			{Exchange: "coinbase", Bid: decimal.NewFromInt(103), Ask: decimal.NewFromInt(105)}, // mid 104
			{Exchange: "kraken", Bid: decimal.NewFromInt(101), Ask: decimal.NewFromInt(103)},   // mid 102
		}

		cmp := NewPriceComparison("BTC", quotes)
		if cmp == nil {
			t.Fatal("comparison should exist for 3 quotes")
		}
		if cmp.Highest.Exchange != "coinbase" {
			t.Errorf("Highest = %s, want coinbase", cmp.Highest.Exchange)
		}
		if cmp.Lowest.Exchange != "binance" {
			t.Errorf("Lowest = %s, want binance", cmp.Lowest.Exchange)
		}
		if !cmp.PriceDifference.Equal(decimal.NewFromInt(4)) {
			t.Errorf("PriceDifference = %v, want 4", cmp.PriceDifference)
		}
		// 4 / 100 * 100 = 4%
		if !cmp.PriceDifferencePc.Equal(decimal.NewFromInt(4)) {
			t.Errorf("PriceDifferencePc = %v, want 4", cmp.PriceDifferencePc)
		}
	})

	t.Run("fewer than two quotes", func(t *testing.T) {
		one := []Quote{{Exchange: "binance", Bid: decimal.NewFromInt(99), Ask: decimal.NewFromInt(101)}}
		if NewPriceComparison("BTC", one) != nil {
			t.Error("single quote should yield no comparison")
		}
		if NewPriceComparison("BTC", nil) != nil {
			t.Error("no quotes should yield no comparison")
		}
	})
}
