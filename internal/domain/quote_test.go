package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestQuote_Validate(t *testing.T) {
	t.Run("valid quote", func(t *testing.T) {
		q := Quote{
			Exchange: "binance",
			Symbol:   "BTC",
			Bid:      decimal.NewFromInt(99),
			Ask:      decimal.NewFromInt(100),
		}
		if err := q.Validate(); err != nil {
			t.Errorf("Validate() = %v, want nil", err)
		}
	})

	t.Run("bid equals ask", func(t *testing.T) {
		q := Quote{Exchange: "kraken", Symbol: "ETH", Bid: decimal.NewFromInt(100), Ask: decimal.NewFromInt(100)}
		if err := q.Validate(); err != nil {
			t.Errorf("bid == ask should be valid, got %v", err)
		}
	})

	t.Run("ask below bid", func(t *testing.T) {
		q := Quote{Exchange: "coinbase", Symbol: "BTC", Bid: decimal.NewFromInt(101), Ask: decimal.NewFromInt(100)}
		err := q.Validate()
		if err == nil {
			t.Fatal("crossed quote should be rejected")
		}
		if !errors.Is(err, ErrBadQuote) {
			t.Errorf("expected ErrBadQuote, got %v", err)
		}
	})

	t.Run("non-positive prices", func(t *testing.T) {
		cases := []Quote{
			{Exchange: "x", Symbol: "BTC", Bid: decimal.Zero, Ask: decimal.NewFromInt(100)},
			{Exchange: "x", Symbol: "BTC", Bid: decimal.NewFromInt(100), Ask: decimal.Zero},
			{Exchange: "x", Symbol: "BTC", Bid: decimal.NewFromInt(-1), Ask: decimal.NewFromInt(100)},
		}
		for _, q := range cases {
			if q.Validate() == nil {
				t.Errorf("quote bid=%v ask=%v should be rejected", q.Bid, q.Ask)
			}
		}
	})
}

func TestQuote_SpreadAndMid(t *testing.T) {
	q := Quote{Bid: decimal.NewFromInt(99), Ask: decimal.NewFromInt(101)}

	if !q.Spread().Equal(decimal.NewFromInt(2)) {
		t.Errorf("Spread() = %v, want 2", q.Spread())
	}
	if !q.Mid().Equal(decimal.NewFromInt(100)) {
		t.Errorf("Mid() = %v, want 100", q.Mid())
	}
}

func TestQuote_OlderThan(t *testing.T) {
	now := time.Now()
	horizon := 60 * time.Second

	fresh := Quote{Timestamp: now.Add(-30 * time.Second)}
	if fresh.OlderThan(horizon, now) {
		t.Error("quote younger than horizon should not be stale")
	}

	stale := Quote{Timestamp: now.Add(-61 * time.Second)}
	if !stale.OlderThan(horizon, now) {
		t.Error("quote older than horizon should be stale")
	}
}
