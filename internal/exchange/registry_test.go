package exchange_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/lDz7-anony/crypto-arbitrage-backend/internal/domain"
	"github.com/lDz7-anony/crypto-arbitrage-backend/internal/exchange"
)

// stubClient is a minimal ExchangeClient for registry tests
type stubClient struct {
	name string
}

func (s *stubClient) Name() string { return s.name }

func (s *stubClient) FetchQuote(ctx context.Context, symbol string) (domain.Quote, error) {
	return domain.Quote{
		Exchange: s.name,
		Symbol:   symbol,
		Bid:      decimal.NewFromInt(99),
		Ask:      decimal.NewFromInt(100),
	}, nil
}

func TestRegistry_InitContinuesPastBadConfig(t *testing.T) {
	r := exchange.NewRegistry()
	r.Init([]exchange.Config{
		{Name: "binance"},
		{Name: "mtgox"}, // no client implementation
		{Name: "kraken"},
	})

	health := r.Health()
	if len(health) != 3 {
		t.Fatalf("expected 3 health records, got %d", len(health))
	}
	if health["mtgox"].State != domain.StateFailed {
		t.Errorf("mtgox state = %s, want FAILED", health["mtgox"].State)
	}
	if health["mtgox"].LastError == "" {
		t.Error("failed exchange should record its error")
	}
	if health["binance"].State != domain.StateReady {
		t.Errorf("binance state = %s, want READY", health["binance"].State)
	}
	if health["kraken"].State != domain.StateReady {
		t.Errorf("kraken state = %s, want READY", health["kraken"].State)
	}

	active := r.ActiveClients()
	if len(active) != 2 {
		t.Fatalf("expected 2 active clients, got %d", len(active))
	}
	// Ordered by name for determinism
	if active[0].Name() != "binance" || active[1].Name() != "kraken" {
		t.Errorf("unexpected order: %s, %s", active[0].Name(), active[1].Name())
	}
}

func TestRegistry_RegisterMatchesInit(t *testing.T) {
	// Init routes constructed clients through Register, so both paths must
	// produce the same Ready record and active-set membership.
	viaInit := exchange.NewRegistry()
	viaInit.Init([]exchange.Config{{Name: "binance"}})

	viaRegister := exchange.NewRegistry()
	viaRegister.Register(&stubClient{name: "binance"})

	for name, r := range map[string]*exchange.Registry{"init": viaInit, "register": viaRegister} {
		h := r.Health()["binance"]
		if h.State != domain.StateReady {
			t.Errorf("%s: state = %s, want READY", name, h.State)
		}
		if len(r.ActiveClients()) != 1 {
			t.Errorf("%s: expected 1 active client", name)
		}
	}
}

func TestRegistry_HealthTransitions(t *testing.T) {
	r := exchange.NewRegistry()
	r.Register(&stubClient{name: "binance"})

	// Ready -> Degraded on fetch failure
	r.RecordFailure("binance", errors.New("timeout"))
	h := r.Health()["binance"]
	if h.State != domain.StateDegraded {
		t.Errorf("state after failure = %s, want DEGRADED", h.State)
	}
	if h.LastError != "timeout" {
		t.Errorf("LastError = %q, want %q", h.LastError, "timeout")
	}

	// Degraded clients stay in the active set
	if len(r.ActiveClients()) != 1 {
		t.Error("degraded client should remain active")
	}

	// Degraded -> Ready on fetch success
	r.RecordSuccess("binance")
	h = r.Health()["binance"]
	if h.State != domain.StateReady {
		t.Errorf("state after recovery = %s, want READY", h.State)
	}
	if h.LastError != "" {
		t.Errorf("LastError should be cleared, got %q", h.LastError)
	}
	if h.LastSuccessAt.IsZero() {
		t.Error("LastSuccessAt should be set")
	}
}

func TestRegistry_FailedIsTerminal(t *testing.T) {
	r := exchange.NewRegistry()
	r.Init([]exchange.Config{{Name: "mtgox"}})

	r.RecordSuccess("mtgox")
	if got := r.Health()["mtgox"].State; got != domain.StateFailed {
		t.Errorf("state = %s, construction failures must stay FAILED", got)
	}

	r.RecordFailure("mtgox", errors.New("whatever"))
	if got := r.Health()["mtgox"].State; got != domain.StateFailed {
		t.Errorf("state = %s, construction failures must stay FAILED", got)
	}

	if len(r.ActiveClients()) != 0 {
		t.Error("failed exchange must never be active")
	}
}

func TestRegistry_UnknownExchangeIgnored(t *testing.T) {
	r := exchange.NewRegistry()

	// Recording against an unregistered name must not panic or create state
	r.RecordSuccess("ghost")
	r.RecordFailure("ghost", errors.New("boo"))

	if len(r.Health()) != 0 {
		t.Error("no health records should exist")
	}
}
