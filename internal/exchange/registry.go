package exchange

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/lDz7-anony/crypto-arbitrage-backend/internal/domain"
)

// Registry owns the configured exchange clients and their health records.
// It is constructed once at startup and passed by reference to the
// aggregator, the scheduler and the query surface.
type Registry struct {
	mu      sync.RWMutex
	clients map[string]domain.ExchangeClient
	health  map[string]*domain.ExchangeHealth
	logger  *slog.Logger
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		clients: make(map[string]domain.ExchangeClient),
		health:  make(map[string]*domain.ExchangeHealth),
		logger:  slog.Default().With("module", "exchange_registry"),
	}
}

// Init constructs a client for every configuration entry. A bad entry marks
// that exchange Failed and moves on: one broken configuration must never
// prevent the remaining exchanges from starting.
func (r *Registry) Init(configs []Config) {
	for _, cfg := range configs {
		client, err := New(cfg)
		if err != nil {
			r.mu.Lock()
			r.health[cfg.Name] = &domain.ExchangeHealth{
				Exchange:  cfg.Name,
				State:     domain.StateFailed,
				LastError: err.Error(),
			}
			r.mu.Unlock()
			r.logger.Warn("exchange client construction failed",
				slog.String("exchange", cfg.Name),
				slog.Any("error", err),
			)
			continue
		}
		r.Register(client)
	}
}

// Register adds an already-constructed client and marks it Ready. Init routes
// every successful construction through here; tests use it to install fakes.
func (r *Registry) Register(client domain.ExchangeClient) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := client.Name()
	r.clients[name] = client
	r.health[name] = &domain.ExchangeHealth{Exchange: name, State: domain.StateReady}
	r.logger.Info("exchange client registered", slog.String("exchange", name))
}

// ActiveClients returns the clients usable for a refresh cycle (Ready or
// Degraded), ordered by exchange name for determinism.
func (r *Registry) ActiveClients() []domain.ExchangeClient {
	r.mu.RLock()
	defer r.mu.RUnlock()

	active := make([]domain.ExchangeClient, 0, len(r.clients))
	for name, client := range r.clients {
		if h, ok := r.health[name]; ok && h.Usable() {
			active = append(active, client)
		}
	}
	sort.Slice(active, func(i, j int) bool {
		return active[i].Name() < active[j].Name()
	})
	return active
}

// RecordSuccess notes a successful fetch: a Degraded exchange recovers to
// Ready. Failed stays Failed, construction errors are terminal.
func (r *Registry) RecordSuccess(exchange string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, ok := r.health[exchange]
	if !ok || h.State == domain.StateFailed {
		return
	}
	if h.State != domain.StateReady {
		r.logger.Info("exchange recovered", slog.String("exchange", exchange))
	}
	h.State = domain.StateReady
	h.LastError = ""
	h.LastSuccessAt = time.Now().UTC()
}

// RecordFailure notes a failed fetch: the exchange drops to Degraded and is
// retried next cycle.
func (r *Registry) RecordFailure(exchange string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, ok := r.health[exchange]
	if !ok || h.State == domain.StateFailed {
		return
	}
	h.State = domain.StateDegraded
	h.LastError = err.Error()
}

// Health returns a copy of every exchange's health record
func (r *Registry) Health() map[string]domain.ExchangeHealth {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]domain.ExchangeHealth, len(r.health))
	for name, h := range r.health {
		out[name] = *h
	}
	return out
}
