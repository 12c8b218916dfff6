package domain

import "time"

// HealthState describes the lifecycle of a configured exchange
type HealthState string

const (
	// StateUnconfigured is the zero state before the client is constructed
	StateUnconfigured HealthState = "UNCONFIGURED"
	// StateReady means the client is constructed and its last fetch (if any) succeeded
	StateReady HealthState = "READY"
	// StateDegraded means the last fetch failed; the client is still worth retrying
	StateDegraded HealthState = "DEGRADED"
	// StateFailed means construction failed; terminal for this process
	StateFailed HealthState = "FAILED"
)

// ExchangeHealth tracks per-exchange availability. Owned exclusively by the
// exchange registry; mutated only on construction and fetch outcomes.
type ExchangeHealth struct {
	Exchange      string      `json:"exchange"`
	State         HealthState `json:"state"`
	LastError     string      `json:"last_error,omitempty"`
	LastSuccessAt time.Time   `json:"last_success_at,omitzero"`
}

// Usable reports whether the exchange should be included in a refresh cycle.
// Degraded counts: a single failed fetch is not permanently fatal.
func (h ExchangeHealth) Usable() bool {
	return h.State == StateReady || h.State == StateDegraded
}
