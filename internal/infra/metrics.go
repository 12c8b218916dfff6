package infra

import (
	"sync/atomic"
	"time"
)

// Metrics provides lightweight observability without external dependencies.
// Uses atomic operations for thread-safety.
type Metrics struct {
	// Counters
	fetchesTotal     atomic.Uint64
	fetchErrors      atomic.Uint64
	quotesCached     atomic.Uint64
	quotesRejected   atomic.Uint64
	refreshCycles    atomic.Uint64
	ticksSkipped     atomic.Uint64
	opportunitiesHit atomic.Uint64

	// Cycle latency tracking
	cycleSumNs   atomic.Int64
	cycleCount   atomic.Uint64
	lastCycleNs  atomic.Int64
	lastCycleEnd atomic.Int64 // unix nanos
}

// GlobalMetrics is the singleton metrics instance.
var GlobalMetrics = &Metrics{}

// RecordFetch records one exchange fetch attempt and its outcome.
func (m *Metrics) RecordFetch(ok bool) {
	m.fetchesTotal.Add(1)
	if !ok {
		m.fetchErrors.Add(1)
	}
}

// RecordQuoteCached records a validated quote written to the cache.
func (m *Metrics) RecordQuoteCached() {
	m.quotesCached.Add(1)
}

// RecordQuoteRejected records a quote discarded by invariant validation.
func (m *Metrics) RecordQuoteRejected() {
	m.quotesRejected.Add(1)
}

// RecordCycle records a completed refresh cycle with its duration.
func (m *Metrics) RecordCycle(d time.Duration) {
	m.refreshCycles.Add(1)
	m.cycleSumNs.Add(int64(d))
	m.cycleCount.Add(1)
	m.lastCycleNs.Store(int64(d))
	m.lastCycleEnd.Store(time.Now().UnixNano())
}

// RecordTickSkipped records a scheduler tick dropped because a cycle was still running.
func (m *Metrics) RecordTickSkipped() {
	m.ticksSkipped.Add(1)
}

// RecordOpportunities records the number of opportunities found in one refresh cycle.
func (m *Metrics) RecordOpportunities(n int) {
	if n > 0 {
		m.opportunitiesHit.Add(uint64(n))
	}
}

// MetricsSnapshot is a point-in-time view of all metrics.
type MetricsSnapshot struct {
	FetchesTotal          uint64    `json:"fetches_total"`
	FetchErrors           uint64    `json:"fetch_errors"`
	QuotesCached          uint64    `json:"quotes_cached"`
	QuotesRejected        uint64    `json:"quotes_rejected"`
	RefreshCycles         uint64    `json:"refresh_cycles"`
	TicksSkipped          uint64    `json:"ticks_skipped"`
	OpportunitiesDetected uint64    `json:"opportunities_detected"`
	AvgCycleNs            int64     `json:"avg_cycle_ns"`
	LastCycleNs           int64     `json:"last_cycle_ns"`
	LastCycleAt           time.Time `json:"last_cycle_at"`
	Timestamp             time.Time `json:"timestamp"`
}

// Snapshot returns current metrics as a snapshot.
func (m *Metrics) Snapshot() MetricsSnapshot {
	var avgCycle int64
	count := m.cycleCount.Load()
	if count > 0 {
		avgCycle = m.cycleSumNs.Load() / int64(count)
	}

	var lastCycleAt time.Time
	if ns := m.lastCycleEnd.Load(); ns > 0 {
		lastCycleAt = time.Unix(0, ns)
	}

	return MetricsSnapshot{
		FetchesTotal:          m.fetchesTotal.Load(),
		FetchErrors:           m.fetchErrors.Load(),
		QuotesCached:          m.quotesCached.Load(),
		QuotesRejected:        m.quotesRejected.Load(),
		RefreshCycles:         m.refreshCycles.Load(),
		TicksSkipped:          m.ticksSkipped.Load(),
		OpportunitiesDetected: m.opportunitiesHit.Load(),
		AvgCycleNs:            avgCycle,
		LastCycleNs:           m.lastCycleNs.Load(),
		LastCycleAt:           lastCycleAt,
		Timestamp:             time.Now(),
	}
}

// Reset clears all metrics (for testing).
func (m *Metrics) Reset() {
	m.fetchesTotal.Store(0)
	m.fetchErrors.Store(0)
	m.quotesCached.Store(0)
	m.quotesRejected.Store(0)
	m.refreshCycles.Store(0)
	m.ticksSkipped.Store(0)
	m.opportunitiesHit.Store(0)
	m.cycleSumNs.Store(0)
	m.cycleCount.Store(0)
	m.lastCycleNs.Store(0)
	m.lastCycleEnd.Store(0)
}
