package infra

import (
	"sync"
	"testing"
	"time"
)

func TestMetrics_Counters(t *testing.T) {
	m := &Metrics{}

	m.RecordFetch(true)
	m.RecordFetch(true)
	m.RecordFetch(false)
	m.RecordQuoteCached()
	m.RecordQuoteRejected()
	m.RecordOpportunities(2)
	m.RecordOpportunities(0)
	m.RecordTickSkipped()

	snap := m.Snapshot()
	if snap.FetchesTotal != 3 {
		t.Errorf("FetchesTotal = %d, want 3", snap.FetchesTotal)
	}
	if snap.FetchErrors != 1 {
		t.Errorf("FetchErrors = %d, want 1", snap.FetchErrors)
	}
	if snap.QuotesCached != 1 {
		t.Errorf("QuotesCached = %d, want 1", snap.QuotesCached)
	}
	if snap.QuotesRejected != 1 {
		t.Errorf("QuotesRejected = %d, want 1", snap.QuotesRejected)
	}
	if snap.OpportunitiesDetected != 2 {
		t.Errorf("OpportunitiesDetected = %d, want 2", snap.OpportunitiesDetected)
	}
	if snap.TicksSkipped != 1 {
		t.Errorf("TicksSkipped = %d, want 1", snap.TicksSkipped)
	}
}

func TestMetrics_CycleLatency(t *testing.T) {
	m := &Metrics{}

	m.RecordCycle(100 * time.Millisecond)
	m.RecordCycle(300 * time.Millisecond)

	snap := m.Snapshot()
	if snap.RefreshCycles != 2 {
		t.Errorf("RefreshCycles = %d, want 2", snap.RefreshCycles)
	}
	if snap.AvgCycleNs != int64(200*time.Millisecond) {
		t.Errorf("AvgCycleNs = %d, want %d", snap.AvgCycleNs, int64(200*time.Millisecond))
	}
	if snap.LastCycleNs != int64(300*time.Millisecond) {
		t.Errorf("LastCycleNs = %d, want %d", snap.LastCycleNs, int64(300*time.Millisecond))
	}
	if snap.LastCycleAt.IsZero() {
		t.Error("LastCycleAt should be set")
	}
}

func TestMetrics_Reset(t *testing.T) {
	m := &Metrics{}
	m.RecordFetch(false)
	m.RecordCycle(time.Second)

	m.Reset()

	snap := m.Snapshot()
	if snap.FetchesTotal != 0 || snap.RefreshCycles != 0 || snap.AvgCycleNs != 0 {
		t.Errorf("snapshot not zeroed after reset: %+v", snap)
	}
}

func TestMetrics_ConcurrentSafety(t *testing.T) {
	m := &Metrics{}
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.RecordFetch(j%2 == 0)
				m.Snapshot()
			}
		}()
	}
	wg.Wait()

	if got := m.Snapshot().FetchesTotal; got != 1000 {
		t.Errorf("FetchesTotal = %d, want 1000", got)
	}
}
