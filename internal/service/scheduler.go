package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/lDz7-anony/crypto-arbitrage-backend/internal/infra"
)

// Scheduler drives the refresh loop: one cycle per interval, never two at
// once. A tick that fires while a cycle is still running is dropped rather
// than queued, bounding outbound request volume to one batch at a time.
type Scheduler struct {
	monitor  *Monitor
	interval time.Duration
	onCycle  func() // invoked after each completed cycle (may be nil)

	cancel context.CancelFunc
	wg     sync.WaitGroup
	logger *slog.Logger
}

// NewScheduler creates a scheduler refreshing through the monitor. onCycle
// runs after every completed cycle and is where the broadcast hub hangs off.
func NewScheduler(monitor *Monitor, interval time.Duration, onCycle func()) *Scheduler {
	return &Scheduler{
		monitor:  monitor,
		interval: interval,
		onCycle:  onCycle,
		logger:   slog.Default().With("module", "scheduler"),
	}
}

// Start launches the refresh loop. The first cycle runs immediately so the
// cache is warm before the first interval elapses.
func (s *Scheduler) Start(ctx context.Context) error {
	ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("refresh loop panic recovered", slog.Any("panic", r))
			}
		}()

		s.runCycle(ctx)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				s.logger.Info("refresh loop stopped")
				return
			case <-ticker.C:
				s.runCycle(ctx)
				// Drop any tick that fired while the cycle ran instead of
				// queuing a back-to-back cycle.
				select {
				case <-ticker.C:
					infra.GlobalMetrics.RecordTickSkipped()
					s.logger.Debug("tick skipped, previous cycle overran interval")
				default:
				}
			}
		}
	}()

	s.logger.Info("refresh loop started", slog.Duration("interval", s.interval))
	return nil
}

// runCycle executes one refresh pass and reports its duration. Shutdown
// stops the loop but lets the in-flight cycle finish: fetches are bounded by
// their own request timeouts, not cut off mid-flight.
func (s *Scheduler) runCycle(ctx context.Context) {
	start := time.Now()
	s.monitor.TriggerRefresh(context.WithoutCancel(ctx))
	elapsed := time.Since(start)

	// Opportunity counts are recorded here, once per cycle, so ad-hoc API
	// queries never inflate the metric.
	infra.GlobalMetrics.RecordOpportunities(len(s.monitor.GetAllOpportunities()))
	infra.GlobalMetrics.RecordCycle(elapsed)
	s.logger.Debug("refresh cycle completed", slog.Duration("elapsed", elapsed))

	if s.onCycle != nil {
		s.onCycle()
	}
}

// Stop terminates the loop. An in-flight cycle is allowed to finish; no new
// cycle starts afterwards.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
		s.wg.Wait()
	}
}
