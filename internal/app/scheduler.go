package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/agrisight/fieldwatch/internal/observability"
)

// Scheduler drives the recurring refresh cycle. It fires on a fixed
// interval regardless of user-triggered refreshes and regardless of whether
// the previous cycle is still in flight; the controller's last-response-wins
// policy absorbs the overlap. Refresh failures are logged and never stop
// the schedule.
type Scheduler struct {
	controller *Controller
	clock      clockwork.Clock
	interval   time.Duration
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewScheduler creates a scheduler. The clock is injectable so tests can
// drive ticks deterministically.
func NewScheduler(controller *Controller, clock clockwork.Clock, interval time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Scheduler {
	return &Scheduler{
		controller: controller,
		clock:      clock,
		interval:   interval,
		logger:     logger,
		metrics:    metrics,
	}
}

// Run performs the initial refresh, then ticks until the context is
// cancelled. The initial refresh may fail; that is logged and scheduling
// begins anyway.
func (s *Scheduler) Run(ctx context.Context) {
	if err := s.controller.Refresh(ctx); err != nil {
		s.logger.Error("initial refresh failed", "error", err)
	}

	s.logger.Info("scheduler started", "interval", s.interval)
	s.metrics.SchedulerRunning.Set(1)
	defer s.metrics.SchedulerRunning.Set(0)

	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopping", "reason", ctx.Err())
			return
		case <-ticker.Chan():
			// Each tick refreshes in its own goroutine so a slow backend
			// never delays the schedule.
			go func() {
				if err := s.controller.Refresh(ctx); err != nil {
					s.logger.Error("scheduled refresh failed", "error", err)
				}
			}()
		}
	}
}
