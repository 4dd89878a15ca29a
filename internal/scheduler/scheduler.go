package scheduler

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/postroll/postroll/pkg/rollup"
)

// Scheduler periodically recomputes the derived rollup relations. The
// archive has no incremental maintenance, so a full refresh on an interval
// is how stored rollups track source changes.
type Scheduler struct {
	engine   *rollup.Engine
	log      *logrus.Logger
	interval time.Duration
}

// New creates a new scheduler.
func New(engine *rollup.Engine, log *logrus.Logger, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Scheduler{engine: engine, log: log, interval: interval}
}

// Run starts the refresh loop. Blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Refresh immediately on start.
	s.refresh(ctx)

	s.log.WithField("interval", s.interval).Info("scheduler running")
	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.refresh(ctx)
		}
	}
}

// refresh logs failures and keeps the loop alive; a broken refresh should
// not take the daemon down.
func (s *Scheduler) refresh(ctx context.Context) {
	if _, err := s.engine.Refresh(ctx); err != nil {
		s.log.WithError(err).Error("refresh failed")
	}
}
