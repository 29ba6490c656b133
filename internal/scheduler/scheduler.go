// Package scheduler runs the periodic overdue sweep.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/segyhp/vehicle-loan-engine/internal/domain"
	"github.com/segyhp/vehicle-loan-engine/pkg/utils"
	"github.com/sirupsen/logrus"
)

type Sweeper interface {
	Sweep(ctx context.Context, today time.Time) domain.SweepResult
}

type Scheduler struct {
	cron    *cron.Cron
	sweeper Sweeper
	loc     *time.Location
	timeout time.Duration
	log     *logrus.Logger
	now     func() time.Time
}

// New schedules the overdue sweep on schedule, a cron expression with a seconds
// field evaluated in loc.
func New(schedule string, loc *time.Location, sweeper Sweeper, log *logrus.Logger) (*Scheduler, error) {
	if loc == nil {
		loc = time.UTC
	}

	s := &Scheduler{
		cron:    cron.New(cron.WithSeconds(), cron.WithLocation(loc)),
		sweeper: sweeper,
		loc:     loc,
		timeout: 30 * time.Minute,
		log:     log,
		now:     time.Now,
	}

	if _, err := s.cron.AddFunc(schedule, s.RunOverdueSweep); err != nil {
		return nil, fmt.Errorf("schedule overdue sweep %q: %w", schedule, err)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.WithField("entries", len(s.cron.Entries())).Info("Scheduler started")
}

// Stop waits for a running job to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn("Scheduler stopped before running jobs finished")
	}
}

// RunOverdueSweep sweeps as of the current calendar day in the scheduler's timezone.
func (s *Scheduler) RunOverdueSweep() {
	today := utils.DateOf(s.now().In(s.loc))

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	result := s.sweeper.Sweep(ctx, today)

	entry := s.log.WithFields(logrus.Fields{
		"today":     today.Format("2006-01-02"),
		"scanned":   result.Scanned,
		"updated":   result.Updated,
		"unchanged": result.Unchanged,
		"failed":    result.Failed,
		"duration":  time.Since(start).String(),
	})
	if result.Failed > 0 {
		entry.WithField("errors", result.Errors).Warn("Overdue sweep finished with failures")
		return
	}
	entry.Info("Overdue sweep finished")
}
