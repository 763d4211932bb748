package refresher

import (
	"context"
	"errors"
	"time"

	"github.com/robfig/cron/v3"
)

// runTimeout bounds one scheduled refresh.
const runTimeout = 5 * time.Minute

// Scheduler triggers Run on a cron schedule.
type Scheduler struct {
	cron      *cron.Cron
	refresher *Refresher
}

// NewScheduler registers r on schedule, a standard five field cron expression or
// a descriptor such as "@every 15m".
func NewScheduler(r *Refresher, schedule string) (*Scheduler, error) {
	s := &Scheduler{
		cron:      cron.New(),
		refresher: r,
	}
	if _, err := s.cron.AddFunc(schedule, s.tick); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	if _, err := s.refresher.Run(ctx); err != nil {
		if errors.Is(err, ErrAlreadyRunning) {
			s.refresher.log.Info("skipping scheduled refresh, previous run still active")
			return
		}
		s.refresher.log.Errorw("scheduled refresh failed", "error", err)
	}
}

// Start begins firing in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.refresher.log.Info("refresh scheduler started")
}

// Stop halts the schedule and waits for an in-flight run to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.refresher.log.Info("refresh scheduler stopped")
}
