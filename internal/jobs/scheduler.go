package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"github.com/vibechecc/points-backend/internal/services"
)

// Scheduler runs the recurring background jobs. Currently that is the daily
// reset sweep shortly after midnight UTC. Accounts that are touched before
// the sweep reaches them roll over lazily; the sweep is a safety net for
// idle accounts, so streak breaks and history archiving happen on time.
type Scheduler struct {
	cron  *cron.Cron
	reset *services.ResetService
}

// NewScheduler creates a new Scheduler
func NewScheduler(reset *services.ResetService) *Scheduler {
	return &Scheduler{
		cron:  cron.New(cron.WithLocation(time.UTC)),
		reset: reset,
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc("5 0 * * *", s.runResetSweep)
	if err != nil {
		return err
	}
	s.cron.Start()
	log.Info("scheduler started")
	return nil
}

// Stop stops the cron loop and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("scheduler stopped")
}

func (s *Scheduler) runResetSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	start := time.Now()
	count, err := s.reset.RunSweep(ctx)
	if err != nil {
		log.WithError(err).WithField("resetCount", count).Error("daily reset sweep failed")
		return
	}
	log.WithFields(log.Fields{
		"resetCount": count,
		"elapsed":    time.Since(start).String(),
	}).Info("daily reset sweep completed")
}
