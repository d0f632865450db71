package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"AltSentinel/internal/monitor"
)

// Scheduler drives repeated monitoring runs in watch mode. Overlap is
// not a concern: the runner serializes its own passes.
type Scheduler struct {
	Cron   *cron.Cron
	Runner *monitor.Runner
	Ctx    context.Context
}

// NewScheduler creates a Scheduler.
func NewScheduler(ctx context.Context, runner *monitor.Runner) *Scheduler {
	return &Scheduler{
		Cron:   cron.New(cron.WithSeconds()),
		Runner: runner,
		Ctx:    ctx,
	}
}

// Register adds the monitoring run on the given cron spec.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, func() {
		if err := s.Runner.Run(s.Ctx); err != nil {
			log.Error().Err(err).Msg("scheduled run failed")
		}
	}); err != nil {
		return fmt.Errorf("register monitor task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Info().Msg("scheduler stopped")
}
