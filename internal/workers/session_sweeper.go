package workers

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// SessionSweeper is the part of the session manager the sweeper needs
type SessionSweeper interface {
	Sweep(ctx context.Context, idleTTL time.Duration) (int, error)
}

// SweepScheduler periodically removes sessions idle for longer than idleTTL
type SweepScheduler struct {
	cron     *cron.Cron
	sessions SessionSweeper
	idleTTL  time.Duration
	logger   zerolog.Logger
}

// NewSweepScheduler schedules the sweep with a standard cron spec or a
// descriptor such as "@every 5m"
func NewSweepScheduler(sessions SessionSweeper, schedule string, idleTTL time.Duration, logger zerolog.Logger) (*SweepScheduler, error) {
	s := &SweepScheduler{
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		sessions: sessions,
		idleTTL:  idleTTL,
		logger:   logger,
	}

	if _, err := s.cron.AddFunc(schedule, s.RunOnce); err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Start runs the schedule in the background
func (s *SweepScheduler) Start() {
	s.logger.Info().Dur("idle_ttl", s.idleTTL).Msg("Starting session sweeper")
	s.cron.Start()
}

// Stop stops the schedule and waits for a running sweep to finish
func (s *SweepScheduler) Stop() {
	<-s.cron.Stop().Done()
}

// RunOnce performs a single sweep
func (s *SweepScheduler) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	removed, err := s.sessions.Sweep(ctx, s.idleTTL)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to sweep idle sessions")
		return
	}
	if removed > 0 {
		s.logger.Info().Int("removed", removed).Msg("Removed idle sessions")
		return
	}
	s.logger.Debug().Msg("No idle sessions to remove")
}
