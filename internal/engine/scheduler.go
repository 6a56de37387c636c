package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler manages the periodic rate warmup and history prune jobs.
type Scheduler struct {
	cron   *cron.Cron
	engine *Engine
	log    *slog.Logger

	warmupEntryID cron.EntryID
	pruneEntryID  cron.EntryID
}

// NewScheduler creates a Scheduler running engine jobs at the given
// intervals. A zero pruneInterval disables the prune job.
func NewScheduler(
	eng *Engine,
	warmupInterval time.Duration,
	pruneInterval time.Duration,
	log *slog.Logger,
) (*Scheduler, error) {
	c := cron.New()

	s := &Scheduler{
		cron:   c,
		engine: eng,
		log:    log,
	}

	id, err := c.AddFunc("@every "+warmupInterval.String(), s.runRateWarmup)
	if err != nil {
		return nil, err
	}
	s.warmupEntryID = id

	if pruneInterval > 0 {
		id, err := c.AddFunc("@every "+pruneInterval.String(), s.runHistoryPrune)
		if err != nil {
			return nil, err
		}
		s.pruneEntryID = id
	}

	return s, nil
}

// Start begins running scheduled jobs.
func (s *Scheduler) Start() {
	s.log.Info("scheduler started")
	s.cron.Start()
}

// Stop gracefully stops the scheduler, waiting for running jobs to finish.
func (s *Scheduler) Stop() context.Context {
	s.log.Info("scheduler stopping")
	return s.cron.Stop()
}

// Entries returns the registered cron entries for inspection.
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

func (s *Scheduler) runRateWarmup() {
	ctx := context.Background()
	if err := s.engine.RunRateWarmup(ctx); err != nil {
		s.log.Error("scheduled rate warmup failed", "error", err)
	}
}

func (s *Scheduler) runHistoryPrune() {
	ctx := context.Background()
	if err := s.engine.RunHistoryPrune(ctx); err != nil {
		s.log.Error("scheduled history prune failed", "error", err)
	}
}
