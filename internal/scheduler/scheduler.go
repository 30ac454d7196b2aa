package scheduler

import (
	"fmt"
	"log"

	"github.com/robfig/cron/v3"
)

// Scheduler drives periodic synchronization cycles. One run is assumed never
// to overlap with another in-flight run against the same store, so jobs are
// wrapped to skip if the previous invocation is still running.
type Scheduler struct {
	cron *cron.Cron
}

// New creates a Scheduler.
func New() *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
	}
}

// RegisterSync registers the synchronization cycle under the given cron spec.
func (s *Scheduler) RegisterSync(spec string, run func()) error {
	if _, err := s.cron.AddFunc(spec, run); err != nil {
		return fmt.Errorf("register sync task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[INFO] scheduler stopped")
}
