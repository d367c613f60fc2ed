package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"property-rental-backend/internal/jobs"
	"property-rental-backend/internal/logger"
)

// Scheduler manages cron job scheduling
type Scheduler struct {
	cron    *cron.Cron
	jobs    *jobs.JobRunner
	entries map[string]cron.EntryID
}

// NewScheduler creates a new scheduler with the provided job runner. It fails
// if any configured cron spec does not parse.
func NewScheduler(jobRunner *jobs.JobRunner) (*Scheduler, error) {
	// UTC timezone, seconds precision
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
	)

	s := &Scheduler{
		cron:    c,
		jobs:    jobRunner,
		entries: make(map[string]cron.EntryID),
	}

	if err := s.registerJobs(); err != nil {
		return nil, err
	}
	return s, nil
}

// registerJobs registers all scheduled jobs with the cron scheduler
func (s *Scheduler) registerJobs() error {
	cfg := s.jobs.Config().Scheduler
	specs := map[string]string{
		jobs.JobDeliverNotifications:  cfg.DeliverNotifications,
		jobs.JobRemindPendingRequests: cfg.RemindPendingRequests,
	}

	for name, run := range s.jobs.Jobs() {
		id, err := s.cron.AddFunc(specs[name], run)
		if err != nil {
			logger.Error("Failed to register job", "job", name, "spec", specs[name], "error", err)
			return fmt.Errorf("register %s: %w", name, err)
		}
		s.entries[name] = id
		logger.Info("Registered cron job", "job", name, "spec", specs[name])
	}

	logger.Info("All cron jobs registered successfully")
	return nil
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	logger.Info("Starting cron scheduler...")
	s.cron.Start()
	logger.Info("Cron scheduler started successfully")
}

// Stop gracefully stops the cron scheduler, waiting for running jobs
func (s *Scheduler) Stop() {
	logger.Info("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Cron scheduler stopped")
}

// NextRun reports when the named job fires next.
func (s *Scheduler) NextRun(jobName string) (time.Time, bool) {
	id, ok := s.entries[jobName]
	if !ok {
		return time.Time{}, false
	}
	entry := s.cron.Entry(id)
	if entry.ID == 0 {
		return time.Time{}, false
	}
	return entry.Schedule.Next(time.Now().UTC()), true
}

// IsRunning returns true if the scheduler has registered jobs
func (s *Scheduler) IsRunning() bool {
	return len(s.cron.Entries()) > 0
}
