package jobs

import (
	"context"
	"time"

	"property-rental-backend/internal/config"
	"property-rental-backend/internal/logger"
	"property-rental-backend/internal/repository"
	"property-rental-backend/internal/service"
)

const (
	JobDeliverNotifications  = "DeliverNotifications"
	JobRemindPendingRequests = "RemindPendingRequests"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	repos    repository.Repos
	services *Services
	config   *config.Config
	now      func() time.Time
}

// Services holds all service dependencies needed by jobs
type Services struct {
	Email    service.EmailService
	Push     service.PushService
	Notifier service.Notifier
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(repos repository.Repos, services *Services, cfg *config.Config) *JobRunner {
	return &JobRunner{
		repos:    repos,
		services: services,
		config:   cfg,
		now:      time.Now,
	}
}

// Config exposes the configuration the runner was built with.
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// Jobs maps job names to their entry points.
func (jr *JobRunner) Jobs() map[string]func() {
	return map[string]func(){
		JobDeliverNotifications:  jr.DeliverNotifications,
		JobRemindPendingRequests: jr.RemindPendingRequests,
	}
}

// RunAll runs every job once, in a fixed order (for manual execution).
func (jr *JobRunner) RunAll() {
	jr.RemindPendingRequests()
	jr.DeliverNotifications()
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func(ctx context.Context)) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	ctx := logger.WithRequestID(context.Background(), jobName+"-"+jr.now().UTC().Format("20060102T150405"))
	logger.Info("Starting job", "job", jobName)
	jobFunc(ctx)
	logger.Info("Job completed", "job", jobName)
}
