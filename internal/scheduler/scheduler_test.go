package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"property-rental-backend/internal/config"
	"property-rental-backend/internal/jobs"
	"property-rental-backend/internal/repository/memory"
	"property-rental-backend/internal/service"
)

func newRunner(cfg *config.Config) *jobs.JobRunner {
	store := memory.NewStore()
	return jobs.NewJobRunner(store.Repos(), &jobs.Services{
		Email:    service.NewLogEmailService(),
		Push:     service.NewNoopPushService(),
		Notifier: service.NewNotifier(store.Repos().Notifications),
	}, cfg)
}

func TestNewScheduler_RegistersJobs(t *testing.T) {
	cfg := &config.Config{Scheduler: config.SchedulerConfig{
		DeliverNotifications:  "0 */5 * * * *",
		RemindPendingRequests: "0 0 9 * * *",
	}}

	s, err := NewScheduler(newRunner(cfg))
	require.NoError(t, err)
	assert.True(t, s.IsRunning())

	next, ok := s.NextRun(jobs.JobRemindPendingRequests)
	require.True(t, ok)
	assert.Equal(t, 9, next.Hour())
	assert.Equal(t, 0, next.Minute())
	assert.Equal(t, time.UTC, next.Location())

	next, ok = s.NextRun(jobs.JobDeliverNotifications)
	require.True(t, ok)
	assert.Zero(t, next.Minute()%5)

	_, ok = s.NextRun("Unknown")
	assert.False(t, ok)

	s.Start()
	s.Stop()
}

func TestNewScheduler_InvalidSpec(t *testing.T) {
	cfg := &config.Config{Scheduler: config.SchedulerConfig{
		DeliverNotifications:  "every minute",
		RemindPendingRequests: "0 0 9 * * *",
	}}

	_, err := NewScheduler(newRunner(cfg))
	require.Error(t, err)
	assert.Contains(t, err.Error(), jobs.JobDeliverNotifications)
}
