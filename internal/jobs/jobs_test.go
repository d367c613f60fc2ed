package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"property-rental-backend/internal/config"
	"property-rental-backend/internal/domain"
	"property-rental-backend/internal/repository/memory"
	"property-rental-backend/internal/service"
)

type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendNotification(ctx context.Context, email, name, title, message string) error {
	args := m.Called(ctx, email, name, title, message)
	return args.Error(0)
}

type MockPushService struct {
	mock.Mock
}

func (m *MockPushService) Push(ctx context.Context, userID int32, title, message string) error {
	args := m.Called(ctx, userID, title, message)
	return args.Error(0)
}

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestConfig() *config.Config {
	return &config.Config{
		Workflow: config.WorkflowConfig{
			NotificationBatchSize:     10,
			MaxDeliveryAttempts:       2,
			PendingReminderAfterHours: 48,
		},
	}
}

func newTestStore() *memory.Store {
	s := memory.NewStore()
	s.AddUser(domain.User{ID: 1, Username: "olivia", Name: "Olivia Owner", Email: "olivia@example.com", Role: domain.RoleOwner})
	s.AddUser(domain.User{ID: 2, Username: "tina", Name: "Tina Tenant", Role: domain.RoleTenant})
	s.AddUser(domain.User{ID: 3, Username: "max", Name: "Max Manager", Email: "max@example.com", Role: domain.RoleManager})
	s.AddUser(domain.User{ID: 4, Username: "mia", Name: "Mia Manager", Role: domain.RoleManager})
	s.AddProperty(domain.Property{ID: 10, OwnerID: 1, Locality: "Uptown", Address: "1 Main St", Rent: decimal.NewFromInt(1500)})
	return s
}

func newRunner(store *memory.Store, email *MockEmailService, push *MockPushService) *JobRunner {
	jr := NewJobRunner(store.Repos(), &Services{
		Email:    email,
		Push:     push,
		Notifier: service.NewNotifier(store.Repos().Notifications),
	}, newTestConfig())
	jr.now = func() time.Time { return fixedNow }
	return jr
}

func undelivered(t *testing.T, store *memory.Store, maxAttempts int32) []domain.Notification {
	t.Helper()
	notes, err := store.Repos().Notifications.ListUndelivered(context.Background(), maxAttempts, 100)
	require.NoError(t, err)
	return notes
}

func TestDeliverNotifications_Success(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()
	require.NoError(t, store.Repos().Notifications.Create(ctx, &domain.Notification{UserID: 1, Title: "Property Rented", Message: "rented"}))
	require.NoError(t, store.Repos().Notifications.Create(ctx, &domain.Notification{UserID: 2, Title: "Rental Request Approved", Message: "approved"}))

	email := new(MockEmailService)
	push := new(MockPushService)
	email.On("SendNotification", mock.Anything, "olivia@example.com", "Olivia Owner", "Property Rented", "rented").Return(nil).Once()
	push.On("Push", mock.Anything, int32(1), "Property Rented", "rented").Return(nil).Once()
	// Tina has no email address: push only.
	push.On("Push", mock.Anything, int32(2), "Rental Request Approved", "approved").Return(nil).Once()

	newRunner(store, email, push).DeliverNotifications()

	email.AssertExpectations(t)
	push.AssertExpectations(t)
	assert.Empty(t, undelivered(t, store, 10))
}

func TestDeliverNotifications_FailureRetriedUntilLimit(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()
	require.NoError(t, store.Repos().Notifications.Create(ctx, &domain.Notification{UserID: 3, Title: "New Rental Request", Message: "new"}))

	email := new(MockEmailService)
	push := new(MockPushService)
	email.On("SendNotification", mock.Anything, "max@example.com", "Max Manager", "New Rental Request", "new").
		Return(errors.New("sendgrid returned status 503")).Twice()
	// Push succeeded on the first run and is not repeated.
	push.On("Push", mock.Anything, int32(3), "New Rental Request", "new").Return(nil).Once()

	jr := newRunner(store, email, push)
	jr.DeliverNotifications()

	notes := undelivered(t, store, 10)
	require.Len(t, notes, 1)
	assert.Equal(t, int32(1), notes[0].DeliveryAttempts)

	jr.DeliverNotifications()
	// Third run finds nothing below max_delivery_attempts.
	jr.DeliverNotifications()

	email.AssertExpectations(t)
	push.AssertExpectations(t)
	notes = undelivered(t, store, 10)
	require.Len(t, notes, 1)
	assert.Equal(t, int32(2), notes[0].DeliveryAttempts)
	assert.Nil(t, notes[0].EmailSentAt)
	require.NotNil(t, notes[0].PushSentAt)
	assert.Equal(t, fixedNow, *notes[0].PushSentAt)
}

func TestDeliverNotifications_RetrySkipsSentChannel(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()
	require.NoError(t, store.Repos().Notifications.Create(ctx, &domain.Notification{UserID: 1, Title: "Property Rented", Message: "rented"}))

	email := new(MockEmailService)
	push := new(MockPushService)
	email.On("SendNotification", mock.Anything, "olivia@example.com", "Olivia Owner", "Property Rented", "rented").Return(nil).Once()
	push.On("Push", mock.Anything, int32(1), "Property Rented", "rented").Return(errors.New("fcm unavailable")).Once()
	push.On("Push", mock.Anything, int32(1), "Property Rented", "rented").Return(nil).Once()

	jr := newRunner(store, email, push)
	jr.DeliverNotifications()

	notes := undelivered(t, store, 10)
	require.Len(t, notes, 1)
	assert.Equal(t, int32(1), notes[0].DeliveryAttempts)
	assert.True(t, notes[0].SentVia(domain.ChannelEmail))
	assert.False(t, notes[0].SentVia(domain.ChannelPush))

	jr.DeliverNotifications()

	// The owner got exactly one email across both runs.
	email.AssertNumberOfCalls(t, "SendNotification", 1)
	push.AssertNumberOfCalls(t, "Push", 2)
	assert.Empty(t, undelivered(t, store, 10))
}

func TestDeliverNotifications_MissingRecipient(t *testing.T) {
	store := newTestStore()
	require.NoError(t, store.Repos().Notifications.Create(context.Background(), &domain.Notification{UserID: 99, Title: "t", Message: "m"}))

	email := new(MockEmailService)
	push := new(MockPushService)
	newRunner(store, email, push).DeliverNotifications()

	email.AssertNotCalled(t, "SendNotification", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	push.AssertNotCalled(t, "Push", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	notes := undelivered(t, store, 10)
	require.Len(t, notes, 1)
	assert.Equal(t, int32(1), notes[0].DeliveryAttempts)
}

func TestRemindPendingRequests(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()
	requests := store.Repos().Requests
	require.NoError(t, requests.Create(ctx, &domain.RentalRequest{
		TenantID: 2, PropertyID: 10, RequestDate: domain.DateOf(fixedNow.AddDate(0, 0, -5)), Status: domain.RequestStatusPending,
	}))

	jr := newRunner(store, new(MockEmailService), new(MockPushService))
	jr.RemindPendingRequests()

	for _, managerID := range []int32{3, 4} {
		notes, total, err := store.Repos().Notifications.List(ctx, managerID, 10, 0)
		require.NoError(t, err)
		require.Equal(t, int32(1), total)
		assert.Equal(t, "Pending Rental Requests", notes[0].Title)
		assert.Equal(t, "1 rental request has been pending for more than 48 hours (request #1 from 2026-03-05).", notes[0].Message)
	}

	owner, total, err := store.Repos().Notifications.List(ctx, 1, 10, 0)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, owner)
}

func TestRemindPendingRequests_NothingStale(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()
	require.NoError(t, store.Repos().Requests.Create(ctx, &domain.RentalRequest{
		TenantID: 2, PropertyID: 10, RequestDate: domain.DateOf(fixedNow), Status: domain.RequestStatusPending,
	}))

	newRunner(store, new(MockEmailService), new(MockPushService)).RemindPendingRequests()

	_, total, err := store.Repos().Notifications.List(ctx, 3, 10, 0)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestPendingReminderMessage_Many(t *testing.T) {
	stale := []domain.RentalRequest{
		{ID: 7, RequestDate: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)},
		{ID: 4, RequestDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
	}
	assert.Equal(t,
		"2 rental requests have been pending for more than 24 hours. The oldest is request #4 from 2026-03-01.",
		pendingReminderMessage(stale, 24))
}

func TestRunWithRecovery_SwallowsPanic(t *testing.T) {
	jr := newRunner(newTestStore(), new(MockEmailService), new(MockPushService))
	ran := false
	assert.NotPanics(t, func() {
		jr.runWithRecovery("boom", func(ctx context.Context) {
			ran = true
			panic("unexpected")
		})
	})
	assert.True(t, ran)
	assert.Len(t, jr.Jobs(), 2)
}
