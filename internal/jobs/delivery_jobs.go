package jobs

import (
	"context"
	"errors"
	"fmt"

	"property-rental-backend/internal/domain"
	"property-rental-backend/internal/logger"
	"property-rental-backend/internal/repository"
)

// DeliverNotifications sends undelivered notifications by email and push.
// Each channel that accepts a notification is recorded and skipped on later
// runs. A notification is marked delivered once every channel succeeds;
// otherwise its attempt counter is bumped and it is retried on the next run
// until max_delivery_attempts is reached.
func (jr *JobRunner) DeliverNotifications() {
	jr.runWithRecovery(JobDeliverNotifications, func(ctx context.Context) {
		log := logger.WithJob(JobDeliverNotifications)
		cfg := jr.config.Workflow

		notes, err := jr.repos.Notifications.ListUndelivered(ctx, int32(cfg.MaxDeliveryAttempts), int32(cfg.NotificationBatchSize))
		if err != nil {
			log.Error("Failed to list undelivered notifications", "error", err)
			return
		}

		users := make(map[int32]*domain.User)
		delivered, failed := 0, 0
		for i := range notes {
			note := &notes[i]
			user, ok := users[note.UserID]
			if !ok {
				user, err = jr.repos.Users.GetByID(ctx, note.UserID)
				if err != nil && !errors.Is(err, repository.ErrNotFound) {
					log.Error("Failed to load recipient", "notification_id", note.ID, "user_id", note.UserID, "error", err)
					continue
				}
				users[note.UserID] = user
			}

			if err := jr.deliver(ctx, user, note); err != nil {
				failed++
				log.Warn("Notification delivery failed", "notification_id", note.ID, "user_id", note.UserID, "error", err)
				if err := jr.repos.Notifications.RecordDeliveryFailure(ctx, note.ID); err != nil {
					log.Error("Failed to record delivery failure", "notification_id", note.ID, "error", err)
				}
				continue
			}

			if err := jr.repos.Notifications.MarkDelivered(ctx, note.ID, jr.now().UTC()); err != nil {
				log.Error("Failed to mark notification delivered", "notification_id", note.ID, "error", err)
				continue
			}
			delivered++
		}

		log.Info("Notification delivery finished", "found", len(notes), "delivered", delivered, "failed", failed)
	})
}

// deliver pushes to the user's topic and, when an address is known, emails
// them. Channels that already accepted the notification are not repeated.
func (jr *JobRunner) deliver(ctx context.Context, user *domain.User, note *domain.Notification) error {
	if user == nil {
		return errors.New("recipient no longer exists")
	}

	var errs []error
	if user.Email != "" {
		errs = append(errs, jr.sendOnce(ctx, note, domain.ChannelEmail, func() error {
			return jr.services.Email.SendNotification(ctx, user.Email, user.Name, note.Title, note.Message)
		}))
	}
	errs = append(errs, jr.sendOnce(ctx, note, domain.ChannelPush, func() error {
		return jr.services.Push.Push(ctx, user.ID, note.Title, note.Message)
	}))
	return errors.Join(errs...)
}

func (jr *JobRunner) sendOnce(ctx context.Context, note *domain.Notification, channel domain.DeliveryChannel, send func() error) error {
	if note.SentVia(channel) {
		return nil
	}
	if err := send(); err != nil {
		return fmt.Errorf("%s: %w", channel, err)
	}
	if err := jr.repos.Notifications.MarkSent(ctx, note.ID, channel, jr.now().UTC()); err != nil {
		logger.Error("Failed to record channel delivery", "notification_id", note.ID, "channel", channel, "error", err)
	}
	return nil
}
