package service

import (
	"context"
	"fmt"
	"strconv"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"property-rental-backend/internal/logger"
)

// messageSender is the part of the FCM client the push service uses.
type messageSender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

type pushService struct {
	client messageSender
}

// NewPushService connects to Firebase Cloud Messaging with a service account
// credentials file.
func NewPushService(ctx context.Context, credentialsFile string) (PushService, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase messaging: %w", err)
	}
	return newPushService(client), nil
}

func newPushService(client messageSender) *pushService {
	return &pushService{client: client}
}

// UserTopic is the FCM topic each user's devices subscribe to.
func UserTopic(userID int32) string {
	return "user_" + strconv.Itoa(int(userID))
}

func (s *pushService) Push(ctx context.Context, userID int32, title, message string) error {
	msg := &messaging.Message{
		Topic: UserTopic(userID),
		Notification: &messaging.Notification{
			Title: title,
			Body:  message,
		},
	}
	logger.ExternalServiceCall("fcm", "Send", "topic", msg.Topic)
	id, err := s.client.Send(ctx, msg)
	logger.ExternalServiceResult("fcm", "Send", err, "messageID", id)
	if err != nil {
		return fmt.Errorf("failed to send push notification: %w", err)
	}
	return nil
}

// noopPush is used when push delivery is disabled.
type noopPush struct{}

func NewNoopPushService() PushService { return noopPush{} }

func (noopPush) Push(ctx context.Context, userID int32, title, message string) error { return nil }
