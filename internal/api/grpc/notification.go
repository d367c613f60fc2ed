package grpc

import (
	"context"

	"property-rental-backend/internal/api/wire"
	"property-rental-backend/internal/service"
)

type NotificationHandler struct {
	noteSvc service.NotificationService
}

func NewNotificationHandler(noteSvc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{noteSvc: noteSvc}
}

func (h *NotificationHandler) GetNotifications(ctx context.Context, req *wire.GetNotificationsRequest) (*wire.GetNotificationsResponse, error) {
	userID, err := GetUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	notes, count, err := h.noteSvc.GetNotifications(ctx, userID, req.Page, req.PageSize)
	if err != nil {
		return nil, toStatus(err)
	}
	out := make([]*wire.Notification, len(notes))
	for i := range notes {
		out[i] = wire.MapDomainNotificationToWire(&notes[i])
	}
	return &wire.GetNotificationsResponse{
		Notifications: out,
		TotalCount:    count,
	}, nil
}

func (h *NotificationHandler) MarkAsRead(ctx context.Context, req *wire.MarkAsReadRequest) (*wire.MarkAsReadResponse, error) {
	userID, err := GetUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.noteSvc.MarkAsRead(ctx, userID, req.NotificationID); err != nil {
		return nil, toStatus(err)
	}
	return &wire.MarkAsReadResponse{Success: true}, nil
}
