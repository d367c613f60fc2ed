package service

import (
	"context"
	"errors"
	"math"

	"property-rental-backend/internal/domain"
	"property-rental-backend/internal/repository"
)

const maxPageSize = 100

type notificationService struct {
	noteRepo repository.NotificationRepository
}

func NewNotificationService(noteRepo repository.NotificationRepository) NotificationService {
	return &notificationService{noteRepo: noteRepo}
}

func (s *notificationService) GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	// Pages past the int32 range read as an empty page past the end.
	offset := int64(page-1) * int64(pageSize)
	if offset > math.MaxInt32 {
		offset = math.MaxInt32
	}
	notes, total, err := s.noteRepo.List(ctx, userID, pageSize, int32(offset))
	if err != nil {
		return nil, 0, classify(err, "failed to list notifications")
	}
	return notes, total, nil
}

// MarkAsRead only touches the caller's own notifications; anything else is
// reported as not found.
func (s *notificationService) MarkAsRead(ctx context.Context, userID, notificationID int32) error {
	err := s.noteRepo.MarkAsRead(ctx, notificationID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.NotFoundf("notification does not exist or does not belong to you")
	}
	return classify(err, "failed to mark notification as read")
}
