package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"property-rental-backend/internal/domain"
	"property-rental-backend/internal/logger"
	"property-rental-backend/internal/repository"
)

type notificationRepository struct {
	db DBTX
}

func NewNotificationRepository(db DBTX) repository.NotificationRepository {
	return &notificationRepository{db: db}
}

const notificationColumns = `id, user_id, title, message, is_read, created_at, delivered_at, delivery_attempts, email_sent_at, push_sent_at`

var sentColumns = map[domain.DeliveryChannel]string{
	domain.ChannelEmail: "email_sent_at",
	domain.ChannelPush:  "push_sent_at",
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	logger.EnterMethod("notificationRepository.Create", "userID", n.UserID, "title", n.Title)

	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	query := `INSERT INTO notifications (user_id, title, message, is_read, created_at)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	logger.DatabaseCall("INSERT", "notifications", "userID", n.UserID)

	err := r.db.QueryRowContext(ctx, query, n.UserID, n.Title, n.Message, n.IsRead, n.CreatedAt).Scan(&n.ID)
	logger.DatabaseResult("INSERT", 1, err, "notificationID", n.ID)

	if err != nil {
		logger.ExitMethodWithError("notificationRepository.Create", err, "userID", n.UserID)
		return translateError(err)
	}
	logger.ExitMethod("notificationRepository.Create", "notificationID", n.ID)
	return nil
}

func (r *notificationRepository) List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	var count int32
	countQuery := `SELECT count(*) FROM notifications WHERE user_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, userID).Scan(&count); err != nil {
		return nil, 0, translateError(err)
	}

	query := `SELECT ` + notificationColumns + `
	          FROM notifications WHERE user_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`
	notes, err := r.query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return notes, count, nil
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, id, userID int32) error {
	query := `UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`
	return r.exec(ctx, query, id, userID)
}

func (r *notificationRepository) ListUndelivered(ctx context.Context, maxAttempts, limit int32) ([]domain.Notification, error) {
	query := `SELECT ` + notificationColumns + `
	          FROM notifications WHERE delivered_at IS NULL AND delivery_attempts < $1 ORDER BY id LIMIT $2`
	return r.query(ctx, query, maxAttempts, limit)
}

func (r *notificationRepository) MarkDelivered(ctx context.Context, id int32, at time.Time) error {
	return r.exec(ctx, `UPDATE notifications SET delivered_at = $1 WHERE id = $2`, at, id)
}

func (r *notificationRepository) RecordDeliveryFailure(ctx context.Context, id int32) error {
	return r.exec(ctx, `UPDATE notifications SET delivery_attempts = delivery_attempts + 1 WHERE id = $1`, id)
}

func (r *notificationRepository) MarkSent(ctx context.Context, id int32, channel domain.DeliveryChannel, at time.Time) error {
	column, ok := sentColumns[channel]
	if !ok {
		return fmt.Errorf("unknown delivery channel %q", channel)
	}
	return r.exec(ctx, `UPDATE notifications SET `+column+` = $1 WHERE id = $2`, at, id)
}

// exec runs a single-row update and reports ErrNotFound when nothing matched.
func (r *notificationRepository) exec(ctx context.Context, query string, args ...any) error {
	logger.DatabaseCall("UPDATE", "notifications", "args", args)
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err)
		return translateError(err)
	}
	rows, err := result.RowsAffected()
	logger.DatabaseResult("UPDATE", rows, err)
	if err != nil {
		return err
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *notificationRepository) query(ctx context.Context, query string, args ...any) ([]domain.Notification, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var notes []domain.Notification
	for rows.Next() {
		var n domain.Notification
		var deliveredAt, emailSentAt, pushSentAt sql.NullTime
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.IsRead, &n.CreatedAt, &deliveredAt, &n.DeliveryAttempts,
			&emailSentAt, &pushSentAt); err != nil {
			return nil, err
		}
		n.DeliveredAt = nullTime(deliveredAt)
		n.EmailSentAt = nullTime(emailSentAt)
		n.PushSentAt = nullTime(pushSentAt)
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

func nullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	return &t.Time
}
