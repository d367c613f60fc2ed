package service

import (
	"context"
	"time"

	"property-rental-backend/internal/domain"
)

// RentalRequestService drives a request from creation through review.
type RentalRequestService interface {
	// CreateRequest returns the new pending request and whether the property
	// had no open agreement at creation time.
	CreateRequest(ctx context.Context, caller domain.Caller, propertyID int32) (*domain.RentalRequest, bool, error)
	ApproveRequest(ctx context.Context, caller domain.Caller, requestID int32) (*domain.AgreementSummary, error)
	RejectRequest(ctx context.Context, caller domain.Caller, requestID int32, reason string) error
	GetRequest(ctx context.Context, caller domain.Caller, requestID int32) (*domain.RentalRequestDetail, error)
	ListRequests(ctx context.Context, caller domain.Caller) ([]domain.RentalRequestDetail, error)
}

type RentalService interface {
	CreateAgreement(ctx context.Context, caller domain.Caller, in domain.AgreementInput) (*domain.Rental, error)
	EndAgreement(ctx context.Context, caller domain.Caller, key domain.AgreementKey, endDate time.Time) error
	ListHistory(ctx context.Context, caller domain.Caller, propertyID int32) ([]domain.Rental, error)
	// GetCurrentTenant returns nil when the property has no open agreement.
	GetCurrentTenant(ctx context.Context, caller domain.Caller, propertyID int32) (*domain.CurrentTenant, error)
	// GetActiveRental returns nil when the tenant has no open agreement.
	GetActiveRental(ctx context.Context, caller domain.Caller) (*domain.ActiveRental, error)
	IsPropertyAvailable(ctx context.Context, propertyID int32) (bool, error)
	// ListOwnerActiveRentals lists open agreements on the calling owner's properties.
	ListOwnerActiveRentals(ctx context.Context, caller domain.Caller) ([]domain.OpenRental, error)
	ListActiveRentals(ctx context.Context, caller domain.Caller) ([]domain.OpenRental, error)
}

type NotificationService interface {
	GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, userID, notificationID int32) error
}

// Notifier records one notification for a recipient.
type Notifier interface {
	Notify(ctx context.Context, recipientID int32, title, message string) error
}

type EmailService interface {
	SendNotification(ctx context.Context, email, name, title, message string) error
}

type PushService interface {
	Push(ctx context.Context, userID int32, title, message string) error
}

// Options tunes the workflow.
type Options struct {
	// OperationTimeout bounds every workflow operation, including the time
	// spent waiting for row locks. Zero means no bound.
	OperationTimeout time.Duration
	// RejectRequestsForRentedProperties makes CreateRequest fail with
	// domain.ErrPropertyRented instead of only reporting availability.
	RejectRequestsForRentedProperties bool
}

func (o Options) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.OperationTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, o.OperationTimeout)
}

// detached is used for best-effort work after commit, which must not be cut
// short by the caller's deadline already spent on the operation itself.
func (o Options) detached(ctx context.Context) (context.Context, context.CancelFunc) {
	return o.bound(context.WithoutCancel(ctx))
}
