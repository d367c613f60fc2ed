package repository

import (
	"context"
	"errors"
	"time"

	"property-rental-backend/internal/domain"
)

// Storage-level failures. Implementations translate driver errors into these
// so that the workflow never sees raw infrastructure errors.
var (
	ErrNotFound        = errors.New("record not found")
	ErrUniqueViolation = errors.New("unique constraint violated")
	ErrConflict        = errors.New("concurrent update conflict")
	ErrTimeout         = errors.New("storage operation timed out")
)

type UserRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	ListIDsByRole(ctx context.Context, role domain.Role) ([]int32, error)
}

type PropertyRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.Property, error)
	// GetByIDForUpdate locks the property row until the surrounding
	// transaction ends. Outside a transaction it behaves like GetByID.
	GetByIDForUpdate(ctx context.Context, id int32) (*domain.Property, error)
}

type RentalRequestRepository interface {
	Create(ctx context.Context, req *domain.RentalRequest) error
	GetByID(ctx context.Context, id int32) (*domain.RentalRequest, error)
	GetByIDForUpdate(ctx context.Context, id int32) (*domain.RentalRequest, error)
	GetDetail(ctx context.Context, id int32) (*domain.RentalRequestDetail, error)
	HasPending(ctx context.Context, tenantID, propertyID int32) (bool, error)
	// MarkReviewed applies review only if the request is still pending and
	// returns ErrConflict otherwise.
	MarkReviewed(ctx context.Context, id int32, review domain.Review) error
	ListAll(ctx context.Context) ([]domain.RentalRequestDetail, error)
	ListByTenant(ctx context.Context, tenantID int32) ([]domain.RentalRequestDetail, error)
	ListByOwner(ctx context.Context, ownerID int32) ([]domain.RentalRequestDetail, error)
	ListPendingOlderThan(ctx context.Context, cutoff time.Time) ([]domain.RentalRequest, error)
}

type RentalRepository interface {
	Create(ctx context.Context, rental *domain.Rental) error
	HasOpenAgreement(ctx context.Context, propertyID int32) (bool, error)
	GetForUpdate(ctx context.Context, key domain.AgreementKey) (*domain.Rental, error)
	End(ctx context.Context, id int32, endDate time.Time) error
	GetOpenByProperty(ctx context.Context, propertyID int32) (*domain.Rental, error)
	GetActiveByTenant(ctx context.Context, tenantID int32) (*domain.ActiveRental, error)
	ListByProperty(ctx context.Context, propertyID int32) ([]domain.Rental, error)
	// ListOpen and ListOpenByOwner return open agreements, newest start first.
	ListOpen(ctx context.Context) ([]domain.OpenRental, error)
	ListOpenByOwner(ctx context.Context, ownerID int32) ([]domain.OpenRental, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, userID int32) error
	ListUndelivered(ctx context.Context, maxAttempts, limit int32) ([]domain.Notification, error)
	MarkDelivered(ctx context.Context, id int32, at time.Time) error
	RecordDeliveryFailure(ctx context.Context, id int32) error
	// MarkSent records that one channel accepted the notification, so a retry
	// skips it.
	MarkSent(ctx context.Context, id int32, channel domain.DeliveryChannel, at time.Time) error
}

// Repos groups repositories bound to one connection or one transaction.
type Repos struct {
	Users         UserRepository
	Properties    PropertyRepository
	Requests      RentalRequestRepository
	Rentals       RentalRepository
	Notifications NotificationRepository
}

// Transactor runs fn inside a single transaction. The transaction commits when
// fn returns nil and rolls back on any error or panic.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(repos Repos) error) error
}
