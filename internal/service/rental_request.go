package service

import (
	"context"
	"errors"
	"time"

	"property-rental-backend/internal/domain"
	"property-rental-backend/internal/logger"
	"property-rental-backend/internal/repository"
)

type rentalRequestService struct {
	repos    repository.Repos
	tx       repository.Transactor
	notifier Notifier
	opts     Options
}

func NewRentalRequestService(
	repos repository.Repos,
	tx repository.Transactor,
	notifier Notifier,
	opts Options,
) RentalRequestService {
	return &rentalRequestService{
		repos:    repos,
		tx:       tx,
		notifier: notifier,
		opts:     opts,
	}
}

func (s *rentalRequestService) CreateRequest(ctx context.Context, caller domain.Caller, propertyID int32) (*domain.RentalRequest, bool, error) {
	const method = "rentalRequestService.CreateRequest"
	logger.EnterMethod(method, "tenantID", caller.UserID, "propertyID", propertyID)

	if err := domain.CanCreateRequest(caller); err != nil {
		logger.ExitMethodWithError(method, err, "tenantID", caller.UserID)
		return nil, false, err
	}

	opCtx, cancel := s.opts.bound(ctx)
	defer cancel()

	req, property, available, err := s.createRequest(opCtx, caller.UserID, propertyID)
	if err != nil {
		err = classify(err, "failed to create rental request")
		logger.ExitMethodWithError(method, err, "tenantID", caller.UserID, "propertyID", propertyID)
		return nil, false, err
	}

	s.notifyManagers(ctx, caller.UserID, property)

	logger.ExitMethod(method, "requestID", req.ID, "propertyAvailable", available)
	return req, available, nil
}

func (s *rentalRequestService) createRequest(ctx context.Context, tenantID, propertyID int32) (*domain.RentalRequest, *domain.Property, bool, error) {
	property, err := s.repos.Properties.GetByID(ctx, propertyID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil, false, domain.NotFoundf("property %d not found", propertyID)
	}
	if err != nil {
		return nil, nil, false, err
	}

	available, err := NewAvailabilityOracle(s.repos.Rentals).IsAvailable(ctx, propertyID)
	if err != nil {
		return nil, nil, false, err
	}
	if !available && s.opts.RejectRequestsForRentedProperties {
		return nil, nil, false, domain.ErrPropertyRented
	}

	pending, err := s.repos.Requests.HasPending(ctx, tenantID, propertyID)
	if err != nil {
		return nil, nil, false, err
	}
	if pending {
		return nil, nil, false, domain.ErrDuplicatePendingRequest
	}

	req := &domain.RentalRequest{
		TenantID:    tenantID,
		PropertyID:  propertyID,
		RequestDate: domain.DateOf(time.Now()),
		Status:      domain.RequestStatusPending,
	}
	if err := s.repos.Requests.Create(ctx, req); err != nil {
		// Lost a race with a concurrent create for the same pair.
		if errors.Is(err, repository.ErrUniqueViolation) {
			return nil, nil, false, domain.ErrDuplicatePendingRequest
		}
		return nil, nil, false, err
	}
	return req, property, available, nil
}

func (s *rentalRequestService) notifyManagers(ctx context.Context, tenantID int32, property *domain.Property) {
	ctx, cancel := s.opts.detached(ctx)
	defer cancel()

	tenant, err := s.repos.Users.GetByID(ctx, tenantID)
	if err != nil {
		logger.Warn("Failed to load tenant for request notification", "tenantID", tenantID, "error", err)
		return
	}
	managers, err := s.repos.Users.ListIDsByRole(ctx, domain.RoleManager)
	if err != nil {
		logger.Warn("Failed to list managers for request notification", "error", err)
		return
	}
	msg := newRequestMessage(tenant, property)
	for _, id := range managers {
		notifyBestEffort(ctx, s.notifier, id, titleNewRequest, msg)
	}
}

func (s *rentalRequestService) ApproveRequest(ctx context.Context, caller domain.Caller, requestID int32) (*domain.AgreementSummary, error) {
	const method = "rentalRequestService.ApproveRequest"
	logger.EnterMethod(method, "requestID", requestID, "managerID", caller.UserID)

	if err := domain.CanReviewRequest(caller); err != nil {
		logger.ExitMethodWithError(method, err, "requestID", requestID)
		return nil, err
	}

	ctx, cancel := s.opts.bound(ctx)
	defer cancel()

	var rental *domain.Rental
	err := s.tx.WithinTx(ctx, func(repos repository.Repos) error {
		req, err := loadPendingForUpdate(ctx, repos, requestID)
		if err != nil {
			return err
		}

		property, err := repos.Properties.GetByIDForUpdate(ctx, req.PropertyID)
		if errors.Is(err, repository.ErrNotFound) {
			return domain.NotFoundf("property %d not found", req.PropertyID)
		}
		if err != nil {
			return err
		}

		available, err := NewAvailabilityOracle(repos.Rentals).IsAvailable(ctx, property.ID)
		if err != nil {
			return err
		}
		if !available {
			return domain.ErrPropertyRented
		}

		now := time.Now().UTC()
		rental = &domain.Rental{
			TenantID:    req.TenantID,
			PropertyID:  property.ID,
			StartDate:   domain.DateOf(now),
			MonthlyRent: property.Rent,
		}
		if err := repos.Rentals.Create(ctx, rental); err != nil {
			if errors.Is(err, repository.ErrUniqueViolation) {
				return domain.ErrPropertyRented
			}
			return err
		}

		review := domain.Review{Status: domain.RequestStatusApproved, ReviewerID: caller.UserID, ReviewedAt: now}
		if err := repos.Requests.MarkReviewed(ctx, req.ID, review); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return domain.ErrRequestNotPending
			}
			return err
		}

		// Both notifications commit or roll back with the agreement.
		notifier := NewNotifier(repos.Notifications)
		if err := notifier.Notify(ctx, req.TenantID, titleRequestApproved, approvedMessage(property)); err != nil {
			return err
		}
		return notifier.Notify(ctx, property.OwnerID, titlePropertyRented, rentedMessage(property))
	})
	if err != nil {
		err = classify(err, "failed to approve rental request")
		logger.ExitMethodWithError(method, err, "requestID", requestID)
		return nil, err
	}

	logger.Info("Rental request approved", "requestID", requestID, "propertyID", rental.PropertyID, "rentalID", rental.ID)
	logger.ExitMethod(method, "requestID", requestID, "rentalID", rental.ID)
	return rental.Summary(), nil
}

func (s *rentalRequestService) RejectRequest(ctx context.Context, caller domain.Caller, requestID int32, reason string) error {
	const method = "rentalRequestService.RejectRequest"
	logger.EnterMethod(method, "requestID", requestID, "managerID", caller.UserID)

	if err := domain.CanReviewRequest(caller); err != nil {
		logger.ExitMethodWithError(method, err, "requestID", requestID)
		return err
	}

	opCtx, cancel := s.opts.bound(ctx)
	defer cancel()

	var req *domain.RentalRequest
	err := s.tx.WithinTx(opCtx, func(repos repository.Repos) error {
		r, err := loadPendingForUpdate(opCtx, repos, requestID)
		if err != nil {
			return err
		}
		review := domain.Review{Status: domain.RequestStatusRejected, ReviewerID: caller.UserID, ReviewedAt: time.Now().UTC()}
		if reason != "" {
			review.RejectionReason = &reason
		}
		if err := repos.Requests.MarkReviewed(opCtx, r.ID, review); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return domain.ErrRequestNotPending
			}
			return err
		}
		req = r
		return nil
	})
	if err != nil {
		err = classify(err, "failed to reject rental request")
		logger.ExitMethodWithError(method, err, "requestID", requestID)
		return err
	}

	s.notifyRejected(ctx, req, reason)

	logger.Info("Rental request rejected", "requestID", requestID, "propertyID", req.PropertyID)
	logger.ExitMethod(method, "requestID", requestID)
	return nil
}

// notifyRejected addresses the tenant and property of the stored request.
func (s *rentalRequestService) notifyRejected(ctx context.Context, req *domain.RentalRequest, reason string) {
	ctx, cancel := s.opts.detached(ctx)
	defer cancel()

	property, err := s.repos.Properties.GetByID(ctx, req.PropertyID)
	if err != nil {
		logger.Warn("Failed to load property for rejection notification", "propertyID", req.PropertyID, "error", err)
		return
	}
	notifyBestEffort(ctx, s.notifier, req.TenantID, titleRequestRejected, rejectedMessage(property, reason))
}

func loadPendingForUpdate(ctx context.Context, repos repository.Repos, requestID int32) (*domain.RentalRequest, error) {
	req, err := repos.Requests.GetByIDForUpdate(ctx, requestID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, domain.NotFoundf("rental request %d not found", requestID)
	}
	if err != nil {
		return nil, err
	}
	if req.Status.IsTerminal() {
		return nil, domain.ErrRequestNotPending
	}
	return req, nil
}

func (s *rentalRequestService) GetRequest(ctx context.Context, caller domain.Caller, requestID int32) (*domain.RentalRequestDetail, error) {
	ctx, cancel := s.opts.bound(ctx)
	defer cancel()

	detail, err := s.repos.Requests.GetDetail(ctx, requestID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, domain.NotFoundf("rental request %d not found", requestID)
	}
	if err != nil {
		return nil, classify(err, "failed to load rental request")
	}

	var ownerID int32
	if caller.Role == domain.RoleOwner {
		property, err := s.repos.Properties.GetByID(ctx, detail.PropertyID)
		if err != nil {
			return nil, classify(err, "failed to load property")
		}
		ownerID = property.OwnerID
	}
	if err := domain.CanViewRequest(caller, &detail.RentalRequest, ownerID); err != nil {
		return nil, err
	}
	return detail, nil
}

func (s *rentalRequestService) ListRequests(ctx context.Context, caller domain.Caller) ([]domain.RentalRequestDetail, error) {
	ctx, cancel := s.opts.bound(ctx)
	defer cancel()

	var list []domain.RentalRequestDetail
	var err error
	switch caller.Role {
	case domain.RoleTenant:
		list, err = s.repos.Requests.ListByTenant(ctx, caller.UserID)
	case domain.RoleOwner:
		list, err = s.repos.Requests.ListByOwner(ctx, caller.UserID)
	case domain.RoleManager:
		list, err = s.repos.Requests.ListAll(ctx)
	default:
		return nil, domain.Forbiddenf("unknown role %q", caller.Role)
	}
	if err != nil {
		return nil, classify(err, "failed to list rental requests")
	}
	return list, nil
}
