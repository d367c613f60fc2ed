package service

import (
	"context"
	"errors"
	"time"

	"property-rental-backend/internal/domain"
	"property-rental-backend/internal/logger"
	"property-rental-backend/internal/repository"
)

type rentalService struct {
	repos    repository.Repos
	tx       repository.Transactor
	notifier Notifier
	opts     Options
}

func NewRentalService(
	repos repository.Repos,
	tx repository.Transactor,
	notifier Notifier,
	opts Options,
) RentalService {
	return &rentalService{
		repos:    repos,
		tx:       tx,
		notifier: notifier,
		opts:     opts,
	}
}

// CreateAgreement lets a manager open an agreement without a request.
func (s *rentalService) CreateAgreement(ctx context.Context, caller domain.Caller, in domain.AgreementInput) (*domain.Rental, error) {
	const method = "rentalService.CreateAgreement"
	logger.EnterMethod(method, "tenantID", in.TenantID, "propertyID", in.PropertyID, "managerID", caller.UserID)

	if err := domain.CanCreateAgreement(caller); err != nil {
		logger.ExitMethodWithError(method, err, "propertyID", in.PropertyID)
		return nil, err
	}
	if err := validateAgreementInput(in); err != nil {
		logger.ExitMethodWithError(method, err, "propertyID", in.PropertyID)
		return nil, err
	}

	opCtx, cancel := s.opts.bound(ctx)
	defer cancel()

	var rental *domain.Rental
	var property *domain.Property
	err := s.tx.WithinTx(opCtx, func(repos repository.Repos) error {
		tenant, err := repos.Users.GetByID(opCtx, in.TenantID)
		if errors.Is(err, repository.ErrNotFound) || (err == nil && tenant.Role != domain.RoleTenant) {
			return domain.InvalidArgumentf("the specified tenant does not exist")
		}
		if err != nil {
			return err
		}

		property, err = repos.Properties.GetByIDForUpdate(opCtx, in.PropertyID)
		if errors.Is(err, repository.ErrNotFound) {
			return domain.NotFoundf("property %d not found", in.PropertyID)
		}
		if err != nil {
			return err
		}

		available, err := NewAvailabilityOracle(repos.Rentals).IsAvailable(opCtx, property.ID)
		if err != nil {
			return err
		}
		if !available {
			return domain.ErrPropertyRented
		}

		rental = &domain.Rental{
			TenantID:    in.TenantID,
			PropertyID:  in.PropertyID,
			StartDate:   domain.DateOf(in.StartDate),
			MonthlyRent: in.MonthlyRent,
			Commission:  in.Commission,
		}
		if err := repos.Rentals.Create(opCtx, rental); err != nil {
			if errors.Is(err, repository.ErrUniqueViolation) {
				return domain.ErrPropertyRented
			}
			return err
		}
		return nil
	})
	if err != nil {
		err = classify(err, "failed to create rental agreement")
		logger.ExitMethodWithError(method, err, "propertyID", in.PropertyID)
		return nil, err
	}

	nctx, ncancel := s.opts.detached(ctx)
	defer ncancel()
	notifyBestEffort(nctx, s.notifier, rental.TenantID, titleAgreementCreated,
		agreementCreatedMessage(property, rental.StartDate.Format(domain.DateLayout)))

	logger.ExitMethod(method, "rentalID", rental.ID)
	return rental, nil
}

func validateAgreementInput(in domain.AgreementInput) error {
	if in.StartDate.IsZero() {
		return domain.InvalidArgumentf("start date is required")
	}
	if in.MonthlyRent.IsNegative() {
		return domain.InvalidArgumentf("monthly rent must not be negative")
	}
	if in.Commission.Valid && in.Commission.Decimal.IsNegative() {
		return domain.InvalidArgumentf("commission must not be negative")
	}
	return nil
}

// EndAgreement closes the open agreement identified by key. Closing an
// agreement that already has an end date is a conflict.
func (s *rentalService) EndAgreement(ctx context.Context, caller domain.Caller, key domain.AgreementKey, endDate time.Time) error {
	const method = "rentalService.EndAgreement"
	logger.EnterMethod(method, "tenantID", key.TenantID, "propertyID", key.PropertyID, "managerID", caller.UserID)

	if err := domain.CanEndAgreement(caller); err != nil {
		logger.ExitMethodWithError(method, err, "propertyID", key.PropertyID)
		return err
	}
	key.StartDate = domain.DateOf(key.StartDate)
	endDate = domain.DateOf(endDate)
	if endDate.Before(key.StartDate) {
		err := domain.InvalidArgumentf("end date must not be before start date")
		logger.ExitMethodWithError(method, err, "propertyID", key.PropertyID)
		return err
	}

	opCtx, cancel := s.opts.bound(ctx)
	defer cancel()

	err := s.tx.WithinTx(opCtx, func(repos repository.Repos) error {
		rental, err := repos.Rentals.GetForUpdate(opCtx, key)
		if errors.Is(err, repository.ErrNotFound) {
			return domain.NotFoundf("no rental agreement for tenant %d on property %d starting %s",
				key.TenantID, key.PropertyID, key.StartDate.Format(domain.DateLayout))
		}
		if err != nil {
			return err
		}
		if !rental.IsOpen() {
			return domain.ErrAgreementClosed
		}
		if err := repos.Rentals.End(opCtx, rental.ID, endDate); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return domain.ErrAgreementClosed
			}
			return err
		}
		return nil
	})
	if err != nil {
		err = classify(err, "failed to end rental agreement")
		logger.ExitMethodWithError(method, err, "propertyID", key.PropertyID)
		return err
	}

	s.notifyEnded(ctx, key, endDate)

	logger.ExitMethod(method, "propertyID", key.PropertyID)
	return nil
}

func (s *rentalService) notifyEnded(ctx context.Context, key domain.AgreementKey, endDate time.Time) {
	ctx, cancel := s.opts.detached(ctx)
	defer cancel()

	property, err := s.repos.Properties.GetByID(ctx, key.PropertyID)
	if err != nil {
		logger.Warn("Failed to load property for end notification", "propertyID", key.PropertyID, "error", err)
		return
	}
	end := endDate.Format(domain.DateLayout)
	notifyBestEffort(ctx, s.notifier, key.TenantID, titleAgreementEnded, agreementEndedMessage(property, end))
	notifyBestEffort(ctx, s.notifier, property.OwnerID, titleRentalEnded, rentalEndedMessage(property, end))
}

func (s *rentalService) ListHistory(ctx context.Context, caller domain.Caller, propertyID int32) ([]domain.Rental, error) {
	ctx, cancel := s.opts.bound(ctx)
	defer cancel()

	if err := s.authorizePropertyView(ctx, caller, propertyID); err != nil {
		return nil, err
	}
	rentals, err := s.repos.Rentals.ListByProperty(ctx, propertyID)
	if err != nil {
		return nil, classify(err, "failed to list rental history")
	}
	return rentals, nil
}

func (s *rentalService) GetCurrentTenant(ctx context.Context, caller domain.Caller, propertyID int32) (*domain.CurrentTenant, error) {
	ctx, cancel := s.opts.bound(ctx)
	defer cancel()

	if err := s.authorizePropertyView(ctx, caller, propertyID); err != nil {
		return nil, err
	}
	rental, err := s.repos.Rentals.GetOpenByProperty(ctx, propertyID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, classify(err, "failed to load current rental")
	}
	tenant, err := s.repos.Users.GetByID(ctx, rental.TenantID)
	if err != nil {
		return nil, classify(err, "failed to load tenant")
	}
	return &domain.CurrentTenant{Tenant: *tenant, Rental: *rental}, nil
}

func (s *rentalService) authorizePropertyView(ctx context.Context, caller domain.Caller, propertyID int32) error {
	property, err := s.repos.Properties.GetByID(ctx, propertyID)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.NotFoundf("property %d not found", propertyID)
	}
	if err != nil {
		return classify(err, "failed to load property")
	}
	return domain.CanViewPropertyRentals(caller, property.OwnerID)
}

func (s *rentalService) GetActiveRental(ctx context.Context, caller domain.Caller) (*domain.ActiveRental, error) {
	if err := domain.CanViewActiveRental(caller); err != nil {
		return nil, err
	}
	ctx, cancel := s.opts.bound(ctx)
	defer cancel()

	active, err := s.repos.Rentals.GetActiveByTenant(ctx, caller.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, classify(err, "failed to load active rental")
	}
	return active, nil
}

func (s *rentalService) IsPropertyAvailable(ctx context.Context, propertyID int32) (bool, error) {
	ctx, cancel := s.opts.bound(ctx)
	defer cancel()

	if _, err := s.repos.Properties.GetByID(ctx, propertyID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, domain.NotFoundf("property %d not found", propertyID)
		}
		return false, classify(err, "failed to load property")
	}
	available, err := NewAvailabilityOracle(s.repos.Rentals).IsAvailable(ctx, propertyID)
	if err != nil {
		return false, classify(err, "failed to check availability")
	}
	return available, nil
}

func (s *rentalService) ListOwnerActiveRentals(ctx context.Context, caller domain.Caller) ([]domain.OpenRental, error) {
	if err := domain.CanViewOwnerRentals(caller); err != nil {
		return nil, err
	}
	ctx, cancel := s.opts.bound(ctx)
	defer cancel()

	rentals, err := s.repos.Rentals.ListOpenByOwner(ctx, caller.UserID)
	if err != nil {
		return nil, classify(err, "failed to list active rentals")
	}
	return rentals, nil
}

func (s *rentalService) ListActiveRentals(ctx context.Context, caller domain.Caller) ([]domain.OpenRental, error) {
	if err := domain.CanListAllRentals(caller); err != nil {
		return nil, err
	}
	ctx, cancel := s.opts.bound(ctx)
	defer cancel()

	rentals, err := s.repos.Rentals.ListOpen(ctx)
	if err != nil {
		return nil, classify(err, "failed to list rentals")
	}
	return rentals, nil
}
