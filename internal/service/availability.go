package service

import (
	"context"

	"property-rental-backend/internal/repository"
)

// AvailabilityOracle reports whether a property has no open agreement. Bound
// to transaction repositories, it observes the transaction's own writes.
type AvailabilityOracle struct {
	rentals repository.RentalRepository
}

func NewAvailabilityOracle(rentals repository.RentalRepository) *AvailabilityOracle {
	return &AvailabilityOracle{rentals: rentals}
}

func (o *AvailabilityOracle) IsAvailable(ctx context.Context, propertyID int32) (bool, error) {
	open, err := o.rentals.HasOpenAgreement(ctx, propertyID)
	if err != nil {
		return false, err
	}
	return !open, nil
}
