package grpc

import (
	"context"

	"property-rental-backend/internal/api/wire"
	"property-rental-backend/internal/domain"
	"property-rental-backend/internal/service"
)

type RentalHandler struct {
	rentalSvc service.RentalService
}

func NewRentalHandler(rentalSvc service.RentalService) *RentalHandler {
	return &RentalHandler{rentalSvc: rentalSvc}
}

func (h *RentalHandler) CreateAgreement(ctx context.Context, req *wire.CreateAgreementRequest) (*wire.CreateAgreementResponse, error) {
	caller, err := GetCallerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	in, err := domain.ParseAgreementInput(req.TenantID, req.PropertyID, req.StartDate, req.MonthlyRent, req.Commission)
	if err != nil {
		return nil, toStatus(err)
	}
	rental, err := h.rentalSvc.CreateAgreement(ctx, caller, in)
	if err != nil {
		return nil, toStatus(err)
	}
	return &wire.CreateAgreementResponse{Agreement: wire.MapDomainRentalToWire(rental)}, nil
}

func (h *RentalHandler) EndAgreement(ctx context.Context, req *wire.EndAgreementRequest) (*wire.EndAgreementResponse, error) {
	caller, err := GetCallerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	start, err := domain.ParseDate(req.StartDate)
	if err != nil {
		return nil, toStatus(err)
	}
	end, err := domain.ParseDate(req.EndDate)
	if err != nil {
		return nil, toStatus(err)
	}
	key := domain.AgreementKey{TenantID: req.TenantID, PropertyID: req.PropertyID, StartDate: start}
	if err := h.rentalSvc.EndAgreement(ctx, caller, key, end); err != nil {
		return nil, toStatus(err)
	}
	return &wire.EndAgreementResponse{Success: true}, nil
}

func (h *RentalHandler) ListHistory(ctx context.Context, req *wire.ListHistoryRequest) (*wire.ListHistoryResponse, error) {
	caller, err := GetCallerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	rentals, err := h.rentalSvc.ListHistory(ctx, caller, req.PropertyID)
	if err != nil {
		return nil, toStatus(err)
	}
	out := make([]*wire.Agreement, len(rentals))
	for i := range rentals {
		out[i] = wire.MapDomainRentalToWire(&rentals[i])
	}
	return &wire.ListHistoryResponse{Agreements: out}, nil
}

func (h *RentalHandler) GetCurrentTenant(ctx context.Context, req *wire.GetCurrentTenantRequest) (*wire.GetCurrentTenantResponse, error) {
	caller, err := GetCallerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	current, err := h.rentalSvc.GetCurrentTenant(ctx, caller, req.PropertyID)
	if err != nil {
		return nil, toStatus(err)
	}
	if current == nil {
		return &wire.GetCurrentTenantResponse{}, nil
	}
	return &wire.GetCurrentTenantResponse{
		Tenant:    wire.MapDomainUserToWire(&current.Tenant),
		Agreement: wire.MapDomainRentalToWire(&current.Rental),
	}, nil
}

func (h *RentalHandler) GetActiveRental(ctx context.Context, req *wire.GetActiveRentalRequest) (*wire.GetActiveRentalResponse, error) {
	caller, err := GetCallerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	active, err := h.rentalSvc.GetActiveRental(ctx, caller)
	if err != nil {
		return nil, toStatus(err)
	}
	return &wire.GetActiveRentalResponse{Rental: wire.MapDomainActiveRentalToWire(active)}, nil
}

func (h *RentalHandler) IsPropertyAvailable(ctx context.Context, req *wire.IsPropertyAvailableRequest) (*wire.IsPropertyAvailableResponse, error) {
	if _, err := GetCallerFromContext(ctx); err != nil {
		return nil, err
	}
	available, err := h.rentalSvc.IsPropertyAvailable(ctx, req.PropertyID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &wire.IsPropertyAvailableResponse{Available: available}, nil
}

func (h *RentalHandler) ListOwnerActiveRentals(ctx context.Context, req *wire.ListOwnerActiveRentalsRequest) (*wire.ListOwnerActiveRentalsResponse, error) {
	caller, err := GetCallerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	rentals, err := h.rentalSvc.ListOwnerActiveRentals(ctx, caller)
	if err != nil {
		return nil, toStatus(err)
	}
	return &wire.ListOwnerActiveRentalsResponse{Rentals: wire.MapDomainOpenRentalsToWire(rentals)}, nil
}

func (h *RentalHandler) ListActiveRentals(ctx context.Context, req *wire.ListActiveRentalsRequest) (*wire.ListActiveRentalsResponse, error) {
	caller, err := GetCallerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	rentals, err := h.rentalSvc.ListActiveRentals(ctx, caller)
	if err != nil {
		return nil, toStatus(err)
	}
	return &wire.ListActiveRentalsResponse{
		Rentals: wire.MapDomainOpenRentalsToWire(rentals),
		Count:   int32(len(rentals)),
	}, nil
}
