package grpc

import (
	"context"

	"property-rental-backend/internal/api/wire"
	"property-rental-backend/internal/service"
)

type RentalRequestHandler struct {
	requestSvc service.RentalRequestService
}

func NewRentalRequestHandler(requestSvc service.RentalRequestService) *RentalRequestHandler {
	return &RentalRequestHandler{requestSvc: requestSvc}
}

func (h *RentalRequestHandler) CreateRequest(ctx context.Context, req *wire.CreateRequestRequest) (*wire.CreateRequestResponse, error) {
	caller, err := GetCallerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	rr, available, err := h.requestSvc.CreateRequest(ctx, caller, req.PropertyID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &wire.CreateRequestResponse{Request: wire.MapDomainRequestToWire(rr), PropertyAvailable: available}, nil
}

func (h *RentalRequestHandler) ApproveRequest(ctx context.Context, req *wire.ApproveRequestRequest) (*wire.ApproveRequestResponse, error) {
	caller, err := GetCallerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	summary, err := h.requestSvc.ApproveRequest(ctx, caller, req.RequestID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &wire.ApproveRequestResponse{Agreement: wire.MapDomainSummaryToWire(summary)}, nil
}

func (h *RentalRequestHandler) RejectRequest(ctx context.Context, req *wire.RejectRequestRequest) (*wire.RejectRequestResponse, error) {
	caller, err := GetCallerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.requestSvc.RejectRequest(ctx, caller, req.RequestID, req.Reason); err != nil {
		return nil, toStatus(err)
	}
	return &wire.RejectRequestResponse{Success: true}, nil
}

func (h *RentalRequestHandler) GetRequest(ctx context.Context, req *wire.GetRequestRequest) (*wire.GetRequestResponse, error) {
	caller, err := GetCallerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	detail, err := h.requestSvc.GetRequest(ctx, caller, req.RequestID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &wire.GetRequestResponse{Request: wire.MapDomainRequestDetailToWire(detail)}, nil
}

func (h *RentalRequestHandler) ListRequests(ctx context.Context, req *wire.ListRequestsRequest) (*wire.ListRequestsResponse, error) {
	caller, err := GetCallerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	details, err := h.requestSvc.ListRequests(ctx, caller)
	if err != nil {
		return nil, toStatus(err)
	}
	out := make([]*wire.RentalRequest, len(details))
	for i := range details {
		out[i] = wire.MapDomainRequestDetailToWire(&details[i])
	}
	return &wire.ListRequestsResponse{Requests: out}, nil
}
