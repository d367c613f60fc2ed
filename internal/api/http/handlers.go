package http

import (
	"net/http"

	"property-rental-backend/internal/api/wire"
	"property-rental-backend/internal/domain"
	"property-rental-backend/internal/service"
)

// Handler serves the REST API on top of the workflow services.
type Handler struct {
	requests      service.RentalRequestService
	rentals       service.RentalService
	notifications service.NotificationService
}

func NewHandler(requests service.RentalRequestService, rentals service.RentalService, notifications service.NotificationService) *Handler {
	return &Handler{requests: requests, rentals: rentals, notifications: notifications}
}

// caller is always present behind the auth middleware.
func caller(r *http.Request) domain.Caller {
	c, _ := CallerFrom(r.Context())
	return c
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// POST /api/rental-requests
func (h *Handler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	var body wire.CreateRequestRequest
	if err := decodeJSON(r, &body, false); err != nil {
		writeError(w, r, err)
		return
	}
	req, available, err := h.requests.CreateRequest(r.Context(), caller(r), body.PropertyID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, wire.CreateRequestResponse{
		Request:           wire.MapDomainRequestToWire(req),
		PropertyAvailable: available,
	})
}

// GET /api/rental-requests
func (h *Handler) ListRequests(w http.ResponseWriter, r *http.Request) {
	details, err := h.requests.ListRequests(r.Context(), caller(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]*wire.RentalRequest, len(details))
	for i := range details {
		out[i] = wire.MapDomainRequestDetailToWire(&details[i])
	}
	writeJSON(w, http.StatusOK, wire.ListRequestsResponse{Requests: out})
}

// GET /api/rental-requests/{id}
func (h *Handler) GetRequest(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	detail, err := h.requests.GetRequest(r.Context(), caller(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.GetRequestResponse{Request: wire.MapDomainRequestDetailToWire(detail)})
}

// PUT /api/rental-requests/{id}/approve
func (h *Handler) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	summary, err := h.requests.ApproveRequest(r.Context(), caller(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.ApproveRequestResponse{Agreement: wire.MapDomainSummaryToWire(summary)})
}

// PUT /api/rental-requests/{id}/reject, with an optional {"reason": "..."} body.
func (h *Handler) RejectRequest(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var body struct {
		Reason string `json:"reason"`
	}
	if err := decodeJSON(r, &body, true); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.requests.RejectRequest(r.Context(), caller(r), id, body.Reason); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.RejectRequestResponse{Success: true})
}

// POST /api/rentals
func (h *Handler) CreateAgreement(w http.ResponseWriter, r *http.Request) {
	var body wire.CreateAgreementRequest
	if err := decodeJSON(r, &body, false); err != nil {
		writeError(w, r, err)
		return
	}
	in, err := domain.ParseAgreementInput(body.TenantID, body.PropertyID, body.StartDate, body.MonthlyRent, body.Commission)
	if err != nil {
		writeError(w, r, err)
		return
	}
	rental, err := h.rentals.CreateAgreement(r.Context(), caller(r), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, wire.CreateAgreementResponse{Agreement: wire.MapDomainRentalToWire(rental)})
}

// PUT /api/rentals/end
func (h *Handler) EndAgreement(w http.ResponseWriter, r *http.Request) {
	var body wire.EndAgreementRequest
	if err := decodeJSON(r, &body, false); err != nil {
		writeError(w, r, err)
		return
	}
	start, err := domain.ParseDate(body.StartDate)
	if err != nil {
		writeError(w, r, err)
		return
	}
	end, err := domain.ParseDate(body.EndDate)
	if err != nil {
		writeError(w, r, err)
		return
	}
	key := domain.AgreementKey{TenantID: body.TenantID, PropertyID: body.PropertyID, StartDate: start}
	if err := h.rentals.EndAgreement(r.Context(), caller(r), key, end); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.EndAgreementResponse{Success: true})
}

// GET /api/rentals/history/{propertyId}
func (h *Handler) ListHistory(w http.ResponseWriter, r *http.Request) {
	propertyID, err := pathID(r, "propertyId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	rentals, err := h.rentals.ListHistory(r.Context(), caller(r), propertyID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]*wire.Agreement, len(rentals))
	for i := range rentals {
		out[i] = wire.MapDomainRentalToWire(&rentals[i])
	}
	writeJSON(w, http.StatusOK, wire.ListHistoryResponse{Agreements: out})
}

// GET /api/rentals/tenant/{propertyId}
func (h *Handler) GetCurrentTenant(w http.ResponseWriter, r *http.Request) {
	propertyID, err := pathID(r, "propertyId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	current, err := h.rentals.GetCurrentTenant(r.Context(), caller(r), propertyID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp := wire.GetCurrentTenantResponse{}
	if current != nil {
		resp.Tenant = wire.MapDomainUserToWire(&current.Tenant)
		resp.Agreement = wire.MapDomainRentalToWire(&current.Rental)
	}
	writeJSON(w, http.StatusOK, resp)
}

// GET /api/rentals/tenant-active
func (h *Handler) GetActiveRental(w http.ResponseWriter, r *http.Request) {
	active, err := h.rentals.GetActiveRental(r.Context(), caller(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.GetActiveRentalResponse{Rental: wire.MapDomainActiveRentalToWire(active)})
}

// GET /api/rentals/owner-active
func (h *Handler) ListOwnerActiveRentals(w http.ResponseWriter, r *http.Request) {
	rentals, err := h.rentals.ListOwnerActiveRentals(r.Context(), caller(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.ListOwnerActiveRentalsResponse{Rentals: wire.MapDomainOpenRentalsToWire(rentals)})
}

// GET /api/rentals
func (h *Handler) ListActiveRentals(w http.ResponseWriter, r *http.Request) {
	rentals, err := h.rentals.ListActiveRentals(r.Context(), caller(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.ListActiveRentalsResponse{
		Rentals: wire.MapDomainOpenRentalsToWire(rentals),
		Count:   int32(len(rentals)),
	})
}

// GET /api/rentals/available/{propertyId}
func (h *Handler) IsPropertyAvailable(w http.ResponseWriter, r *http.Request) {
	propertyID, err := pathID(r, "propertyId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	available, err := h.rentals.IsPropertyAvailable(r.Context(), propertyID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.IsPropertyAvailableResponse{Available: available})
}

// GET /api/notifications?page=1&page_size=20
func (h *Handler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page", 1)
	if err != nil {
		writeError(w, r, err)
		return
	}
	pageSize, err := queryInt(r, "page_size", 20)
	if err != nil {
		writeError(w, r, err)
		return
	}
	notes, total, err := h.notifications.GetNotifications(r.Context(), caller(r).UserID, page, pageSize)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]*wire.Notification, len(notes))
	for i := range notes {
		out[i] = wire.MapDomainNotificationToWire(&notes[i])
	}
	writeJSON(w, http.StatusOK, wire.GetNotificationsResponse{Notifications: out, TotalCount: total})
}

// PUT /api/notifications/mark-read/{id}
func (h *Handler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.notifications.MarkAsRead(r.Context(), caller(r).UserID, id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.MarkAsReadResponse{Success: true})
}
