package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"property-rental-backend/internal/security"
)

// NewRouter registers the REST routes behind request-id, access-log, panic
// recovery and bearer-token middleware.
func NewRouter(h *Handler, tm security.TokenManager) *mux.Router {
	router := mux.NewRouter()
	router.Use(requestID, accessLog, recoverPanic, authenticate(tm))

	router.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/rental-requests", h.CreateRequest).Methods(http.MethodPost)
	api.HandleFunc("/rental-requests", h.ListRequests).Methods(http.MethodGet)
	api.HandleFunc("/rental-requests/{id:[0-9]+}", h.GetRequest).Methods(http.MethodGet)
	api.HandleFunc("/rental-requests/{id:[0-9]+}/approve", h.ApproveRequest).Methods(http.MethodPut)
	api.HandleFunc("/rental-requests/{id:[0-9]+}/reject", h.RejectRequest).Methods(http.MethodPut)

	api.HandleFunc("/rentals", h.CreateAgreement).Methods(http.MethodPost)
	api.HandleFunc("/rentals", h.ListActiveRentals).Methods(http.MethodGet)
	api.HandleFunc("/rentals/owner-active", h.ListOwnerActiveRentals).Methods(http.MethodGet)
	api.HandleFunc("/rentals/end", h.EndAgreement).Methods(http.MethodPut)
	api.HandleFunc("/rentals/history/{propertyId:[0-9]+}", h.ListHistory).Methods(http.MethodGet)
	api.HandleFunc("/rentals/tenant/{propertyId:[0-9]+}", h.GetCurrentTenant).Methods(http.MethodGet)
	api.HandleFunc("/rentals/tenant-active", h.GetActiveRental).Methods(http.MethodGet)
	api.HandleFunc("/rentals/available/{propertyId:[0-9]+}", h.IsPropertyAvailable).Methods(http.MethodGet)

	api.HandleFunc("/notifications", h.GetNotifications).Methods(http.MethodGet)
	api.HandleFunc("/notifications/mark-read/{id:[0-9]+}", h.MarkAsRead).Methods(http.MethodPut)

	return router
}
