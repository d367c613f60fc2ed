package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"property-rental-backend/internal/api/wire"
	"property-rental-backend/internal/domain"
	"property-rental-backend/internal/repository/memory"
	"property-rental-backend/internal/security"
	"property-rental-backend/internal/service"
)

const (
	ownerID   int32 = 1
	tenantID  int32 = 2
	managerID int32 = 3
	property  int32 = 10
)

type apiFixture struct {
	router http.Handler
	tokens security.TokenManager
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	store := memory.NewStore()
	store.AddUser(domain.User{ID: ownerID, Username: "olivia", Name: "Olivia Owner", Role: domain.RoleOwner})
	store.AddUser(domain.User{ID: tenantID, Username: "tina", Name: "Tina Tenant", Role: domain.RoleTenant})
	store.AddUser(domain.User{ID: managerID, Username: "max", Name: "Max Manager", Role: domain.RoleManager})
	store.AddProperty(domain.Property{ID: property, OwnerID: ownerID, Locality: "Uptown", Address: "1 Main St", Rent: decimal.NewFromInt(1500)})

	repos := store.Repos()
	notifier := service.NewNotifier(repos.Notifications)
	opts := service.Options{OperationTimeout: 2 * time.Second}
	tokens := security.NewTokenManager("0123456789abcdef0123456789abcdef", time.Hour)
	h := NewHandler(
		service.NewRentalRequestService(repos, store, notifier, opts),
		service.NewRentalService(repos, store, notifier, opts),
		service.NewNotificationService(repos.Notifications),
	)
	return &apiFixture{router: NewRouter(h, tokens), tokens: tokens}
}

func (f *apiFixture) do(t *testing.T, method, path string, userID int32, role domain.Role, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if userID != 0 {
		token, err := f.tokens.GenerateAccessToken(userID, role)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestRouter_RequestLifecycle(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/api/rental-requests", tenantID, domain.RoleTenant, map[string]int32{"property_id": property})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
	created := decode[wire.CreateRequestResponse](t, rec)
	assert.True(t, created.PropertyAvailable)
	id := created.Request.ID

	rec = f.do(t, http.MethodPost, "/api/rental-requests", tenantID, domain.RoleTenant, map[string]int32{"property_id": property})
	assert.Equal(t, http.StatusConflict, rec.Code)
	body := decode[ErrorBody](t, rec)
	assert.Equal(t, "CONFLICT", body.Error)
	assert.Equal(t, "a pending request for this property already exists", body.Message)

	rec = f.do(t, http.MethodPut, fmt.Sprintf("/api/rental-requests/%d/approve", id), managerID, domain.RoleManager, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	approved := decode[wire.ApproveRequestResponse](t, rec)
	assert.Equal(t, "1500", approved.Agreement.MonthlyRent.String())

	rec = f.do(t, http.MethodPut, fmt.Sprintf("/api/rental-requests/%d/reject", id), managerID, domain.RoleManager, map[string]string{"reason": "late"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/rental-requests", ownerID, domain.RoleOwner, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[wire.ListRequestsResponse](t, rec)
	require.Len(t, list.Requests, 1)
	assert.Equal(t, "Tina Tenant", list.Requests[0].TenantName)

	rec = f.do(t, http.MethodGet, "/api/rentals/tenant-active", tenantID, domain.RoleTenant, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	active := decode[wire.GetActiveRentalResponse](t, rec)
	require.NotNil(t, active.Rental)
	assert.Equal(t, "olivia", active.Rental.OwnerUsername)

	rec = f.do(t, http.MethodGet, "/api/notifications?page=1&page_size=5", ownerID, domain.RoleOwner, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	notes := decode[wire.GetNotificationsResponse](t, rec)
	require.Equal(t, int32(1), notes.TotalCount)
	assert.Equal(t, "Property Rented", notes.Notifications[0].Title)

	rec = f.do(t, http.MethodPut, fmt.Sprintf("/api/notifications/mark-read/%d", notes.Notifications[0].ID), ownerID, domain.RoleOwner, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = f.do(t, http.MethodPut, fmt.Sprintf("/api/notifications/mark-read/%d", notes.Notifications[0].ID), tenantID, domain.RoleTenant, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_RejectWithoutBody(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/api/rental-requests", tenantID, domain.RoleTenant, map[string]int32{"property_id": property})
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode[wire.CreateRequestResponse](t, rec).Request.ID

	rec = f.do(t, http.MethodPut, fmt.Sprintf("/api/rental-requests/%d/reject", id), managerID, domain.RoleManager, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = f.do(t, http.MethodGet, fmt.Sprintf("/api/rental-requests/%d", id), tenantID, domain.RoleTenant, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[wire.GetRequestResponse](t, rec)
	assert.Equal(t, "rejected", got.Request.Status)
	assert.Nil(t, got.Request.RejectionReason)
}

func TestRouter_Agreements(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/api/rentals", managerID, domain.RoleManager, map[string]string{
		"start_date": "2026-03-01", "monthly_rent": "1450", "commission": "100",
	})
	// No tenant_id, so the tenant lookup fails.
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/rentals", managerID, domain.RoleManager, wire.CreateAgreementRequest{
		TenantID: tenantID, PropertyID: 99, StartDate: "2026-03-01", MonthlyRent: "1450",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/rentals", managerID, domain.RoleManager, wire.CreateAgreementRequest{
		TenantID: tenantID, PropertyID: property, StartDate: "2026-03-01", MonthlyRent: "1450",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = f.do(t, http.MethodGet, fmt.Sprintf("/api/rentals/available/%d", property), tenantID, domain.RoleTenant, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[wire.IsPropertyAvailableResponse](t, rec).Available)

	rec = f.do(t, http.MethodGet, fmt.Sprintf("/api/rentals/tenant/%d", property), ownerID, domain.RoleOwner, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	current := decode[wire.GetCurrentTenantResponse](t, rec)
	require.NotNil(t, current.Tenant)
	assert.Equal(t, tenantID, current.Tenant.ID)

	rec = f.do(t, http.MethodGet, fmt.Sprintf("/api/rentals/history/%d", property), tenantID, domain.RoleTenant, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	end := wire.EndAgreementRequest{TenantID: tenantID, PropertyID: property, StartDate: "2026-03-01", EndDate: "2026-08-31"}
	rec = f.do(t, http.MethodPut, "/api/rentals/end", managerID, domain.RoleManager, end)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = f.do(t, http.MethodPut, "/api/rentals/end", managerID, domain.RoleManager, end)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = f.do(t, http.MethodGet, fmt.Sprintf("/api/rentals/history/%d", property), ownerID, domain.RoleOwner, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	history := decode[wire.ListHistoryResponse](t, rec)
	require.Len(t, history.Agreements, 1)
	assert.Equal(t, "2026-08-31", history.Agreements[0].EndDate)
}

func TestRouter_OpenRentalLists(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/api/rentals", managerID, domain.RoleManager, wire.CreateAgreementRequest{
		TenantID: tenantID, PropertyID: property, StartDate: "2026-03-01", MonthlyRent: "1450",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = f.do(t, http.MethodGet, "/api/rentals/owner-active", ownerID, domain.RoleOwner, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	mine := decode[wire.ListOwnerActiveRentalsResponse](t, rec)
	require.Len(t, mine.Rentals, 1)
	assert.Equal(t, "tina", mine.Rentals[0].TenantUsername)
	assert.Equal(t, "1 Main St", mine.Rentals[0].Address)

	rec = f.do(t, http.MethodGet, "/api/rentals/owner-active", tenantID, domain.RoleTenant, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "only owners can view their active rentals", decode[ErrorBody](t, rec).Message)

	rec = f.do(t, http.MethodGet, "/api/rentals", managerID, domain.RoleManager, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	all := decode[wire.ListActiveRentalsResponse](t, rec)
	assert.Equal(t, int32(1), all.Count)
	require.Len(t, all.Rentals, 1)
	assert.Equal(t, "Olivia Owner", all.Rentals[0].OwnerName)
	assert.Equal(t, "2026-03-01", all.Rentals[0].StartDate)

	rec = f.do(t, http.MethodGet, "/api/rentals", ownerID, domain.RoleOwner, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_NotificationPageBeyondRange(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodGet, "/api/notifications?page=2147483647&page_size=100", tenantID, domain.RoleTenant, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Empty(t, decode[wire.GetNotificationsResponse](t, rec).Notifications)

	rec = f.do(t, http.MethodGet, "/api/notifications?page=2147483648", tenantID, domain.RoleTenant, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecoverPanic(t *testing.T) {
	h := recoverPanic(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var m map[string]int
		m["boom"]++
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/notifications", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode[ErrorBody](t, rec)
	assert.Equal(t, "INTERNAL", body.Error)
	assert.Equal(t, "internal server error", body.Message)
}

func TestRouter_BadInput(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPut, "/api/rentals/end", managerID, domain.RoleManager, map[string]any{
		"tenant_id": tenantID, "property_id": property, "start_date": "03/01/2026", "end_date": "2026-08-31",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_ARGUMENT", decode[ErrorBody](t, rec).Error)

	rec = f.do(t, http.MethodPost, "/api/rental-requests", tenantID, domain.RoleTenant, map[string]any{"property": 10})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/notifications?page=abc", tenantID, domain.RoleTenant, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_Authentication(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodGet, "/api/rental-requests", 0, "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHENTICATED", decode[ErrorBody](t, rec).Error)

	req := httptest.NewRequest(http.MethodGet, "/api/rental-requests", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}
