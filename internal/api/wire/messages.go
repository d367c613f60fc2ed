// Package wire holds the JSON messages of the rental.v1 gRPC services. The
// REST transport uses the same shapes. Dates travel as YYYY-MM-DD and money as
// decimal strings.
package wire

import "github.com/shopspring/decimal"

type RentalRequest struct {
	ID              int32   `json:"id"`
	TenantID        int32   `json:"tenant_id"`
	PropertyID      int32   `json:"property_id"`
	RequestDate     string  `json:"request_date"`
	Status          string  `json:"status"`
	ReviewedBy      *int32  `json:"reviewed_by,omitempty"`
	ReviewedAt      string  `json:"reviewed_at,omitempty"`
	RejectionReason *string `json:"rejection_reason,omitempty"`

	TenantName     string           `json:"tenant_name,omitempty"`
	Locality       string           `json:"locality,omitempty"`
	Address        string           `json:"address,omitempty"`
	Rent           *decimal.Decimal `json:"rent,omitempty"`
	ReviewedByName *string          `json:"reviewed_by_name,omitempty"`
}

type Agreement struct {
	ID          int32            `json:"id,omitempty"`
	TenantID    int32            `json:"tenant_id"`
	PropertyID  int32            `json:"property_id"`
	StartDate   string           `json:"start_date"`
	EndDate     string           `json:"end_date,omitempty"`
	MonthlyRent decimal.Decimal  `json:"monthly_rent"`
	Commission  *decimal.Decimal `json:"commission,omitempty"`
}

type User struct {
	ID       int32  `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role"`
}

type ActiveRental struct {
	PropertyID    int32           `json:"property_id"`
	Locality      string          `json:"locality"`
	Address       string          `json:"address"`
	Rent          decimal.Decimal `json:"rent"`
	StartDate     string          `json:"start_date"`
	OwnerName     string          `json:"owner_name"`
	OwnerUsername string          `json:"owner_username"`
}

// OpenRental is an open agreement with its property and both parties.
type OpenRental struct {
	Agreement
	Locality       string `json:"locality"`
	Address        string `json:"address"`
	TenantName     string `json:"tenant_name"`
	TenantUsername string `json:"tenant_username"`
	OwnerID        int32  `json:"owner_id"`
	OwnerName      string `json:"owner_name"`
}

type Notification struct {
	ID        int32  `json:"id"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	IsRead    bool   `json:"is_read"`
	CreatedAt string `json:"created_at"`
}

// RentalRequestService

type CreateRequestRequest struct {
	PropertyID int32 `json:"property_id"`
}

type CreateRequestResponse struct {
	Request           *RentalRequest `json:"request"`
	PropertyAvailable bool           `json:"property_available"`
}

type ApproveRequestRequest struct {
	RequestID int32 `json:"request_id"`
}

type ApproveRequestResponse struct {
	Agreement *Agreement `json:"agreement"`
}

type RejectRequestRequest struct {
	RequestID int32  `json:"request_id"`
	Reason    string `json:"reason,omitempty"`
}

type RejectRequestResponse struct {
	Success bool `json:"success"`
}

type GetRequestRequest struct {
	RequestID int32 `json:"request_id"`
}

type GetRequestResponse struct {
	Request *RentalRequest `json:"request"`
}

type ListRequestsRequest struct{}

type ListRequestsResponse struct {
	Requests []*RentalRequest `json:"requests"`
}

// RentalService

type CreateAgreementRequest struct {
	TenantID    int32   `json:"tenant_id"`
	PropertyID  int32   `json:"property_id"`
	StartDate   string  `json:"start_date"`
	MonthlyRent string  `json:"monthly_rent"`
	Commission  *string `json:"commission,omitempty"`
}

type CreateAgreementResponse struct {
	Agreement *Agreement `json:"agreement"`
}

type EndAgreementRequest struct {
	TenantID   int32  `json:"tenant_id"`
	PropertyID int32  `json:"property_id"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
}

type EndAgreementResponse struct {
	Success bool `json:"success"`
}

type ListHistoryRequest struct {
	PropertyID int32 `json:"property_id"`
}

type ListHistoryResponse struct {
	Agreements []*Agreement `json:"agreements"`
}

type GetCurrentTenantRequest struct {
	PropertyID int32 `json:"property_id"`
}

// GetCurrentTenantResponse has nil fields when the property is vacant.
type GetCurrentTenantResponse struct {
	Tenant    *User      `json:"tenant"`
	Agreement *Agreement `json:"agreement"`
}

type GetActiveRentalRequest struct{}

type GetActiveRentalResponse struct {
	Rental *ActiveRental `json:"rental"`
}

type ListOwnerActiveRentalsRequest struct{}

type ListOwnerActiveRentalsResponse struct {
	Rentals []*OpenRental `json:"rentals"`
}

type ListActiveRentalsRequest struct{}

type ListActiveRentalsResponse struct {
	Rentals []*OpenRental `json:"rentals"`
	Count   int32         `json:"count"`
}

type IsPropertyAvailableRequest struct {
	PropertyID int32 `json:"property_id"`
}

type IsPropertyAvailableResponse struct {
	Available bool `json:"available"`
}

// NotificationService

type GetNotificationsRequest struct {
	Page     int32 `json:"page"`
	PageSize int32 `json:"page_size"`
}

type GetNotificationsResponse struct {
	Notifications []*Notification `json:"notifications"`
	TotalCount    int32           `json:"total_count"`
}

type MarkAsReadRequest struct {
	NotificationID int32 `json:"notification_id"`
}

type MarkAsReadResponse struct {
	Success bool `json:"success"`
}
