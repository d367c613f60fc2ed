package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
)

// IsTerminal reports whether no further transition is allowed.
func (s RequestStatus) IsTerminal() bool {
	return s == RequestStatusApproved || s == RequestStatusRejected
}

type RentalRequest struct {
	ID              int32         `json:"id"`
	TenantID        int32         `json:"tenant_id"`
	PropertyID      int32         `json:"property_id"`
	RequestDate     time.Time     `json:"request_date"`
	Status          RequestStatus `json:"status"`
	ReviewedBy      *int32        `json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time    `json:"reviewed_at,omitempty"`
	RejectionReason *string       `json:"rejection_reason,omitempty"`
}

// RentalRequestDetail is the read model used for listing and display.
type RentalRequestDetail struct {
	RentalRequest
	TenantName     string          `json:"tenant_name"`
	Locality       string          `json:"locality"`
	Address        string          `json:"address"`
	Rent           decimal.Decimal `json:"rent"`
	ReviewedByName *string         `json:"reviewed_by_name,omitempty"`
}

// Review is the transition applied to a pending request.
type Review struct {
	Status          RequestStatus
	ReviewerID      int32
	ReviewedAt      time.Time
	RejectionReason *string
}
