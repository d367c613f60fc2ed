package wire

import (
	"time"

	"property-rental-backend/internal/domain"
)

func formatDate(t time.Time) string {
	return t.Format(domain.DateLayout)
}

func MapDomainRequestToWire(r *domain.RentalRequest) *RentalRequest {
	if r == nil {
		return nil
	}
	out := &RentalRequest{
		ID:              r.ID,
		TenantID:        r.TenantID,
		PropertyID:      r.PropertyID,
		RequestDate:     formatDate(r.RequestDate),
		Status:          string(r.Status),
		ReviewedBy:      r.ReviewedBy,
		RejectionReason: r.RejectionReason,
	}
	if r.ReviewedAt != nil {
		out.ReviewedAt = r.ReviewedAt.UTC().Format(time.RFC3339)
	}
	return out
}

func MapDomainRequestDetailToWire(d *domain.RentalRequestDetail) *RentalRequest {
	if d == nil {
		return nil
	}
	out := MapDomainRequestToWire(&d.RentalRequest)
	rent := d.Rent
	out.TenantName = d.TenantName
	out.Locality = d.Locality
	out.Address = d.Address
	out.Rent = &rent
	out.ReviewedByName = d.ReviewedByName
	return out
}

func MapDomainSummaryToWire(s *domain.AgreementSummary) *Agreement {
	if s == nil {
		return nil
	}
	out := &Agreement{
		TenantID:    s.TenantID,
		PropertyID:  s.PropertyID,
		StartDate:   formatDate(s.StartDate),
		MonthlyRent: s.MonthlyRent,
	}
	if s.Commission.Valid {
		c := s.Commission.Decimal
		out.Commission = &c
	}
	return out
}

func MapDomainRentalToWire(r *domain.Rental) *Agreement {
	if r == nil {
		return nil
	}
	out := MapDomainSummaryToWire(r.Summary())
	out.ID = r.ID
	if r.EndDate != nil {
		out.EndDate = formatDate(*r.EndDate)
	}
	return out
}

func MapDomainUserToWire(u *domain.User) *User {
	if u == nil {
		return nil
	}
	return &User{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.Name,
		Email:    u.Email,
		Role:     string(u.Role),
	}
}

func MapDomainActiveRentalToWire(a *domain.ActiveRental) *ActiveRental {
	if a == nil {
		return nil
	}
	return &ActiveRental{
		PropertyID:    a.PropertyID,
		Locality:      a.Locality,
		Address:       a.Address,
		Rent:          a.Rent,
		StartDate:     formatDate(a.StartDate),
		OwnerName:     a.OwnerName,
		OwnerUsername: a.OwnerUsername,
	}
}

func MapDomainOpenRentalsToWire(list []domain.OpenRental) []*OpenRental {
	out := make([]*OpenRental, len(list))
	for i := range list {
		o := &list[i]
		out[i] = &OpenRental{
			Agreement:      *MapDomainRentalToWire(&o.Rental),
			Locality:       o.Locality,
			Address:        o.Address,
			TenantName:     o.TenantName,
			TenantUsername: o.TenantUsername,
			OwnerID:        o.OwnerID,
			OwnerName:      o.OwnerName,
		}
	}
	return out
}

func MapDomainNotificationToWire(n *domain.Notification) *Notification {
	return &Notification{
		ID:        n.ID,
		Title:     n.Title,
		Message:   n.Message,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt.UTC().Format(time.RFC3339),
	}
}
