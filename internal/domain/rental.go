package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Rental is a rental agreement. It is open while EndDate is nil; at most one
// open agreement may exist per property.
type Rental struct {
	ID          int32               `json:"id"`
	TenantID    int32               `json:"tenant_id"`
	PropertyID  int32               `json:"property_id"`
	StartDate   time.Time           `json:"start_date"`
	EndDate     *time.Time          `json:"end_date,omitempty"`
	MonthlyRent decimal.Decimal     `json:"monthly_rent"`
	Commission  decimal.NullDecimal `json:"commission"`
}

func (r *Rental) IsOpen() bool {
	return r.EndDate == nil
}

// Summary returns the agreement fields reported back on approval.
func (r *Rental) Summary() *AgreementSummary {
	return &AgreementSummary{
		TenantID:    r.TenantID,
		PropertyID:  r.PropertyID,
		StartDate:   r.StartDate,
		MonthlyRent: r.MonthlyRent,
		Commission:  r.Commission,
	}
}

type AgreementSummary struct {
	TenantID    int32               `json:"tenant_id"`
	PropertyID  int32               `json:"property_id"`
	StartDate   time.Time           `json:"start_date"`
	MonthlyRent decimal.Decimal     `json:"monthly_rent"`
	Commission  decimal.NullDecimal `json:"commission"`
}

// AgreementKey identifies one agreement by its semantic key.
type AgreementKey struct {
	TenantID   int32
	PropertyID int32
	StartDate  time.Time
}

// ActiveRental is a tenant's open agreement joined with property and owner.
type ActiveRental struct {
	PropertyID    int32           `json:"property_id"`
	Locality      string          `json:"locality"`
	Address       string          `json:"address"`
	Rent          decimal.Decimal `json:"rent"`
	StartDate     time.Time       `json:"start_date"`
	OwnerName     string          `json:"owner_name"`
	OwnerUsername string          `json:"owner_username"`
}

// OpenRental is an open agreement joined with its property and both parties,
// as listed for owners and managers.
type OpenRental struct {
	Rental
	Locality       string `json:"locality"`
	Address        string `json:"address"`
	TenantName     string `json:"tenant_name"`
	TenantUsername string `json:"tenant_username"`
	OwnerID        int32  `json:"owner_id"`
	OwnerName      string `json:"owner_name"`
}

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// DateOf truncates t to its calendar date in UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, InvalidArgumentf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}

// CurrentTenant is the tenant of a property's open agreement.
type CurrentTenant struct {
	Tenant User   `json:"tenant"`
	Rental Rental `json:"rental"`
}

// AgreementInput carries a manager's direct agreement creation.
type AgreementInput struct {
	TenantID    int32
	PropertyID  int32
	StartDate   time.Time
	MonthlyRent decimal.Decimal
	Commission  decimal.NullDecimal
}

// ParseMoney parses a decimal amount such as "1500" or "900.50".
func ParseMoney(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, InvalidArgumentf("invalid amount %q", s)
	}
	return d, nil
}

// ParseAgreementInput validates the wire form of a direct agreement creation.
// An empty commission means none.
func ParseAgreementInput(tenantID, propertyID int32, startDate, monthlyRent string, commission *string) (AgreementInput, error) {
	start, err := ParseDate(startDate)
	if err != nil {
		return AgreementInput{}, err
	}
	rent, err := ParseMoney(monthlyRent)
	if err != nil {
		return AgreementInput{}, err
	}
	in := AgreementInput{
		TenantID:    tenantID,
		PropertyID:  propertyID,
		StartDate:   start,
		MonthlyRent: rent,
	}
	if commission != nil && *commission != "" {
		c, err := ParseMoney(*commission)
		if err != nil {
			return AgreementInput{}, err
		}
		in.Commission = decimal.NewNullDecimal(c)
	}
	return in, nil
}
