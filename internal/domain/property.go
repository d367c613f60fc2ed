package domain

import "github.com/shopspring/decimal"

// Property is read-only context for the rental workflow.
type Property struct {
	ID       int32           `json:"id"`
	OwnerID  int32           `json:"owner_id"`
	Locality string          `json:"locality"`
	Address  string          `json:"address"`
	Rent     decimal.Decimal `json:"rent"`
}

// Label is the human-readable name used in notifications.
func (p *Property) Label() string {
	return p.Locality + ", " + p.Address
}
