package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateOf(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	// 02:00 on the 5th in UTC+9 is still the 4th in UTC.
	got := DateOf(time.Date(2026, 3, 5, 2, 0, 0, 0, loc))
	assert.Equal(t, time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC), got)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-03-05")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("05/03/2026")
	assert.Equal(t, KindInvalidArgument, KindOf(err))
}

func TestParseMoney(t *testing.T) {
	d, err := ParseMoney("900.50")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("900.5").Equal(d))

	_, err = ParseMoney("lots")
	assert.Equal(t, KindInvalidArgument, KindOf(err))
}

func TestRental_Summary(t *testing.T) {
	end := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	r := Rental{
		ID:          3,
		TenantID:    2,
		PropertyID:  10,
		StartDate:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		MonthlyRent: decimal.NewFromInt(1500),
	}
	assert.True(t, r.IsOpen())

	s := r.Summary()
	assert.Equal(t, int32(2), s.TenantID)
	assert.Equal(t, int32(10), s.PropertyID)
	assert.False(t, s.Commission.Valid)

	r.EndDate = &end
	assert.False(t, r.IsOpen())
}

func TestRequestStatus_IsTerminal(t *testing.T) {
	assert.False(t, RequestStatusPending.IsTerminal())
	assert.True(t, RequestStatusApproved.IsTerminal())
	assert.True(t, RequestStatusRejected.IsTerminal())
}

func TestProperty_Label(t *testing.T) {
	p := Property{Locality: "Uptown", Address: "1 Main St"}
	assert.Equal(t, "Uptown, 1 Main St", p.Label())
}

func TestParseAgreementInput(t *testing.T) {
	commission := "75.25"
	in, err := ParseAgreementInput(2, 10, "2026-04-01", "1500", &commission)
	require.NoError(t, err)
	assert.Equal(t, int32(2), in.TenantID)
	assert.Equal(t, int32(10), in.PropertyID)
	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), in.StartDate)
	assert.True(t, decimal.NewFromInt(1500).Equal(in.MonthlyRent))
	require.True(t, in.Commission.Valid)
	assert.Equal(t, "75.25", in.Commission.Decimal.String())

	empty := ""
	in, err = ParseAgreementInput(2, 10, "2026-04-01", "1500", &empty)
	require.NoError(t, err)
	assert.False(t, in.Commission.Valid)

	_, err = ParseAgreementInput(2, 10, "April 1", "1500", nil)
	assert.Equal(t, KindInvalidArgument, KindOf(err))
	_, err = ParseAgreementInput(2, 10, "2026-04-01", "", nil)
	assert.Equal(t, KindInvalidArgument, KindOf(err))
}
