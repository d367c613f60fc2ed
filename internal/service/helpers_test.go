package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"property-rental-backend/internal/domain"
	"property-rental-backend/internal/repository"
	"property-rental-backend/internal/repository/memory"
)

const (
	ownerID    int32 = 1
	tenantT1   int32 = 2
	managerM1  int32 = 3
	tenantT2   int32 = 4
	tenantT3   int32 = 5
	managerM2  int32 = 6
	otherOwner int32 = 7

	propertyP1 int32 = 10
	propertyP2 int32 = 11
)

var (
	asTenant1  = domain.Caller{UserID: tenantT1, Role: domain.RoleTenant}
	asTenant2  = domain.Caller{UserID: tenantT2, Role: domain.RoleTenant}
	asTenant3  = domain.Caller{UserID: tenantT3, Role: domain.RoleTenant}
	asManager  = domain.Caller{UserID: managerM1, Role: domain.RoleManager}
	asOwner    = domain.Caller{UserID: ownerID, Role: domain.RoleOwner}
	asStranger = domain.Caller{UserID: otherOwner, Role: domain.RoleOwner}
)

func newFixtureStore(t *testing.T) *memory.Store {
	t.Helper()
	s := memory.NewStore()
	s.AddUser(domain.User{ID: ownerID, Username: "olivia", Name: "Olivia Owner", Email: "olivia@example.com", Role: domain.RoleOwner})
	s.AddUser(domain.User{ID: tenantT1, Username: "tina", Name: "Tina Tenant", Email: "tina@example.com", Role: domain.RoleTenant})
	s.AddUser(domain.User{ID: managerM1, Username: "max", Name: "Max Manager", Role: domain.RoleManager})
	s.AddUser(domain.User{ID: tenantT2, Username: "tom", Name: "Tom Tenant", Role: domain.RoleTenant})
	s.AddUser(domain.User{ID: tenantT3, Username: "tess", Name: "Tess Tenant", Role: domain.RoleTenant})
	s.AddUser(domain.User{ID: managerM2, Username: "mia", Name: "Mia Manager", Role: domain.RoleManager})
	s.AddUser(domain.User{ID: otherOwner, Username: "oscar", Name: "Oscar Owner", Role: domain.RoleOwner})
	s.AddProperty(domain.Property{ID: propertyP1, OwnerID: ownerID, Locality: "Uptown", Address: "1 Main St", Rent: decimal.NewFromInt(1500)})
	s.AddProperty(domain.Property{ID: propertyP2, OwnerID: ownerID, Locality: "Midtown", Address: "2 Side St", Rent: decimal.RequireFromString("900.50")})
	return s
}

type fixture struct {
	store    *memory.Store
	requests RentalRequestService
	rentals  RentalService
	notes    NotificationService
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	store := newFixtureStore(t)
	notifier := NewNotifier(store.Repos().Notifications)
	return &fixture{
		store:    store,
		requests: NewRentalRequestService(store.Repos(), store, notifier, opts),
		rentals:  NewRentalService(store.Repos(), store, notifier, opts),
		notes:    NewNotificationService(store.Repos().Notifications),
	}
}

func (f *fixture) inbox(t *testing.T, userID int32) []domain.Notification {
	t.Helper()
	return inboxOf(t, f.store, userID)
}

func inboxOf(t *testing.T, store *memory.Store, userID int32) []domain.Notification {
	t.Helper()
	notes, _, err := store.Repos().Notifications.List(context.Background(), userID, 100, 0)
	require.NoError(t, err)
	return notes
}

func (f *fixture) request(t *testing.T, id int32) *domain.RentalRequest {
	t.Helper()
	req, err := f.store.Repos().Requests.GetByID(context.Background(), id)
	require.NoError(t, err)
	return req
}

func (f *fixture) openAgreements(t *testing.T, propertyID int32) int {
	t.Helper()
	history, err := f.store.Repos().Rentals.ListByProperty(context.Background(), propertyID)
	require.NoError(t, err)
	open := 0
	for _, r := range history {
		if r.IsOpen() {
			open++
		}
	}
	return open
}

// wrappingTx lets a test replace transaction-scoped repositories.
type wrappingTx struct {
	inner repository.Transactor
	wrap  func(repository.Repos) repository.Repos
}

func (w wrappingTx) WithinTx(ctx context.Context, fn func(repos repository.Repos) error) error {
	return w.inner.WithinTx(ctx, func(repos repository.Repos) error {
		return fn(w.wrap(repos))
	})
}

// racingRentals reports the property as free and then loses the insert to a
// concurrent writer, as a unique index would at commit.
type racingRentals struct {
	repository.RentalRepository
}

func (racingRentals) HasOpenAgreement(ctx context.Context, propertyID int32) (bool, error) {
	return false, nil
}

func (racingRentals) Create(ctx context.Context, rt *domain.Rental) error {
	return fmt.Errorf("insert rental: %w", repository.ErrUniqueViolation)
}

func racingTx(store *memory.Store) wrappingTx {
	return wrappingTx{inner: store, wrap: func(r repository.Repos) repository.Repos {
		r.Rentals = racingRentals{RentalRepository: r.Rentals}
		return r
	}}
}

// failingNotes rejects every insert.
type failingNotes struct {
	repository.NotificationRepository
	err error
}

func (f failingNotes) Create(ctx context.Context, n *domain.Notification) error {
	return f.err
}
