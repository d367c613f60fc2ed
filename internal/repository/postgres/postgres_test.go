package postgres_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"property-rental-backend/internal/domain"
	"property-rental-backend/internal/repository"
	"property-rental-backend/internal/repository/postgres"
	"property-rental-backend/internal/service"
)

func newMock(t *testing.T) (*postgres.Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return postgres.NewStore(db), mock
}

func TestStore_WithinTx(t *testing.T) {
	ctx := context.Background()

	t.Run("Commit", func(t *testing.T) {
		store, mock := newMock(t)
		store.SetLockTimeout(2 * time.Second)

		mock.ExpectBegin()
		mock.ExpectExec("SET LOCAL lock_timeout = '2000ms'").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs(int32(7)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectCommit()

		err := store.WithinTx(ctx, func(repos repository.Repos) error {
			open, err := repos.Rentals.HasOpenAgreement(ctx, 7)
			assert.False(t, open)
			return err
		})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RollbackOnError", func(t *testing.T) {
		store, mock := newMock(t)
		boom := errors.New("boom")

		mock.ExpectBegin()
		mock.ExpectRollback()

		err := store.WithinTx(ctx, func(repos repository.Repos) error {
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RollbackOnPanic", func(t *testing.T) {
		store, mock := newMock(t)

		mock.ExpectBegin()
		mock.ExpectRollback()

		assert.Panics(t, func() {
			_ = store.WithinTx(ctx, func(repos repository.Repos) error {
				panic("unexpected")
			})
		})
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("LockTimeoutTranslated", func(t *testing.T) {
		store, mock := newMock(t)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT (.+) FROM properties WHERE id = \\$1 FOR UPDATE").
			WithArgs(int32(3)).
			WillReturnError(&pq.Error{Code: "55P03", Message: "canceling statement due to lock timeout"})
		mock.ExpectRollback()

		err := store.WithinTx(ctx, func(repos repository.Repos) error {
			_, err := repos.Properties.GetByIDForUpdate(ctx, 3)
			return err
		})
		assert.ErrorIs(t, err, repository.ErrTimeout)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTranslateError(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"NoRows", sql.ErrNoRows, repository.ErrNotFound},
		{"UniqueViolation", &pq.Error{Code: "23505", Constraint: "rentals_one_open_per_property"}, repository.ErrUniqueViolation},
		{"SerializationFailure", &pq.Error{Code: "40001"}, repository.ErrConflict},
		{"Deadlock", &pq.Error{Code: "40P01"}, repository.ErrConflict},
		{"QueryCanceled", &pq.Error{Code: "57014"}, repository.ErrTimeout},
		{"Deadline", context.DeadlineExceeded, repository.ErrTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, mock := newMock(t)
			mock.ExpectQuery("SELECT (.+) FROM properties").WillReturnError(tt.err)

			_, err := store.Repos().Properties.GetByID(ctx, 1)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	t.Run("UnknownPassesThrough", func(t *testing.T) {
		store, mock := newMock(t)
		other := &pq.Error{Code: "22P02"}
		mock.ExpectQuery("SELECT (.+) FROM properties").WillReturnError(other)

		_, err := store.Repos().Properties.GetByID(ctx, 1)
		require.Error(t, err)
		assert.NotErrorIs(t, err, repository.ErrNotFound)
		assert.NotErrorIs(t, err, repository.ErrTimeout)
	})
}

// Two managers approving requests for the same property can both see it as
// free; the partial unique index rejects the second insert at write time.
func TestStore_ApprovalLosesRaceAtInsert(t *testing.T) {
	ctx := context.Background()
	store, mock := newMock(t)
	repos := store.Repos()
	svc := service.NewRentalRequestService(repos, store, service.NewNotifier(repos.Notifications), service.Options{})

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM rental_requests WHERE id = \\$1 FOR UPDATE").
		WithArgs(int32(5)).
		WillReturnRows(sqlmock.NewRows(requestCols).AddRow(5, 2, 10, time.Now(), "pending", nil, nil, nil))
	mock.ExpectQuery("SELECT (.+) FROM properties WHERE id = \\$1 FOR UPDATE").
		WithArgs(int32(10)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "locality", "address", "rent"}).
			AddRow(10, 1, "Uptown", "1 Main St", "1500.00"))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(int32(10)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery("INSERT INTO rentals").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "rentals_one_open_per_property"})
	mock.ExpectRollback()

	_, err := svc.ApproveRequest(ctx, domain.Caller{UserID: 3, Role: domain.RoleManager}, 5)
	assert.ErrorIs(t, err, domain.ErrPropertyRented)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
	// No review update, no notifications and no commit.
	assert.NoError(t, mock.ExpectationsWereMet())
}
