package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"property-rental-backend/internal/domain"
	"property-rental-backend/internal/repository"
	"property-rental-backend/internal/repository/postgres"
)

func TestUserRepository(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewUserRepository(db)
	ctx := context.Background()

	t.Run("GetByID", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users WHERE id = \\$1").
			WithArgs(int32(9)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "username", "name", "email", "role", "created_on"}).
				AddRow(9, "max", "Max Manager", "max@example.com", "manager", time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)))

		u, err := repo.GetByID(ctx, 9)
		require.NoError(t, err)
		assert.Equal(t, domain.RoleManager, u.Role)
		assert.Equal(t, "2023-01-02", u.CreatedOn)
	})

	t.Run("GetByIDMissing", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users WHERE id = \\$1").
			WithArgs(int32(404)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.GetByID(ctx, 404)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("ListIDsByRole", func(t *testing.T) {
		mock.ExpectQuery("SELECT id FROM users WHERE role = \\$1 ORDER BY id").
			WithArgs(domain.RoleManager).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9).AddRow(12))

		ids, err := repo.ListIDsByRole(ctx, domain.RoleManager)
		require.NoError(t, err)
		assert.Equal(t, []int32{9, 12}, ids)
	})
}
