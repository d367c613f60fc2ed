package postgres

import (
	"context"
	"time"

	"property-rental-backend/internal/domain"
	"property-rental-backend/internal/repository"
)

type userRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	u := &domain.User{}
	var createdOn time.Time
	query := `SELECT id, username, name, COALESCE(email, ''), role, created_on FROM users WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Username, &u.Name, &u.Email, &u.Role, &createdOn)
	if err != nil {
		return nil, translateError(err)
	}
	u.CreatedOn = createdOn.Format(domain.DateLayout)
	return u, nil
}

func (r *userRepository) ListIDsByRole(ctx context.Context, role domain.Role) ([]int32, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM users WHERE role = $1 ORDER BY id`, role)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var ids []int32
	for rows.Next() {
		var id int32
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
