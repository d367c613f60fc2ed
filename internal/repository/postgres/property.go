package postgres

import (
	"context"

	"property-rental-backend/internal/domain"
	"property-rental-backend/internal/repository"
)

type propertyRepository struct {
	db DBTX
}

func NewPropertyRepository(db DBTX) repository.PropertyRepository {
	return &propertyRepository{db: db}
}

const propertyColumns = `id, owner_id, locality, address, rent`

func (r *propertyRepository) GetByID(ctx context.Context, id int32) (*domain.Property, error) {
	return r.get(ctx, `SELECT `+propertyColumns+` FROM properties WHERE id = $1`, id)
}

func (r *propertyRepository) GetByIDForUpdate(ctx context.Context, id int32) (*domain.Property, error) {
	return r.get(ctx, `SELECT `+propertyColumns+` FROM properties WHERE id = $1 FOR UPDATE`, id)
}

func (r *propertyRepository) get(ctx context.Context, query string, id int32) (*domain.Property, error) {
	p := &domain.Property{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.OwnerID, &p.Locality, &p.Address, &p.Rent)
	if err != nil {
		return nil, translateError(err)
	}
	return p, nil
}
