package postgres

import (
	"context"
	"database/sql"
	"time"

	"property-rental-backend/internal/domain"
	"property-rental-backend/internal/logger"
	"property-rental-backend/internal/repository"
)

type rentalRepository struct {
	db DBTX
}

func NewRentalRepository(db DBTX) repository.RentalRepository {
	return &rentalRepository{db: db}
}

const rentalColumns = `id, tenant_id, property_id, start_date, end_date, monthly_rent, commission`

func (r *rentalRepository) Create(ctx context.Context, rt *domain.Rental) error {
	query := `INSERT INTO rentals (tenant_id, property_id, start_date, monthly_rent, commission)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	logger.DatabaseCall("INSERT", "rentals", "tenantID", rt.TenantID, "propertyID", rt.PropertyID)
	err := r.db.QueryRowContext(ctx, query, rt.TenantID, rt.PropertyID, rt.StartDate, rt.MonthlyRent, rt.Commission).Scan(&rt.ID)
	logger.DatabaseResult("INSERT", 1, err, "rentalID", rt.ID)
	return translateError(err)
}

func (r *rentalRepository) HasOpenAgreement(ctx context.Context, propertyID int32) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM rentals WHERE property_id = $1 AND end_date IS NULL)`
	err := r.db.QueryRowContext(ctx, query, propertyID).Scan(&exists)
	return exists, translateError(err)
}

func (r *rentalRepository) GetForUpdate(ctx context.Context, key domain.AgreementKey) (*domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals
	          WHERE tenant_id = $1 AND property_id = $2 AND start_date = $3 FOR UPDATE`
	rt, err := scanRental(r.db.QueryRowContext(ctx, query, key.TenantID, key.PropertyID, key.StartDate))
	if err != nil {
		return nil, translateError(err)
	}
	return rt, nil
}

func (r *rentalRepository) End(ctx context.Context, id int32, endDate time.Time) error {
	logger.DatabaseCall("UPDATE", "rentals", "rentalID", id)
	result, err := r.db.ExecContext(ctx, `UPDATE rentals SET end_date = $1 WHERE id = $2 AND end_date IS NULL`, endDate, id)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err)
		return translateError(err)
	}
	n, err := result.RowsAffected()
	logger.DatabaseResult("UPDATE", n, err)
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrConflict
	}
	return nil
}

func (r *rentalRepository) GetOpenByProperty(ctx context.Context, propertyID int32) (*domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE property_id = $1 AND end_date IS NULL`
	rt, err := scanRental(r.db.QueryRowContext(ctx, query, propertyID))
	if err != nil {
		return nil, translateError(err)
	}
	return rt, nil
}

func (r *rentalRepository) GetActiveByTenant(ctx context.Context, tenantID int32) (*domain.ActiveRental, error) {
	query := `SELECT r.property_id, p.locality, p.address, r.monthly_rent, r.start_date, u.name, u.username
	          FROM rentals r
	          JOIN properties p ON r.property_id = p.id
	          JOIN users u ON p.owner_id = u.id
	          WHERE r.tenant_id = $1 AND r.end_date IS NULL
	          ORDER BY r.start_date DESC LIMIT 1`
	a := &domain.ActiveRental{}
	err := r.db.QueryRowContext(ctx, query, tenantID).Scan(&a.PropertyID, &a.Locality, &a.Address, &a.Rent, &a.StartDate, &a.OwnerName, &a.OwnerUsername)
	if err != nil {
		return nil, translateError(err)
	}
	return a, nil
}

func (r *rentalRepository) ListByProperty(ctx context.Context, propertyID int32) ([]domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE property_id = $1 ORDER BY start_date DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query, propertyID)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var rentals []domain.Rental
	for rows.Next() {
		rt, err := scanRental(rows)
		if err != nil {
			return nil, err
		}
		rentals = append(rentals, *rt)
	}
	return rentals, rows.Err()
}

const openRentalQuery = `SELECT r.id, r.tenant_id, r.property_id, r.start_date, r.end_date, r.monthly_rent, r.commission,
	       p.locality, p.address, t.name, t.username, p.owner_id, o.name
	FROM rentals r
	JOIN properties p ON r.property_id = p.id
	JOIN users t ON r.tenant_id = t.id
	JOIN users o ON p.owner_id = o.id
	WHERE r.end_date IS NULL`

func (r *rentalRepository) ListOpen(ctx context.Context) ([]domain.OpenRental, error) {
	return r.listOpen(ctx, openRentalQuery+` ORDER BY r.start_date DESC, r.id DESC`)
}

func (r *rentalRepository) ListOpenByOwner(ctx context.Context, ownerID int32) ([]domain.OpenRental, error) {
	return r.listOpen(ctx, openRentalQuery+` AND p.owner_id = $1 ORDER BY r.start_date DESC, r.id DESC`, ownerID)
}

func (r *rentalRepository) listOpen(ctx context.Context, query string, args ...any) ([]domain.OpenRental, error) {
	logger.DatabaseCall("SELECT", "rentals", "open", true)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var out []domain.OpenRental
	for rows.Next() {
		var o domain.OpenRental
		var endDate sql.NullTime
		if err := rows.Scan(&o.ID, &o.TenantID, &o.PropertyID, &o.StartDate, &endDate, &o.MonthlyRent, &o.Commission,
			&o.Locality, &o.Address, &o.TenantName, &o.TenantUsername, &o.OwnerID, &o.OwnerName); err != nil {
			return nil, err
		}
		if endDate.Valid {
			o.EndDate = &endDate.Time
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func scanRental(row scanner) (*domain.Rental, error) {
	rt := &domain.Rental{}
	var endDate sql.NullTime
	if err := row.Scan(&rt.ID, &rt.TenantID, &rt.PropertyID, &rt.StartDate, &endDate, &rt.MonthlyRent, &rt.Commission); err != nil {
		return nil, err
	}
	if endDate.Valid {
		rt.EndDate = &endDate.Time
	}
	return rt, nil
}
