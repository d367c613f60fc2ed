package postgres

import (
	"context"
	"database/sql"
	"time"

	"property-rental-backend/internal/domain"
	"property-rental-backend/internal/logger"
	"property-rental-backend/internal/repository"
)

type rentalRequestRepository struct {
	db DBTX
}

func NewRentalRequestRepository(db DBTX) repository.RentalRequestRepository {
	return &rentalRequestRepository{db: db}
}

const requestColumns = `id, tenant_id, property_id, request_date, status, reviewed_by, reviewed_at, rejection_reason`

const requestDetailQuery = `SELECT rr.id, rr.tenant_id, rr.property_id, rr.request_date, rr.status, rr.reviewed_by, rr.reviewed_at, rr.rejection_reason,
	       ut.name, p.locality, p.address, p.rent, um.name
	FROM rental_requests rr
	JOIN users ut ON rr.tenant_id = ut.id
	JOIN properties p ON rr.property_id = p.id
	LEFT JOIN users um ON rr.reviewed_by = um.id`

const requestDetailOrder = ` ORDER BY rr.request_date DESC, rr.id DESC`

func (r *rentalRequestRepository) Create(ctx context.Context, req *domain.RentalRequest) error {
	query := `INSERT INTO rental_requests (tenant_id, property_id, request_date, status)
	          VALUES ($1, $2, $3, $4) RETURNING id`
	logger.DatabaseCall("INSERT", "rental_requests", "tenantID", req.TenantID, "propertyID", req.PropertyID)
	err := r.db.QueryRowContext(ctx, query, req.TenantID, req.PropertyID, req.RequestDate, req.Status).Scan(&req.ID)
	logger.DatabaseResult("INSERT", 1, err, "requestID", req.ID)
	return translateError(err)
}

func (r *rentalRequestRepository) GetByID(ctx context.Context, id int32) (*domain.RentalRequest, error) {
	return r.get(ctx, `SELECT `+requestColumns+` FROM rental_requests WHERE id = $1`, id)
}

func (r *rentalRequestRepository) GetByIDForUpdate(ctx context.Context, id int32) (*domain.RentalRequest, error) {
	return r.get(ctx, `SELECT `+requestColumns+` FROM rental_requests WHERE id = $1 FOR UPDATE`, id)
}

func (r *rentalRequestRepository) get(ctx context.Context, query string, id int32) (*domain.RentalRequest, error) {
	req, err := scanRequest(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translateError(err)
	}
	return req, nil
}

func (r *rentalRequestRepository) GetDetail(ctx context.Context, id int32) (*domain.RentalRequestDetail, error) {
	d, err := scanRequestDetail(r.db.QueryRowContext(ctx, requestDetailQuery+` WHERE rr.id = $1`, id))
	if err != nil {
		return nil, translateError(err)
	}
	return d, nil
}

func (r *rentalRequestRepository) HasPending(ctx context.Context, tenantID, propertyID int32) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM rental_requests WHERE tenant_id = $1 AND property_id = $2 AND status = $3)`
	err := r.db.QueryRowContext(ctx, query, tenantID, propertyID, domain.RequestStatusPending).Scan(&exists)
	return exists, translateError(err)
}

func (r *rentalRequestRepository) MarkReviewed(ctx context.Context, id int32, review domain.Review) error {
	query := `UPDATE rental_requests
	          SET status = $1, reviewed_by = $2, reviewed_at = $3, rejection_reason = $4
	          WHERE id = $5 AND status = $6`
	logger.DatabaseCall("UPDATE", "rental_requests", "requestID", id, "status", review.Status)
	result, err := r.db.ExecContext(ctx, query, review.Status, review.ReviewerID, review.ReviewedAt, review.RejectionReason, id, domain.RequestStatusPending)
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

func (r *rentalRequestRepository) ListAll(ctx context.Context) ([]domain.RentalRequestDetail, error) {
	return r.listDetails(ctx, requestDetailQuery+requestDetailOrder)
}

func (r *rentalRequestRepository) ListByTenant(ctx context.Context, tenantID int32) ([]domain.RentalRequestDetail, error) {
	return r.listDetails(ctx, requestDetailQuery+` WHERE rr.tenant_id = $1`+requestDetailOrder, tenantID)
}

func (r *rentalRequestRepository) ListByOwner(ctx context.Context, ownerID int32) ([]domain.RentalRequestDetail, error) {
	return r.listDetails(ctx, requestDetailQuery+` WHERE p.owner_id = $1`+requestDetailOrder, ownerID)
}

func (r *rentalRequestRepository) ListPendingOlderThan(ctx context.Context, cutoff time.Time) ([]domain.RentalRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM rental_requests WHERE status = $1 AND request_date < $2 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, domain.RequestStatusPending, cutoff)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var reqs []domain.RentalRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, *req)
	}
	return reqs, rows.Err()
}

func (r *rentalRequestRepository) listDetails(ctx context.Context, query string, args ...any) ([]domain.RentalRequestDetail, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var details []domain.RentalRequestDetail
	for rows.Next() {
		d, err := scanRequestDetail(rows)
		if err != nil {
			return nil, err
		}
		details = append(details, *d)
	}
	return details, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRequest(row scanner) (*domain.RentalRequest, error) {
	req := &domain.RentalRequest{}
	var reviewedBy sql.NullInt32
	var reviewedAt sql.NullTime
	var reason sql.NullString
	if err := row.Scan(&req.ID, &req.TenantID, &req.PropertyID, &req.RequestDate, &req.Status, &reviewedBy, &reviewedAt, &reason); err != nil {
		return nil, err
	}
	applyReview(req, reviewedBy, reviewedAt, reason)
	return req, nil
}

func scanRequestDetail(row scanner) (*domain.RentalRequestDetail, error) {
	d := &domain.RentalRequestDetail{}
	var reviewedBy sql.NullInt32
	var reviewedAt sql.NullTime
	var reason, reviewerName sql.NullString
	err := row.Scan(&d.ID, &d.TenantID, &d.PropertyID, &d.RequestDate, &d.Status, &reviewedBy, &reviewedAt, &reason,
		&d.TenantName, &d.Locality, &d.Address, &d.Rent, &reviewerName)
	if err != nil {
		return nil, err
	}
	applyReview(&d.RentalRequest, reviewedBy, reviewedAt, reason)
	if reviewerName.Valid {
		d.ReviewedByName = &reviewerName.String
	}
	return d, nil
}

func applyReview(req *domain.RentalRequest, by sql.NullInt32, at sql.NullTime, reason sql.NullString) {
	if by.Valid {
		req.ReviewedBy = &by.Int32
	}
	if at.Valid {
		req.ReviewedAt = &at.Time
	}
	if reason.Valid {
		req.RejectionReason = &reason.String
	}
}
