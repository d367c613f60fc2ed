package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"property-rental-backend/internal/repository"
)

// translateError maps driver errors onto repository sentinels. Errors it does
// not recognise are returned unchanged.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %w", repository.ErrTimeout, err)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%w: %s", repository.ErrUniqueViolation, pqErr.Constraint)
		case "40001", "40P01": // serialization_failure, deadlock_detected
			return fmt.Errorf("%w: %s", repository.ErrConflict, pqErr.Message)
		case "55P03", "57014": // lock_not_available, query_canceled
			return fmt.Errorf("%w: %s", repository.ErrTimeout, pqErr.Message)
		}
	}
	return err
}
