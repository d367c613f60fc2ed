package service

import (
	"context"
	"errors"

	"property-rental-backend/internal/domain"
	"property-rental-backend/internal/repository"
)

// classify turns storage failures that the caller did not already map into
// the workflow taxonomy. Errors that are already *domain.Error pass through.
func classify(err error, msg string) error {
	if err == nil {
		return nil
	}
	var de *domain.Error
	switch {
	case errors.As(err, &de):
		return err
	case errors.Is(err, repository.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return domain.Timeout("operation timed out", err)
	case errors.Is(err, repository.ErrConflict):
		return &domain.Error{Kind: domain.KindConflict, Message: "concurrent update, please retry", Err: err}
	default:
		return domain.Internal(msg, err)
	}
}
