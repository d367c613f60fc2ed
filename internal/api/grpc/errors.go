package grpc

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"property-rental-backend/internal/domain"
)

var kindCodes = map[domain.ErrorKind]codes.Code{
	domain.KindNotFound:        codes.NotFound,
	domain.KindConflict:        codes.FailedPrecondition,
	domain.KindAuthorization:   codes.PermissionDenied,
	domain.KindTimeout:         codes.DeadlineExceeded,
	domain.KindInvalidArgument: codes.InvalidArgument,
	domain.KindInternal:        codes.Internal,
}

// toStatus converts a workflow error into a gRPC status. Errors that already
// carry a status pass through unchanged.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	code, ok := kindCodes[domain.KindOf(err)]
	if !ok {
		code = codes.Internal
	}
	return status.Error(code, domain.MessageOf(err))
}
