package grpc

import (
	"context"
	"strconv"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"property-rental-backend/internal/domain"
)

// GetUserIDFromContext extracts the user ID from the gRPC metadata.
// It expects a header named "user-id".
func GetUserIDFromContext(ctx context.Context) (int32, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return 0, status.Errorf(codes.Unauthenticated, "metadata is not provided")
	}

	userIDs := md.Get("user-id")
	if len(userIDs) == 0 {
		return 0, status.Errorf(codes.Unauthenticated, "user_id is not provided in metadata")
	}

	userID, err := strconv.ParseInt(userIDs[0], 10, 32)
	if err != nil {
		return 0, status.Errorf(codes.InvalidArgument, "invalid user_id format: %v", err)
	}

	return int32(userID), nil
}

// GetCallerFromContext combines the "user-id" and "user-role" headers set by
// the auth interceptor.
func GetCallerFromContext(ctx context.Context) (domain.Caller, error) {
	userID, err := GetUserIDFromContext(ctx)
	if err != nil {
		return domain.Caller{}, err
	}

	md, _ := metadata.FromIncomingContext(ctx)
	roles := md.Get("user-role")
	if len(roles) == 0 {
		return domain.Caller{}, status.Errorf(codes.Unauthenticated, "user_role is not provided in metadata")
	}
	role, ok := domain.ParseRole(roles[0])
	if !ok {
		return domain.Caller{}, status.Errorf(codes.PermissionDenied, "unknown role %q", roles[0])
	}

	return domain.Caller{UserID: userID, Role: role}, nil
}
