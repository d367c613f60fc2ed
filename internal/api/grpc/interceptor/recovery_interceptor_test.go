package interceptor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestRecovery(t *testing.T) {
	info := &grpc.UnaryServerInfo{FullMethod: "/rental.v1.NotificationService/GetNotifications"}
	recovery := Recovery()

	t.Run("Panic", func(t *testing.T) {
		resp, err := recovery(context.Background(), "req", info, func(ctx context.Context, req interface{}) (interface{}, error) {
			var page []int
			return page[5], nil
		})
		assert.Nil(t, resp)
		assert.Equal(t, codes.Internal, status.Code(err))
		assert.Equal(t, "internal server error", status.Convert(err).Message())
	})

	t.Run("PassThrough", func(t *testing.T) {
		resp, err := recovery(context.Background(), "req", info, func(ctx context.Context, req interface{}) (interface{}, error) {
			return "ok", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "ok", resp)

		_, err = recovery(context.Background(), "req", info, func(ctx context.Context, req interface{}) (interface{}, error) {
			return nil, status.Error(codes.NotFound, "missing")
		})
		assert.Equal(t, codes.NotFound, status.Code(err))
	})
}
