package interceptors

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"github.com/jcmexdev/order-sagas/internal/pkg/interceptors/constants"
)

func TestTraceServerInterceptorLiftsMetadata(t *testing.T) {
	md := metadata.Pairs(
		constants.HeaderXRequestId, "req-1",
		constants.HeaderXIdempotencyKey, "idem-1",
	)
	ctx := metadata.NewIncomingContext(context.Background(), md)

	var seen context.Context
	_, err := TraceServerInterceptor(nil)(ctx, nil, &grpc.UnaryServerInfo{FullMethod: "/x/Y"},
		func(ctx context.Context, req any) (any, error) {
			seen = ctx
			return nil, nil
		})
	require.NoError(t, err)

	assert.Equal(t, "req-1", seen.Value(constants.ContextKeyRequestID))
	assert.Equal(t, "idem-1", GetMetadataValue(seen, constants.HeaderXIdempotencyKey))
}

func TestContextWithPropagatedID(t *testing.T) {
	ctx := ContextWithValues(context.Background(), "req-2", "idem-2")
	ctx = ContextWithPropagatedID(ctx)

	md, ok := metadata.FromOutgoingContext(ctx)
	require.True(t, ok)
	assert.Equal(t, []string{"req-2"}, md.Get(constants.HeaderXRequestId))
	assert.Equal(t, []string{"idem-2"}, md.Get(constants.HeaderXIdempotencyKey))

	// already present keys are not duplicated
	ctx = ContextWithPropagatedID(ctx)
	md, _ = metadata.FromOutgoingContext(ctx)
	assert.Len(t, md.Get(constants.HeaderXRequestId), 1)
}

func TestGetMetadataValueMissing(t *testing.T) {
	assert.Equal(t, "", GetMetadataValue(context.Background(), constants.HeaderXRequestId))
}
