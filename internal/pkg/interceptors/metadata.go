package interceptors

import (
	"context"

	"google.golang.org/grpc/metadata"

	"github.com/jcmexdev/order-sagas/internal/pkg/interceptors/constants"
)

// GetMetadataValue looks key up in the context values first, then in the
// incoming and outgoing gRPC metadata. It returns "" when absent.
func GetMetadataValue(ctx context.Context, key string) string {
	if v, ok := ctx.Value(constants.ContextKeyFor(key)).(string); ok && v != "" {
		return v
	}

	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if vals := md.Get(key); len(vals) > 0 {
			return vals[0]
		}
	}

	if md, ok := metadata.FromOutgoingContext(ctx); ok {
		if vals := md.Get(key); len(vals) > 0 {
			return vals[0]
		}
	}
	return ""
}

// ContextWithPropagatedID copies the request id and idempotency key into the
// outgoing metadata so downstream services see the same values.
func ContextWithPropagatedID(ctx context.Context) context.Context {
	out, _ := metadata.FromOutgoingContext(ctx)
	for _, key := range []string{constants.HeaderXRequestId, constants.HeaderXIdempotencyKey} {
		if len(out.Get(key)) > 0 {
			continue
		}
		if v := GetMetadataValue(ctx, key); v != "" {
			ctx = metadata.AppendToOutgoingContext(ctx, key, v)
		}
	}
	return ctx
}

// ContextWithValues stores the propagated headers as typed context values.
func ContextWithValues(ctx context.Context, requestID, idempotencyKey string) context.Context {
	ctx = context.WithValue(ctx, constants.ContextKeyRequestID, requestID)
	return context.WithValue(ctx, constants.ContextKeyIdempotencyKey, idempotencyKey)
}
