package middlewares

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"google.golang.org/grpc/metadata"

	"github.com/jcmexdev/order-sagas/internal/pkg/interceptors"
	"github.com/jcmexdev/order-sagas/internal/pkg/interceptors/constants"
)

// AttachTracingMetadata stores the chi request id and the client's
// idempotency key on the request context and forwards both as outgoing gRPC
// metadata.
func AttachTracingMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := middleware.GetReqID(r.Context())
		idempotencyKey := r.Header.Get(constants.HeaderXIdempotencyKey)

		ctx := interceptors.ContextWithValues(r.Context(), requestID, idempotencyKey)
		pairs := []string{constants.HeaderXRequestId, requestID}
		if idempotencyKey != "" {
			pairs = append(pairs, constants.HeaderXIdempotencyKey, idempotencyKey)
		}
		ctx = metadata.AppendToOutgoingContext(ctx, pairs...)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
