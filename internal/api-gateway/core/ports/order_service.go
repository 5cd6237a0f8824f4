package ports

import (
	"context"
	"errors"

	"github.com/jcmexdev/order-sagas/internal/api-gateway/core/domain/entity"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidRequest   = errors.New("invalid request")
	ErrUnavailable      = errors.New("orchestrator unavailable")
)

type OrderService interface {
	PlaceOrder(ctx context.Context, userID string, lines []entity.OrderLine) (entity.Ack, error)
	CancelOrder(ctx context.Context, orderID, userID string) (string, error)
	GetOrder(ctx context.Context, orderID string) (*entity.Order, error)
	ListUserOrders(ctx context.Context, userID string) ([]entity.Order, error)
}
