package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jcmexdev/order-sagas/internal/api-gateway/core/domain/entity"
	"github.com/jcmexdev/order-sagas/internal/api-gateway/core/ports"
	"github.com/jcmexdev/order-sagas/internal/coordinator"
	"github.com/jcmexdev/order-sagas/internal/orchestrator"
)

var _ ports.OrderService = (*localOrderService)(nil)

// localOrderService calls an orchestrator living in the same process. It is
// meant for local development and tests.
type localOrderService struct {
	orchestrator *orchestrator.Orchestrator
}

func NewLocalOrderService(o *orchestrator.Orchestrator) ports.OrderService {
	return &localOrderService{orchestrator: o}
}

func (l *localOrderService) PlaceOrder(ctx context.Context, userID string, lines []entity.OrderLine) (entity.Ack, error) {
	reqs := make([]orchestrator.ItemRequest, len(lines))
	for i, line := range lines {
		reqs[i] = orchestrator.ItemRequest{ProductID: line.ProductID, Quantity: line.Quantity}
	}
	ack, err := l.orchestrator.ProcessOrder(ctx, userID, reqs)
	if err != nil {
		return entity.Ack{}, mapLocalError(err)
	}
	return entity.Ack{OrderID: ack.OrderID, Status: ack.Status}, nil
}

func (l *localOrderService) CancelOrder(ctx context.Context, orderID, userID string) (string, error) {
	st, err := l.orchestrator.CancelOrder(ctx, orderID, userID)
	if err != nil {
		return "", mapLocalError(err)
	}
	return st.String(), nil
}

func (l *localOrderService) GetOrder(ctx context.Context, orderID string) (*entity.Order, error) {
	view, err := l.orchestrator.GetOrderStatus(ctx, orderID)
	if err != nil {
		return nil, mapLocalError(err)
	}
	order := orderFromView(view)
	return &order, nil
}

func (l *localOrderService) ListUserOrders(ctx context.Context, userID string) ([]entity.Order, error) {
	views := l.orchestrator.ListUserOrders(ctx, userID)
	out := make([]entity.Order, len(views))
	for i, v := range views {
		out[i] = orderFromView(v)
	}
	return out, nil
}

func orderFromView(v orchestrator.OrderView) entity.Order {
	items := make([]entity.OrderItem, len(v.Items))
	for i, it := range v.Items {
		items[i] = entity.OrderItem{
			ProductID: it.ProductID,
			Name:      it.Attributes.Name,
			Quantity:  it.Quantity,
			Price:     it.UnitPrice,
		}
	}
	return entity.Order{
		ID:               v.OrderID,
		UserID:           v.UserID,
		Status:           v.Status.String(),
		Total:            v.TotalAmount,
		Reason:           v.FailureReason,
		Items:            items,
		CompletedSteps:   stepNames(v.CompletedSteps),
		CompensatedSteps: stepNames(v.CompensatedSteps),
		Inconsistent:     v.Inconsistent,
		CreatedAt:        v.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func stepNames(steps []coordinator.StepName) []string {
	out := make([]string, len(steps))
	for i, s := range steps {
		out[i] = string(s)
	}
	return out
}

func mapLocalError(err error) error {
	var notFound *coordinator.ProductNotFoundError
	switch {
	case errors.Is(err, orchestrator.ErrOrderNotFound), errors.As(err, &notFound):
		return fmt.Errorf("%w: %v", ports.ErrNotFound, err)
	case errors.Is(err, orchestrator.ErrPermissionDenied):
		return fmt.Errorf("%w: %v", ports.ErrPermissionDenied, err)
	case errors.Is(err, orchestrator.ErrInvalidOrder):
		return fmt.Errorf("%w: %v", ports.ErrInvalidRequest, err)
	}
	return err
}
