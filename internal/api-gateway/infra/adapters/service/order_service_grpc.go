package service

import (
	"context"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/jcmexdev/order-sagas/internal/api-gateway/core/domain/entity"
	"github.com/jcmexdev/order-sagas/internal/api-gateway/core/ports"
	orchestratorv1 "github.com/jcmexdev/order-sagas/internal/rpcapi/orchestratorv1"
)

// GRPCOrderService is the adapter that talks to the orchestrator over gRPC.
type GRPCOrderService struct {
	client orchestratorv1.OrderOrchestratorClient
}

func NewGRPCOrderClient(client orchestratorv1.OrderOrchestratorClient) ports.OrderService {
	return &GRPCOrderService{client: client}
}

var _ ports.OrderService = (*GRPCOrderService)(nil)

func (s *GRPCOrderService) PlaceOrder(ctx context.Context, userID string, lines []entity.OrderLine) (entity.Ack, error) {
	items := make([]*orchestratorv1.OrderItemRequest, 0, len(lines))
	for _, l := range lines {
		items = append(items, &orchestratorv1.OrderItemRequest{
			ProductId: l.ProductID,
			Quantity:  l.Quantity,
		})
	}

	res, err := s.client.ProcessOrder(ctx, &orchestratorv1.ProcessOrderRequest{UserId: userID, Items: items})
	if err != nil {
		return entity.Ack{}, mapStatusError("ProcessOrder", err)
	}
	return entity.Ack{OrderID: res.OrderId, Status: res.Status}, nil
}

func (s *GRPCOrderService) CancelOrder(ctx context.Context, orderID, userID string) (string, error) {
	res, err := s.client.CancelOrder(ctx, &orchestratorv1.CancelOrderRequest{OrderId: orderID, UserId: userID})
	if err != nil {
		return "", mapStatusError("CancelOrder", err)
	}
	return res.Status, nil
}

func (s *GRPCOrderService) GetOrder(ctx context.Context, orderID string) (*entity.Order, error) {
	res, err := s.client.GetOrderStatus(ctx, &orchestratorv1.GetOrderStatusRequest{OrderId: orderID})
	if err != nil {
		return nil, mapStatusError("GetOrderStatus", err)
	}
	return &entity.Order{
		ID:               res.OrderId,
		Status:           res.Status,
		Total:            res.TotalAmount,
		Reason:           res.Reason,
		Items:            mapProtoItemsToEntity(res.Items),
		CompletedSteps:   res.CompletedSteps,
		CompensatedSteps: res.CompensatedSteps,
		Inconsistent:     res.Inconsistent,
		CreatedAt:        res.CreatedAt,
	}, nil
}

func (s *GRPCOrderService) ListUserOrders(ctx context.Context, userID string) ([]entity.Order, error) {
	res, err := s.client.GetUserOrders(ctx, &orchestratorv1.GetUserOrdersRequest{UserId: userID})
	if err != nil {
		return nil, mapStatusError("GetUserOrders", err)
	}
	out := make([]entity.Order, 0, len(res.Orders))
	for _, o := range res.Orders {
		if o == nil {
			continue
		}
		out = append(out, entity.Order{
			ID:        o.OrderId,
			UserID:    userID,
			Status:    o.Status,
			Total:     o.TotalAmount,
			Items:     mapProtoItemsToEntity(o.Items),
			CreatedAt: o.CreatedAt,
		})
	}
	return out, nil
}

func mapStatusError(method string, err error) error {
	var sentinel error
	switch status.Code(err) {
	case codes.NotFound:
		sentinel = ports.ErrNotFound
	case codes.PermissionDenied:
		sentinel = ports.ErrPermissionDenied
	case codes.InvalidArgument:
		sentinel = ports.ErrInvalidRequest
	case codes.Unavailable, codes.DeadlineExceeded:
		sentinel = ports.ErrUnavailable
	default:
		return fmt.Errorf("grpc %s: %w", method, err)
	}
	return fmt.Errorf("grpc %s: %w: %s", method, sentinel, status.Convert(err).Message())
}

func mapProtoItemsToEntity(items []*orchestratorv1.OrderItem) []entity.OrderItem {
	out := make([]entity.OrderItem, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		out = append(out, entity.OrderItem{
			ProductID: it.ProductId,
			Name:      it.Name,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}
	return out
}
