package app

import (
	"context"
	"errors"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/jcmexdev/order-sagas/internal/coordinator"
	"github.com/jcmexdev/order-sagas/internal/orchestrator"
	"github.com/jcmexdev/order-sagas/internal/order-service/adapters/grpc/mappers"
	"github.com/jcmexdev/order-sagas/internal/pkg/interceptors"
	"github.com/jcmexdev/order-sagas/internal/pkg/interceptors/constants"
	orchestratorv1 "github.com/jcmexdev/order-sagas/internal/rpcapi/orchestratorv1"
)

// OrderService is the behavior the gRPC adapter needs from the orchestrator.
type OrderService interface {
	ProcessOrder(ctx context.Context, userID string, items []orchestrator.ItemRequest) (orchestrator.Ack, error)
	CancelOrder(ctx context.Context, orderID, userID string) (coordinator.Status, error)
	GetOrderStatus(ctx context.Context, orderID string) (orchestrator.OrderView, error)
	ListUserOrders(ctx context.Context, userID string) []orchestrator.OrderView
}

type orderServer struct {
	orchestratorv1.UnimplementedOrderOrchestratorServer
	service OrderService
	logger  *slog.Logger
}

var _ orchestratorv1.OrderOrchestratorServer = (*orderServer)(nil)

func NewOrderServer(svc OrderService, logger *slog.Logger) *orderServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &orderServer{service: svc, logger: logger}
}

func (s *orderServer) ProcessOrder(ctx context.Context, req *orchestratorv1.ProcessOrderRequest) (*orchestratorv1.ProcessOrderResponse, error) {
	ack, err := s.service.ProcessOrder(ctx, req.UserId, mappers.ItemsFromProto(req.Items))
	if err != nil {
		return nil, mapOrderError(err)
	}

	reqID := interceptors.GetMetadataValue(ctx, constants.HeaderXRequestId)
	s.logger.InfoContext(ctx, "order acknowledged", "order_id", ack.OrderID, "request_id", reqID)

	return &orchestratorv1.ProcessOrderResponse{
		Success: true,
		Message: "order accepted",
		OrderId: ack.OrderID,
		Status:  ack.Status,
	}, nil
}

func (s *orderServer) CancelOrder(ctx context.Context, req *orchestratorv1.CancelOrderRequest) (*orchestratorv1.CancelOrderResponse, error) {
	st, err := s.service.CancelOrder(ctx, req.OrderId, req.UserId)
	if err != nil {
		return nil, mapOrderError(err)
	}
	return &orchestratorv1.CancelOrderResponse{
		Success: true,
		Message: "order cancelled",
		Status:  st.String(),
	}, nil
}

func (s *orderServer) GetOrderStatus(ctx context.Context, req *orchestratorv1.GetOrderStatusRequest) (*orchestratorv1.GetOrderStatusResponse, error) {
	view, err := s.service.GetOrderStatus(ctx, req.OrderId)
	if err != nil {
		return nil, mapOrderError(err)
	}
	return mappers.OrderStatusToProto(view), nil
}

func (s *orderServer) GetUserOrders(ctx context.Context, req *orchestratorv1.GetUserOrdersRequest) (*orchestratorv1.GetUserOrdersResponse, error) {
	views := s.service.ListUserOrders(ctx, req.UserId)
	orders := make([]*orchestratorv1.OrderSummary, len(views))
	for i, v := range views {
		orders[i] = mappers.OrderSummaryToProto(v)
	}
	return &orchestratorv1.GetUserOrdersResponse{
		Success: true,
		Orders:  orders,
		Total:   len(orders),
	}, nil
}

func mapOrderError(err error) error {
	var notFound *coordinator.ProductNotFoundError
	switch {
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, orchestrator.ErrInvalidOrder):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, orchestrator.ErrOrderNotFound), errors.As(err, &notFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, orchestrator.ErrPermissionDenied):
		return status.Error(codes.PermissionDenied, err.Error())
	case status.Code(err) == codes.Unavailable:
		return status.Error(codes.Unavailable, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}
