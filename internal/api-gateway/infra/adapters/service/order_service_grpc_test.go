package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/jcmexdev/order-sagas/internal/api-gateway/core/domain/entity"
	"github.com/jcmexdev/order-sagas/internal/api-gateway/core/ports"
	orchestratorv1 "github.com/jcmexdev/order-sagas/internal/rpcapi/orchestratorv1"
)

type stubClient struct {
	orchestratorv1.OrderOrchestratorClient
	lastProcess *orchestratorv1.ProcessOrderRequest
	err         error
}

func (s *stubClient) ProcessOrder(_ context.Context, in *orchestratorv1.ProcessOrderRequest, _ ...grpc.CallOption) (*orchestratorv1.ProcessOrderResponse, error) {
	s.lastProcess = in
	if s.err != nil {
		return nil, s.err
	}
	return &orchestratorv1.ProcessOrderResponse{Success: true, OrderId: "o1", Status: "PROCESSING"}, nil
}

func (s *stubClient) GetOrderStatus(_ context.Context, in *orchestratorv1.GetOrderStatusRequest, _ ...grpc.CallOption) (*orchestratorv1.GetOrderStatusResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &orchestratorv1.GetOrderStatusResponse{
		Success:     true,
		OrderId:     in.OrderId,
		Status:      "FAILED",
		Reason:      "insufficient stock",
		TotalAmount: decimal.NewFromInt(8),
		Items:       []*orchestratorv1.OrderItem{{ProductId: "p1", Quantity: 2, Price: decimal.NewFromInt(4)}, nil},
	}, nil
}

func TestPlaceOrderBuildsRequest(t *testing.T) {
	stub := &stubClient{}
	svc := NewGRPCOrderClient(stub)

	ack, err := svc.PlaceOrder(context.Background(), "u1", []entity.OrderLine{{ProductID: "p1", Quantity: 3}})
	require.NoError(t, err)
	assert.Equal(t, entity.Ack{OrderID: "o1", Status: "PROCESSING"}, ack)
	assert.Equal(t, "u1", stub.lastProcess.UserId)
	require.Len(t, stub.lastProcess.Items, 1)
	assert.Equal(t, int64(3), stub.lastProcess.Items[0].Quantity)
}

func TestGetOrderMapsResponse(t *testing.T) {
	svc := NewGRPCOrderClient(&stubClient{})

	order, err := svc.GetOrder(context.Background(), "o9")
	require.NoError(t, err)
	assert.Equal(t, "o9", order.ID)
	assert.Equal(t, "insufficient stock", order.Reason)
	assert.Len(t, order.Items, 1)
}

func TestStatusCodesMapToPortErrors(t *testing.T) {
	cases := []struct {
		code codes.Code
		want error
	}{
		{codes.NotFound, ports.ErrNotFound},
		{codes.PermissionDenied, ports.ErrPermissionDenied},
		{codes.InvalidArgument, ports.ErrInvalidRequest},
		{codes.Unavailable, ports.ErrUnavailable},
	}
	for _, tc := range cases {
		svc := NewGRPCOrderClient(&stubClient{err: status.Error(tc.code, "nope")})
		_, err := svc.GetOrder(context.Background(), "o1")
		assert.ErrorIs(t, err, tc.want, tc.code.String())
	}

	svc := NewGRPCOrderClient(&stubClient{err: status.Error(codes.Internal, "boom")})
	_, err := svc.PlaceOrder(context.Background(), "u1", nil)
	require.Error(t, err)
	for _, sentinel := range []error{ports.ErrNotFound, ports.ErrPermissionDenied, ports.ErrInvalidRequest, ports.ErrUnavailable} {
		assert.False(t, errors.Is(err, sentinel))
	}
	assert.Equal(t, codes.Internal, status.Code(err))
}
