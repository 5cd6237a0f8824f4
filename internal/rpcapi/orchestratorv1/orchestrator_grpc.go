package orchestratorv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/jcmexdev/order-sagas/internal/rpcapi"
)

const (
	OrderOrchestrator_ProcessOrder_FullMethodName   = "/orchestrator.v1.OrderOrchestrator/ProcessOrder"
	OrderOrchestrator_CancelOrder_FullMethodName    = "/orchestrator.v1.OrderOrchestrator/CancelOrder"
	OrderOrchestrator_GetOrderStatus_FullMethodName = "/orchestrator.v1.OrderOrchestrator/GetOrderStatus"
	OrderOrchestrator_GetUserOrders_FullMethodName  = "/orchestrator.v1.OrderOrchestrator/GetUserOrders"
)

// OrderOrchestratorClient is the client API for OrderOrchestrator.
type OrderOrchestratorClient interface {
	ProcessOrder(ctx context.Context, in *ProcessOrderRequest, opts ...grpc.CallOption) (*ProcessOrderResponse, error)
	CancelOrder(ctx context.Context, in *CancelOrderRequest, opts ...grpc.CallOption) (*CancelOrderResponse, error)
	GetOrderStatus(ctx context.Context, in *GetOrderStatusRequest, opts ...grpc.CallOption) (*GetOrderStatusResponse, error)
	GetUserOrders(ctx context.Context, in *GetUserOrdersRequest, opts ...grpc.CallOption) (*GetUserOrdersResponse, error)
}

type orderOrchestratorClient struct {
	cc grpc.ClientConnInterface
}

func NewOrderOrchestratorClient(cc grpc.ClientConnInterface) OrderOrchestratorClient {
	return &orderOrchestratorClient{cc: cc}
}

func (c *orderOrchestratorClient) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{rpcapi.CallOption()}, opts...)
	return c.cc.Invoke(ctx, method, in, out, opts...)
}

func (c *orderOrchestratorClient) ProcessOrder(ctx context.Context, in *ProcessOrderRequest, opts ...grpc.CallOption) (*ProcessOrderResponse, error) {
	out := new(ProcessOrderResponse)
	if err := c.invoke(ctx, OrderOrchestrator_ProcessOrder_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *orderOrchestratorClient) CancelOrder(ctx context.Context, in *CancelOrderRequest, opts ...grpc.CallOption) (*CancelOrderResponse, error) {
	out := new(CancelOrderResponse)
	if err := c.invoke(ctx, OrderOrchestrator_CancelOrder_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *orderOrchestratorClient) GetOrderStatus(ctx context.Context, in *GetOrderStatusRequest, opts ...grpc.CallOption) (*GetOrderStatusResponse, error) {
	out := new(GetOrderStatusResponse)
	if err := c.invoke(ctx, OrderOrchestrator_GetOrderStatus_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *orderOrchestratorClient) GetUserOrders(ctx context.Context, in *GetUserOrdersRequest, opts ...grpc.CallOption) (*GetUserOrdersResponse, error) {
	out := new(GetUserOrdersResponse)
	if err := c.invoke(ctx, OrderOrchestrator_GetUserOrders_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

// OrderOrchestratorServer is the server API for OrderOrchestrator.
type OrderOrchestratorServer interface {
	ProcessOrder(context.Context, *ProcessOrderRequest) (*ProcessOrderResponse, error)
	CancelOrder(context.Context, *CancelOrderRequest) (*CancelOrderResponse, error)
	GetOrderStatus(context.Context, *GetOrderStatusRequest) (*GetOrderStatusResponse, error)
	GetUserOrders(context.Context, *GetUserOrdersRequest) (*GetUserOrdersResponse, error)
}

// UnimplementedOrderOrchestratorServer can be embedded to have forward compatible implementations.
type UnimplementedOrderOrchestratorServer struct{}

func (UnimplementedOrderOrchestratorServer) ProcessOrder(context.Context, *ProcessOrderRequest) (*ProcessOrderResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ProcessOrder not implemented")
}

func (UnimplementedOrderOrchestratorServer) CancelOrder(context.Context, *CancelOrderRequest) (*CancelOrderResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CancelOrder not implemented")
}

func (UnimplementedOrderOrchestratorServer) GetOrderStatus(context.Context, *GetOrderStatusRequest) (*GetOrderStatusResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetOrderStatus not implemented")
}

func (UnimplementedOrderOrchestratorServer) GetUserOrders(context.Context, *GetUserOrdersRequest) (*GetUserOrdersResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetUserOrders not implemented")
}

func RegisterOrderOrchestratorServer(s grpc.ServiceRegistrar, srv OrderOrchestratorServer) {
	s.RegisterService(&OrderOrchestrator_ServiceDesc, srv)
}

// unaryHandler adapts a typed server method to a grpc.MethodHandler.
func unaryHandler[Req any](fullMethod string, call func(OrderOrchestratorServer, context.Context, *Req) (any, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(OrderOrchestratorServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(OrderOrchestratorServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// OrderOrchestrator_ServiceDesc is the grpc.ServiceDesc for OrderOrchestrator.
var OrderOrchestrator_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "orchestrator.v1.OrderOrchestrator",
	HandlerType: (*OrderOrchestratorServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ProcessOrder",
			Handler: unaryHandler(OrderOrchestrator_ProcessOrder_FullMethodName,
				func(s OrderOrchestratorServer, ctx context.Context, in *ProcessOrderRequest) (any, error) {
					return s.ProcessOrder(ctx, in)
				}),
		},
		{
			MethodName: "CancelOrder",
			Handler: unaryHandler(OrderOrchestrator_CancelOrder_FullMethodName,
				func(s OrderOrchestratorServer, ctx context.Context, in *CancelOrderRequest) (any, error) {
					return s.CancelOrder(ctx, in)
				}),
		},
		{
			MethodName: "GetOrderStatus",
			Handler: unaryHandler(OrderOrchestrator_GetOrderStatus_FullMethodName,
				func(s OrderOrchestratorServer, ctx context.Context, in *GetOrderStatusRequest) (any, error) {
					return s.GetOrderStatus(ctx, in)
				}),
		},
		{
			MethodName: "GetUserOrders",
			Handler: unaryHandler(OrderOrchestrator_GetUserOrders_FullMethodName,
				func(s OrderOrchestratorServer, ctx context.Context, in *GetUserOrdersRequest) (any, error) {
					return s.GetUserOrders(ctx, in)
				}),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "orchestrator/v1/orchestrator.go",
}
