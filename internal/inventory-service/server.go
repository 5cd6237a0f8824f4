// Package inventoryservice serves inventory.v1.ProductService from an
// in-memory catalog for local runs.
package inventoryservice

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/jcmexdev/order-sagas/internal/inventory"
	"github.com/jcmexdev/order-sagas/internal/inventory-service/adapters/grpc/mappers"
	"github.com/jcmexdev/order-sagas/internal/pkg/interceptors"
	"github.com/jcmexdev/order-sagas/internal/pkg/interceptors/constants"
	inventoryv1 "github.com/jcmexdev/order-sagas/internal/rpcapi/inventoryv1"
)

type productServer struct {
	inventoryv1.UnimplementedProductServiceServer
	catalog inventory.Client
	logger  *slog.Logger
}

var _ inventoryv1.ProductServiceServer = (*productServer)(nil)

func NewServer(catalog inventory.Client, logger *slog.Logger) *productServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &productServer{catalog: catalog, logger: logger}
}

func (s *productServer) GetProduct(ctx context.Context, req *inventoryv1.GetProductRequest) (*inventoryv1.GetProductResponse, error) {
	if req.Id == "" {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}
	it, err := s.catalog.GetItem(ctx, req.Id)
	if err != nil {
		return nil, mapInventoryError(err)
	}
	return &inventoryv1.GetProductResponse{Product: mappers.ProductToProto(it)}, nil
}

func (s *productServer) UpdateProduct(ctx context.Context, req *inventoryv1.UpdateProductRequest) (*inventoryv1.UpdateProductResponse, error) {
	if req.Id == "" {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}

	reqID := interceptors.GetMetadataValue(ctx, constants.HeaderXRequestId)
	s.logger.InfoContext(ctx, "updating product", "product_id", req.Id, "stock", req.Stock, "request_id", reqID)

	it, err := s.catalog.UpdateItem(ctx, req.Id, mappers.ItemUpdateFromProto(req))
	if err != nil {
		s.logger.WarnContext(ctx, "product update rejected", "product_id", req.Id, "error", err)
		return nil, mapInventoryError(err)
	}
	return &inventoryv1.UpdateProductResponse{Product: mappers.ProductToProto(it)}, nil
}

func mapInventoryError(err error) error {
	switch {
	case errors.Is(err, inventory.ErrItemNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, inventory.ErrInvalidStock):
		return status.Error(codes.FailedPrecondition, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}

// DefaultCatalog is used when no seed file is configured.
func DefaultCatalog() *inventory.Memory {
	return inventory.NewMemory(
		inventory.Item{ID: "prod_1", Price: decimal.RequireFromString("19.99"), Stock: 15, Attributes: inventory.Attributes{Name: "Mechanical keyboard", Category: "peripherals"}},
		inventory.Item{ID: "prod_2", Price: decimal.RequireFromString("9.50"), Stock: 10, Attributes: inventory.Attributes{Name: "USB-C cable", Category: "accessories"}},
		inventory.Item{ID: "prod_3", Price: decimal.RequireFromString("249.00"), Stock: 0, Attributes: inventory.Attributes{Name: "27in monitor", Category: "displays"}},
	)
}
