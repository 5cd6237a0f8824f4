package inventory

import (
	"context"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	inventoryv1 "github.com/jcmexdev/order-sagas/internal/rpcapi/inventoryv1"
)

// GRPCClient talks to inventory.v1.ProductService.
type GRPCClient struct {
	client inventoryv1.ProductServiceClient
}

var _ Client = (*GRPCClient)(nil)

func NewGRPCClient(client inventoryv1.ProductServiceClient) *GRPCClient {
	return &GRPCClient{client: client}
}

func (c *GRPCClient) GetItem(ctx context.Context, id string) (Item, error) {
	res, err := c.client.GetProduct(ctx, &inventoryv1.GetProductRequest{Id: id})
	if err != nil {
		return Item{}, mapStatusError("get", id, err)
	}
	p := res.GetProduct()
	if p == nil {
		return Item{}, fmt.Errorf("inventory: get %q: empty product in response", id)
	}
	return itemFromProto(p), nil
}

func (c *GRPCClient) UpdateItem(ctx context.Context, id string, update ItemUpdate) (Item, error) {
	res, err := c.client.UpdateProduct(ctx, &inventoryv1.UpdateProductRequest{
		Id:          id,
		Name:        update.Attributes.Name,
		Description: update.Attributes.Description,
		Price:       update.Price,
		Stock:       update.Stock,
		Category:    update.Attributes.Category,
	})
	if err != nil {
		return Item{}, mapStatusError("update", id, err)
	}
	p := res.GetProduct()
	if p == nil {
		return Item{}, fmt.Errorf("inventory: update %q: empty product in response", id)
	}
	return itemFromProto(p), nil
}

func mapStatusError(op, id string, err error) error {
	switch status.Code(err) {
	case codes.NotFound:
		return fmt.Errorf("%w: %s", ErrItemNotFound, id)
	case codes.FailedPrecondition:
		return fmt.Errorf("%w: %s", ErrInvalidStock, id)
	default:
		return fmt.Errorf("inventory: %s %q: %w", op, id, err)
	}
}

func itemFromProto(p *inventoryv1.Product) Item {
	return Item{
		ID:    p.Id,
		Price: p.Price,
		Stock: p.Stock,
		Attributes: Attributes{
			Name:        p.Name,
			Description: p.Description,
			Category:    p.Category,
		},
	}
}

// ProductFromItem converts an item to its wire form.
func ProductFromItem(it Item) *inventoryv1.Product {
	return &inventoryv1.Product{
		Id:          it.ID,
		Name:        it.Attributes.Name,
		Description: it.Attributes.Description,
		Price:       it.Price,
		Stock:       it.Stock,
		Category:    it.Attributes.Category,
	}
}
