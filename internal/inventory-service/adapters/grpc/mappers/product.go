package mappers

import (
	"github.com/jcmexdev/order-sagas/internal/inventory"
	inventoryv1 "github.com/jcmexdev/order-sagas/internal/rpcapi/inventoryv1"
)

func ItemUpdateFromProto(req *inventoryv1.UpdateProductRequest) inventory.ItemUpdate {
	return inventory.ItemUpdate{
		Price: req.Price,
		Stock: req.Stock,
		Attributes: inventory.Attributes{
			Name:        req.Name,
			Description: req.Description,
			Category:    req.Category,
		},
	}
}

func ProductToProto(it inventory.Item) *inventoryv1.Product {
	return inventory.ProductFromItem(it)
}
