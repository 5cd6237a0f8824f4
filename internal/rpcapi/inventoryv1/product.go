// Package inventoryv1 is the contract of the inventory.v1.ProductService
// consumed by the orchestrator.
package inventoryv1

import "github.com/shopspring/decimal"

type Product struct {
	Id          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int64           `json:"stock"`
	Category    string          `json:"category"`
}

type GetProductRequest struct {
	Id string `json:"id"`
}

type GetProductResponse struct {
	Product *Product `json:"product"`
}

// UpdateProductRequest replaces every mutable field of the product.
type UpdateProductRequest struct {
	Id          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int64           `json:"stock"`
	Category    string          `json:"category"`
}

type UpdateProductResponse struct {
	Product *Product `json:"product"`
}

func (r *GetProductResponse) GetProduct() *Product {
	if r == nil {
		return nil
	}
	return r.Product
}

func (r *UpdateProductResponse) GetProduct() *Product {
	if r == nil {
		return nil
	}
	return r.Product
}
