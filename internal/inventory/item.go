// Package inventory is the boundary to the inventory/catalog collaborator.
//
// The orchestrator only ever reads an item and writes it back; both calls are
// individually atomic on the remote side and no cross-item transaction exists.
package inventory

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrItemNotFound is returned when the catalog has no item with the given id.
	ErrItemNotFound = errors.New("inventory: item not found")
	// ErrInvalidStock is returned when a write would leave negative stock.
	ErrInvalidStock = errors.New("inventory: stock cannot be negative")
)

// Attributes are the descriptive catalog fields carried alongside stock.
type Attributes struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// Item is the live state of a catalog item.
type Item struct {
	ID         string          `json:"id"`
	Price      decimal.Decimal `json:"price"`
	Stock      int64           `json:"stock"`
	Attributes Attributes      `json:"attributes"`
}

// ItemUpdate carries every mutable field; the remote side replaces them all.
type ItemUpdate struct {
	Price      decimal.Decimal
	Stock      int64
	Attributes Attributes
}

// Client is what the saga needs from the inventory service.
type Client interface {
	GetItem(ctx context.Context, id string) (Item, error)
	UpdateItem(ctx context.Context, id string, update ItemUpdate) (Item, error)
}
