package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// Memory is an in-process catalog. It backs the local inventory service and
// the tests.
type Memory struct {
	mu     sync.Mutex
	items  map[string]Item
	logger *slog.Logger
}

var _ Client = (*Memory)(nil)

func NewMemory(items ...Item) *Memory {
	m := &Memory{
		items:  make(map[string]Item, len(items)),
		logger: slog.Default(),
	}
	for _, it := range items {
		m.items[it.ID] = it
	}
	return m
}

// LoadMemory builds a catalog from a JSON array of items.
func LoadMemory(r io.Reader) (*Memory, error) {
	var items []Item
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return nil, fmt.Errorf("inventory: decode seed: %w", err)
	}
	return NewMemory(items...), nil
}

func (m *Memory) GetItem(ctx context.Context, id string) (Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	it, ok := m.items[id]
	if !ok {
		return Item{}, fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	return it, nil
}

func (m *Memory) UpdateItem(ctx context.Context, id string, update ItemUpdate) (Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	it, ok := m.items[id]
	if !ok {
		return Item{}, fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	if update.Stock < 0 {
		return Item{}, fmt.Errorf("%w: %s", ErrInvalidStock, id)
	}

	previous := it.Stock
	it.Price = update.Price
	it.Stock = update.Stock
	it.Attributes = update.Attributes
	m.items[id] = it

	m.logger.InfoContext(ctx, "inventory item updated", "product_id", id, "previous_stock", previous, "stock", it.Stock)
	return it, nil
}

// Stock returns the current stock of id, or false if it does not exist.
func (m *Memory) Stock(id string) (int64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[id]
	return it.Stock, ok
}
