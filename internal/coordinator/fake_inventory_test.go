package coordinator

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/order-sagas/internal/inventory"
)

// fakeInventory wraps the in-memory catalog with failure hooks and a call log.
type fakeInventory struct {
	*inventory.Memory

	mu         sync.Mutex
	getHook    func(id string) error
	updateHook func(id string, stock int64) error
	events     []string
}

func newFakeInventory(items ...inventory.Item) *fakeInventory {
	return &fakeInventory{Memory: inventory.NewMemory(items...)}
}

func (f *fakeInventory) GetItem(ctx context.Context, id string) (inventory.Item, error) {
	f.log("get:" + id)
	f.mu.Lock()
	hook := f.getHook
	f.mu.Unlock()
	if hook != nil {
		if err := hook(id); err != nil {
			return inventory.Item{}, err
		}
	}
	return f.Memory.GetItem(ctx, id)
}

func (f *fakeInventory) UpdateItem(ctx context.Context, id string, update inventory.ItemUpdate) (inventory.Item, error) {
	f.mu.Lock()
	hook := f.updateHook
	f.mu.Unlock()
	if hook != nil {
		if err := hook(id, update.Stock); err != nil {
			f.log(fmt.Sprintf("update-failed:%s:%d", id, update.Stock))
			return inventory.Item{}, err
		}
	}
	f.log(fmt.Sprintf("update:%s:%d", id, update.Stock))
	return f.Memory.UpdateItem(ctx, id, update)
}

func (f *fakeInventory) setGetHook(h func(id string) error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getHook = h
}

func (f *fakeInventory) setUpdateHook(h func(id string, stock int64) error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateHook = h
}

func (f *fakeInventory) log(e string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, e)
}

func (f *fakeInventory) Events() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.events...)
}

func (f *fakeInventory) updates() []string {
	var out []string
	for _, e := range f.Events() {
		if len(e) > 7 && e[:7] == "update:" {
			out = append(out, e)
		}
	}
	return out
}

func product(id string, price int64, stock int64) inventory.Item {
	return inventory.Item{
		ID:    id,
		Price: decimal.NewFromInt(price),
		Stock: stock,
		Attributes: inventory.Attributes{
			Name:     "Product " + id,
			Category: "test",
		},
	}
}

// enrich builds order lines from the fake's current catalog.
func enrich(inv *fakeInventory, quantities map[string]int64, order ...string) []OrderItem {
	items := make([]OrderItem, 0, len(order))
	for _, id := range order {
		live, err := inv.Memory.GetItem(context.Background(), id)
		if err != nil {
			items = append(items, OrderItem{ProductID: id, Quantity: quantities[id]})
			continue
		}
		items = append(items, NewOrderItem(quantities[id], live))
	}
	return items
}
