// Package store keeps the live sagas of this process in memory.
//
// Nothing is persisted and nothing is evicted: sagas live as long as the
// process does.
package store

import (
	"errors"
	"fmt"
	"slices"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/jcmexdev/order-sagas/internal/coordinator"
)

// ErrDuplicateOrder is returned by Put for an order id that is already stored.
var ErrDuplicateOrder = errors.New("store: order already exists")

// Store maps order ids to sagas and user ids to their order ids.
// Every operation is short and lock-free from the caller's point of view;
// none of them waits on a saga.
type Store struct {
	sagas  *xsync.MapOf[string, *coordinator.Saga]
	byUser *xsync.MapOf[string, []string]
}

func New() *Store {
	return &Store{
		sagas:  xsync.NewMapOf[string, *coordinator.Saga](),
		byUser: xsync.NewMapOf[string, []string](),
	}
}

// Put registers a new saga and indexes it under its user.
func (s *Store) Put(saga *coordinator.Saga) error {
	if _, loaded := s.sagas.LoadOrStore(saga.OrderID(), saga); loaded {
		return fmt.Errorf("%w: %s", ErrDuplicateOrder, saga.OrderID())
	}

	// Slices in the index are never mutated in place, so a value handed out
	// by ListByUser stays valid after later appends.
	s.byUser.Compute(saga.UserID(), func(ids []string, _ bool) ([]string, bool) {
		next := make([]string, len(ids), len(ids)+1)
		copy(next, ids)
		return append(next, saga.OrderID()), false
	})
	return nil
}

// Get returns the live saga. Callers change it only through Run and Cancel.
func (s *Store) Get(orderID string) (*coordinator.Saga, bool) {
	return s.sagas.Load(orderID)
}

// ListByUser returns a copy of the user's order ids in insertion order.
func (s *Store) ListByUser(userID string) []string {
	ids, ok := s.byUser.Load(userID)
	if !ok {
		return nil
	}
	return slices.Clone(ids)
}

// Len is the number of stored sagas.
func (s *Store) Len() int {
	return s.sagas.Size()
}
