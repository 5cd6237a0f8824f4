package coordinator

import (
	"context"
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/jcmexdev/order-sagas/internal/inventory"
)

// StepName identifies a saga step.
type StepName string

const (
	CheckAvailability StepName = "CheckAvailability"
	ReserveStock      StepName = "ReserveStock"
	CreateOrderRecord StepName = "CreateOrderRecord"
)

type action func(s *Saga, ctx context.Context) error

// step pairs a forward action with its compensating action. A nil
// compensate means the step has no remote effect to undo.
type step struct {
	name       StepName
	forward    action
	compensate action
}

// stepCatalog is the fixed execution order of every order saga.
var stepCatalog = []step{
	{name: CheckAvailability, forward: (*Saga).checkAvailability},
	{name: ReserveStock, forward: (*Saga).reserveStock, compensate: (*Saga).releaseStock},
	{name: CreateOrderRecord, forward: (*Saga).createOrderRecord},
}

// Steps returns the step names in execution order.
func Steps() []StepName {
	names := make([]StepName, len(stepCatalog))
	for i, st := range stepCatalog {
		names[i] = st.name
	}
	return names
}

// HasCompensation reports whether name has a compensating action.
func HasCompensation(name StepName) bool {
	st, ok := lookupStep(name)
	return ok && st.compensate != nil
}

func lookupStep(name StepName) (step, bool) {
	for _, st := range stepCatalog {
		if st.name == name {
			return st, true
		}
	}
	return step{}, false
}

// checkAvailability re-reads every item. The checks run concurrently and
// are all joined; the first error observed fails the step.
func (s *Saga) checkAvailability(ctx context.Context) error {
	var g errgroup.Group
	for _, it := range s.Items() {
		g.Go(func() error {
			live, err := s.inventory.GetItem(ctx, it.ProductID)
			if err != nil {
				return &ProductNotFoundError{ProductID: it.ProductID, Err: err}
			}
			if live.Stock < it.Quantity {
				return &InsufficientStockError{
					ProductID: it.ProductID,
					Requested: it.Quantity,
					Available: live.Stock,
				}
			}
			return nil
		})
	}
	return g.Wait()
}

// reserveStock writes CurrentStock-Quantity for every item.
//
// The new stock is derived from the enrichment snapshot, not a fresh read,
// so two sagas reserving the same product concurrently can overwrite each
// other's reservation. OriginalStock is captured for every item before any
// write is issued. If some writes fail, the ones that succeeded are put back
// before the step fails, since a failed step is never compensated.
func (s *Saga) reserveStock(ctx context.Context) error {
	s.mu.Lock()
	for i := range s.items {
		s.items[i].OriginalStock = s.items[i].CurrentStock
		s.items[i].HasOriginalStock = true
	}
	items := slices.Clone(s.items)
	s.mu.Unlock()

	written := make([]bool, len(items))
	var g errgroup.Group
	for i, it := range items {
		g.Go(func() error {
			_, err := s.inventory.UpdateItem(ctx, it.ProductID, updateFor(it, it.CurrentStock-it.Quantity))
			if err != nil {
				return &ReservationError{ProductID: it.ProductID, Err: err}
			}
			written[i] = true
			return nil
		})
	}
	err := g.Wait()
	if err == nil {
		return nil
	}

	if rerr := s.restore(ctx, items, written); rerr != nil {
		s.flagInconsistent(ctx, ReserveStock, rerr)
	}
	return err
}

// releaseStock writes OriginalStock back for every reserved item.
func (s *Saga) releaseStock(ctx context.Context) error {
	items := s.Items()
	mask := make([]bool, len(items))
	for i, it := range items {
		mask[i] = it.HasOriginalStock
	}
	return s.restore(ctx, items, mask)
}

func (s *Saga) createOrderRecord(ctx context.Context) error {
	s.logger.InfoContext(ctx, "order record milestone reached", "items", len(s.Items()))
	return nil
}

// restore concurrently writes OriginalStock for the items selected by mask.
// Every write is attempted; the first failure is returned.
func (s *Saga) restore(ctx context.Context, items []OrderItem, mask []bool) error {
	var g errgroup.Group
	for i, it := range items {
		if !mask[i] || !it.HasOriginalStock {
			continue
		}
		g.Go(func() error {
			if _, err := s.inventory.UpdateItem(ctx, it.ProductID, updateFor(it, it.OriginalStock)); err != nil {
				s.logger.ErrorContext(ctx, "failed to restore stock",
					"product_id", it.ProductID,
					"original_stock", it.OriginalStock,
					"error", err,
				)
				return fmt.Errorf("restore stock for product %s: %w", it.ProductID, err)
			}
			s.logger.InfoContext(ctx, "stock restored", "product_id", it.ProductID, "stock", it.OriginalStock)
			return nil
		})
	}
	return g.Wait()
}

func updateFor(it OrderItem, stock int64) inventory.ItemUpdate {
	return inventory.ItemUpdate{
		Price:      it.UnitPrice,
		Stock:      stock,
		Attributes: it.Attributes,
	}
}
