package coordinator

import (
	"errors"
	"fmt"
)

// ErrNoItems is returned by NewSaga for an order without lines.
var ErrNoItems = errors.New("coordinator: saga needs at least one item")

// ProductNotFoundError means an item lookup failed.
type ProductNotFoundError struct {
	ProductID string
	Err       error
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %s not found: %v", e.ProductID, e.Err)
}

func (e *ProductNotFoundError) Unwrap() error { return e.Err }

// InsufficientStockError means live stock is below the requested quantity.
type InsufficientStockError struct {
	ProductID string
	Requested int64
	Available int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

// ReservationError means the stock write-back for an item failed.
type ReservationError struct {
	ProductID string
	Err       error
}

func (e *ReservationError) Error() string {
	return fmt.Sprintf("reserve stock for product %s: %v", e.ProductID, e.Err)
}

func (e *ReservationError) Unwrap() error { return e.Err }

// CompensationFailureError is a compensating action that did not apply.
// The saga keeps going but inventory is left inconsistent.
type CompensationFailureError struct {
	Step StepName
	Err  error
}

func (e *CompensationFailureError) Error() string {
	return fmt.Sprintf("compensation of %s failed: %v", e.Step, e.Err)
}

func (e *CompensationFailureError) Unwrap() error { return e.Err }
