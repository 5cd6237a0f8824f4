package entity

import "github.com/shopspring/decimal"

type OrderLine struct {
	ProductID string
	Quantity  int64
}

type OrderItem struct {
	ProductID string
	Name      string
	Quantity  int64
	Price     decimal.Decimal
}

// Ack is the answer to placing an order; the final status has to be polled.
type Ack struct {
	OrderID string
	Status  string
}

type Order struct {
	ID               string
	UserID           string
	Status           string
	Total            decimal.Decimal
	Reason           string
	Items            []OrderItem
	CompletedSteps   []string
	CompensatedSteps []string
	Inconsistent     bool
	CreatedAt        string
}
