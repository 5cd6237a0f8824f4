package httpx

import "github.com/shopspring/decimal"

type CreateOrderRequest struct {
	UserID string               `json:"user_id"`
	Items  []CreateOrderItemDTO `json:"items"`
}

type CreateOrderItemDTO struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

type AckResponse struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

type OrderResponse struct {
	ID               string              `json:"order_id"`
	UserID           string              `json:"user_id,omitempty"`
	Status           string              `json:"status"`
	Total            decimal.Decimal     `json:"total_amount"`
	Reason           string              `json:"reason,omitempty"`
	Items            []OrderItemResponse `json:"items"`
	CompletedSteps   []string            `json:"completed_steps,omitempty"`
	CompensatedSteps []string            `json:"compensated_steps,omitempty"`
	Inconsistent     bool                `json:"inconsistent,omitempty"`
	CreatedAt        string              `json:"created_at"`
}

type OrderItemResponse struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name,omitempty"`
	Quantity  int64           `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
	Total  int             `json:"total"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
