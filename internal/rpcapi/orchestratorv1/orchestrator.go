// Package orchestratorv1 is the contract of the orchestrator.v1.OrderOrchestrator
// service.
package orchestratorv1

import "github.com/shopspring/decimal"

type OrderItemRequest struct {
	ProductId string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

type ProcessOrderRequest struct {
	UserId string              `json:"user_id"`
	Items  []*OrderItemRequest `json:"items"`
}

type ProcessOrderResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	OrderId string `json:"order_id"`
	Status  string `json:"status"`
}

type CancelOrderRequest struct {
	OrderId string `json:"order_id"`
	UserId  string `json:"user_id"`
}

type CancelOrderResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

type GetOrderStatusRequest struct {
	OrderId string `json:"order_id"`
}

type OrderItem struct {
	ProductId string          `json:"product_id"`
	Name      string          `json:"name,omitempty"`
	Quantity  int64           `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type GetOrderStatusResponse struct {
	Success          bool            `json:"success"`
	Message          string          `json:"message,omitempty"`
	OrderId          string          `json:"order_id"`
	Status           string          `json:"status"`
	Items            []*OrderItem    `json:"items"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	CompletedSteps   []string        `json:"completed_steps"`
	CompensatedSteps []string        `json:"compensated_steps"`
	Reason           string          `json:"reason,omitempty"`
	Inconsistent     bool            `json:"inconsistent,omitempty"`
	CreatedAt        string          `json:"created_at"`
}

type GetUserOrdersRequest struct {
	UserId string `json:"user_id"`
}

type OrderSummary struct {
	OrderId     string          `json:"order_id"`
	Status      string          `json:"status"`
	Items       []*OrderItem    `json:"items"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	CreatedAt   string          `json:"created_at"`
}

type GetUserOrdersResponse struct {
	Success bool            `json:"success"`
	Orders  []*OrderSummary `json:"orders"`
	Total   int             `json:"total"`
}
