package mappers

import (
	"time"

	"github.com/jcmexdev/order-sagas/internal/coordinator"
	"github.com/jcmexdev/order-sagas/internal/orchestrator"
	orchestratorv1 "github.com/jcmexdev/order-sagas/internal/rpcapi/orchestratorv1"
)

func ItemsFromProto(pbItems []*orchestratorv1.OrderItemRequest) []orchestrator.ItemRequest {
	items := make([]orchestrator.ItemRequest, 0, len(pbItems))
	for _, item := range pbItems {
		if item == nil {
			continue
		}
		items = append(items, orchestrator.ItemRequest{
			ProductID: item.ProductId,
			Quantity:  item.Quantity,
		})
	}
	return items
}

func OrderStatusToProto(v orchestrator.OrderView) *orchestratorv1.GetOrderStatusResponse {
	return &orchestratorv1.GetOrderStatusResponse{
		Success:          true,
		OrderId:          v.OrderID,
		Status:           v.Status.String(),
		Items:            mapItemsToProto(v.Items),
		TotalAmount:      v.TotalAmount,
		CompletedSteps:   stepNames(v.CompletedSteps),
		CompensatedSteps: stepNames(v.CompensatedSteps),
		Reason:           v.FailureReason,
		Inconsistent:     v.Inconsistent,
		CreatedAt:        formatTime(v.CreatedAt),
	}
}

func OrderSummaryToProto(v orchestrator.OrderView) *orchestratorv1.OrderSummary {
	return &orchestratorv1.OrderSummary{
		OrderId:     v.OrderID,
		Status:      v.Status.String(),
		Items:       mapItemsToProto(v.Items),
		TotalAmount: v.TotalAmount,
		CreatedAt:   formatTime(v.CreatedAt),
	}
}

func mapItemsToProto(items []coordinator.OrderItem) []*orchestratorv1.OrderItem {
	pbItems := make([]*orchestratorv1.OrderItem, len(items))
	for i, item := range items {
		pbItems[i] = &orchestratorv1.OrderItem{
			ProductId: item.ProductID,
			Name:      item.Attributes.Name,
			Quantity:  item.Quantity,
			Price:     item.UnitPrice,
		}
	}
	return pbItems
}

func stepNames(steps []coordinator.StepName) []string {
	out := make([]string, len(steps))
	for i, s := range steps {
		out[i] = string(s)
	}
	return out
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}
