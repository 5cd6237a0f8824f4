package mappers

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/order-sagas/internal/coordinator"
	"github.com/jcmexdev/order-sagas/internal/inventory"
	"github.com/jcmexdev/order-sagas/internal/orchestrator"
	orchestratorv1 "github.com/jcmexdev/order-sagas/internal/rpcapi/orchestratorv1"
)

func TestItemsFromProtoSkipsNil(t *testing.T) {
	items := ItemsFromProto([]*orchestratorv1.OrderItemRequest{
		{ProductId: "p1", Quantity: 2},
		nil,
		{ProductId: "p2", Quantity: 1},
	})

	assert.Equal(t, []orchestrator.ItemRequest{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p2", Quantity: 1},
	}, items)
}

func TestOrderStatusToProto(t *testing.T) {
	created := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	view := orchestrator.OrderView{
		OrderID: "o1",
		Status:  coordinator.StatusFailed,
		Items: []coordinator.OrderItem{
			coordinator.NewOrderItem(2, inventory.Item{
				ID:         "p1",
				Price:      decimal.RequireFromString("1.25"),
				Stock:      1,
				Attributes: inventory.Attributes{Name: "Widget"},
			}),
		},
		TotalAmount:      decimal.RequireFromString("2.50"),
		CompletedSteps:   []coordinator.StepName{coordinator.CheckAvailability},
		CompensatedSteps: []coordinator.StepName{coordinator.CheckAvailability},
		FailureReason:    "boom",
		CreatedAt:        created,
	}

	res := OrderStatusToProto(view)

	require.Len(t, res.Items, 1)
	assert.True(t, res.Success)
	assert.Equal(t, "FAILED", res.Status)
	assert.Equal(t, "Widget", res.Items[0].Name)
	assert.Equal(t, int64(2), res.Items[0].Quantity)
	assert.Equal(t, []string{"CheckAvailability"}, res.CompletedSteps)
	assert.Equal(t, "boom", res.Reason)
	assert.Equal(t, "2026-03-04T05:06:07Z", res.CreatedAt)
}
