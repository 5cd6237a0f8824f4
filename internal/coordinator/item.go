package coordinator

import (
	"github.com/shopspring/decimal"

	"github.com/jcmexdev/order-sagas/internal/inventory"
)

// OrderItem is one enriched order line.
type OrderItem struct {
	ProductID string
	Quantity  int64
	UnitPrice decimal.Decimal
	// CurrentStock is the stock observed when the order was enriched.
	CurrentStock int64
	// OriginalStock is captured by the reservation step right before it
	// writes, and is what compensation restores.
	OriginalStock    int64
	HasOriginalStock bool
	Attributes       inventory.Attributes
}

// NewOrderItem enriches a requested line with the live catalog entry.
func NewOrderItem(quantity int64, item inventory.Item) OrderItem {
	return OrderItem{
		ProductID:    item.ID,
		Quantity:     quantity,
		UnitPrice:    item.Price,
		CurrentStock: item.Stock,
		Attributes:   item.Attributes,
	}
}

// LineTotal is UnitPrice × Quantity.
func (it OrderItem) LineTotal() decimal.Decimal {
	return it.UnitPrice.Mul(decimal.NewFromInt(it.Quantity))
}

// Total sums LineTotal over items.
func Total(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.LineTotal())
	}
	return total
}
