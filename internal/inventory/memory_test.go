package inventory

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMemory(t *testing.T) {
	seed := `[{"id":"p1","price":"4.20","stock":7,"attributes":{"name":"Mug","category":"kitchen"}}]`

	m, err := LoadMemory(strings.NewReader(seed))
	require.NoError(t, err)

	it, err := m.GetItem(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(7), it.Stock)
	assert.True(t, decimal.RequireFromString("4.2").Equal(it.Price))
	assert.Equal(t, "Mug", it.Attributes.Name)

	_, err = LoadMemory(strings.NewReader(`{`))
	require.Error(t, err)
}

func TestMemoryUpdateItem(t *testing.T) {
	m := NewMemory(Item{ID: "p1", Price: decimal.NewFromInt(1), Stock: 3})
	ctx := context.Background()

	it, err := m.UpdateItem(ctx, "p1", ItemUpdate{Price: decimal.NewFromInt(2), Stock: 1, Attributes: Attributes{Name: "renamed"}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), it.Stock)
	assert.Equal(t, "renamed", it.Attributes.Name)

	_, err = m.UpdateItem(ctx, "p1", ItemUpdate{Stock: -1})
	require.ErrorIs(t, err, ErrInvalidStock)
	stock, _ := m.Stock("p1")
	assert.Equal(t, int64(1), stock)

	_, err = m.UpdateItem(ctx, "ghost", ItemUpdate{})
	require.ErrorIs(t, err, ErrItemNotFound)
	_, ok := m.Stock("ghost")
	assert.False(t, ok)
}
