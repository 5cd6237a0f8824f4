package store

import (
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/order-sagas/internal/coordinator"
	"github.com/jcmexdev/order-sagas/internal/inventory"
)

func newSaga(t *testing.T, orderID, userID string) *coordinator.Saga {
	t.Helper()
	items := []coordinator.OrderItem{{ProductID: "p1", Quantity: 1, UnitPrice: decimal.NewFromInt(10), CurrentStock: 5}}
	saga, err := coordinator.NewSaga(orderID, userID, items, inventory.NewMemory())
	require.NoError(t, err)
	return saga
}

func TestPutAndGet(t *testing.T) {
	s := New()
	saga := newSaga(t, "o1", "u1")

	require.NoError(t, s.Put(saga))

	got, ok := s.Get("o1")
	require.True(t, ok)
	assert.Same(t, saga, got)
	assert.Equal(t, 1, s.Len())

	_, ok = s.Get("missing")
	assert.False(t, ok)
}

func TestPutRejectsDuplicates(t *testing.T) {
	s := New()
	require.NoError(t, s.Put(newSaga(t, "o1", "u1")))

	err := s.Put(newSaga(t, "o1", "u2"))
	require.ErrorIs(t, err, ErrDuplicateOrder)
	assert.Empty(t, s.ListByUser("u2"))
}

func TestListByUserReturnsSnapshot(t *testing.T) {
	s := New()
	require.NoError(t, s.Put(newSaga(t, "o1", "u1")))
	require.NoError(t, s.Put(newSaga(t, "o2", "u1")))
	require.NoError(t, s.Put(newSaga(t, "o3", "u2")))

	ids := s.ListByUser("u1")
	assert.Equal(t, []string{"o1", "o2"}, ids)

	ids[0] = "mutated"
	require.NoError(t, s.Put(newSaga(t, "o4", "u1")))
	assert.Equal(t, []string{"o1", "o2", "o4"}, s.ListByUser("u1"))

	assert.Nil(t, s.ListByUser("nobody"))
}

func TestConcurrentPuts(t *testing.T) {
	s := New()
	const n = 200

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			user := fmt.Sprintf("u%d", i%4)
			assert.NoError(t, s.Put(newSaga(t, fmt.Sprintf("o%d", i), user)))
			_ = s.ListByUser(user)
		}()
	}
	wg.Wait()

	assert.Equal(t, n, s.Len())
	total := 0
	for u := 0; u < 4; u++ {
		total += len(s.ListByUser(fmt.Sprintf("u%d", u)))
	}
	assert.Equal(t, n, total)
}
