package sagalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func TestNewEntryWithoutSpan(t *testing.T) {
	entry := NewEntry(context.Background(), "order-1", StatusStarted, "", `{"user_id":"u"}`, nil)

	assert.Equal(t, "order-1", entry.SagaID)
	assert.Equal(t, StatusStarted, entry.Status)
	assert.Equal(t, "[]", entry.ErrorMessages)
	assert.Empty(t, entry.TraceID)
	assert.False(t, entry.UpdatedAt.IsZero())
}

func TestNewEntryCarriesTraceAndErrors(t *testing.T) {
	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID,
		SpanID:  spanID,
	}))

	entry := NewEntry(ctx, "order-2", StatusStepFailed, "ReserveStock", "", []string{"boom", "again"})

	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", entry.TraceID)
	assert.Equal(t, "00f067aa0ba902b7", entry.SpanID)
	assert.Equal(t, []string{"boom", "again"}, entry.Errors())
}

func TestMemoryReturnsCopiesInOrder(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	require.NoError(t, m.Save(ctx, NewEntry(ctx, "o", StatusStarted, "", "", nil)))
	require.NoError(t, m.Save(ctx, NewEntry(ctx, "o", StatusCompleted, "", "", nil)))

	entries, err := m.ListBySaga(ctx, "o")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, StatusStarted, entries[0].Status)
	assert.Equal(t, StatusCompleted, entries[1].Status)

	entries[0].Status = StatusFailed
	again, _ := m.ListBySaga(ctx, "o")
	assert.Equal(t, StatusStarted, again[0].Status)

	none, err := m.ListBySaga(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, none)
}
