package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/order-sagas/internal/coordinator/sagalog"
	"github.com/jcmexdev/order-sagas/internal/coordinator/sagalog/sqlite"
)

func TestOpenAuditTrail(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{name: "in memory without a path", path: ""},
		{name: "sqlite file", path: filepath.Join(t.TempDir(), "saga.db")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			trail, closeTrail, err := openAuditTrail(ctx, tt.path)
			require.NoError(t, err)
			t.Cleanup(func() { _ = closeTrail() })

			if tt.path == "" {
				assert.IsType(t, &sagalog.Memory{}, trail)
			} else {
				assert.IsType(t, &sqlite.Repository{}, trail)
			}

			require.NoError(t, trail.Save(ctx, sagalog.NewEntry(ctx, "order-1", sagalog.StatusStarted, "", "", nil)))
			entries, err := trail.ListBySaga(ctx, "order-1")
			require.NoError(t, err)
			require.Len(t, entries, 1)
			assert.Equal(t, sagalog.StatusStarted, entries[0].Status)
		})
	}
}
