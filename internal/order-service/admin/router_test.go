package admin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/order-sagas/internal/coordinator/sagalog"
	"github.com/jcmexdev/order-sagas/internal/pkg/metrics"
)

type failingReader struct{}

func (failingReader) ListBySaga(context.Context, string) ([]*sagalog.SagaLog, error) {
	return nil, errors.New("disk gone")
}

func do(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthzAndMetrics(t *testing.T) {
	m := metrics.New()
	m.SagaStarted()
	h := NewRouter(m.Handler(), nil)

	rec := do(t, h, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = do(t, h, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "saga_started_total 1")
}

func TestSagaLogEndpoint(t *testing.T) {
	logs := sagalog.NewMemory()
	ctx := context.Background()
	require.NoError(t, logs.Save(ctx, sagalog.NewEntry(ctx, "o1", sagalog.StatusStarted, "", `{"order_id":"o1"}`, nil)))
	require.NoError(t, logs.Save(ctx, sagalog.NewEntry(ctx, "o1", sagalog.StatusStepDone, "CheckAvailability", "", nil)))
	h := NewRouter(nil, logs)

	rec := do(t, h, "/sagas/o1/log")
	require.Equal(t, http.StatusOK, rec.Code)

	var entries []sagalog.SagaLog
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, sagalog.StatusStarted, entries[0].Status)
	assert.Equal(t, "CheckAvailability", entries[1].CurrentStep)

	rec = do(t, h, "/sagas/unknown/log")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSagaLogEndpointErrors(t *testing.T) {
	rec := do(t, NewRouter(nil, nil), "/sagas/o1/log")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "audit_trail_disabled")

	rec = do(t, NewRouter(nil, failingReader{}), "/sagas/o1/log")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
