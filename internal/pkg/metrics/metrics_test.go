package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findMetric(t *testing.T, families []*dto.MetricFamily, name string) *dto.MetricFamily {
	t.Helper()
	for _, family := range families {
		if family.GetName() == name {
			return family
		}
	}
	t.Fatalf("metric %s not gathered", name)
	return nil
}

func TestSagaMetrics(t *testing.T) {
	m := New()

	m.SagaStarted()
	m.SagaStarted()
	m.SagaFinished("COMPLETED")
	m.SagaFinished("FAILED")
	m.SagaFinished("FAILED")
	m.StepObserved("ReserveStock", "ok", 20*time.Millisecond)
	m.CompensationFailed("ReserveStock")
	m.IncInFlight()
	m.IncInFlight()
	m.DecInFlight()
	m.SetStored(7)
	m.IdempotentReplay()

	families, err := m.Registry().Gather()
	require.NoError(t, err)

	started := findMetric(t, families, "saga_started_total")
	assert.Equal(t, float64(2), started.GetMetric()[0].GetCounter().GetValue())

	finished := findMetric(t, families, "saga_finished_total")
	byStatus := map[string]float64{}
	for _, metric := range finished.GetMetric() {
		byStatus[metric.GetLabel()[0].GetValue()] = metric.GetCounter().GetValue()
	}
	assert.Equal(t, map[string]float64{"COMPLETED": 1, "FAILED": 2}, byStatus)

	steps := findMetric(t, families, "saga_step_duration_seconds")
	assert.Equal(t, uint64(1), steps.GetMetric()[0].GetHistogram().GetSampleCount())

	assert.Equal(t, float64(1), findMetric(t, families, "saga_compensation_failures_total").GetMetric()[0].GetCounter().GetValue())
	assert.Equal(t, float64(1), findMetric(t, families, "saga_in_flight").GetMetric()[0].GetGauge().GetValue())
	assert.Equal(t, float64(7), findMetric(t, families, "saga_stored").GetMetric()[0].GetGauge().GetValue())
	assert.Equal(t, float64(1), findMetric(t, families, "order_idempotent_replays_total").GetMetric()[0].GetCounter().GetValue())
}

func TestMetricsHandler(t *testing.T) {
	m := New()
	m.SagaStarted()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "saga_started_total 1"))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.SagaStarted()
		m.SagaFinished("FAILED")
		m.StepObserved("x", "ok", time.Second)
		m.CompensationFailed("x")
		m.IncInFlight()
		m.DecInFlight()
		m.SetStored(1)
		m.IdempotentReplay()
	})
	assert.Nil(t, m.Registry())
}
