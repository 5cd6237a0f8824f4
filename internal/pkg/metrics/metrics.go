// Package metrics exposes the orchestrator's Prometheus metrics.
//
// Every method is safe on a nil *Metrics so components can run without a
// registry in tests.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry             *prometheus.Registry
	sagasStarted         prometheus.Counter
	sagasFinished        *prometheus.CounterVec
	stepDuration         *prometheus.HistogramVec
	compensationFailures *prometheus.CounterVec
	sagasInFlight        prometheus.Gauge
	sagasStored          prometheus.Gauge
	idempotentReplays    prometheus.Counter
}

// New creates a registry with the Go and process collectors plus the saga metrics.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: registry,
		sagasStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "saga_started_total",
			Help: "Total number of sagas whose execution started.",
		}),
		sagasFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "saga_finished_total",
			Help: "Total number of sagas that reached a terminal status.",
		}, []string{"status"}),
		stepDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "saga_step_duration_seconds",
			Help:    "Duration of forward and compensating saga steps.",
			Buckets: prometheus.DefBuckets,
		}, []string{"step", "outcome"}),
		compensationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "saga_compensation_failures_total",
			Help: "Compensating actions that failed and left inventory inconsistent.",
		}, []string{"step"}),
		sagasInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "saga_in_flight",
			Help: "Sagas currently executing on the launcher.",
		}),
		sagasStored: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "saga_stored",
			Help: "Sagas held in the in-memory store.",
		}),
		idempotentReplays: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "order_idempotent_replays_total",
			Help: "ProcessOrder calls answered from the idempotency cache.",
		}),
	}

	registry.MustRegister(
		m.sagasStarted,
		m.sagasFinished,
		m.stepDuration,
		m.compensationFailures,
		m.sagasInFlight,
		m.sagasStored,
		m.idempotentReplays,
	)
	return m
}

// Handler exposes the metrics registry via HTTP.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) SagaStarted() {
	if m == nil {
		return
	}
	m.sagasStarted.Inc()
}

func (m *Metrics) SagaFinished(status string) {
	if m == nil {
		return
	}
	m.sagasFinished.WithLabelValues(status).Inc()
}

func (m *Metrics) StepObserved(step, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.stepDuration.WithLabelValues(step, outcome).Observe(d.Seconds())
}

func (m *Metrics) CompensationFailed(step string) {
	if m == nil {
		return
	}
	m.compensationFailures.WithLabelValues(step).Inc()
}

func (m *Metrics) IncInFlight() {
	if m == nil {
		return
	}
	m.sagasInFlight.Inc()
}

func (m *Metrics) DecInFlight() {
	if m == nil {
		return
	}
	m.sagasInFlight.Dec()
}

func (m *Metrics) SetStored(n int) {
	if m == nil {
		return
	}
	m.sagasStored.Set(float64(n))
}

func (m *Metrics) IdempotentReplay() {
	if m == nil {
		return
	}
	m.idempotentReplays.Inc()
}
