package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOrchestratorDefaults(t *testing.T) {
	t.Setenv("INVENTORY_SERVICE_ADDR", "inventory:50051")

	cfg, err := LoadOrchestrator()
	require.NoError(t, err)

	assert.Equal(t, ":50053", cfg.GRPCAddr)
	assert.Equal(t, ":9103", cfg.AdminAddr)
	assert.Equal(t, "inventory:50051", cfg.InventoryAddr)
	assert.Empty(t, cfg.RedisAddr)
	assert.Empty(t, cfg.SagaLogPath)
	assert.Equal(t, 24*time.Hour, cfg.IdempotencyTTL)
	assert.Equal(t, 64, cfg.MaxConcurrentSagas)
	assert.Equal(t, "order-service", cfg.Telemetry.ServiceName)
	assert.False(t, cfg.Telemetry.TracingEnabled)
}

func TestLoadOrchestratorRequiresInventory(t *testing.T) {
	t.Setenv("INVENTORY_SERVICE_ADDR", "")

	_, err := LoadOrchestrator()
	require.EqualError(t, err, "INVENTORY_SERVICE_ADDR is required")
}

func TestLoadOrchestratorOverrides(t *testing.T) {
	t.Setenv("INVENTORY_SERVICE_ADDR", "inventory:50051")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("IDEMPOTENCY_TTL", "15m")
	t.Setenv("MAX_CONCURRENT_SAGAS", "8")
	t.Setenv("SAGA_LOG_PATH", "/data/saga.db")
	t.Setenv("TRACING_ENABLED", "true")
	t.Setenv("OTEL_SERVICE_NAME", "orders")

	cfg, err := LoadOrchestrator()
	require.NoError(t, err)

	assert.Equal(t, "redis:6379", cfg.RedisAddr)
	assert.Equal(t, 15*time.Minute, cfg.IdempotencyTTL)
	assert.Equal(t, 8, cfg.MaxConcurrentSagas)
	assert.Equal(t, "/data/saga.db", cfg.SagaLogPath)
	assert.True(t, cfg.Telemetry.TracingEnabled)
	assert.Equal(t, "orders", cfg.Telemetry.ServiceName)
}

func TestLoadOrchestratorRejectsBadValues(t *testing.T) {
	t.Setenv("INVENTORY_SERVICE_ADDR", "inventory:50051")

	t.Setenv("MAX_CONCURRENT_SAGAS", "0")
	_, err := LoadOrchestrator()
	require.Error(t, err)

	t.Setenv("MAX_CONCURRENT_SAGAS", "-3")
	_, err = LoadOrchestrator()
	require.EqualError(t, err, "MAX_CONCURRENT_SAGAS must be >= 0")

	t.Setenv("MAX_CONCURRENT_SAGAS", "4")
	t.Setenv("IDEMPOTENCY_TTL", "soon")
	_, err = LoadOrchestrator()
	require.ErrorContains(t, err, "IDEMPOTENCY_TTL")

	t.Setenv("IDEMPOTENCY_TTL", "")
	t.Setenv("TRACING_ENABLED", "maybe")
	_, err = LoadOrchestrator()
	require.ErrorContains(t, err, "TRACING_ENABLED")
}

func TestLoadGatewayAndInventory(t *testing.T) {
	t.Setenv("ORCHESTRATOR_ADDR", "orchestrator:50053")

	gw, err := LoadGateway()
	require.NoError(t, err)
	assert.Equal(t, ":8080", gw.HTTPAddr)
	assert.Equal(t, "orchestrator:50053", gw.OrchestratorAddr)
	assert.Equal(t, "api-gateway", gw.Telemetry.ServiceName)

	inv, err := LoadInventory()
	require.NoError(t, err)
	assert.Equal(t, ":50051", inv.GRPCAddr)
	assert.Equal(t, "inventory-service", inv.Telemetry.ServiceName)
}
