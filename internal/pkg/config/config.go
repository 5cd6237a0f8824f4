// Package config reads process configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// TelemetryConfig is shared by every binary.
type TelemetryConfig struct {
	ServiceName    string
	OTLPEndpoint   string
	Environment    string
	TracingEnabled bool
	LogLevel       string
}

// OrchestratorConfig configures cmd/order-service.
type OrchestratorConfig struct {
	GRPCAddr           string
	AdminAddr          string
	InventoryAddr      string
	RedisAddr          string
	IdempotencyTTL     time.Duration
	SagaLogPath        string
	MaxConcurrentSagas int
	ShutdownTimeout    time.Duration
	Telemetry          TelemetryConfig
}

// GatewayConfig configures cmd/api-gateway.
type GatewayConfig struct {
	HTTPAddr         string
	OrchestratorAddr string
	ShutdownTimeout  time.Duration
	Telemetry        TelemetryConfig
}

// InventoryConfig configures cmd/inventory-service.
type InventoryConfig struct {
	GRPCAddr  string
	SeedFile  string
	Telemetry TelemetryConfig
}

// LoadOrchestrator reads the orchestrator service settings from env.
func LoadOrchestrator() (OrchestratorConfig, error) {
	cfg := OrchestratorConfig{
		GRPCAddr:    optionalString("ORCHESTRATOR_GRPC_ADDR", ":50053"),
		AdminAddr:   optionalString("ORCHESTRATOR_ADMIN_ADDR", ":9103"),
		RedisAddr:   optionalString("REDIS_ADDR", ""),
		SagaLogPath: optionalString("SAGA_LOG_PATH", ""),
	}

	var err error
	if cfg.InventoryAddr, err = requiredString("INVENTORY_SERVICE_ADDR"); err != nil {
		return cfg, err
	}
	if cfg.IdempotencyTTL, err = optionalDuration("IDEMPOTENCY_TTL", 24*time.Hour); err != nil {
		return cfg, err
	}
	if cfg.MaxConcurrentSagas, err = optionalInt("MAX_CONCURRENT_SAGAS", 64); err != nil {
		return cfg, err
	}
	if cfg.MaxConcurrentSagas == 0 {
		return cfg, fmt.Errorf("MAX_CONCURRENT_SAGAS must be > 0")
	}
	if cfg.ShutdownTimeout, err = optionalDuration("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return cfg, err
	}
	if cfg.Telemetry, err = loadTelemetry("order-service"); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadGateway reads the HTTP gateway settings from env.
func LoadGateway() (GatewayConfig, error) {
	cfg := GatewayConfig{
		HTTPAddr:         optionalString("HTTP_ADDR", ":8080"),
		OrchestratorAddr: optionalString("ORCHESTRATOR_ADDR", "localhost:50053"),
	}

	var err error
	if cfg.ShutdownTimeout, err = optionalDuration("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return cfg, err
	}
	if cfg.Telemetry, err = loadTelemetry("api-gateway"); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadInventory reads the local inventory service settings from env.
func LoadInventory() (InventoryConfig, error) {
	cfg := InventoryConfig{
		GRPCAddr: optionalString("INVENTORY_GRPC_ADDR", ":50051"),
		SeedFile: optionalString("INVENTORY_SEED_FILE", ""),
	}

	var err error
	if cfg.Telemetry, err = loadTelemetry("inventory-service"); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func loadTelemetry(defaultName string) (TelemetryConfig, error) {
	cfg := TelemetryConfig{
		ServiceName:  optionalString("OTEL_SERVICE_NAME", defaultName),
		OTLPEndpoint: optionalString("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		Environment:  optionalString("OTEL_RESOURCE_ATTRIBUTES_ENV", "local"),
		LogLevel:     optionalString("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.TracingEnabled, err = optionalBool("TRACING_ENABLED", false); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func optionalString(name, fallback string) string {
	if raw := strings.TrimSpace(os.Getenv(name)); raw != "" {
		return raw
	}
	return fallback
}

func requiredString(name string) (string, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return "", fmt.Errorf("%s is required", name)
	}
	return raw, nil
}

func optionalInt(name string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback, nil
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	if val < 0 {
		return 0, fmt.Errorf("%s must be >= 0", name)
	}
	return val, nil
}

func optionalDuration(name string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback, nil
	}
	val, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	if val < 0 {
		return 0, fmt.Errorf("%s must be >= 0", name)
	}
	return val, nil
}

func optionalBool(name string, fallback bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback, nil
	}
	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s: %w", name, err)
	}
	return val, nil
}
