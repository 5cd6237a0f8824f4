package main

import (
	"context"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/jcmexdev/order-sagas/internal/inventory"
	inventoryservice "github.com/jcmexdev/order-sagas/internal/inventory-service"
	"github.com/jcmexdev/order-sagas/internal/pkg/config"
	"github.com/jcmexdev/order-sagas/internal/pkg/interceptors"
	"github.com/jcmexdev/order-sagas/internal/pkg/telemetry"
	inventoryv1 "github.com/jcmexdev/order-sagas/internal/rpcapi/inventoryv1"
)

func main() {
	cfg, err := config.LoadInventory()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := telemetry.InitLogger(cfg.Telemetry.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.SetupTracer(ctx, telemetry.TracerConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Endpoint:    cfg.Telemetry.OTLPEndpoint,
		Environment: cfg.Telemetry.Environment,
		Enabled:     cfg.Telemetry.TracingEnabled,
	})
	if err != nil {
		logger.Error("failed to initialise tracer", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			logger.Error("tracer shutdown error", "error", err)
		}
	}()

	catalog, err := loadCatalog(cfg.SeedFile)
	if err != nil {
		logger.Error("failed to load catalog", "seed_file", cfg.SeedFile, "error", err)
		os.Exit(1)
	}

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		logger.Error("failed to listen", "addr", cfg.GRPCAddr, "error", err)
		os.Exit(1)
	}

	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.UnaryInterceptor(interceptors.TraceServerInterceptor(logger)),
	)
	inventoryv1.RegisterProductServiceServer(grpcServer, inventoryservice.NewServer(catalog, logger))
	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthSrv)

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		healthSrv.Shutdown()
		grpcServer.GracefulStop()
	}()

	logger.Info("inventory service gRPC running", "addr", cfg.GRPCAddr)
	if err := grpcServer.Serve(lis); err != nil {
		logger.Error("failed to serve", "error", err)
		os.Exit(1)
	}
}

func loadCatalog(path string) (*inventory.Memory, error) {
	if path == "" {
		return inventoryservice.DefaultCatalog(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return inventory.LoadMemory(f)
}
