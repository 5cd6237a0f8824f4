package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/jcmexdev/order-sagas/internal/coordinator/sagalog"
	"github.com/jcmexdev/order-sagas/internal/coordinator/sagalog/sqlite"
	"github.com/jcmexdev/order-sagas/internal/coordinator/store"
	"github.com/jcmexdev/order-sagas/internal/inventory"
	"github.com/jcmexdev/order-sagas/internal/orchestrator"
	"github.com/jcmexdev/order-sagas/internal/order-service/admin"
	"github.com/jcmexdev/order-sagas/internal/order-service/app"
	"github.com/jcmexdev/order-sagas/internal/pkg/cache"
	"github.com/jcmexdev/order-sagas/internal/pkg/config"
	"github.com/jcmexdev/order-sagas/internal/pkg/interceptors"
	"github.com/jcmexdev/order-sagas/internal/pkg/metrics"
	"github.com/jcmexdev/order-sagas/internal/pkg/telemetry"
	inventoryv1 "github.com/jcmexdev/order-sagas/internal/rpcapi/inventoryv1"
	orchestratorv1 "github.com/jcmexdev/order-sagas/internal/rpcapi/orchestratorv1"
)

func main() {
	cfg, err := config.LoadOrchestrator()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := telemetry.InitLogger(cfg.Telemetry.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := telemetry.SetupTracer(ctx, telemetry.TracerConfig{
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
		if err := shutdownTracer(shutdownCtx); err != nil {
			logger.Error("tracer shutdown error", "error", err)
		}
	}()

	invConn, err := grpc.NewClient(cfg.InventoryAddr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
		grpc.WithUnaryInterceptor(interceptors.PropagateClientInterceptor()),
	)
	if err != nil {
		logger.Error("could not connect to inventory", "addr", cfg.InventoryAddr, "error", err)
		os.Exit(1)
	}
	defer invConn.Close()
	inv := inventory.NewGRPCClient(inventoryv1.NewProductServiceClient(invConn))

	m := metrics.New()
	opts := []orchestrator.Option{
		orchestrator.WithLogger(logger),
		orchestrator.WithMetrics(m),
		orchestrator.WithLauncher(orchestrator.NewLauncher(cfg.MaxConcurrentSagas, logger, m)),
	}

	trail, closeTrail, err := openAuditTrail(ctx, cfg.SagaLogPath)
	if err != nil {
		logger.Error("failed to open saga log", "path", cfg.SagaLogPath, "error", err)
		os.Exit(1)
	}
	defer closeTrail()
	opts = append(opts, orchestrator.WithRecorder(trail))
	if cfg.SagaLogPath != "" {
		logger.Info("saga audit trail enabled", "path", cfg.SagaLogPath)
	} else {
		logger.Info("saga audit trail kept in memory")
	}

	if cfg.RedisAddr != "" {
		var redisCache cache.Cache
		if cfg.Telemetry.TracingEnabled {
			if redisCache, err = cache.NewTracedRedisCache(cfg.RedisAddr, "order"); err != nil {
				logger.Error("failed to instrument redis", "error", err)
				os.Exit(1)
			}
		} else {
			redisCache = cache.NewRedisCache(cfg.RedisAddr, "order")
		}
		defer redisCache.Close()
		opts = append(opts, orchestrator.WithIdempotency(redisCache, cfg.IdempotencyTTL))
		logger.Info("idempotency enabled", "redis_addr", cfg.RedisAddr, "ttl", cfg.IdempotencyTTL)
	}

	orch := orchestrator.New(inv, store.New(), opts...)

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		logger.Error("failed to listen", "addr", cfg.GRPCAddr, "error", err)
		os.Exit(1)
	}

	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.UnaryInterceptor(interceptors.TraceServerInterceptor(logger)),
	)
	orchestratorv1.RegisterOrderOrchestratorServer(grpcServer, app.NewOrderServer(orch, logger))
	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthSrv)
	healthSrv.SetServingStatus(orchestratorv1.OrderOrchestrator_ServiceDesc.ServiceName, healthpb.HealthCheckResponse_SERVING)

	adminSrv := &http.Server{
		Addr:              cfg.AdminAddr,
		Handler:           admin.NewRouter(m.Handler(), trail),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("admin http running", "addr", cfg.AdminAddr)
		if err := adminSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("admin server failed", "error", err)
			stop()
		}
	}()

	go func() {
		logger.Info("order orchestrator gRPC running", "addr", cfg.GRPCAddr)
		if err := grpcServer.Serve(lis); err != nil {
			logger.Error("failed to serve", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	healthSrv.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	stopped := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-shutdownCtx.Done():
		grpcServer.Stop()
	}

	if err := adminSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("admin shutdown error", "error", err)
	}
	if err := orch.Shutdown(shutdownCtx); err != nil {
		logger.Warn("sagas still running at shutdown", "error", err)
	}
}

// auditTrail records saga transitions and serves them back to the admin API.
type auditTrail interface {
	sagalog.Repository
	sagalog.Reader
}

// openAuditTrail opens the SQLite trail at path, or an in-memory one when
// path is empty.
func openAuditTrail(ctx context.Context, path string) (auditTrail, func() error, error) {
	if path == "" {
		return sagalog.NewMemory(), func() error { return nil }, nil
	}
	repo, err := sqlite.Open(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	return repo, repo.Close, nil
}
