package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/jcmexdev/order-sagas/internal/api-gateway/infra/adapters/service"
	"github.com/jcmexdev/order-sagas/internal/api-gateway/infra/httpx"
	"github.com/jcmexdev/order-sagas/internal/pkg/config"
	"github.com/jcmexdev/order-sagas/internal/pkg/interceptors"
	"github.com/jcmexdev/order-sagas/internal/pkg/telemetry"
	orchestratorv1 "github.com/jcmexdev/order-sagas/internal/rpcapi/orchestratorv1"
)

func main() {
	cfg, err := config.LoadGateway()
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

	conn := createGRPCConn(logger, cfg.OrchestratorAddr)
	defer conn.Close()

	orders := service.NewGRPCOrderClient(orchestratorv1.NewOrderOrchestratorClient(conn))
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpx.NewRouter(httpx.NewHandler(orders)),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown error", "error", err)
		}
	}()

	logger.Info("api gateway running", "addr", cfg.HTTPAddr, "orchestrator", cfg.OrchestratorAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
}

func createGRPCConn(logger *slog.Logger, addr string) *grpc.ClientConn {
	conn, err := grpc.NewClient(addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
		grpc.WithUnaryInterceptor(interceptors.PropagateClientInterceptor()),
	)
	if err != nil {
		logger.Error("could not connect", "addr", addr, "error", err)
		os.Exit(1)
	}
	return conn
}
