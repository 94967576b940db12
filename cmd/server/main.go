package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/simaogato/stockcal-backend/internal/adapter/blob"
	grpcadapter "github.com/simaogato/stockcal-backend/internal/adapter/grpc"
	"github.com/simaogato/stockcal-backend/internal/adapter/metrics"
	"github.com/simaogato/stockcal-backend/internal/adapter/repository"
	"github.com/simaogato/stockcal-backend/internal/config"
	"github.com/simaogato/stockcal-backend/internal/logging"
	"github.com/simaogato/stockcal-backend/internal/usecase/audit"
	"github.com/simaogato/stockcal-backend/internal/usecase/calendar"
	"github.com/simaogato/stockcal-backend/internal/usecase/catalog"
	"github.com/simaogato/stockcal-backend/internal/usecase/dashboard"
	"github.com/simaogato/stockcal-backend/internal/usecase/export"
	"github.com/simaogato/stockcal-backend/internal/usecase/ledger"
	"github.com/simaogato/stockcal-backend/internal/usecase/seeder"
)

const (
	storeOpenAttempts = 5
	storeRetryDelay   = 2 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Invalid configuration: %v", err)
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	ctx := context.Background()

	// 1. Setup storage. Postgres may still be starting when run under compose.
	stores, err := openStores(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to open %s store: %v", cfg.StoreDriver, err)
	}
	defer stores.Close()

	exportStore, err := blob.Open(ctx, cfg.Export)
	if err != nil {
		logger.Fatalf("Failed to open export store: %v", err)
	}

	recorder := metrics.NewRecorder()

	// 2. Initialize Services (Use Cases)
	catalogService := catalog.NewCatalogService(stores.Items, logger)
	ledgerService := ledger.NewLedgerService(stores.Ledger, logger, recorder)
	calendarService := calendar.NewCalendarService(stores.History, stores.Events, logger)
	auditService := audit.NewAuditService(stores.Items, stores.History, logger, recorder)
	dashboardService := dashboard.NewDashboardService(stores.Items)
	exportService := export.NewExportService(stores.History, exportStore, logger, recorder)

	// Seed the item catalog, if one is configured
	if cfg.SeedCatalogPath != "" {
		catalogSeeder := seeder.NewCatalogSeeder(stores.Items, logger)
		if _, err := catalogSeeder.SeedFile(ctx, cfg.SeedCatalogPath, cfg.SeedCatalogEncoding); err != nil {
			logger.Fatalf("Failed to seed catalog from %s: %v", cfg.SeedCatalogPath, err)
		}
	}

	// Startup audit; discrepancies are reported, never repaired
	if _, err := auditService.Reconcile(ctx); err != nil {
		logger.WithError(err).Warn("startup reconciliation failed")
	}

	// 3. Start gRPC Server
	grpcServer := grpclib.NewServer(
		grpclib.ChainUnaryInterceptor(
			grpcadapter.RecoveryInterceptor(logger),
			grpcadapter.LoggingInterceptor(logger),
			grpcadapter.MetricsInterceptor(recorder),
		),
	)

	grpcAdapter := grpcadapter.NewServer(catalogService, ledgerService, calendarService, auditService, dashboardService, exportService)
	grpcadapter.RegisterStockCalendarServer(grpcServer, grpcAdapter)

	healthServer := health.NewServer()
	healthServer.SetServingStatus(grpcadapter.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		logger.Fatalf("Failed to listen on %s: %v", cfg.GRPCAddr, err)
	}

	go func() {
		logger.Infof("gRPC server listening on %s", cfg.GRPCAddr)
		if err := grpcServer.Serve(lis); err != nil {
			logger.Fatalf("Failed to serve gRPC server: %v", err)
		}
	}()

	// 4. Start metrics server
	mux := http.NewServeMux()
	mux.Handle("/metrics", recorder.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	metricsServer := &http.Server{
		Addr:              cfg.MetricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Infof("metrics server listening on %s", cfg.MetricsAddr)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Failed to serve metrics: %v", err)
		}
	}()

	// Graceful shutdown
	waitForShutdown(logger, grpcServer, healthServer, metricsServer)
}

// openStores opens the configured store, retrying while the database comes up
func openStores(ctx context.Context, cfg *config.Config, logger logrus.FieldLogger) (*repository.Stores, error) {
	var lastErr error
	for attempt := 1; attempt <= storeOpenAttempts; attempt++ {
		stores, err := repository.Open(ctx, cfg)
		if err == nil {
			logger.WithField("driver", cfg.StoreDriver).Info("store opened")
			return stores, nil
		}
		lastErr = err
		if cfg.StoreDriver != config.StorePostgres {
			break
		}
		logger.WithError(err).WithField("attempt", attempt).Warn("database not ready, retrying")
		time.Sleep(storeRetryDelay)
	}
	return nil, lastErr
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down the servers
func waitForShutdown(logger logrus.FieldLogger, grpcServer *grpclib.Server, healthServer *health.Server, metricsServer *http.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	logger.Infof("Received signal: %v. Shutting down gracefully...", sig)

	healthServer.Shutdown()
	grpcServer.GracefulStop()
	logger.Info("gRPC server stopped")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := metricsServer.Shutdown(ctx); err != nil {
		logger.WithError(err).Warn("metrics server shutdown")
	}
}
