package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"gorm.io/gorm"

	consoleserver "github.com/Apurer/storefront-console/go"
	accessguard "github.com/Apurer/storefront-console/internal/domains/access/adapters/http/guard"
	catalogworkflows "github.com/Apurer/storefront-console/internal/domains/catalog/adapters/workflows"
	catalogports "github.com/Apurer/storefront-console/internal/domains/catalog/ports"
	platformmetrics "github.com/Apurer/storefront-console/internal/platform/metrics"
	"github.com/Apurer/storefront-console/internal/platform/migrations"
	platformobservability "github.com/Apurer/storefront-console/internal/platform/observability"
	platformpostgres "github.com/Apurer/storefront-console/internal/platform/postgres"
)

const (
	serviceName        = "storefront-console-api"
	maxMultipartMemory = 8 << 20
)

// Run boots the console HTTP API with observability, repositories, and workflows wired.
// It returns when ctx is cancelled and the server has drained.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName, platformobservability.WithLogLevel(cfg.LogLevel))
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	db, cleanupDB := platformpostgres.ConnectWithLogger(ctx, cfg.PostgresDSN, platformpostgres.Options{LogLevel: cfg.DBLogLevel}, logger)
	defer cleanupDB()
	if err := migrations.Run(db); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	services, err := NewServices(cfg, db, instruments)
	if err != nil {
		return err
	}
	if err := services.BootstrapAdmin(ctx, cfg.BootstrapAdmin, logger); err != nil {
		return err
	}

	var productWorkflows catalogports.WorkflowOrchestrator = catalogworkflows.NewInlineProductWorkflows(services.Catalog)
	if temporalClient, err := ConnectTemporalClient(cfg, instruments); err != nil {
		logger.Warn("Temporal workflows unavailable, creating products inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		productWorkflows = catalogworkflows.NewTemporalProductWorkflows(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	handlers := consoleserver.ApiHandleFunctions{
		SessionAPI:  consoleserver.NewSessionAPI(services.Customers),
		ProductAPI:  consoleserver.NewProductAPI(services.Catalog, productWorkflows),
		OrderAPI:    consoleserver.NewOrderAPI(services.Orders, services.Invoices),
		CustomerAPI: consoleserver.NewCustomerAPI(services.Customers),
		AssetAPI:    consoleserver.NewAssetAPI(services.Catalog, databaseHealth(db)),
	}
	httpMetrics := platformmetrics.NewHTTP()
	router := consoleserver.NewRouter(handlers, consoleserver.RouterOptions{
		Guard:              accessguard.RequireAdmin(services.Guard, cfg.LoginPath),
		Middleware:         []gin.HandlerFunc{otelgin.Middleware(serviceName), httpMetrics.Middleware()},
		Metrics:            httpMetrics.Handler(),
		MaxMultipartMemory: maxMultipartMemory,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("console API listening", slog.String("addr", server.Addr))
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error("console API server exited", slog.String("addr", server.Addr), slog.String("error", err.Error()))
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("console API shutting down")
	return server.Shutdown(shutdownCtx)
}

// ConnectTemporalClient dials Temporal with tracing and structured logging.
func ConnectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func databaseHealth(db *gorm.DB) func(ctx context.Context) error {
	if db == nil {
		return nil
	}
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
