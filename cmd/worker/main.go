package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/storefront-console/internal/app/api"
	"github.com/Apurer/storefront-console/internal/platform/migrations"
	platformobservability "github.com/Apurer/storefront-console/internal/platform/observability"
	platformpostgres "github.com/Apurer/storefront-console/internal/platform/postgres"
	catalogactivities "github.com/Apurer/storefront-console/internal/platform/temporal/activities/catalog"
	catalogworkflows "github.com/Apurer/storefront-console/internal/platform/temporal/workflows/catalog"
)

func main() {
	ctx := context.Background()
	const serviceName = "storefront-console-worker"
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName, platformobservability.WithLogLevel(cfg.LogLevel))
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
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
	if db == nil {
		logger.Warn("worker running on memory repositories, products it stores are invisible to the API")
	}
	if err := migrations.Run(db); err != nil {
		logger.Error("failed to migrate schema", slog.String("error", err.Error()))
		os.Exit(1)
	}
	services, err := api.NewServices(cfg, db, instruments)
	if err != nil {
		logger.Error("failed to build services", slog.String("error", err.Error()))
		os.Exit(1)
	}
	activities := catalogactivities.NewActivities(services.Catalog)

	temporalClient, err := api.ConnectTemporalClient(cfg, instruments)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, catalogworkflows.ProductCreationTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(catalogworkflows.ProductCreationWorkflow, workflow.RegisterOptions{Name: catalogworkflows.ProductCreationWorkflowName})
	w.RegisterActivityWithOptions(activities.ReserveProduct, activity.RegisterOptions{Name: catalogactivities.ReserveProductActivityName})
	w.RegisterActivityWithOptions(activities.UploadProductImage, activity.RegisterOptions{Name: catalogactivities.UploadProductImageActivityName})
	w.RegisterActivityWithOptions(activities.PersistProduct, activity.RegisterOptions{Name: catalogactivities.PersistProductActivityName})

	logger.Info("worker listening",
		slog.String("taskQueue", catalogworkflows.ProductCreationTaskQueue),
		slog.String("namespace", cfg.TemporalNamespace),
	)
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}
