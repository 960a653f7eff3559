package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Apurer/storefront-console/internal/app/api"
	customerspostgres "github.com/Apurer/storefront-console/internal/domains/customers/adapters/persistence/postgres"
	orderspostgres "github.com/Apurer/storefront-console/internal/domains/orders/adapters/persistence/postgres"
	platformobservability "github.com/Apurer/storefront-console/internal/platform/observability"
	platformpostgres "github.com/Apurer/storefront-console/internal/platform/postgres"
)

// The purger deletes expired customer sessions and order edit keys every SESSION_PURGE_INTERVAL_MINUTES.
// With -once it runs a single pass, for cron style scheduling.
func main() {
	once := flag.Bool("once", false, "run a single purge pass and exit")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, "storefront-console-session-purger", platformobservability.WithLogLevel(cfg.LogLevel))
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdown(shutdownCtx)
	}()
	logger := instruments.Logger

	db, cleanup := platformpostgres.ConnectWithLogger(ctx, cfg.PostgresDSN, platformpostgres.Options{LogLevel: cfg.DBLogLevel}, logger)
	defer cleanup()
	if db == nil {
		logger.Error("POSTGRES_DSN not set or connection failed; cannot purge sessions")
		os.Exit(1)
	}
	if err := customerspostgres.MigrateSessions(db); err != nil {
		logger.Error("failed to migrate session table", slog.String("error", err.Error()))
		os.Exit(1)
	}

	services, err := api.NewServices(cfg, db, instruments)
	if err != nil {
		logger.Error("failed to build services", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := orderspostgres.MigrateIdempotency(db); err != nil {
		logger.Error("failed to migrate idempotency key table", slog.String("error", err.Error()))
		os.Exit(1)
	}
	purger := newPurger(services.Customers, cfg.SessionPurgeInterval, logger).
		withIdempotencyKeys(orderspostgres.NewIdempotencyStore(db))
	if *once {
		if err := purger.purge(ctx); err != nil {
			os.Exit(1)
		}
		return
	}
	purger.run(ctx)
}
