package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/threadline-app/threadline-backend/api/controllers"
	"github.com/threadline-app/threadline-backend/api/routes"
	"github.com/threadline-app/threadline-backend/internal/catalog"
	checkoutsvc "github.com/threadline-app/threadline-backend/internal/checkout"
	"github.com/threadline-app/threadline-backend/internal/shopper"
	"github.com/threadline-app/threadline-backend/pkg/config"
	"github.com/threadline-app/threadline-backend/pkg/db"
	"github.com/threadline-app/threadline-backend/pkg/kv"
	"github.com/threadline-app/threadline-backend/pkg/logger"
	"github.com/threadline-app/threadline-backend/pkg/metrics"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}

	if cfg.Catalog.AutoMigrate {
		if err := catalog.Migrate(dbClient.DB()); err != nil {
			logg.Error(ctx, "failed to migrate catalog", err)
			os.Exit(1)
		}
	}
	if cfg.Catalog.SeedDemo {
		if err := catalog.SeedDemo(ctx, dbClient); err != nil {
			logg.Error(ctx, "failed to seed demo catalog", err)
			os.Exit(1)
		}
	}

	stateStore, statePinger, closeState, err := newStateStore(ctx, cfg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap state store", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	commerceMetrics := metrics.NewCommerceMetrics(registry)

	persister := shopper.NewPersister(stateStore, logg, commerceMetrics, cfg.Persist.QueueSize)
	go persister.Run(ctx)

	placement, err := checkoutsvc.NewService(checkoutsvc.ServiceParams{
		ShippingFlatRateCents: cfg.Checkout.ShippingFlatRateCents,
	})
	if err != nil {
		logg.Error(ctx, "failed to create placement service", err)
		os.Exit(1)
	}

	manager, err := shopper.NewManager(shopper.ManagerParams{
		KV:        stateStore,
		Persister: persister,
		Placement: placement,
		Logger:    logg,
		Metrics:   commerceMetrics,
	})
	if err != nil {
		logg.Error(ctx, "failed to create shopper manager", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalog.ServiceParams{
		Repo: catalog.NewRepository(dbClient.DB()),
	})
	if err != nil {
		logg.Error(ctx, "failed to create catalog service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:      cfg,
			Logger:      logg,
			Manager:     manager,
			Catalog:     catalogService,
			Registry:    registry,
			DBPinger:    dbClient,
			StatePinger: statePinger,
		}),
	}

	lctx := logg.WithFields(ctx, map[string]any{
		"env":     cfg.App.Env,
		"addr":    addr,
		"backend": cfg.Persist.Backend,
	})
	logg.Info(lctx, "starting api server")

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(lctx, "api server stopped unexpectedly", err)
		}
	case <-ctx.Done():
		logg.Info(lctx, "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error(lctx, "server shutdown failed", err)
	}

	// flush the last queued snapshots before closing the stores
	persister.Drain()

	var closeErr error
	closeErr = multierr.Append(closeErr, dbClient.Close())
	if closeState != nil {
		closeErr = multierr.Append(closeErr, closeState())
	}
	if closeErr != nil {
		logg.Error(lctx, "error closing dependencies", closeErr)
		os.Exit(1)
	}
}

// newStateStore builds the snapshot backend selected by config. The returned
// pinger and closer are nil when the backend has no probe or nothing to
// release.
func newStateStore(ctx context.Context, cfg *config.Config) (kv.Store, controllers.Pinger, func() error, error) {
	switch cfg.Persist.Backend {
	case config.PersistBackendRedis:
		store, err := kv.NewRedisStore(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, nil, err
		}
		return store, store, store.Close, nil
	case config.PersistBackendFile:
		store, err := kv.NewFileStore(cfg.Persist.FileDir)
		if err != nil {
			return nil, nil, nil, err
		}
		return store, nil, nil, nil
	default:
		return kv.NewMemoryStore(), nil, nil, nil
	}
}
