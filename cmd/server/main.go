package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	cataloghandler "stocktag/internal/catalog/handler"
	catalogservice "stocktag/internal/catalog/service"
	catalogstore "stocktag/internal/catalog/store"
	httpapi "stocktag/internal/http"
	"stocktag/internal/platform/config"
	"stocktag/internal/platform/httpserver"
	"stocktag/internal/platform/logger"
	platformmetrics "stocktag/internal/platform/metrics"
	platformredis "stocktag/internal/platform/redis"
	trackinghandler "stocktag/internal/tracking/handler"
	trackingmetrics "stocktag/internal/tracking/metrics"
	trackingservice "stocktag/internal/tracking/service"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Catalog store: PostgreSQL when configured, in-memory otherwise.
	var store catalogstore.Store
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error("could not connect to postgres", "error", err.Error())
			os.Exit(1)
		}
		defer pool.Close()
		pg := catalogstore.NewPostgres(pool)
		if err := pg.Migrate(ctx); err != nil {
			log.Error("catalog migration failed", "error", err.Error())
			os.Exit(1)
		}
		store = pg
		log.Info("catalog store: postgres")
	} else {
		store = catalogstore.NewInMemory()
		log.Info("catalog store: in-memory")
	}

	switch client, err := platformredis.New(ctx, cfg.Redis); {
	case err != nil:
		// Degrade rather than refuse to start; the cache is an optimization.
		log.Warn("redis unreachable, catalog cache disabled", "error", err.Error())
	case client != nil:
		defer client.Close()
		store = catalogstore.NewCached(store, client.Client, cfg.Redis.CacheTTL, log)
		log.Info("catalog cache enabled", "ttl", cfg.Redis.CacheTTL.String())
	}

	catalogSvc, err := catalogservice.New(store, catalogservice.WithLogger(log))
	if err != nil {
		log.Error("catalog service init failed", "error", err.Error())
		os.Exit(1)
	}

	trackingMetrics := trackingmetrics.New()
	trackingSvc, err := trackingservice.New(trackingservice.Config{
		BarcodeCompanyPrefix: cfg.Tracking.BarcodeCompanyPrefix,
		RFIDCompanyPrefix:    cfg.Tracking.RFIDCompanyPrefix,
		NFCBaseURL:           cfg.Tracking.NFCBaseURL,
		QRSize:               cfg.Tracking.QRSize,
	},
		trackingservice.WithLogger(log),
		trackingservice.WithMetrics(trackingMetrics),
	)
	if err != nil {
		log.Error("tracking service init failed", "error", err.Error())
		os.Exit(1)
	}

	coordinator, err := trackingservice.NewCoordinator(trackingSvc,
		trackingservice.WithChunkSize(cfg.Tracking.BatchChunkSize),
		trackingservice.WithCoordinatorLogger(log),
		trackingservice.WithCoordinatorMetrics(trackingMetrics),
	)
	if err != nil {
		log.Error("batch coordinator init failed", "error", err.Error())
		os.Exit(1)
	}

	router := httpapi.NewRouter(
		trackinghandler.New(trackingSvc, coordinator, catalogSvc, log),
		cataloghandler.New(catalogSvc, cfg.AdminToken, log),
		platformmetrics.New(),
		log,
	)

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting stocktag", "addr", cfg.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err.Error())
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err.Error())
		os.Exit(1)
	}
}
