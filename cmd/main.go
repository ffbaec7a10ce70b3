package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"runway/internal/adapters/cfda"
	"runway/internal/adapters/config"
	"runway/internal/adapters/errors/noop"
	"runway/internal/adapters/errors/sentry"
	pgclient "runway/internal/adapters/postgres"
	"runway/internal/adapters/yahoo"
	"runway/internal/api"
	"runway/internal/api/dashboard"
	"runway/internal/api/health"
	"runway/internal/forecast"
	"runway/internal/metrics"
	repo "runway/internal/repository/postgres"
	"runway/internal/services/ingestion"
	"runway/internal/workers"
	calendarworker "runway/internal/workers/calendar"
	marketdataworker "runway/internal/workers/marketdata"
	"runway/pkg/errors"
	"runway/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize logger
	if err := logger.Init(cfg.App.LogLevel, cfg.App.Env); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	defer logger.Sync()

	log := logger.Get()
	log.Infof("Starting %s in %s mode", cfg.App.Name, cfg.App.Env)

	// Initialize error tracker
	errorTracker := initErrorTracker(cfg, log)
	logger.SetErrorTracker(errorTracker)

	// Register Prometheus metrics
	metrics.Init()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to PostgreSQL (waits for the store to come up)
	pg, err := pgclient.Connect(ctx, cfg.Postgres)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer pg.Close()

	if err := repo.Migrate(ctx, pg.DB()); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Repositories and storage
	store := repo.NewStore(pg.DB())
	repos := store.Repos()

	// Domain services
	forecaster := forecast.NewGenerator(cfg.Forecast.HorizonDays, cfg.Forecast.FitTimeout)
	ingestionService := ingestion.NewService(store, forecaster, cfg.MarketData.Companies(), cfg.Ingest.MaxConcurrency)

	// Background workers
	scheduler := initWorkers(cfg, repos, ingestionService)

	// HTTP server
	server := initHTTPServer(cfg, pg, repos, log)

	log.Info("System initialized successfully")

	if err := scheduler.Start(ctx); err != nil {
		log.Fatalf("Failed to start workers: %v", err)
	}

	go func() {
		if err := server.Start(); err != nil {
			log.Errorf("HTTP server error: %v", err)
			cancel()
		}
	}()

	waitForShutdown(ctx, cancel, scheduler, server, errorTracker, log)
}

// initErrorTracker initializes error tracking (Sentry or no-op)
func initErrorTracker(cfg *config.Config, log *logger.Logger) errors.Tracker {
	if !cfg.ErrorTracking.Enabled || cfg.ErrorTracking.SentryDSN == "" {
		log.Info("Error tracking disabled")
		return noop.New()
	}

	tracker, err := sentry.New(cfg.ErrorTracking.SentryDSN, cfg.ErrorTracking.Environment)
	if err != nil {
		log.Warnf("Failed to initialize Sentry: %v", err)
		return noop.New()
	}

	log.Info("Error tracking initialized (Sentry)")
	return tracker
}

// initWorkers builds the worker scheduler with all background workers
func initWorkers(cfg *config.Config, repos repo.Repos, ingestionService *ingestion.Service) *workers.Scheduler {
	scheduler := workers.NewScheduler()

	scraper := cfda.NewScraper(cfg.Calendar)
	scheduler.RegisterWorker(calendarworker.NewScraperWorker(
		scraper,
		repos.Calendar,
		cfg.Workers.CalendarScraperInterval,
		cfg.Workers.CalendarScraperEnabled,
	))

	priceClient := yahoo.NewClient(cfg.MarketData)
	scheduler.RegisterWorker(marketdataworker.NewPriceCollectorWorker(
		priceClient,
		repos.Companies,
		repos.Prices,
		cfg.MarketData.Companies(),
		cfg.MarketData.LookbackYears,
		cfg.Workers.PriceCollectorInterval,
		cfg.Workers.PriceCollectorEnabled,
	))

	scheduler.RegisterWorker(workers.NewIngestionWorker(
		ingestionService,
		cfg.Workers.IngestionInterval,
		cfg.Workers.IngestionEnabled,
	))

	return scheduler
}

// initHTTPServer builds the HTTP server with health, metrics and query routes
func initHTTPServer(cfg *config.Config, pg *pgclient.Client, repos repo.Repos, log *logger.Logger) *api.Server {
	healthHandler := health.New(log, pg.DB(), cfg.App.Name, cfg.Server.Version)
	dashboardHandler := dashboard.New(
		repos.Companies,
		repos.Calendar,
		repos.Prices,
		repos.Impacts,
		repos.Forecasts,
	)

	return api.NewServer(api.ServerConfig{
		Port:        cfg.Server.Port,
		ServiceName: cfg.App.Name,
		Version:     cfg.Server.Version,
	}, healthHandler, dashboardHandler, log)
}

// waitForShutdown waits for shutdown signal and performs graceful shutdown
func waitForShutdown(
	ctx context.Context,
	cancel context.CancelFunc,
	scheduler *workers.Scheduler,
	server *api.Server,
	errorTracker errors.Tracker,
	log *logger.Logger,
) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		log.Info("Shutting down...")
	case <-ctx.Done():
		log.Info("Shutting down due to context cancellation...")
	}

	cancel()

	if err := scheduler.Stop(); err != nil {
		log.Warnf("Worker shutdown error: %v", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warnf("HTTP server shutdown error: %v", err)
	}

	if errorTracker != nil {
		if err := errorTracker.Flush(shutdownCtx); err != nil {
			log.Warnf("Failed to flush error tracker: %v", err)
		}
	}

	log.Info("Shutdown complete")
}
