package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"napo-service/internal/domain/repository"
	"napo-service/internal/infrastructure/config"
	"napo-service/internal/infrastructure/persistence"
	"napo-service/internal/interface/api"
	gormRepo "napo-service/internal/interface/repository"
	"napo-service/internal/usecase"
	"napo-service/pkg/logger"
	"napo-service/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.NewLogger("info").Fatal("Failed to load config", "error", err)
	}

	// Create logger
	level := cfg.LogLevel
	if cfg.Debug {
		level = "debug"
	}
	log := logger.NewLogger(level)
	defer func() { _ = log.Sync() }()
	log.Info("Starting NAPO Service", "env", cfg.Env)

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up the relational database
	log.Info("Connecting to database", "driver", cfg.DBDriver)
	db, err := persistence.Open(ctx, persistence.OptionsFromConfig(cfg), log)
	if err != nil {
		log.Fatal("Failed to connect to database", "error", err)
	}
	defer func() { _ = db.Close() }()

	healthChecks := map[string]api.HealthCheck{"database": db.Ping}

	// Set up the audit trail, MongoDB when configured
	var audit repository.AuditRepository = gormRepo.NewNoopAuditRepository()
	if cfg.MongoEnabled() {
		log.Info("Connecting to MongoDB")
		mongoClient, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.DBPoolTimeout)
		if err != nil {
			log.Fatal("Failed to connect to MongoDB", "error", err)
		}
		defer func() {
			if err := mongoClient.Disconnect(context.Background()); err != nil {
				log.Error("MongoDB disconnect error", "error", err)
			}
		}()
		audit = gormRepo.NewMongoAuditRepository(ctx, persistence.GetDatabase(mongoClient, cfg.MongoDB), log)
		healthChecks["mongodb"] = audit.Ping
	}

	// Set up the distance cache, Redis when configured
	var cache repository.DistanceCache
	if cfg.RedisEnabled() {
		log.Info("Connecting to Redis", "addr", cfg.RedisAddr)
		redisClient, err := persistence.NewRedisClient(ctx, cfg.RedisAddr, cfg.DBPoolTimeout)
		if err != nil {
			log.Fatal("Failed to connect to Redis", "error", err)
		}
		defer func() { _ = redisClient.Close() }()
		cache = gormRepo.NewRedisDistanceCache(redisClient, cfg.DistanceCacheTTL)
		healthChecks["redis"] = cache.Ping
	}

	// Set up metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewMetrics(cfg.MetricsNamespace, registry)

	// Set up repositories and services
	repos := gormRepo.NewRepositories(db.DB())
	services := api.Services{
		Zones:   usecase.NewZoneService(repos.Zones, audit, m, log),
		Network: usecase.NewNetworkService(repos.Nodes, repos.TimeWindows, repos.Distances, cache, audit, m, log),
		Fleet:   usecase.NewFleetService(repos.Zones, repos.Transporters, repos.Vehicles, repos.Routes, repos.Assignments, audit, m, log),
		Pricing: usecase.NewPricingService(repos.Pricing, repos.StartFees, audit, m, log),
		Audit:   usecase.NewAuditService(audit, log),
	}

	router := api.NewRouter(api.Options{
		Env:            cfg.Env,
		AllowedOrigins: cfg.AllowedOrigins(),
		Logger:         log,
		Metrics:        m,
		Gatherer:       registry,
		HealthChecks:   healthChecks,
	}, services)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig.String())

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	cancel()
	log.Info("NAPO Service stopped")
}
