package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"searchpattern-service/internal/domain/repository"
	"searchpattern-service/internal/infrastructure/config"
	"searchpattern-service/internal/infrastructure/persistence"
	"searchpattern-service/internal/infrastructure/router"
	"searchpattern-service/internal/interface/httpapi"
	repo "searchpattern-service/internal/interface/repository"
	"searchpattern-service/internal/usecase"
	"searchpattern-service/pkg/logger"
	"searchpattern-service/pkg/metrics"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.NewLogger("info").Fatal("Failed to load config", "error", err)
	}

	// Create logger
	log := logger.NewLogger(cfg.LogLevel)
	defer log.Sync()
	log.Info("Starting Search Pattern Service", "version", cfg.AppVersion)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := metrics.NewMetrics(cfg.MetricsNamespace, prometheus.DefaultRegisterer)

	// Aggregation cache: Redis when configured, otherwise in process
	var cache repository.AggregationCache
	if cfg.RedisAddr != "" {
		log.Info("Connecting to Redis", "addr", cfg.RedisAddr)
		rdb, err := persistence.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Fatal("Failed to connect to Redis", "error", err)
		}
		defer rdb.Close()
		cache = repo.NewRedisAggregationCache(rdb, cfg.CacheTTL)
	} else {
		cache, err = repo.NewMemoryAggregationCache(cfg.CacheSize)
		if err != nil {
			log.Fatal("Failed to create aggregation cache", "error", err)
		}
	}

	// Airport reference data is optional
	var airportRepo repository.AirportRepository
	if cfg.PostgresURI != "" {
		log.Info("Connecting to PostgreSQL")
		db, err := persistence.NewPostgresDB(ctx, cfg.PostgresURI)
		if err != nil {
			log.Fatal("Failed to connect to PostgreSQL", "error", err)
		}
		airportRepo = repo.NewGormAirportRepository(db)
	} else {
		log.Warn("POSTGRES_URI not set, routes are described without airport details")
	}

	sessionRepo := repo.NewMemorySessionRepository(cfg.SessionCapacity, cfg.SessionTTL)

	sessionService := usecase.NewSessionService(
		sessionRepo,
		cache,
		usecase.NewRouteAggregator(log),
		usecase.NewPatternResolver(log),
		usecase.NewRouteDescriber(airportRepo, log),
		m,
		log,
	)

	handler := httpapi.NewHandler(sessionService, cfg.MaxUploadBytes(), log)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router.NewRouter(handler, prometheus.DefaultGatherer, log),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	log.Info("Search Pattern Service stopped")
}
