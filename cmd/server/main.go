package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"ringforge/internal/handlers"
	"ringforge/internal/infrastructure/config"
	"ringforge/internal/infrastructure/database"
	"ringforge/internal/infrastructure/metrics"
	"ringforge/internal/quota"
	"ringforge/internal/repositories/postgres"
	"ringforge/internal/services"
	"ringforge/pkg/cache"
	"ringforge/pkg/cache/memorycache"
	"ringforge/pkg/cache/rediscache"
)

const defaultEnv = "dev"

func main() {
	// Get environment from ENV variable or use default
	env := os.Getenv("ENV")
	if env == "" {
		env = defaultEnv
	}

	// Initialize configuration
	if err := config.InitConfig(env); err != nil {
		log.Fatalf("Failed to initialize config: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	pg, err := database.NewPostgres(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pg.Close()

	log.Printf("Connected to database: %s@%s:%d/%s",
		cfg.Database.User,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.Database)

	// Initialize count cache
	counts, err := newCountCache(&cfg.Cache)
	if err != nil {
		log.Fatalf("Failed to initialize count cache: %v", err)
	}
	if counts != nil {
		defer counts.Close()
	}

	// Initialize repository and service
	ringRepo := postgres.NewPostgresRingRepository(pg.DB)
	ringService := services.NewRingService(ringRepo, quota.DefaultPolicy(), counts)

	// Initialize metrics
	collector := metrics.NewCollector()
	if counts != nil {
		collector.SetCountCache(counts)
	}
	exporter := metrics.NewPrometheusExporter(collector)
	ringService.AddQuotaObserver(collector)
	ringService.AddQuotaObserver(exporter)

	// Build the HTTP router
	router := chi.NewRouter()
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	router.Use(metrics.Middleware(collector, exporter))
	router.Route("/api", handlers.NewRingHandler(ringService).Routes)
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := pg.HealthCheck(); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	// Metrics server on its own port
	metricsServer := startMetricsServer(cfg.Server.MetricsPort)
	stopRefresher := exporter.StartRefresher(10 * time.Second)

	log.Printf("HTTP server listening on %s", server.Addr)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	// Wait for shutdown signal or server error
	select {
	case err := <-serverErrors:
		log.Fatalf("Server error: %v", err)
	case sig := <-sigChan:
		log.Printf("Received signal: %v", sig)
		log.Println("Initiating graceful shutdown...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("Shutdown timeout exceeded, forcing close: %v", err)
			_ = server.Close()
		}
		stopRefresher()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			_ = metricsServer.Close()
		}

		// Close database connection
		if err := pg.Close(); err != nil {
			log.Printf("Error closing database connection: %v", err)
		}

		log.Println("Shutdown complete")
	}
}

// newCountCache builds the configured count cache backend, or nil when
// caching is disabled.
func newCountCache(cfg *config.CacheConfig) (cache.CountCache, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	ttl := time.Duration(cfg.TTLMinutes) * time.Minute

	switch cfg.Backend {
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
			DB:   cfg.RedisDB,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			return nil, fmt.Errorf("failed to ping redis at %s: %w", cfg.RedisAddr, err)
		}
		return rediscache.New(rdb, rediscache.WithTTL(ttl)), nil
	case "memory":
		return memorycache.New(&memorycache.Config{
			MaxEntries:    cfg.MaxEntries,
			TTL:           ttl,
			EnableMetrics: cfg.Metrics,
		}), nil
	default:
		return nil, fmt.Errorf("unknown cache backend: %q", cfg.Backend)
	}
}

// startMetricsServer serves Prometheus metrics on its own port.
func startMetricsServer(port int) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}

	go func() {
		log.Printf("Metrics server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("Metrics server error: %v", err)
		}
	}()

	return server
}
