package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coachpulse/checkin-ingest/internal/checkin"
	"github.com/coachpulse/checkin-ingest/internal/config"
	"github.com/coachpulse/checkin-ingest/internal/database"
	"github.com/coachpulse/checkin-ingest/internal/dedup"
	"github.com/coachpulse/checkin-ingest/internal/embedding"
	"github.com/coachpulse/checkin-ingest/internal/logging"
	"github.com/coachpulse/checkin-ingest/internal/monitoring"
	"github.com/coachpulse/checkin-ingest/internal/resolver"
	"github.com/coachpulse/checkin-ingest/internal/server"
	"github.com/coachpulse/checkin-ingest/internal/settings"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration first
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logging
	logging.Setup(&cfg.Logging, cfg.Server.Env)

	log.Info().
		Str("env", cfg.Server.Env).
		Msg("Starting check-in ingestion server")

	// Initialize database connection
	db, err := database.New(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// Initialize Prometheus metrics
	monitoring.Init()
	log.Info().Msg("Prometheus metrics initialized")

	// Start metrics server if enabled
	if cfg.Monitoring.PrometheusEnabled {
		go startMetricsServer(cfg.Monitoring.PrometheusPort)
	}

	// Redelivery dedup is optional; without Redis ingestion stays
	// at-least-once.
	guard, err := dedup.New(cfg.Redis.URL, logging.NewLogger("dedup"))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to configure dedup store")
	}
	if guard != nil {
		defer guard.Close()
		log.Info().Msg("Webhook redelivery dedup enabled")
	}

	var embedder server.Embedder
	if cfg.Embedding.APIKey != "" {
		embedder = embedding.NewClient(&cfg.Embedding, logging.NewLogger("embedding"))
	} else {
		log.Warn().Msg("No embedding API key configured, check-ins will be stored without vectors")
	}

	srv := server.NewAPIServer(cfg,
		settings.NewService(db.Pool),
		resolver.NewService(db.Pool, logging.NewLogger("resolver")),
		checkin.NewService(db.Pool),
		embedder,
		dedupOrNil(guard),
		db,
	)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      srv.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Int("port", cfg.Server.Port).
			Msg("Webhook server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().
		Str("signal", sig.String()).
		Msg("Shutdown signal received, gracefully shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited gracefully")
}

// dedupOrNil avoids handing the server a non-nil interface wrapping a nil
// *Guard, which would defeat its enabled check.
func dedupOrNil(g *dedup.Guard) server.DedupGuard {
	if g == nil {
		return nil
	}
	return g
}

func startMetricsServer(port int) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", monitoring.Handler())

	metricsServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info().
		Int("port", port).
		Msg("Prometheus metrics server listening")

	if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error().Err(err).Msg("Metrics server error")
	}
}
