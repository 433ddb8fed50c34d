package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Zerr0-C00L/ArchiveStreams/internal/api"
	"github.com/Zerr0-C00L/ArchiveStreams/internal/config"
	"github.com/Zerr0-C00L/ArchiveStreams/internal/logging"
	"github.com/Zerr0-C00L/ArchiveStreams/internal/providers"
	"github.com/Zerr0-C00L/ArchiveStreams/internal/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	cfg, err := config.Load(os.Getenv("IA_CONFIG"))
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, logCloser, err := logging.New(cfg.Log, os.Stderr)
	if err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logCloser.Close()
	slog.SetDefault(logger)

	logger.Info("Starting Internet Archive addon",
		"cinemeta", cfg.Upstream.CinemetaURL,
		"archive", cfg.Upstream.ArchiveURL,
		"max_candidates", cfg.Archive.MaxCandidates,
		"concurrency", cfg.Archive.Concurrency,
	)

	httpClient := &http.Client{}
	cinemeta := services.NewCinemetaClient(cfg.Upstream.CinemetaURL, httpClient)
	archive := services.NewArchiveClient(cfg.Upstream.ArchiveURL, httpClient)
	provider := providers.NewArchiveProvider(cinemeta, archive, *cfg, logger.With("component", "provider"))

	handler := api.NewHandler(provider, cfg.Server.RequestTimeout.Duration, logger.With("component", "http"))
	router := api.SetupRoutes(handler)

	// Lookups are bounded by RequestTimeout; leave headroom for writing the response
	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.Server.RequestTimeout.Duration + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server listening", "addr", server.Addr, "manifest", "/manifest.json")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with 30 second timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("Server forced to shutdown", "error", err)
	}

	logger.Info("Server stopped")
}
