package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cameronc-hrs/veripost/app/api"
	"github.com/cameronc-hrs/veripost/app/cfg"
	"github.com/cameronc-hrs/veripost/app/copilot"
	"github.com/cameronc-hrs/veripost/app/database"
	"github.com/cameronc-hrs/veripost/app/ingest"
	"github.com/cameronc-hrs/veripost/app/parsing"
	"github.com/cameronc-hrs/veripost/app/storage"
	"github.com/cameronc-hrs/veripost/app/tasks"
)

func main() {
	appConfig, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}
	if appConfig == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appConfig.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting VeriPost server", "version", appConfig.Version)

	// Database connection and migrations
	db, err := database.NewConnection(
		appConfig.DBHost, appConfig.DBPort, appConfig.DBUser,
		appConfig.DBPassword, appConfig.DBName)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "migration_version", version, "dirty", dirty)

	// Byte store
	store, err := storage.NewClient(appConfig.S3Endpoint, appConfig.S3AccessKey,
		appConfig.S3SecretKey, appConfig.S3Bucket, appConfig.S3UseSSL)
	if err != nil {
		slog.Error("Failed to create storage client", "error", err)
		os.Exit(1)
	}

	bucketCtx, cancelBucket := context.WithTimeout(context.Background(), 30*time.Second)
	err = store.EnsureBucket(bucketCtx)
	cancelBucket()
	if err != nil {
		slog.Error("Failed to ensure storage bucket", "error", err)
		os.Exit(1)
	}
	slog.Info("Storage ready", "endpoint", appConfig.S3Endpoint, "bucket", appConfig.S3Bucket)

	// Parser registry, built once and injected
	markers, err := parsing.LoadMarkers(appConfig.PlatformsFile)
	if err != nil {
		slog.Error("Failed to load platform markers", "error", err)
		os.Exit(1)
	}
	registry := parsing.NewDefaultRegistry(markers)
	slog.Info("Parser registry ready", "platforms", registry.Platforms())

	// Repositories and core services
	packageRepo := database.NewPackageRepository(db)
	fileRepo := database.NewFileRepository(db)
	machine := ingest.NewMachine(packageRepo, store)
	pilot := copilot.New(appConfig.AnthropicAPIKey, appConfig.AIModel)

	// Background ingestion workers
	scheduler := tasks.NewScheduler(packageRepo, machine)
	scheduler.Start()
	defer scheduler.Stop()
	slog.Info("Background scheduler started", "workers", appConfig.WorkerCount)

	// HTTP server
	handler := api.NewHandler(packageRepo, fileRepo, store, registry, pilot, scheduler, machine)
	server := api.NewServer(handler)

	httpServer := &http.Server{
		Addr:         ":" + appConfig.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appConfig.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	// Scheduler is stopped via defer
	slog.Info("Shutdown complete")
}
