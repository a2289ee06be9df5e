package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"shopdash/internal/config"
	"shopdash/internal/database"
	"shopdash/internal/logger"
	"shopdash/internal/worker"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize logger
	logger := logger.New(cfg.LogLevel)

	// Initialize database
	db, err := database.New(cfg.DatabaseURL, cfg.LogLevel == "debug")
	if err != nil {
		logger.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Initialize worker
	w, err := worker.New(cfg, logger, db)
	if err != nil {
		logger.Fatal("Failed to start worker: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	// Start worker
	logger.Info("Starting worker...")
	go func() {
		defer close(done)
		if err := w.Run(ctx); err != nil {
			logger.Error("Worker stopped: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down worker...")
	cancel()
	<-done
	if err := w.Stop(); err != nil {
		logger.Error("Failed to close reader: %v", err)
	}
}
