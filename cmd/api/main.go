package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shopdash/internal/api"
	"shopdash/internal/config"
	"shopdash/internal/dashboard"
	"shopdash/internal/database"
	"shopdash/internal/logger"
	"shopdash/internal/notify"
	"shopdash/internal/services/backend"
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

	// Notifications go to Kafka when brokers are configured, otherwise
	// straight into the history table
	publisher := worker.NewPublisher(cfg, logger)
	defer publisher.Close()

	var sink notify.Sink = publisher
	if !publisher.Enabled() {
		sink = worker.NewHistoryWriter(cfg.ShopDomain, db)
	}

	clients := backend.NewClients(cfg, logger)
	dash := dashboard.New(cfg, dashboard.FromClients(clients), sink, logger)
	defer dash.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go dash.Run(ctx)

	// Initialize API server
	server := api.New(cfg, logger, dash, db)

	go func() {
		logger.Info("Starting API server for %s", cfg.ShopDomain)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Stop(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed: %v", err)
	}
}
