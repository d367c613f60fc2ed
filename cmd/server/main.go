package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	api "property-rental-backend/internal/api/grpc"
	httpapi "property-rental-backend/internal/api/http"
	"property-rental-backend/internal/bootstrap"
	"property-rental-backend/internal/config"
	"property-rental-backend/internal/jobs"
	"property-rental-backend/internal/logger"
	"property-rental-backend/internal/scheduler"
	"property-rental-backend/internal/security"
	"property-rental-backend/internal/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// A .env file is optional; it only feeds the environment overrides.
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Property Rental Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "grpc_address", cfg.GetGRPCAddress(), "http_address", cfg.GetHTTPAddress())

	ctx := context.Background()

	// Initialize storage
	store, closeStore, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		logger.Error("Failed to open store", "error", err)
		log.Fatalf("Failed to open store: %v", err)
	}
	defer closeStore()
	repos := store.Repos()

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.AccessTokenTTL())

	// Initialize Services
	opts := bootstrap.WorkflowOptions(cfg)
	notifier := service.NewNotifier(repos.Notifications)
	svcs := api.Services{
		Requests:      service.NewRentalRequestService(repos, store, notifier, opts),
		Rentals:       service.NewRentalService(repos, store, notifier, opts),
		Notifications: service.NewNotificationService(repos.Notifications),
	}

	// Set up gRPC server
	lis, err := net.Listen("tcp", cfg.GetGRPCAddress())
	if err != nil {
		logger.Error("Failed to listen", "error", err, "address", cfg.GetGRPCAddress())
		log.Fatalf("Failed to listen: %v", err)
	}
	grpcServer, healthServer := api.NewServer(tokenManager, svcs)

	go func() {
		logger.Info("gRPC server listening", "address", cfg.GetGRPCAddress())
		if err := grpcServer.Serve(lis); err != nil {
			logger.Error("Failed to serve gRPC", "error", err)
		}
	}()

	// Set up REST server
	var httpServer *http.Server
	if addr := cfg.GetHTTPAddress(); addr != "" {
		handler := httpapi.NewHandler(svcs.Requests, svcs.Rentals, svcs.Notifications)
		httpServer = &http.Server{
			Addr:              addr,
			Handler:           httpapi.NewRouter(handler, tokenManager),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			logger.Info("HTTP server listening", "address", addr)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("HTTP server error", "error", err)
			}
		}()
	}

	// Background jobs run in-process when enabled
	var cronScheduler *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		email, push, err := bootstrap.DeliveryServices(ctx, cfg)
		if err != nil {
			logger.Error("Failed to initialize delivery channels", "error", err)
			log.Fatalf("Failed to initialize delivery channels: %v", err)
		}
		runner := jobs.NewJobRunner(repos, &jobs.Services{Email: email, Push: push, Notifier: notifier}, cfg)
		cronScheduler, err = scheduler.NewScheduler(runner)
		if err != nil {
			logger.Error("Failed to initialize scheduler", "error", err)
			log.Fatalf("Failed to initialize scheduler: %v", err)
		}
		cronScheduler.Start()
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan

	// Graceful shutdown
	logger.Info("Shutting down...", "signal", sig.String())
	healthServer.Shutdown()
	if cronScheduler != nil {
		cronScheduler.Stop()
	}
	if httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown failed", "error", err)
		}
		cancel()
	}
	grpcServer.GracefulStop()
	logger.Info("Server stopped. Goodbye!")
}
