package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/joho/godotenv"

	"property-rental-backend/internal/bootstrap"
	"property-rental-backend/internal/config"
	"property-rental-backend/internal/jobs"
	"property-rental-backend/internal/logger"
	"property-rental-backend/internal/scheduler"
	"property-rental-backend/internal/service"
)

const allJobs = "all"

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'DeliverNotifications', 'RemindPendingRequests', 'all')")
	flag.Parse()

	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Property Rental Cronjob Runner...", "log_level", cfg.Log.Level)

	ctx := context.Background()

	// Initialize storage
	store, closeStore, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		logger.Error("Failed to open store", "error", err)
		log.Fatalf("Failed to open store: %v", err)
	}
	defer closeStore()
	repos := store.Repos()

	// Initialize Services
	email, push, err := bootstrap.DeliveryServices(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize delivery channels", "error", err)
		log.Fatalf("Failed to initialize delivery channels: %v", err)
	}
	jobServices := &jobs.Services{
		Email:    email,
		Push:     push,
		Notifier: service.NewNotifier(repos.Notifications),
	}

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(repos, jobServices, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		if !runJobOnce(jobRunner, *runOnce) {
			os.Exit(1)
		}
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler, err := scheduler.NewScheduler(jobRunner)
	if err != nil {
		log.Fatalf("Failed to initialize scheduler: %v", err)
	}

	// Start scheduler
	cronScheduler.Start()
	for name := range jobRunner.Jobs() {
		if next, ok := cronScheduler.NextRun(name); ok {
			logger.Info("Next run", "job", name, "at", next)
		}
	}
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once. It reports false for an unknown name.
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) bool {
	if jobName == allJobs {
		jobRunner.RunAll()
		return true
	}
	available := jobRunner.Jobs()
	if run, ok := available[jobName]; ok {
		run()
		return true
	}

	logger.Error("Unknown job name", "job", jobName)
	names := make([]string, 0, len(available))
	for name := range available {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Printf("Available jobs:\n")
	for _, name := range names {
		fmt.Printf("  - %s\n", name)
	}
	fmt.Printf("  - %s\n", allJobs)
	return false
}
