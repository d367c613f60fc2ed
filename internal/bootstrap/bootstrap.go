// Package bootstrap wires storage and delivery channels from configuration.
// It is shared by the server and cronjob binaries.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"property-rental-backend/internal/config"
	"property-rental-backend/internal/logger"
	"property-rental-backend/internal/repository"
	"property-rental-backend/internal/repository/memory"
	"property-rental-backend/internal/repository/postgres"
	"property-rental-backend/internal/service"
)

// Store is a storage backend: its repositories plus transactions over them.
type Store interface {
	Repos() repository.Repos
	repository.Transactor
}

// OpenStore opens the configured backend. The returned close function
// releases the database pool and is a no-op for the memory store.
func OpenStore(ctx context.Context, cfg *config.Config) (Store, func() error, error) {
	switch cfg.Database.Type {
	case config.DatabaseMemory:
		store := memory.NewStore()
		if cfg.Database.Fixtures != "" {
			if err := store.LoadFixtures(cfg.Database.Fixtures); err != nil {
				return nil, nil, err
			}
			logger.Info("Loaded memory fixtures", "path", cfg.Database.Fixtures)
		}
		logger.Info("Using in-memory store")
		return store, func() error { return nil }, nil

	case config.DatabasePostgres:
		logger.Debug("Connecting to database...", "connection_string",
			fmt.Sprintf("%s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database))
		db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to ping database: %w", err)
		}
		logger.Info("Database connection established", "host", cfg.Database.Host, "database", cfg.Database.Database)

		store := postgres.NewStore(db)
		store.SetLockTimeout(cfg.LockTimeout())
		return store, db.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown database type: %q", cfg.Database.Type)
}

// WorkflowOptions maps the workflow section onto service options.
func WorkflowOptions(cfg *config.Config) service.Options {
	return service.Options{
		OperationTimeout:                  cfg.OperationTimeout(),
		RejectRequestsForRentedProperties: cfg.Workflow.RejectRequestsForRentedProperties,
	}
}

// DeliveryServices builds the email and push channels. Without a SendGrid key
// emails are logged; with Firebase disabled pushes are dropped.
func DeliveryServices(ctx context.Context, cfg *config.Config) (service.EmailService, service.PushService, error) {
	var email service.EmailService
	if cfg.SendGrid.APIKey != "" {
		logger.Info("Email delivery via SendGrid", "from", cfg.SendGrid.FromEmail)
		email = service.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
	} else {
		logger.Info("SendGrid API key not set, emails will be logged only")
		email = service.NewLogEmailService()
	}

	push := service.NewNoopPushService()
	if cfg.Firebase.Enabled {
		p, err := service.NewPushService(ctx, cfg.Firebase.CredentialsFile)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Push delivery via Firebase Cloud Messaging")
		push = p
	}
	return email, push, nil
}
