package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"time"

	"github.com/pressly/goose/v3"

	"property-rental-backend/internal/logger"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Migration is one embedded schema version and, once applied, when it ran.
type Migration struct {
	Version   int64
	Name      string
	AppliedAt *time.Time
}

// NewMigrator returns a goose provider over the embedded migrations. Goose
// records applied versions in goose_db_version.
func NewMigrator(db *sql.DB) (*goose.Provider, error) {
	fsys, err := fs.Sub(embedMigrations, "migrations")
	if err != nil {
		return nil, err
	}
	p, err := goose.NewProvider(goose.DialectPostgres, db, fsys)
	if err != nil {
		return nil, fmt.Errorf("failed to load migrations: %w", err)
	}
	return p, nil
}

// Migrate applies every pending migration, each in its own transaction, and
// returns the ones it applied.
func Migrate(ctx context.Context, db *sql.DB) ([]Migration, error) {
	p, err := NewMigrator(db)
	if err != nil {
		return nil, err
	}
	results, err := p.Up(ctx)
	applied := make([]Migration, 0, len(results))
	for _, r := range results {
		if r.Error != nil {
			continue
		}
		logger.Info("Applied migration", "version", r.Source.Version, "file", path.Base(r.Source.Path), "duration", r.Duration)
		applied = append(applied, Migration{Version: r.Source.Version, Name: path.Base(r.Source.Path)})
	}
	if err != nil {
		return applied, fmt.Errorf("migrate up: %w", err)
	}
	return applied, nil
}

// Rollback reverts the most recently applied migration.
func Rollback(ctx context.Context, db *sql.DB) (*Migration, error) {
	p, err := NewMigrator(db)
	if err != nil {
		return nil, err
	}
	r, err := p.Down(ctx)
	if err != nil {
		return nil, fmt.Errorf("migrate down: %w", err)
	}
	logger.Info("Reverted migration", "version", r.Source.Version, "file", path.Base(r.Source.Path))
	return &Migration{Version: r.Source.Version, Name: path.Base(r.Source.Path)}, nil
}

// MigrationStatus lists every embedded migration in order. AppliedAt is nil
// for those still pending.
func MigrationStatus(ctx context.Context, db *sql.DB) ([]Migration, error) {
	p, err := NewMigrator(db)
	if err != nil {
		return nil, err
	}
	statuses, err := p.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("migration status: %w", err)
	}
	out := make([]Migration, 0, len(statuses))
	for _, s := range statuses {
		m := Migration{Version: s.Source.Version, Name: path.Base(s.Source.Path)}
		if s.State == goose.StateApplied {
			at := s.AppliedAt
			m.AppliedAt = &at
		}
		out = append(out, m)
	}
	return out, nil
}
