package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"property-rental-backend/internal/logger"
	"property-rental-backend/internal/repository"

	_ "github.com/lib/pq"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx so that every repository can
// run either standalone or inside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db          *sql.DB
	lockTimeout time.Duration
	repository.UserRepository
	repository.PropertyRepository
	repository.RentalRequestRepository
	repository.RentalRepository
	repository.NotificationRepository
}

func NewStore(db *sql.DB) *Store {
	repos := newRepos(db)
	return &Store{
		db:                      db,
		UserRepository:          repos.Users,
		PropertyRepository:      repos.Properties,
		RentalRequestRepository: repos.Requests,
		RentalRepository:        repos.Rentals,
		NotificationRepository:  repos.Notifications,
	}
}

// SetLockTimeout bounds how long a transaction waits for a row lock before
// failing with repository.ErrTimeout. Zero leaves the server default.
func (s *Store) SetLockTimeout(d time.Duration) {
	s.lockTimeout = d
}

// Repos returns the repositories bound to the connection pool.
func (s *Store) Repos() repository.Repos {
	return repository.Repos{
		Users:         s.UserRepository,
		Properties:    s.PropertyRepository,
		Requests:      s.RentalRequestRepository,
		Rentals:       s.RentalRepository,
		Notifications: s.NotificationRepository,
	}
}

func newRepos(q DBTX) repository.Repos {
	return repository.Repos{
		Users:         NewUserRepository(q),
		Properties:    NewPropertyRepository(q),
		Requests:      NewRentalRequestRepository(q),
		Rentals:       NewRentalRepository(q),
		Notifications: NewNotificationRepository(q),
	}
}

func (s *Store) WithinTx(ctx context.Context, fn func(repos repository.Repos) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return translateError(err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				logger.Warn("Failed to roll back transaction", "error", rbErr)
			}
		}
	}()

	if s.lockTimeout > 0 {
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", s.lockTimeout.Milliseconds())
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return translateError(err)
		}
	}

	if err = fn(newRepos(tx)); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return translateError(err)
	}
	return nil
}
