package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/artie-labs/csvload/lib/retry"
)

const (
	maxAttempts  = 3
	retryBaseMs  = 500
	retryMaxMs   = 3500
	maxOpenConns = 1
)

type Store interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	Close() error
}

type storeWrapper struct {
	*sql.DB
	retryCfg retry.Config
}

func (s *storeWrapper) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	slog.Debug("Executing...", slog.String("query", query))
	return retry.WithRetries(ctx, s.retryCfg, func(_ int, _ error) (sql.Result, error) {
		return s.DB.ExecContext(ctx, query, args...)
	})
}

func (s *storeWrapper) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	slog.Debug("Querying...", slog.String("query", query))
	return s.DB.QueryContext(ctx, query, args...)
}

// NewStore wraps an already opened [*sql.DB].
func NewStore(db *sql.DB) Store {
	return &storeWrapper{
		DB: db,
		retryCfg: retry.NewConfig(retry.NewConfigArgs{
			BaseMs:         retryBaseMs,
			MaxMs:          retryMaxMs,
			MaxAttempts:    maxAttempts,
			IsRetryableErr: isRetryableError,
		}),
	}
}

// Open opens and pings a pool that is pinned to a single connection, so that session state such as
// `USE DATABASE` is shared by every statement.
func Open(ctx context.Context, driverName, dsn string) (Store, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to start a SQL client for driver %q: %w", driverName, err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to validate the DB connection for driver %q: %w", driverName, err)
	}

	return NewStore(db), nil
}
