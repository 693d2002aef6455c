package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/artie-labs/bulkload/lib/importerr"
	"github.com/artie-labs/bulkload/lib/jitter"
)

const (
	maxAttempts     = 3
	sleepBaseMs     = 500
	sleepIntervalMs = 3_000
)

// Classifier turns a raw driver error into something more meaningful, typically an [*importerr.Error].
type Classifier func(err error) error

type Store interface {
	Exec(query string, args ...any) (sql.Result, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	// ExecContextOnce never retries, for statements that are not safe to run twice such as loads and inserts.
	ExecContextOnce(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	Begin() (*sql.Tx, error)
	ExecContextStatements(ctx context.Context, statements []Statement) ([]Result, error)
	Close() error
}

type storeWrapper struct {
	*sql.DB
	classify Classifier
}

// NewStore wraps an already opened handle. A nil classifier leaves driver errors as they are, other than attaching the query.
func NewStore(db *sql.DB, classifier Classifier) Store {
	return &storeWrapper{DB: db, classify: classifier}
}

func (s *storeWrapper) Exec(query string, args ...any) (sql.Result, error) {
	return s.ExecContext(context.Background(), query, args...)
}

func (s *storeWrapper) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	var result sql.Result
	var err error
	for attempts := 0; attempts < maxAttempts; attempts++ {
		slog.Debug("Executing...", slog.String("query", query))
		result, err = s.DB.ExecContext(ctx, query, args...)
		if err == nil || !retryableError(err) || ctx.Err() != nil {
			break
		}

		sleepDuration := jitter.Jitter(sleepBaseMs, sleepIntervalMs, attempts)
		slog.Warn("Failed to execute the query, retrying...",
			slog.Any("err", err),
			slog.Duration("sleepDuration", sleepDuration),
			slog.Int("attempts", attempts),
		)

		if !sleep(ctx, sleepDuration) {
			break
		}
	}

	return result, s.wrapError(query, err)
}

func (s *storeWrapper) ExecContextOnce(ctx context.Context, query string, args ...any) (sql.Result, error) {
	slog.Debug("Executing...", slog.String("query", query))
	result, err := s.DB.ExecContext(ctx, query, args...)
	return result, s.wrapError(query, err)
}

// sleep returns false if the context is done before the duration elapses.
func sleep(ctx context.Context, duration time.Duration) bool {
	timer := time.NewTimer(duration)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func (s *storeWrapper) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	slog.Debug("Querying...", slog.String("query", query))
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, s.wrapError(query, err)
	}
	return rows, nil
}

func (s *storeWrapper) wrapError(query string, err error) error {
	if err == nil {
		return nil
	}

	if s.classify != nil {
		err = s.classify(err)
	}

	var importErr *importerr.Error
	if errors.As(err, &importErr) {
		if importErr.Query == "" {
			return importErr.WithQuery(query)
		}
		return importErr
	}

	return &QueryError{Query: query, Err: err}
}

// Open creates a store limited to a single connection, session state such as MySQL's SHOW WARNINGS depends on it.
func Open(ctx context.Context, driverName, dsn string, classifier Classifier) (Store, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to start a SQL client for driver %q: %w", driverName, err)
	}

	db.SetMaxOpenConns(1)
	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to validate the DB connection for driver %q: %w", driverName, err)
	}

	return NewStore(db, classifier), nil
}
