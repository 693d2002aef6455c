package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

type Statement struct {
	Query string
	Args  []any
}

func NewStatement(query string, args ...any) Statement {
	return Statement{Query: query, Args: args}
}

// Result is the outcome of one statement along with how long it ran.
type Result struct {
	sql.Result
	Elapsed time.Duration
}

// ExecContextStatements runs a single statement directly, anything more is wrapped in a transaction that is rolled back unless it commits.
// Statements are never retried, they are usually inserts.
func (s *storeWrapper) ExecContextStatements(ctx context.Context, statements []Statement) ([]Result, error) {
	switch len(statements) {
	case 0:
		return nil, fmt.Errorf("statements is empty")
	case 1:
		start := time.Now()
		result, err := s.ExecContextOnce(ctx, statements[0].Query, statements[0].Args...)
		if err != nil {
			return nil, fmt.Errorf("failed to execute statement: %w", err)
		}

		return []Result{{Result: result, Elapsed: time.Since(start)}}, nil
	default:
		tx, err := s.BeginTx(ctx, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to start tx: %w", err)
		}
		var committed bool
		defer func() {
			if !committed {
				if rollbackErr := tx.Rollback(); rollbackErr != nil {
					slog.Warn("Unable to rollback", slog.Any("err", rollbackErr))
				}
			}
		}()

		var results []Result
		for _, statement := range statements {
			slog.Debug("Executing...", slog.String("query", statement.Query))
			start := time.Now()
			result, err := tx.ExecContext(ctx, statement.Query, statement.Args...)
			if err != nil {
				return nil, fmt.Errorf("failed to execute statement: %w", s.wrapError(statement.Query, err))
			}

			results = append(results, Result{Result: result, Elapsed: time.Since(start)})
		}

		if err = tx.Commit(); err != nil {
			return nil, fmt.Errorf("failed to commit statements: %w", s.wrapError("COMMIT", err))
		}
		committed = true
		return results, nil
	}
}
