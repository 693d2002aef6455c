package db

import (
	"context"

	"github.com/artie-labs/bulkload/lib/sql"
)

// FetchAll materializes the whole result set, column names are lowercased.
func FetchAll(ctx context.Context, store Store, query string, args ...any) ([]map[string]any, error) {
	rows, err := store.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	return sql.RowsToObjectsLowercase(rows)
}

// FetchStreaming hands rows to fn one at a time, never buffering the result set.
func FetchStreaming(ctx context.Context, store Store, query string, fn func(row map[string]any) error, args ...any) error {
	rows, err := store.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}

	return sql.ForEachRow(rows, true, fn)
}
