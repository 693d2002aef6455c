package sql

import (
	"database/sql"
	"fmt"
	"strings"
)

// ForEachRow scans one row at a time into a map keyed by column name and hands it to fn.
// Only the current row is held in memory. The rows are always closed.
func ForEachRow(rows *sql.Rows, lowercase bool, fn func(row map[string]any) error) error {
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return err
	}

	if lowercase {
		for i := range columns {
			columns[i] = strings.ToLower(columns[i])
		}
	}

	row := make([]any, len(columns))
	rowPointers := make([]any, len(columns))
	for i := range row {
		rowPointers[i] = &row[i]
	}

	for rows.Next() {
		if err = rows.Scan(rowPointers...); err != nil {
			return err
		}

		object := make(map[string]any, len(columns))
		for i, column := range columns {
			if bytes, ok := row[i].([]byte); ok {
				// Drivers reuse the scan buffer between rows.
				object[column] = string(bytes)
			} else {
				object[column] = row[i]
			}
		}

		if err = fn(object); err != nil {
			return err
		}
	}

	if err = rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate over rows: %w", err)
	}

	return nil
}

func RowsToObjectsLowercase(rows *sql.Rows) ([]map[string]any, error) {
	var objects []map[string]any
	err := ForEachRow(rows, true, func(row map[string]any) error {
		objects = append(objects, row)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return objects, nil
}
