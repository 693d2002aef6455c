package metadata

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/artie-labs/bulkload/lib/db"
	"github.com/artie-labs/bulkload/lib/importerr"
	"github.com/artie-labs/bulkload/lib/sql"
	"github.com/artie-labs/bulkload/lib/typing"
	"github.com/artie-labs/bulkload/lib/typing/columns"
)

type TableInfo struct {
	Name           string
	ApproxRowCount int64
	ApproxByteSize int64
}

// Provider introspects tables through the queries of a dialect. The queries alias their output to
// `table_name, row_count, byte_size`, `column_name, column_type, is_nullable, column_default, is_identity`
// and `column_name, key_sequence` respectively.
type Provider struct {
	store   db.Store
	dialect sql.Dialect
}

func NewProvider(store db.Store, dialect sql.Dialect) Provider {
	return Provider{store: store, dialect: dialect}
}

func tableNotFound(schema, table string) error {
	return importerr.New(importerr.TableNotFound, "table %q not found in schema %q", table, schema)
}

func (p Provider) DescribeTable(ctx context.Context, schema, table string) (TableInfo, error) {
	query, args := p.dialect.BuildDescribeTableQuery(schema, table)
	rows, err := db.FetchAll(ctx, p.store, query, args...)
	if err != nil {
		return TableInfo{}, fmt.Errorf("failed to describe table: %w", err)
	}

	if len(rows) == 0 {
		return TableInfo{}, tableNotFound(schema, table)
	}

	rowCount, err := typing.ToInt64(rows[0]["row_count"])
	if err != nil {
		return TableInfo{}, fmt.Errorf("failed to parse row count: %w", err)
	}

	byteSize, err := typing.ToInt64(rows[0]["byte_size"])
	if err != nil {
		return TableInfo{}, fmt.Errorf("failed to parse byte size: %w", err)
	}

	return TableInfo{
		Name:           typing.ToString(rows[0]["table_name"]),
		ApproxRowCount: rowCount,
		ApproxByteSize: byteSize,
	}, nil
}

func (p Provider) GetPrimaryKeyColumns(ctx context.Context, schema, table string) ([]string, error) {
	positions, err := p.primaryKeyPositions(ctx, schema, table)
	if err != nil {
		return nil, err
	}

	keys := make([]string, len(positions))
	for i, position := range positions {
		keys[i] = position.name
	}
	return keys, nil
}

type keyPosition struct {
	name     string
	sequence int
}

func (p Provider) primaryKeyPositions(ctx context.Context, schema, table string) ([]keyPosition, error) {
	query, args := p.dialect.BuildPrimaryKeyQuery(schema, table)
	rows, err := db.FetchAll(ctx, p.store, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve primary keys: %w", err)
	}

	positions := make([]keyPosition, 0, len(rows))
	for _, row := range rows {
		sequence, err := typing.ToInt64(row["key_sequence"])
		if err != nil {
			return nil, fmt.Errorf("failed to parse key sequence: %w", err)
		}

		positions = append(positions, keyPosition{name: typing.ToString(row["column_name"]), sequence: int(sequence)})
	}
	return positions, nil
}

// ListColumns returns the columns in table order with their primary key position filled in.
func (p Provider) ListColumns(ctx context.Context, schema, table string) (columns.Columns, error) {
	query, args := p.dialect.BuildColumnsQuery(schema, table)
	rows, err := db.FetchAll(ctx, p.store, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list columns: %w", err)
	}

	if len(rows) == 0 {
		return nil, tableNotFound(schema, table)
	}

	keys, err := p.primaryKeyPositions(ctx, schema, table)
	if err != nil {
		return nil, err
	}

	var cols columns.Columns
	for _, row := range rows {
		col := columns.Column{
			Name:     typing.ToString(row["column_name"]),
			RawType:  typing.ToString(row["column_type"]),
			Nullable: typing.ToBool(row["is_nullable"]),
			Identity: typing.ToBool(row["is_identity"]),
		}

		if col.Type, err = typing.ParseDataType(col.RawType); err != nil {
			if !typing.IsUnsupportedDataTypeError(err) {
				return nil, fmt.Errorf("failed to parse type for column %q: %w", col.Name, err)
			}

			// Only names matter for the merge, exotic types are kept opaque.
			slog.Warn("Unsupported column type", slog.String("column", col.Name), slog.String("type", col.RawType))
			col.Type = typing.DataType{Base: strings.ToLower(col.RawType), Category: typing.CategoryOther}
		}

		if row["column_default"] != nil {
			col.DefaultValue = typing.ToPtr(typing.ToString(row["column_default"]))
		}

		for _, key := range keys {
			if strings.EqualFold(key.name, col.Name) {
				col.PrimaryKey = true
				col.PrimaryKeyPosition = key.sequence
			}
		}

		cols = append(cols, col)
	}

	return cols, nil
}
