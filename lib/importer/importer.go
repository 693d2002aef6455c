package importer

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/artie-labs/bulkload/lib/blob"
	"github.com/artie-labs/bulkload/lib/config/constants"
	"github.com/artie-labs/bulkload/lib/destination"
	"github.com/artie-labs/bulkload/lib/importerr"
	"github.com/artie-labs/bulkload/lib/metadata"
	"github.com/artie-labs/bulkload/lib/telemetry/metrics/base"
	"github.com/artie-labs/bulkload/lib/typing/columns"
)

// Engine imports into tables of a single destination. It holds no per-import state and can be reused,
// concurrent imports need their own destination since each holds one connection.
type Engine struct {
	dest     destination.Destination
	metadata metadata.Provider
	blobs    blob.Router
	metrics  base.Client

	now                 func() time.Time
	newStagingTableName func(table string) string
}

func NewEngine(dest destination.Destination, blobs blob.Router, metricsClient base.Client) *Engine {
	return &Engine{
		dest:     dest,
		metadata: metadata.NewProvider(dest, dest.Dialect()),
		blobs:    blobs,
		metrics:  metricsClient,
		now:      time.Now,
		newStagingTableName: func(table string) string {
			return stagingTableName(table, time.Now())
		},
	}
}

func (e *Engine) tags(spec Spec) map[string]string {
	return map[string]string{
		"table":       spec.String(),
		"destination": string(e.dest.Label()),
	}
}

func (e *Engine) recordTimer(spec Spec) func(Timer) {
	return func(timer Timer) {
		tags := e.tags(spec)
		tags["phase"] = timer.Name
		e.metrics.Timing("import.phase", timer.Duration, tags)
	}
}

// mergeKeys returns the target's primary key when all of its columns are imported, otherwise rows cannot be matched.
func mergeKeys(spec Spec, tableCols, importCols columns.Columns) columns.Columns {
	primaryKeys := tableCols.PrimaryKeys()
	if len(primaryKeys) == 0 {
		return nil
	}

	keys, missing := importCols.Select(primaryKeys.Names())
	if len(missing) > 0 {
		slog.Warn("Primary key columns are not imported, rows will not be deduped or matched",
			slog.String("table", spec.String()),
			slog.Any("missing", missing),
		)
		return nil
	}
	return keys
}

// Import stages, dedupes and merges the sources of spec into its target table. The staging table is always dropped.
func (e *Engine) Import(ctx context.Context, spec Spec) (Result, error) {
	if err := spec.validate(); err != nil {
		return Result{}, err
	}

	dialect := e.dest.Dialect()
	targetID := e.dest.IdentifierFor(spec.Schema, spec.Table)
	tableCols, err := e.metadata.ListColumns(ctx, targetID.Schema(), targetID.Table())
	if err != nil {
		return Result{}, err
	}

	importCols, missing := tableCols.Select(spec.Columns)
	if len(missing) > 0 {
		return Result{}, importerr.New(importerr.ColumnMismatch, "columns [%s] not found in table %s", strings.Join(missing, ", "), spec)
	}

	var timestampColumn string
	if spec.UseTimestampColumn && !slices.ContainsFunc(spec.Columns, func(col string) bool { return strings.EqualFold(col, constants.TimestampColumn) }) {
		if existing, ok := tableCols.Get(constants.TimestampColumn); ok {
			timestampColumn = existing.Name
		} else {
			slog.Info("Adding timestamp column", slog.String("table", spec.String()), slog.String("column", constants.TimestampColumn))
			if _, err = e.dest.ExecContext(ctx, dialect.BuildAddColumnQuery(targetID, constants.TimestampColumn, dialect.TimestampDataType())); err != nil {
				return Result{}, fmt.Errorf("failed to add timestamp column: %w", err)
			}
			timestampColumn = constants.TimestampColumn
		}
	}

	stagingID := targetID.WithTable(e.newStagingTableName(targetID.Table()))
	if err = createStagingTable(ctx, e.dest, stagingID, importCols.Names()); err != nil {
		return Result{}, err
	}
	defer dropTable(ctx, e.dest, stagingID)

	result := newResultBuilder(importCols.Names(), e.recordTimer(spec))
	r := &run{
		dest:      e.dest,
		blobs:     e.blobs,
		spec:      spec,
		stagingID: stagingID,
		columns:   importCols,
		result:    result,
	}

	if err = result.time(phaseLoad, func() error { return r.loadSources(ctx) }); err != nil {
		return Result{}, err
	}

	m := merger{
		dest:               e.dest,
		targetID:           targetID,
		stagingID:          stagingID,
		columns:            importCols,
		primaryKeys:        mergeKeys(spec, tableCols, importCols),
		convertEmptyToNull: spec.ConvertEmptyToNull,
		timestampColumn:    timestampColumn,
		timestamp:          e.now().UTC().Format(dialect.TimestampLiteralFormat()),
	}

	if spec.Incremental {
		err = m.upsert(ctx, result)
	} else {
		err = m.replace(ctx, result)
	}
	if err != nil {
		return Result{}, err
	}

	output := result.build()
	e.metrics.Count("import.rows", output.ImportedRowsCount, e.tags(spec))
	slog.Info("Import finished",
		slog.String("table", spec.String()),
		slog.Bool("incremental", spec.Incremental),
		slog.Int64("rows", output.ImportedRowsCount),
		slog.Int("filesWithWarnings", len(output.Warnings)),
	)
	return output, nil
}
