package importer

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/artie-labs/bulkload/lib/blob"
	"github.com/artie-labs/bulkload/lib/csvfile"
	"github.com/artie-labs/bulkload/lib/destination"
	"github.com/artie-labs/bulkload/lib/importerr"
	"github.com/artie-labs/bulkload/lib/sql"
	"github.com/artie-labs/bulkload/lib/typing/columns"
)

// run is the state of one import while its sources are loaded.
type run struct {
	dest      destination.Destination
	blobs     blob.Router
	spec      Spec
	stagingID sql.TableIdentifier
	// columns are the imported target columns in import order, they are also the staging columns.
	columns columns.Columns
	result  *resultBuilder
}

func (r *run) loadSources(ctx context.Context) error {
	for _, source := range r.spec.Sources {
		if err := source.load(ctx, r); err != nil {
			return fmt.Errorf("failed to load %s: %w", source, err)
		}
	}
	return nil
}

// fieldsFor maps every field of a row to the staging column it is loaded into, fields that are not imported map to "".
// The physical layout comes from the file's declared columns, then its header, and otherwise matches the import columns.
func (r *run) fieldsFor(ctx context.Context, file csvfile.File) ([]string, error) {
	physical := file.Columns
	if len(physical) == 0 && r.spec.IgnoreHeaderLines > 0 {
		header, err := csvfile.ReadHeader(ctx, file, r.blobs.Open)
		if err != nil {
			return nil, importerr.Wrap(importerr.InvalidSourceData, err, "failed to read the header of %q", file.Basename())
		}
		physical = header
	}

	if len(physical) == 0 {
		return r.columns.Names(), nil
	}

	if duplicates := columns.Duplicates(physical); len(duplicates) > 0 {
		return nil, importerr.New(importerr.DuplicateColumnNames, "%q has duplicate columns [%s]", file.Basename(), strings.Join(duplicates, ", "))
	}

	fields := make([]string, len(physical))
	for i, name := range physical {
		if col, ok := r.columns.Get(strings.TrimSpace(name)); ok {
			fields[i] = col.Name
		}
	}

	var missing []string
	for _, col := range r.columns {
		if !slices.Contains(fields, col.Name) {
			missing = append(missing, col.Name)
		}
	}

	if len(missing) > 0 {
		return nil, importerr.New(importerr.ColumnMismatch, "columns [%s] are missing from %q", strings.Join(missing, ", "), file.Basename())
	}

	return fields, nil
}

func (r *run) loadFile(ctx context.Context, file csvfile.File) error {
	file = file.WithDefaults()
	fields, err := r.fieldsFor(ctx, file)
	if err != nil {
		return err
	}

	result, err := r.dest.LoadFile(ctx, destination.LoadFileArgs{
		StagingID:         r.stagingID,
		File:              file,
		Fields:            fields,
		IgnoreHeaderLines: r.spec.IgnoreHeaderLines,
		ExtraLoadOptions:  r.spec.ExtraLoadOptions,
	})
	if err != nil {
		return err
	}

	r.result.addRows(result.RowsLoaded)
	if len(result.Warnings) > 0 {
		r.result.addWarnings(file.Basename(), result.Warnings)
	}

	slog.Info("Loaded file into staging",
		slog.String("file", file.Basename()),
		slog.Int64("rows", result.RowsLoaded),
		slog.Int("warnings", len(result.Warnings)),
	)
	return nil
}
