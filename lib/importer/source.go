package importer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/artie-labs/bulkload/lib/csvfile"
	"github.com/artie-labs/bulkload/lib/importerr"
	"github.com/artie-labs/bulkload/lib/manifest"
	"github.com/artie-labs/bulkload/lib/metadata"
	"github.com/artie-labs/bulkload/lib/sql"
)

// Source fills the staging table of an import.
type Source interface {
	fmt.Stringer
	validate() error
	load(ctx context.Context, r *run) error
}

// FileSource is a single delimited file.
type FileSource struct {
	File csvfile.File
}

func (f FileSource) String() string {
	return f.File.Path
}

func (f FileSource) validate() error {
	return f.File.WithDefaults().Validate()
}

func (f FileSource) load(ctx context.Context, r *run) error {
	return r.loadFile(ctx, f.File)
}

// FileSetSource loads its files in order.
type FileSetSource struct {
	Files []csvfile.File
}

func (f FileSetSource) String() string {
	paths := make([]string, len(f.Files))
	for i, file := range f.Files {
		paths[i] = file.Path
	}
	return strings.Join(paths, ", ")
}

func (f FileSetSource) validate() error {
	for _, file := range f.Files {
		if err := file.WithDefaults().Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (f FileSetSource) load(ctx context.Context, r *run) error {
	for _, file := range f.Files {
		if err := r.loadFile(ctx, file); err != nil {
			return err
		}
	}
	return nil
}

// ManifestSource is a JSON manifest listing files that share one format.
type ManifestSource struct {
	URL    string
	Format csvfile.File
}

func (m ManifestSource) String() string {
	return m.URL
}

func (m ManifestSource) fileFor(url string) csvfile.File {
	file := m.Format
	file.Path = url
	return file
}

func (m ManifestSource) validate() error {
	return m.fileFor(m.URL).WithDefaults().Validate()
}

// load checks every entry before loading any of them, a missing mandatory file fails the import without loading anything.
func (m ManifestSource) load(ctx context.Context, r *run) error {
	parsed, err := manifest.Load(ctx, r.blobs, m.URL)
	if err != nil {
		return importerr.Fallback(err, importerr.InvalidSourceData)
	}

	if len(parsed.Entries) == 0 {
		slog.Info("Manifest has no entries, nothing to load", slog.String("manifest", m.URL))
		return nil
	}

	var files []csvfile.File
	for _, entry := range parsed.Entries {
		found, err := manifest.Resolve(ctx, r.blobs, entry)
		if err != nil {
			return err
		}

		if !found {
			slog.Warn("Skipping optional file that does not exist", slog.String("manifest", m.URL), slog.String("file", entry.URL))
			continue
		}

		files = append(files, m.fileFor(entry.URL))
	}

	return FileSetSource{Files: files}.load(ctx, r)
}

// TableSource copies rows from another table reachable through the same connection.
type TableSource struct {
	Schema string
	Table  string
}

func (t TableSource) String() string {
	if t.Schema == "" {
		return t.Table
	}
	return t.Schema + "." + t.Table
}

func (t TableSource) validate() error {
	if t.Table == "" {
		return fmt.Errorf("source table is empty")
	}
	return nil
}

func (t TableSource) load(ctx context.Context, r *run) error {
	sourceID := r.dest.IdentifierFor(t.Schema, t.Table)
	sourceCols, err := metadata.NewProvider(r.dest, r.dest.Dialect()).ListColumns(ctx, sourceID.Schema(), sourceID.Table())
	if err != nil {
		return err
	}

	var copyCols []sql.CopyColumn
	var missing []string
	for _, col := range r.columns {
		sourceCol, ok := sourceCols.Get(col.Name)
		if !ok {
			missing = append(missing, col.Name)
			continue
		}
		copyCols = append(copyCols, sql.CopyColumn{Name: col.Name, Source: sourceCol})
	}

	if len(missing) > 0 {
		return importerr.New(importerr.ColumnMismatch, "columns [%s] not found in source table %s", strings.Join(missing, ", "), t)
	}

	query := sql.BuildCopyFromTableQuery(r.dest.Dialect(), r.stagingID, sourceID, copyCols, r.spec.ConvertEmptyToNull)
	result, err := r.dest.ExecContextOnce(ctx, query)
	if err != nil {
		return importerr.Fallback(err, importerr.InvalidSourceData)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	r.result.addRows(rows)
	slog.Info("Copied table into staging", slog.String("source", t.String()), slog.Int64("rows", rows))
	return nil
}
