package snowflake

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/artie-labs/bulkload/clients/snowflake/dialect"
	"github.com/artie-labs/bulkload/lib/csvfile"
	"github.com/artie-labs/bulkload/lib/db"
	"github.com/artie-labs/bulkload/lib/destination"
	"github.com/artie-labs/bulkload/lib/importerr"
	"github.com/artie-labs/bulkload/lib/typing"
)

// localFile returns a local path PUT can upload, remote files are downloaded into a temp dir first.
func (s *Store) localFile(ctx context.Context, file csvfile.File) (string, func(), error) {
	if !file.IsRemote() {
		absPath, err := filepath.Abs(file.Path)
		if err != nil {
			return "", nil, fmt.Errorf("failed to get absolute path: %w", err)
		}

		if _, err = os.Stat(absPath); err != nil {
			return "", nil, importerr.Wrap(importerr.InvalidSourceData, err, "failed to open %q", file.Basename())
		}
		return absPath, func() {}, nil
	}

	tempDir, err := os.MkdirTemp("", "bulkload")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temp dir: %w", err)
	}

	removeTempDir := func() {
		if removeErr := os.RemoveAll(tempDir); removeErr != nil {
			slog.Warn("Failed to delete temp dir", slog.Any("err", removeErr), slog.String("dir", tempDir))
		}
	}

	localPath, err := s.blobs.Download(ctx, file.Path, tempDir)
	if err != nil {
		removeTempDir()
		return "", nil, importerr.Wrap(importerr.InvalidSourceData, err, "failed to download %q", file.Basename())
	}

	return localPath, removeTempDir, nil
}

func (s *Store) LoadFile(ctx context.Context, args destination.LoadFileArgs) (destination.LoadResult, error) {
	stagingID, ok := args.StagingID.(dialect.TableIdentifier)
	if !ok {
		return destination.LoadResult{}, fmt.Errorf("unexpected table identifier type %T", args.StagingID)
	}

	file := args.File.WithDefaults()
	localPath, cleanup, err := s.localFile(ctx, file)
	if err != nil {
		return destination.LoadResult{}, err
	}
	defer cleanup()

	stageName := stagingID.StageName()
	if _, err = s.ExecContext(ctx, s.dialect().BuildPutQuery(localPath, stageName)); err != nil {
		return destination.LoadResult{}, fmt.Errorf("failed to upload %q to the table stage: %w", file.Basename(), importerr.Fallback(err, importerr.InvalidSourceData))
	}

	fileName := filepath.Base(localPath)
	query := s.dialect().BuildCopyIntoTableQuery(dialect.CopyArgs{
		StagingID:    stagingID,
		StageName:    stageName,
		FileName:     fileName,
		Fields:       args.Fields,
		Delimiter:    file.Delimiter,
		Enclosure:    file.Enclosure,
		EscapeChar:   file.EscapeChar,
		LineBreak:    file.LineBreak,
		IgnoreRows:   args.IgnoreHeaderLines,
		Gzip:         file.IsGzip(),
		ExtraOptions: args.ExtraLoadOptions,
	})

	// COPY INTO does not implement [RowsAffected], the output is one row per file:
	// https://docs.snowflake.com/en/sql-reference/sql/copy-into-table#output
	var result destination.LoadResult
	err = db.FetchStreaming(ctx, s, query, func(row map[string]any) error {
		value, ok := row["rows_loaded"]
		if !ok {
			// "Copy executed with 0 files processed." only has a status.
			return nil
		}

		rowsLoaded, err := typing.ToInt64(value)
		if err != nil {
			return fmt.Errorf("failed to parse rows loaded: %w", err)
		}
		result.RowsLoaded += rowsLoaded

		errorsSeen, err := typing.ToInt64(row["errors_seen"])
		if err != nil {
			return fmt.Errorf("failed to parse errors seen: %w", err)
		}

		if errorsSeen > 0 {
			result.Warnings = append(result.Warnings, row)
		}
		return nil
	})
	if err != nil {
		// PURGE only removes files after a successful COPY.
		if _, removeErr := s.ExecContext(context.WithoutCancel(ctx), s.dialect().BuildRemoveFilesFromStage(stageName, fileName)); removeErr != nil {
			slog.Warn("Failed to remove file from stage", slog.Any("err", removeErr), slog.String("file", fileName))
		}
		return destination.LoadResult{}, importerr.Fallback(err, importerr.InvalidSourceData)
	}

	return result, nil
}
