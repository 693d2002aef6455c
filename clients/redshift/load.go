package redshift

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/artie-labs/bulkload/clients/redshift/dialect"
	"github.com/artie-labs/bulkload/lib/csvfile"
	"github.com/artie-labs/bulkload/lib/db"
	"github.com/artie-labs/bulkload/lib/destination"
	"github.com/artie-labs/bulkload/lib/importerr"
	"github.com/artie-labs/bulkload/lib/typing"
)

const maxLoadErrors = 10

// stageFile returns an S3 URI COPY can read. Files that are not on S3 already are uploaded and removed by the cleanup func.
func (s *Store) stageFile(ctx context.Context, file csvfile.File) (string, func(), error) {
	if file.Scheme() == "s3" {
		return file.Path, func() {}, nil
	}

	if s.bucket == "" || s.objects == nil {
		return "", nil, fmt.Errorf("a bucket and aws credentials must be configured to load %q", file.Basename())
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

	localPath := file.Path
	if file.IsRemote() {
		if localPath, err = s.blobs.Download(ctx, file.Path, tempDir); err != nil {
			removeTempDir()
			return "", nil, importerr.Wrap(importerr.InvalidSourceData, err, "failed to download %q", file.Basename())
		}
	}

	uri, err := s.objects.UploadLocalFile(ctx, s.bucket, s.optionalS3Prefix, fmt.Sprintf("%s_%s", uuid.NewString(), file.Basename()), localPath)
	if err != nil {
		removeTempDir()
		return "", nil, fmt.Errorf("failed to upload %q to s3: %w", file.Basename(), err)
	}

	return uri, func() {
		removeTempDir()
		if deleteErr := s.objects.Delete(context.WithoutCancel(ctx), uri); deleteErr != nil {
			slog.Warn("Failed to delete staged file", slog.Any("err", deleteErr), slog.String("uri", uri))
		}
	}, nil
}

func (s *Store) LoadFile(ctx context.Context, args destination.LoadFileArgs) (destination.LoadResult, error) {
	file := args.File.WithDefaults()
	if file.EscapeChar != "" && file.EscapeChar != `\` {
		return destination.LoadResult{}, importerr.New(importerr.InvalidCsvParams, "redshift only supports a backslash escape character, got %q", file.EscapeChar)
	}

	if slices.Contains(args.Fields, "") {
		return destination.LoadResult{}, importerr.New(importerr.InvalidSourceData, "%q has fields that are not imported, redshift cannot skip them", file.Basename())
	}

	uri, cleanup, err := s.stageFile(ctx, file)
	if err != nil {
		return destination.LoadResult{}, err
	}
	defer cleanup()

	query := s.dialect().BuildCopyQuery(dialect.CopyArgs{
		StagingID:         args.StagingID,
		Columns:           args.Fields,
		URI:               uri,
		Delimiter:         file.Delimiter,
		Enclosure:         file.Enclosure,
		EscapeChar:        file.EscapeChar,
		IgnoreRows:        args.IgnoreHeaderLines,
		Gzip:              file.IsGzip(),
		CredentialsClause: s.credentialsClause,
		ExtraOptions:      args.ExtraLoadOptions,
	})

	if _, err = s.ExecContextOnce(ctx, query); err != nil {
		return destination.LoadResult{}, s.loadError(ctx, err)
	}

	// Ref: https://docs.aws.amazon.com/redshift/latest/dg/PG_LAST_COPY_COUNT.html
	rows, err := db.FetchAll(ctx, s, "SELECT pg_last_copy_count() AS rows_loaded")
	if err != nil {
		return destination.LoadResult{}, fmt.Errorf("failed to check rows loaded: %w", err)
	}

	var rowsLoaded int64
	if len(rows) > 0 {
		if rowsLoaded, err = typing.ToInt64(rows[0]["rows_loaded"]); err != nil {
			return destination.LoadResult{}, fmt.Errorf("failed to parse rows loaded: %w", err)
		}
	}

	// Lines skipped because of MAXERROR are reported as warnings.
	warnings, err := db.FetchAll(ctx, s, s.dialect().BuildLoadErrorsQuery(maxLoadErrors))
	if err != nil {
		return destination.LoadResult{}, fmt.Errorf("failed to retrieve load errors: %w", err)
	}

	return destination.LoadResult{RowsLoaded: rowsLoaded, Warnings: warnings}, nil
}

// loadError classifies a failed COPY and adds the rejected lines from STL_LOAD_ERRORS.
func (s *Store) loadError(ctx context.Context, err error) error {
	err = patterns.Reclassify(err, importerr.InvalidSourceData)
	if !importerr.IsKind(err, importerr.InvalidSourceData) {
		return err
	}

	rows, fetchErr := db.FetchAll(ctx, s, s.dialect().BuildLoadErrorsQuery(maxLoadErrors))
	if fetchErr != nil {
		slog.Warn("Failed to retrieve load errors", slog.Any("err", fetchErr))
		return err
	}

	if len(rows) == 0 {
		return err
	}

	var reasons []string
	for _, row := range rows {
		reasons = append(reasons, fmt.Sprintf("line %s, column %s: %s",
			typing.ToString(row["line_number"]),
			strings.TrimSpace(typing.ToString(row["colname"])),
			typing.ToString(row["err_reason"]),
		))
	}

	return importerr.Wrap(importerr.InvalidSourceData, err, "failed to load file: %s", strings.Join(reasons, "; "))
}
