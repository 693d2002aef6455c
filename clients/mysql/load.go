package mysql

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"github.com/artie-labs/bulkload/clients/mysql/dialect"
	"github.com/artie-labs/bulkload/lib/csvfile"
	"github.com/artie-labs/bulkload/lib/db"
	"github.com/artie-labs/bulkload/lib/destination"
	"github.com/artie-labs/bulkload/lib/importerr"
)

// registerFile makes the file readable by LOAD DATA LOCAL INFILE. Plain local files are registered by path,
// everything else is streamed (and gunzipped) through a reader handler.
func (s *Store) registerFile(ctx context.Context, file csvfile.File) (string, func(), error) {
	if !file.IsRemote() && !file.IsGzip() {
		absPath, err := filepath.Abs(file.Path)
		if err != nil {
			return "", nil, fmt.Errorf("failed to get absolute path: %w", err)
		}

		mysql.RegisterLocalFile(absPath)
		return absPath, func() { mysql.DeregisterLocalFile(absPath) }, nil
	}

	rc, err := csvfile.OpenDecompressed(ctx, file, s.blobs.Open)
	if err != nil {
		return "", nil, importerr.Wrap(importerr.InvalidSourceData, err, "failed to open %q", file.Basename())
	}

	name := "bulkload_" + uuid.NewString()
	mysql.RegisterReaderHandler(name, func() io.Reader { return rc })
	return "Reader::" + name, func() {
		mysql.DeregisterReaderHandler(name)
		// The driver closes the reader once it has been consumed.
		if closeErr := rc.Close(); closeErr != nil {
			slog.Debug("Reader was already closed", slog.Any("err", closeErr))
		}
	}, nil
}

func (s *Store) LoadFile(ctx context.Context, args destination.LoadFileArgs) (destination.LoadResult, error) {
	file := args.File.WithDefaults()
	fileName, deregister, err := s.registerFile(ctx, file)
	if err != nil {
		return destination.LoadResult{}, err
	}
	defer deregister()

	query := s.dialect().BuildLoadDataQuery(dialect.LoadDataArgs{
		StagingID:    args.StagingID,
		FileName:     fileName,
		Delimiter:    file.Delimiter,
		Enclosure:    file.Enclosure,
		EscapeChar:   file.EscapeChar,
		LineBreak:    file.LineBreak,
		IgnoreRows:   args.IgnoreHeaderLines,
		Fields:       args.Fields,
		ExtraOptions: args.ExtraLoadOptions,
	})

	// The reader handler can only be consumed once.
	result, err := s.ExecContextOnce(ctx, query)
	if err != nil {
		return destination.LoadResult{}, patterns.Reclassify(err, importerr.InvalidSourceData)
	}

	rowsLoaded, err := result.RowsAffected()
	if err != nil {
		return destination.LoadResult{}, fmt.Errorf("failed to get rows affected: %w", err)
	}

	// Warnings belong to the session, the store holds a single connection.
	warnings, err := db.FetchAll(ctx, s, "SHOW WARNINGS")
	if err != nil {
		return destination.LoadResult{}, fmt.Errorf("failed to retrieve warnings: %w", err)
	}

	return destination.LoadResult{RowsLoaded: rowsLoaded, Warnings: warnings}, nil
}
