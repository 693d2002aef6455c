package destination

import (
	"context"

	"github.com/artie-labs/bulkload/lib/config/constants"
	"github.com/artie-labs/bulkload/lib/csvfile"
	"github.com/artie-labs/bulkload/lib/db"
	sqllib "github.com/artie-labs/bulkload/lib/sql"
)

// Destination is a warehouse an import can target. Every destination holds exactly one connection.
type Destination interface {
	db.Store

	Label() constants.DestinationKind
	Dialect() sqllib.Dialect
	IdentifierFor(schema, table string) sqllib.TableIdentifier
	// LoadFile bulk loads a single delimited file into an existing staging table.
	LoadFile(ctx context.Context, args LoadFileArgs) (LoadResult, error)
}

type LoadFileArgs struct {
	StagingID sqllib.TableIdentifier
	File      csvfile.File
	// Fields maps every field of a row, in file order, to a staging column. Empty entries are discarded.
	Fields            []string
	IgnoreHeaderLines int
	ExtraLoadOptions  []string
}

type LoadResult struct {
	RowsLoaded int64
	// Warnings are the raw rows the backend reported for this file.
	Warnings []map[string]any
}
