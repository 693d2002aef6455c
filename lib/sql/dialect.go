package sql

import (
	"github.com/artie-labs/bulkload/lib/typing/columns"
)

// StagingOrdinalColumn numbers staging rows in load order, it is the dedupe tiebreak.
const StagingOrdinalColumn = "_staging_ordinal"

type TableIdentifier interface {
	Schema() string
	EscapedTable() string
	Table() string
	WithTable(table string) TableIdentifier
	FullyQualifiedName() string
}

type Dialect interface {
	QuoteIdentifier(identifier string) string
	// Placeholder returns the bind parameter for the n-th (1-indexed) argument.
	Placeholder(n int) string
	TimestampLiteralFormat() string
	TimestampDataType() string
	StagingColumnType() string
	StagingOrdinalColumnType() string
	// SupportsAtomicRename is true when the staging swap can run inside a transaction.
	SupportsAtomicRename() bool
	// CanDiscardFields is true when a file load can skip fields that are not imported.
	CanDiscardFields() bool

	BuildCastToStringExpression(expression string) string
	// BuildTargetValueExpression converts a text expression so it can be assigned to or compared with the column.
	BuildTargetValueExpression(expression string, column columns.Column) string
	BuildIsDistinctFromExpression(left, right string) string

	BuildDescribeTableQuery(schema, table string) (string, []any)
	BuildColumnsQuery(schema, table string) (string, []any)
	BuildPrimaryKeyQuery(schema, table string) (string, []any)

	BuildCreateStagingTableQuery(tableID TableIdentifier, cols []string) string
	BuildDropTableQuery(tableID TableIdentifier) string
	BuildAddColumnQuery(tableID TableIdentifier, column, dataType string) string
	BuildDedupeQuery(stagingID, dedupedID TableIdentifier, cols, primaryKeys []string) string
	BuildSwapTableQueries(stagingID, dedupedID TableIdentifier) []string
	BuildUpdateQuery(args MergeArgs) string
	BuildDeleteMatchedQuery(args MergeArgs) string
}

type MergeArgs struct {
	TargetID    TableIdentifier
	StagingID   TableIdentifier
	PrimaryKeys columns.Columns
	// Columns are the non primary key columns copied from staging.
	Columns            columns.Columns
	ConvertEmptyToNull []string
	// TimestampColumn is refreshed on every written row, empty when it is not maintained.
	TimestampColumn string
}
