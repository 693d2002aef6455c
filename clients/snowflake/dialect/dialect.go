package dialect

import (
	"fmt"
	"strings"

	"github.com/artie-labs/bulkload/lib/sql"
	"github.com/artie-labs/bulkload/lib/typing/columns"
)

type SnowflakeDialect struct{}

func (SnowflakeDialect) QuoteIdentifier(identifier string) string {
	return sql.QuoteIdentifier(strings.ToUpper(identifier), `"`)
}

func (SnowflakeDialect) Placeholder(_ int) string {
	return "?"
}

func (SnowflakeDialect) TimestampLiteralFormat() string {
	return "2006-01-02 15:04:05"
}

func (SnowflakeDialect) TimestampDataType() string {
	return "TIMESTAMP_NTZ"
}

func (SnowflakeDialect) StagingColumnType() string {
	return "VARCHAR"
}

func (SnowflakeDialect) StagingOrdinalColumnType() string {
	return "NUMBER AUTOINCREMENT"
}

// SupportsAtomicRename is false, DDL commits the open transaction. SWAP WITH is atomic on its own.
func (SnowflakeDialect) SupportsAtomicRename() bool {
	return false
}

func (SnowflakeDialect) CanDiscardFields() bool {
	return true
}

func (SnowflakeDialect) BuildCastToStringExpression(expression string) string {
	return fmt.Sprintf("CAST(%s AS VARCHAR)", expression)
}

// BuildTargetValueExpression is a no-op, Snowflake converts text on assignment and comparison.
func (SnowflakeDialect) BuildTargetValueExpression(expression string, _ columns.Column) string {
	return expression
}

func (SnowflakeDialect) BuildIsDistinctFromExpression(left, right string) string {
	return fmt.Sprintf("%s IS DISTINCT FROM %s", left, right)
}

// BuildCreateStagingTableQuery creates a transient table, staging data does not need fail-safe.
func (sd SnowflakeDialect) BuildCreateStagingTableQuery(tableID sql.TableIdentifier, cols []string) string {
	return toTransient(sql.DefaultBuildCreateStagingTableQuery(sd, tableID, cols))
}

func (SnowflakeDialect) BuildDropTableQuery(tableID sql.TableIdentifier) string {
	return sql.DefaultBuildDropTableQuery(tableID)
}

func (sd SnowflakeDialect) BuildAddColumnQuery(tableID sql.TableIdentifier, column, dataType string) string {
	return sql.DefaultBuildAddColumnQuery(sd, tableID, column, dataType)
}

func (sd SnowflakeDialect) BuildDedupeQuery(stagingID, dedupedID sql.TableIdentifier, cols, primaryKeys []string) string {
	return toTransient(sql.DefaultBuildDedupeQuery(sd, stagingID, dedupedID, cols, primaryKeys))
}

func toTransient(createTableQuery string) string {
	return "CREATE TRANSIENT TABLE" + strings.TrimPrefix(createTableQuery, "CREATE TABLE")
}

// BuildSwapTableQueries swaps the deduped rows in, the old staging rows end up in the table that is dropped.
func (SnowflakeDialect) BuildSwapTableQueries(stagingID, dedupedID sql.TableIdentifier) []string {
	return []string{
		fmt.Sprintf("ALTER TABLE %s SWAP WITH %s", stagingID.FullyQualifiedName(), dedupedID.FullyQualifiedName()),
		"DROP TABLE " + dedupedID.FullyQualifiedName(),
	}
}

func (sd SnowflakeDialect) BuildUpdateQuery(args sql.MergeArgs) string {
	return sql.DefaultBuildUpdateQuery(sd, args)
}

func (sd SnowflakeDialect) BuildDeleteMatchedQuery(args sql.MergeArgs) string {
	return sql.DefaultBuildDeleteMatchedQuery(sd, args)
}
