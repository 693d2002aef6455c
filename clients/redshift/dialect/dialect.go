package dialect

import (
	"fmt"
	"strings"

	"github.com/artie-labs/bulkload/lib/sql"
	"github.com/artie-labs/bulkload/lib/typing/columns"
)

type RedshiftDialect struct{}

func (RedshiftDialect) QuoteIdentifier(identifier string) string {
	// Preserve the existing behavior of Redshift identifiers being lowercased due to not being quoted.
	return sql.QuoteIdentifier(strings.ToLower(identifier), `"`)
}

func (RedshiftDialect) Placeholder(n int) string {
	return fmt.Sprintf("$%d", n)
}

func (RedshiftDialect) TimestampLiteralFormat() string {
	return "2006-01-02 15:04:05"
}

func (RedshiftDialect) TimestampDataType() string {
	return "TIMESTAMP"
}

func (RedshiftDialect) StagingColumnType() string {
	return "VARCHAR(65535)"
}

// StagingOrdinalColumnType values are unique and stable. COPY loads slices in parallel so their order within a file is arbitrary.
func (RedshiftDialect) StagingOrdinalColumnType() string {
	return "BIGINT IDENTITY(1,1)"
}

func (RedshiftDialect) SupportsAtomicRename() bool {
	return true
}

// CanDiscardFields is false, COPY maps every field of a row to a column.
func (RedshiftDialect) CanDiscardFields() bool {
	return false
}

func (RedshiftDialect) BuildCastToStringExpression(expression string) string {
	return fmt.Sprintf("CAST(%s AS VARCHAR(65535))", expression)
}

// Literals Redshift accepts for BOOLEAN, compared after trimming and lowercasing.
const (
	trueLiterals  = "'1', 't', 'true', 'y', 'yes', 'on'"
	falseLiterals = "'0', 'f', 'false', 'n', 'no', 'off'"
)

// BuildTargetValueExpression casts text into the column type. Redshift cannot cast text to BOOLEAN so booleans are matched
// instead, anything else goes through INTEGER so an unknown literal fails the statement rather than becoming NULL.
func (RedshiftDialect) BuildTargetValueExpression(expression string, column columns.Column) string {
	switch {
	case column.Type.IsCharacter():
		return expression
	case column.Type.IsBoolean():
		normalized := fmt.Sprintf("LOWER(TRIM(%s))", expression)
		return fmt.Sprintf("CASE WHEN %s IN (%s) THEN TRUE WHEN %s IN (%s) THEN FALSE WHEN %s = '' THEN NULL ELSE CAST(CAST(%s AS INTEGER) AS BOOLEAN) END",
			normalized, trueLiterals, normalized, falseLiterals, normalized, expression,
		)
	default:
		return fmt.Sprintf("CAST(%s AS %s)", expression, column.RawType)
	}
}

func (RedshiftDialect) BuildIsDistinctFromExpression(left, right string) string {
	return fmt.Sprintf("(%s <> %s OR (%s IS NULL) <> (%s IS NULL))", left, right, left, right)
}

func (rd RedshiftDialect) BuildCreateStagingTableQuery(tableID sql.TableIdentifier, cols []string) string {
	return sql.DefaultBuildCreateStagingTableQuery(rd, tableID, cols)
}

func (RedshiftDialect) BuildDropTableQuery(tableID sql.TableIdentifier) string {
	return sql.DefaultBuildDropTableQuery(tableID)
}

func (rd RedshiftDialect) BuildAddColumnQuery(tableID sql.TableIdentifier, column, dataType string) string {
	return sql.DefaultBuildAddColumnQuery(rd, tableID, column, dataType)
}

func (rd RedshiftDialect) BuildDedupeQuery(stagingID, dedupedID sql.TableIdentifier, cols, primaryKeys []string) string {
	return sql.DefaultBuildDedupeQuery(rd, stagingID, dedupedID, cols, primaryKeys)
}

// BuildSwapTableQueries is transactional, ALTER TABLE ... RENAME TO only takes the new table name.
func (RedshiftDialect) BuildSwapTableQueries(stagingID, dedupedID sql.TableIdentifier) []string {
	return []string{
		"DROP TABLE " + stagingID.FullyQualifiedName(),
		fmt.Sprintf("ALTER TABLE %s RENAME TO %s", dedupedID.FullyQualifiedName(), stagingID.EscapedTable()),
	}
}

func (rd RedshiftDialect) BuildUpdateQuery(args sql.MergeArgs) string {
	return sql.DefaultBuildUpdateQuery(rd, args)
}

func (rd RedshiftDialect) BuildDeleteMatchedQuery(args sql.MergeArgs) string {
	return sql.DefaultBuildDeleteMatchedQuery(rd, args)
}
