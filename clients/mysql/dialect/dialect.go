package dialect

import (
	"fmt"
	"strings"

	"github.com/artie-labs/bulkload/lib/sql"
	"github.com/artie-labs/bulkload/lib/typing/columns"
)

type MySQLDialect struct{}

func (MySQLDialect) QuoteIdentifier(identifier string) string {
	return sql.QuoteIdentifier(identifier, "`")
}

func (MySQLDialect) Placeholder(_ int) string {
	return "?"
}

func (MySQLDialect) TimestampLiteralFormat() string {
	return "2006-01-02 15:04:05"
}

func (MySQLDialect) TimestampDataType() string {
	return "DATETIME"
}

func (MySQLDialect) StagingColumnType() string {
	return "LONGTEXT"
}

func (MySQLDialect) StagingOrdinalColumnType() string {
	return "BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY"
}

// SupportsAtomicRename is false, DDL statements commit implicitly in MySQL.
func (MySQLDialect) SupportsAtomicRename() bool {
	return false
}

func (MySQLDialect) CanDiscardFields() bool {
	return true
}

func (MySQLDialect) BuildCastToStringExpression(expression string) string {
	return fmt.Sprintf("CAST(%s AS CHAR)", expression)
}

// BuildTargetValueExpression is a no-op, MySQL converts text on assignment and comparison.
func (MySQLDialect) BuildTargetValueExpression(expression string, _ columns.Column) string {
	return expression
}

func (MySQLDialect) BuildIsDistinctFromExpression(left, right string) string {
	return fmt.Sprintf("NOT (%s <=> %s)", left, right)
}

func (md MySQLDialect) BuildCreateStagingTableQuery(tableID sql.TableIdentifier, cols []string) string {
	return sql.DefaultBuildCreateStagingTableQuery(md, tableID, cols)
}

func (MySQLDialect) BuildDropTableQuery(tableID sql.TableIdentifier) string {
	return sql.DefaultBuildDropTableQuery(tableID)
}

func (md MySQLDialect) BuildAddColumnQuery(tableID sql.TableIdentifier, column, dataType string) string {
	return sql.DefaultBuildAddColumnQuery(md, tableID, column, dataType)
}

func (md MySQLDialect) BuildDedupeQuery(stagingID, dedupedID sql.TableIdentifier, cols, primaryKeys []string) string {
	return sql.DefaultBuildDedupeQuery(md, stagingID, dedupedID, cols, primaryKeys)
}

func (MySQLDialect) BuildSwapTableQueries(stagingID, dedupedID sql.TableIdentifier) []string {
	return []string{
		"DROP TABLE " + stagingID.FullyQualifiedName(),
		fmt.Sprintf("RENAME TABLE %s TO %s", dedupedID.FullyQualifiedName(), stagingID.FullyQualifiedName()),
	}
}

func (md MySQLDialect) BuildUpdateQuery(args sql.MergeArgs) string {
	return fmt.Sprintf("UPDATE %s AS t INNER JOIN %s AS s ON %s SET %s WHERE %s",
		args.TargetID.FullyQualifiedName(),
		args.StagingID.FullyQualifiedName(),
		sql.BuildJoinConditions(md, "t", "s", args.PrimaryKeys),
		strings.Join(sql.BuildSetAssignments(md, "t", "s", args), ", "),
		sql.BuildChangedConditions(md, "t", "s", args),
	)
}

func (md MySQLDialect) BuildDeleteMatchedQuery(args sql.MergeArgs) string {
	return fmt.Sprintf("DELETE s FROM %s AS s INNER JOIN %s AS t ON %s",
		args.StagingID.FullyQualifiedName(),
		args.TargetID.FullyQualifiedName(),
		sql.BuildJoinConditions(md, "t", "s", args.PrimaryKeys),
	)
}
