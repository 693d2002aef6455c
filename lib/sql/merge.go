package sql

import (
	"fmt"
	"strings"

	"github.com/artie-labs/bulkload/lib/typing/columns"
)

const (
	targetAlias  = "t"
	stagingAlias = "s"
	sourceAlias  = "src"
	rowNumberCol = "__row_number"
)

func DefaultBuildDropTableQuery(tableID TableIdentifier) string {
	return "DROP TABLE IF EXISTS " + tableID.FullyQualifiedName()
}

func DefaultBuildAddColumnQuery(dialect Dialect, tableID TableIdentifier, column, dataType string) string {
	return fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", tableID.FullyQualifiedName(), dialect.QuoteIdentifier(column), dataType)
}

func DefaultBuildCreateStagingTableQuery(dialect Dialect, tableID TableIdentifier, cols []string) string {
	parts := []string{fmt.Sprintf("%s %s", dialect.QuoteIdentifier(StagingOrdinalColumn), dialect.StagingOrdinalColumnType())}
	for _, col := range cols {
		parts = append(parts, fmt.Sprintf("%s %s", dialect.QuoteIdentifier(col), dialect.StagingColumnType()))
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", tableID.FullyQualifiedName(), strings.Join(parts, ", "))
}

// DefaultBuildDedupeQuery keeps the last loaded row of every primary key partition.
func DefaultBuildDedupeQuery(dialect Dialect, stagingID, dedupedID TableIdentifier, cols, primaryKeys []string) string {
	selected := strings.Join(append(QuoteColumns(cols, dialect), dialect.QuoteIdentifier(StagingOrdinalColumn)), ", ")
	return fmt.Sprintf(
		"CREATE TABLE %s AS SELECT %s FROM (SELECT %s, ROW_NUMBER() OVER (PARTITION BY %s ORDER BY %s DESC) AS %s FROM %s) AS dedupe WHERE %s = 1",
		dedupedID.FullyQualifiedName(),
		selected,
		selected,
		strings.Join(QuoteColumns(primaryKeys, dialect), ", "),
		dialect.QuoteIdentifier(StagingOrdinalColumn),
		dialect.QuoteIdentifier(rowNumberCol),
		stagingID.FullyQualifiedName(),
		dialect.QuoteIdentifier(rowNumberCol),
	)
}

// DefaultBuildUpdateQuery uses the `UPDATE ... FROM` form.
func DefaultBuildUpdateQuery(dialect Dialect, args MergeArgs) string {
	return fmt.Sprintf("UPDATE %s AS %s SET %s FROM %s AS %s WHERE %s AND (%s)",
		args.TargetID.FullyQualifiedName(), targetAlias,
		strings.Join(BuildSetAssignments(dialect, "", stagingAlias, args), ", "),
		args.StagingID.FullyQualifiedName(), stagingAlias,
		BuildJoinConditions(dialect, targetAlias, stagingAlias, args.PrimaryKeys),
		BuildChangedConditions(dialect, targetAlias, stagingAlias, args),
	)
}

// DefaultBuildDeleteMatchedQuery references both tables by name, `DELETE ... USING` does not take aliases everywhere.
func DefaultBuildDeleteMatchedQuery(dialect Dialect, args MergeArgs) string {
	stagingRef := args.StagingID.FullyQualifiedName()
	targetRef := args.TargetID.FullyQualifiedName()
	return fmt.Sprintf("DELETE FROM %s USING %s WHERE %s",
		stagingRef,
		targetRef,
		BuildJoinConditions(dialect, targetRef, stagingRef, args.PrimaryKeys),
	)
}

type InsertArgs struct {
	TargetID           TableIdentifier
	StagingID          TableIdentifier
	Columns            columns.Columns
	ConvertEmptyToNull []string
	TimestampColumn    string
}

// BuildInsertQuery copies every staging row into the target in one statement.
func BuildInsertQuery(dialect Dialect, args InsertArgs) string {
	targetCols := QuoteColumns(args.Columns.Names(), dialect)
	var values []string
	for _, col := range args.Columns {
		values = append(values, dialect.BuildTargetValueExpression(StagingValueExpression(dialect, stagingAlias, col.Name, args.ConvertEmptyToNull), col))
	}

	if args.TimestampColumn != "" {
		targetCols = append(targetCols, dialect.QuoteIdentifier(args.TimestampColumn))
		values = append(values, dialect.Placeholder(1))
	}

	return fmt.Sprintf("INSERT INTO %s (%s) SELECT %s FROM %s AS %s",
		args.TargetID.FullyQualifiedName(),
		strings.Join(targetCols, ", "),
		strings.Join(values, ", "),
		args.StagingID.FullyQualifiedName(), stagingAlias,
	)
}

type CopyColumn struct {
	Name   string
	Source columns.Column
}

// BuildCopyFromTableQuery fills a staging table from another table with a single INSERT ... SELECT.
// Booleans become '1' or '0', other values become text and NULL becomes '' unless the column keeps NULLs.
func BuildCopyFromTableQuery(dialect Dialect, stagingID, sourceID TableIdentifier, cols []CopyColumn, convertEmptyToNull []string) string {
	var names, values []string
	for _, col := range cols {
		names = append(names, dialect.QuoteIdentifier(col.Name))

		sourceCol := QuoteTableAliasColumn(sourceAlias, col.Source.Name, dialect)
		switch {
		case col.Source.Type.IsBoolean():
			values = append(values, fmt.Sprintf("CASE WHEN %s THEN '1' ELSE '0' END", sourceCol))
		case containsFold(convertEmptyToNull, col.Name):
			values = append(values, dialect.BuildCastToStringExpression(sourceCol))
		default:
			values = append(values, fmt.Sprintf("COALESCE(%s, '')", dialect.BuildCastToStringExpression(sourceCol)))
		}
	}

	return fmt.Sprintf("INSERT INTO %s (%s) SELECT %s FROM %s AS %s",
		stagingID.FullyQualifiedName(),
		strings.Join(names, ", "),
		strings.Join(values, ", "),
		sourceID.FullyQualifiedName(), sourceAlias,
	)
}
