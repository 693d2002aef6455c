package sql

import (
	"fmt"
	"slices"
	"strings"

	"github.com/artie-labs/bulkload/lib/typing/columns"
)

func QuoteColumns(cols []string, dialect Dialect) []string {
	result := make([]string, len(cols))
	for i, col := range cols {
		result[i] = dialect.QuoteIdentifier(col)
	}
	return result
}

func QuoteTableAliasColumn(tableAlias string, column string, dialect Dialect) string {
	return fmt.Sprintf("%s.%s", tableAlias, dialect.QuoteIdentifier(column))
}

func containsFold(values []string, value string) bool {
	return slices.ContainsFunc(values, func(v string) bool { return strings.EqualFold(v, value) })
}

// StagingValueExpression reads a staging column, empty strings become NULL for columns in convertEmptyToNull.
func StagingValueExpression(dialect Dialect, tableRef string, column string, convertEmptyToNull []string) string {
	expression := QuoteTableAliasColumn(tableRef, column, dialect)
	if containsFold(convertEmptyToNull, column) {
		return fmt.Sprintf("NULLIF(%s, '')", expression)
	}
	return expression
}

// BuildJoinConditions matches target rows to staging rows on the primary key.
func BuildJoinConditions(dialect Dialect, targetRef, stagingRef string, primaryKeys columns.Columns) string {
	var conditions []string
	for _, pk := range primaryKeys {
		conditions = append(conditions, fmt.Sprintf("%s = %s",
			QuoteTableAliasColumn(targetRef, pk.Name, dialect),
			dialect.BuildTargetValueExpression(QuoteTableAliasColumn(stagingRef, pk.Name, dialect), pk),
		))
	}
	return strings.Join(conditions, " AND ")
}

// BuildChangedConditions is true when any column differs, an empty staging value headed for NULL equals a NULL target value.
func BuildChangedConditions(dialect Dialect, targetRef, stagingRef string, args MergeArgs) string {
	var conditions []string
	for _, col := range args.Columns {
		conditions = append(conditions, dialect.BuildIsDistinctFromExpression(
			QuoteTableAliasColumn(targetRef, col.Name, dialect),
			dialect.BuildTargetValueExpression(StagingValueExpression(dialect, stagingRef, col.Name, args.ConvertEmptyToNull), col),
		))
	}
	return strings.Join(conditions, " OR ")
}

// BuildSetAssignments returns `col = value` pairs, the timestamp is bound as the first placeholder.
func BuildSetAssignments(dialect Dialect, targetRef, stagingRef string, args MergeArgs) []string {
	var assignments []string
	for _, col := range args.Columns {
		lhs := dialect.QuoteIdentifier(col.Name)
		if targetRef != "" {
			lhs = QuoteTableAliasColumn(targetRef, col.Name, dialect)
		}
		assignments = append(assignments, fmt.Sprintf("%s = %s", lhs,
			dialect.BuildTargetValueExpression(StagingValueExpression(dialect, stagingRef, col.Name, args.ConvertEmptyToNull), col),
		))
	}

	if args.TimestampColumn != "" {
		lhs := dialect.QuoteIdentifier(args.TimestampColumn)
		if targetRef != "" {
			lhs = QuoteTableAliasColumn(targetRef, args.TimestampColumn, dialect)
		}
		assignments = append(assignments, fmt.Sprintf("%s = %s", lhs, dialect.Placeholder(1)))
	}
	return assignments
}
