package sql

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/artie-labs/bulkload/lib/typing"
	"github.com/artie-labs/bulkload/lib/typing/columns"
)

type fakeTableID struct {
	schema string
	table  string
}

func (f fakeTableID) Schema() string                         { return f.schema }
func (f fakeTableID) EscapedTable() string                   { return QuoteIdentifier(f.table, `"`) }
func (f fakeTableID) Table() string                          { return f.table }
func (f fakeTableID) WithTable(table string) TableIdentifier { return fakeTableID{schema: f.schema, table: table} }
func (f fakeTableID) FullyQualifiedName() string {
	return fmt.Sprintf("%s.%s", QuoteIdentifier(f.schema, `"`), f.EscapedTable())
}

// fakeDialect is an ANSI flavored dialect used to exercise the default builders.
type fakeDialect struct{}

func (fakeDialect) QuoteIdentifier(identifier string) string { return QuoteIdentifier(identifier, `"`) }
func (fakeDialect) Placeholder(n int) string                 { return fmt.Sprintf("$%d", n) }
func (fakeDialect) TimestampLiteralFormat() string           { return "2006-01-02 15:04:05" }
func (fakeDialect) TimestampDataType() string                { return "TIMESTAMP" }
func (fakeDialect) StagingColumnType() string                { return "TEXT" }
func (fakeDialect) StagingOrdinalColumnType() string         { return "SERIAL" }
func (fakeDialect) SupportsAtomicRename() bool               { return true }
func (fakeDialect) CanDiscardFields() bool                   { return false }
func (fakeDialect) BuildCastToStringExpression(expression string) string {
	return fmt.Sprintf("CAST(%s AS TEXT)", expression)
}
func (fakeDialect) BuildTargetValueExpression(expression string, column columns.Column) string {
	if column.Type.IsCharacter() {
		return expression
	}
	return fmt.Sprintf("CAST(%s AS %s)", expression, column.RawType)
}
func (fakeDialect) BuildIsDistinctFromExpression(left, right string) string {
	return fmt.Sprintf("%s IS DISTINCT FROM %s", left, right)
}
func (fakeDialect) BuildDescribeTableQuery(schema, table string) (string, []any) { return "", nil }
func (fakeDialect) BuildColumnsQuery(schema, table string) (string, []any)       { return "", nil }
func (fakeDialect) BuildPrimaryKeyQuery(schema, table string) (string, []any)    { return "", nil }
func (f fakeDialect) BuildCreateStagingTableQuery(tableID TableIdentifier, cols []string) string {
	return DefaultBuildCreateStagingTableQuery(f, tableID, cols)
}
func (fakeDialect) BuildDropTableQuery(tableID TableIdentifier) string {
	return DefaultBuildDropTableQuery(tableID)
}
func (f fakeDialect) BuildAddColumnQuery(tableID TableIdentifier, column, dataType string) string {
	return DefaultBuildAddColumnQuery(f, tableID, column, dataType)
}
func (f fakeDialect) BuildDedupeQuery(stagingID, dedupedID TableIdentifier, cols, primaryKeys []string) string {
	return DefaultBuildDedupeQuery(f, stagingID, dedupedID, cols, primaryKeys)
}
func (fakeDialect) BuildSwapTableQueries(stagingID, dedupedID TableIdentifier) []string { return nil }
func (f fakeDialect) BuildUpdateQuery(args MergeArgs) string                          { return DefaultBuildUpdateQuery(f, args) }
func (f fakeDialect) BuildDeleteMatchedQuery(args MergeArgs) string {
	return DefaultBuildDeleteMatchedQuery(f, args)
}

func newColumn(name, rawType string) columns.Column {
	dataType, err := typing.ParseDataType(rawType)
	if err != nil {
		panic(err)
	}
	return columns.Column{Name: name, RawType: rawType, Type: dataType}
}

func TestDefaultBuilders(t *testing.T) {
	dialect := fakeDialect{}
	targetID := fakeTableID{schema: "public", table: "orders"}
	stagingID := targetID.WithTable("__stg_orders")

	assert.Equal(t, `DROP TABLE IF EXISTS "public"."orders"`, dialect.BuildDropTableQuery(targetID))
	assert.Equal(t, `ALTER TABLE "public"."orders" ADD COLUMN "_timestamp" TIMESTAMP`, dialect.BuildAddColumnQuery(targetID, "_timestamp", "TIMESTAMP"))
	assert.Equal(t,
		`CREATE TABLE "public"."__stg_orders" ("_staging_ordinal" SERIAL, "id" TEXT, "name" TEXT)`,
		dialect.BuildCreateStagingTableQuery(stagingID, []string{"id", "name"}),
	)
	assert.Equal(t,
		`CREATE TABLE "public"."__stg_orders_dedupe" AS SELECT "id", "name", "_staging_ordinal" FROM (SELECT "id", "name", "_staging_ordinal", ROW_NUMBER() OVER (PARTITION BY "id" ORDER BY "_staging_ordinal" DESC) AS "__row_number" FROM "public"."__stg_orders") AS dedupe WHERE "__row_number" = 1`,
		dialect.BuildDedupeQuery(stagingID, stagingID.WithTable("__stg_orders_dedupe"), []string{"id", "name"}, []string{"id"}),
	)
}

func TestMergeBuilders(t *testing.T) {
	dialect := fakeDialect{}
	targetID := fakeTableID{schema: "public", table: "orders"}
	args := MergeArgs{
		TargetID:           targetID,
		StagingID:          targetID.WithTable("__stg_orders"),
		PrimaryKeys:        columns.Columns{newColumn("id", "integer")},
		Columns:            columns.Columns{newColumn("name", "varchar(10)"), newColumn("price", "numeric(10,2)")},
		ConvertEmptyToNull: []string{"NAME"},
		TimestampColumn:    "_timestamp",
	}

	assert.Equal(t,
		`UPDATE "public"."orders" AS t SET "name" = NULLIF(s."name", ''), "price" = CAST(s."price" AS numeric(10,2)), "_timestamp" = $1 FROM "public"."__stg_orders" AS s WHERE t."id" = CAST(s."id" AS integer) AND (t."name" IS DISTINCT FROM NULLIF(s."name", '') OR t."price" IS DISTINCT FROM CAST(s."price" AS numeric(10,2)))`,
		dialect.BuildUpdateQuery(args),
	)
	assert.Equal(t,
		`DELETE FROM "public"."__stg_orders" USING "public"."orders" WHERE "public"."orders"."id" = CAST("public"."__stg_orders"."id" AS integer)`,
		dialect.BuildDeleteMatchedQuery(args),
	)

	insertArgs := InsertArgs{
		TargetID:           args.TargetID,
		StagingID:          args.StagingID,
		Columns:            append(args.PrimaryKeys, args.Columns...),
		ConvertEmptyToNull: args.ConvertEmptyToNull,
	}
	assert.Equal(t,
		`INSERT INTO "public"."orders" ("id", "name", "price") SELECT CAST(s."id" AS integer), NULLIF(s."name", ''), CAST(s."price" AS numeric(10,2)) FROM "public"."__stg_orders" AS s`,
		BuildInsertQuery(dialect, insertArgs),
	)

	insertArgs.TimestampColumn = "_timestamp"
	assert.Equal(t,
		`INSERT INTO "public"."orders" ("id", "name", "price", "_timestamp") SELECT CAST(s."id" AS integer), NULLIF(s."name", ''), CAST(s."price" AS numeric(10,2)), $1 FROM "public"."__stg_orders" AS s`,
		BuildInsertQuery(dialect, insertArgs),
	)
}

func TestBuildCopyFromTableQuery(t *testing.T) {
	dialect := fakeDialect{}
	stagingID := fakeTableID{schema: "public", table: "__stg_orders"}
	sourceID := fakeTableID{schema: "raw", table: "orders"}

	query := BuildCopyFromTableQuery(dialect, stagingID, sourceID, []CopyColumn{
		{Name: "id", Source: newColumn("ID", "integer")},
		{Name: "active", Source: newColumn("active", "boolean")},
		{Name: "note", Source: newColumn("note", "text")},
	}, []string{"note"})

	assert.Equal(t,
		`INSERT INTO "public"."__stg_orders" ("id", "active", "note") SELECT COALESCE(CAST(src."ID" AS TEXT), ''), CASE WHEN src."active" THEN '1' ELSE '0' END, CAST(src."note" AS TEXT) FROM "raw"."orders" AS src`,
		query,
	)
}
