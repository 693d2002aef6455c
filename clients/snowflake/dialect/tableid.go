package dialect

import (
	"fmt"

	"github.com/artie-labs/bulkload/lib/sql"
)

var _dialect = SnowflakeDialect{}

type TableIdentifier struct {
	database string
	schema   string
	table    string
}

func NewTableIdentifier(database, schema, table string) TableIdentifier {
	return TableIdentifier{database: database, schema: schema, table: table}
}

func (ti TableIdentifier) Database() string {
	return ti.database
}

func (ti TableIdentifier) Schema() string {
	return ti.schema
}

func (ti TableIdentifier) EscapedTable() string {
	return _dialect.QuoteIdentifier(ti.table)
}

func (ti TableIdentifier) Table() string {
	return ti.table
}

func (ti TableIdentifier) WithTable(table string) sql.TableIdentifier {
	return NewTableIdentifier(ti.database, ti.schema, table)
}

func (ti TableIdentifier) FullyQualifiedName() string {
	return fmt.Sprintf("%s.%s.%s", _dialect.QuoteIdentifier(ti.database), _dialect.QuoteIdentifier(ti.schema), ti.EscapedTable())
}

// StageName is the table stage files are PUT into before they are copied, e.g. `@"DB"."SCHEMA"."%TABLE"`.
func (ti TableIdentifier) StageName() string {
	return "@" + ti.WithTable("%" + ti.table).FullyQualifiedName()
}
