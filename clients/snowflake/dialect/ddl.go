package dialect

import (
	"fmt"
)

const describeTableQuery = `
SELECT
    TABLE_NAME AS table_name,
    ROW_COUNT AS row_count,
    BYTES AS byte_size
FROM
    INFORMATION_SCHEMA.TABLES
WHERE
    TABLE_SCHEMA = UPPER(?) AND TABLE_NAME = UPPER(?)`

const columnsQuery = `
SELECT
    COLUMN_NAME AS column_name,
    CASE
        WHEN DATA_TYPE = 'NUMBER' THEN 'NUMBER(' || NUMERIC_PRECISION || ',' || NUMERIC_SCALE || ')'
        WHEN DATA_TYPE = 'TEXT' THEN 'VARCHAR(' || CHARACTER_MAXIMUM_LENGTH || ')'
        ELSE DATA_TYPE
    END AS column_type,
    IS_NULLABLE AS is_nullable,
    COLUMN_DEFAULT AS column_default,
    IS_IDENTITY AS is_identity
FROM
    INFORMATION_SCHEMA.COLUMNS
WHERE
    TABLE_SCHEMA = UPPER(?) AND TABLE_NAME = UPPER(?)
ORDER BY ORDINAL_POSITION`

func (SnowflakeDialect) BuildDescribeTableQuery(schema, table string) (string, []any) {
	return describeTableQuery, []any{schema, table}
}

func (SnowflakeDialect) BuildColumnsQuery(schema, table string) (string, []any) {
	return columnsQuery, []any{schema, table}
}

// BuildPrimaryKeyQuery uses SHOW, its output already has `column_name` and `key_sequence`.
func (sd SnowflakeDialect) BuildPrimaryKeyQuery(schema, table string) (string, []any) {
	return fmt.Sprintf("SHOW PRIMARY KEYS IN TABLE %s.%s", sd.QuoteIdentifier(schema), sd.QuoteIdentifier(table)), nil
}
