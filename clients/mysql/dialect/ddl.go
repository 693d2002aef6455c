package dialect

const describeTableQuery = `
SELECT
    TABLE_NAME AS table_name,
    TABLE_ROWS AS row_count,
    DATA_LENGTH AS byte_size
FROM
    INFORMATION_SCHEMA.TABLES
WHERE
    TABLE_SCHEMA = ? AND TABLE_NAME = ?`

const columnsQuery = `
SELECT
    COLUMN_NAME AS column_name,
    CASE
        WHEN COLUMN_TYPE = 'tinyint(1)' THEN 'boolean'
        ELSE COLUMN_TYPE
    END AS column_type,
    IS_NULLABLE AS is_nullable,
    COLUMN_DEFAULT AS column_default,
    EXTRA LIKE '%auto_increment%' AS is_identity
FROM
    INFORMATION_SCHEMA.COLUMNS
WHERE
    TABLE_SCHEMA = ? AND TABLE_NAME = ?
ORDER BY ORDINAL_POSITION`

const primaryKeyQuery = `
SELECT
    COLUMN_NAME AS column_name,
    SEQ_IN_INDEX AS key_sequence
FROM
    INFORMATION_SCHEMA.STATISTICS
WHERE
    TABLE_SCHEMA = ? AND TABLE_NAME = ? AND INDEX_NAME = 'PRIMARY'
ORDER BY SEQ_IN_INDEX`

func (MySQLDialect) BuildDescribeTableQuery(schema, table string) (string, []any) {
	return describeTableQuery, []any{schema, table}
}

func (MySQLDialect) BuildColumnsQuery(schema, table string) (string, []any) {
	return columnsQuery, []any{schema, table}
}

func (MySQLDialect) BuildPrimaryKeyQuery(schema, table string) (string, []any) {
	return primaryKeyQuery, []any{schema, table}
}
