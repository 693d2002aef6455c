package dialect

// SVV_TABLE_INFO skips empty tables, hence the outer join.
const describeTableQuery = `
SELECT
    t.table_name AS table_name,
    CAST(COALESCE(i.tbl_rows, 0) AS BIGINT) AS row_count,
    CAST(COALESCE(i.size, 0) AS BIGINT) * 1048576 AS byte_size
FROM
    INFORMATION_SCHEMA.TABLES t
LEFT JOIN
    SVV_TABLE_INFO i ON i."schema" = t.table_schema AND i."table" = t.table_name
WHERE
    LOWER(t.table_schema) = LOWER($1) AND LOWER(t.table_name) = LOWER($2)`

// This query is a modified fork from: https://gist.github.com/alexanderlz/7302623
const columnsQuery = `
SELECT
    c.column_name AS column_name,
    CASE
        WHEN c.data_type = 'numeric' THEN
            'numeric(' || COALESCE(CAST(c.numeric_precision AS VARCHAR), '') || ',' || COALESCE(CAST(c.numeric_scale AS VARCHAR), '') || ')'
        WHEN c.data_type IN ('character varying', 'character') THEN
            c.data_type || '(' || COALESCE(CAST(c.character_maximum_length AS VARCHAR), '') || ')'
        ELSE
            c.data_type
    END AS column_type,
    c.is_nullable AS is_nullable,
    c.column_default AS column_default,
    COALESCE(c.column_default LIKE '%identity%', FALSE) AS is_identity
FROM
    INFORMATION_SCHEMA.COLUMNS c
WHERE
    LOWER(c.table_schema) = LOWER($1) AND LOWER(c.table_name) = LOWER($2)
ORDER BY c.ordinal_position`

const primaryKeyQuery = `
SELECT
    kcu.column_name AS column_name,
    kcu.ordinal_position AS key_sequence
FROM
    INFORMATION_SCHEMA.TABLE_CONSTRAINTS tc
JOIN
    INFORMATION_SCHEMA.KEY_COLUMN_USAGE kcu ON tc.constraint_name = kcu.constraint_name AND tc.table_schema = kcu.table_schema AND tc.table_name = kcu.table_name
WHERE
    tc.constraint_type = 'PRIMARY KEY' AND LOWER(tc.table_schema) = LOWER($1) AND LOWER(tc.table_name) = LOWER($2)
ORDER BY kcu.ordinal_position`

func (RedshiftDialect) BuildDescribeTableQuery(schema, table string) (string, []any) {
	return describeTableQuery, []any{schema, table}
}

func (RedshiftDialect) BuildColumnsQuery(schema, table string) (string, []any) {
	return columnsQuery, []any{schema, table}
}

func (RedshiftDialect) BuildPrimaryKeyQuery(schema, table string) (string, []any) {
	return primaryKeyQuery, []any{schema, table}
}
