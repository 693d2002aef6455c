package dialect

import (
	"fmt"
	"strings"

	"github.com/artie-labs/bulkload/lib/sql"
)

type CopyArgs struct {
	StagingID sql.TableIdentifier
	Columns   []string
	// URI is the `s3://` location of the file.
	URI        string
	Delimiter  string
	Enclosure  string
	EscapeChar string
	IgnoreRows int
	Gzip       bool
	// CredentialsClause is inlined as is, e.g. `IAM_ROLE 'arn:...'`.
	CredentialsClause string
	ExtraOptions      []string
}

// BuildCopyQuery loads a delimited file from S3, see https://docs.aws.amazon.com/redshift/latest/dg/r_COPY.html
func (rd RedshiftDialect) BuildCopyQuery(args CopyArgs) string {
	parts := []string{
		fmt.Sprintf("COPY %s (%s) FROM %s",
			args.StagingID.FullyQualifiedName(),
			strings.Join(sql.QuoteColumns(args.Columns, rd), ", "),
			sql.QuoteStandardLiteral(args.URI),
		),
	}

	if args.CredentialsClause != "" {
		parts = append(parts, args.CredentialsClause)
	}

	if args.Enclosure != "" {
		parts = append(parts, fmt.Sprintf("CSV QUOTE AS %s", sql.QuoteStandardLiteral(args.Enclosure)))
	} else if args.EscapeChar != "" {
		parts = append(parts, "ESCAPE")
	}

	parts = append(parts, fmt.Sprintf("DELIMITER AS %s", sql.QuoteStandardLiteral(args.Delimiter)))
	if args.IgnoreRows > 0 {
		parts = append(parts, fmt.Sprintf("IGNOREHEADER AS %d", args.IgnoreRows))
	}

	if args.Gzip {
		parts = append(parts, "GZIP")
	}

	parts = append(parts, args.ExtraOptions...)
	return strings.Join(parts, " ")
}

// BuildLoadErrorsQuery reads the rejected lines of the last COPY in this session.
func (RedshiftDialect) BuildLoadErrorsQuery(limit int) string {
	return fmt.Sprintf("SELECT line_number, colname, TRIM(err_reason) AS err_reason FROM STL_LOAD_ERRORS WHERE query = pg_last_copy_id() ORDER BY line_number LIMIT %d", limit)
}
