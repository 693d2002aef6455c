package dialect

import (
	"fmt"
	"strings"

	"github.com/artie-labs/bulkload/lib/sql"
)

// DiscardPlaceholder is the user variable LOAD DATA assigns skipped fields to.
const DiscardPlaceholder = "@dummy"

type LoadDataArgs struct {
	StagingID sql.TableIdentifier
	// FileName is either a registered local path or a `Reader::<name>` handle.
	FileName   string
	Delimiter  string
	Enclosure  string
	EscapeChar string
	LineBreak  string
	IgnoreRows int
	// Fields lists the staging column for every field of a row, empty entries are discarded.
	Fields       []string
	ExtraOptions []string
}

func (md MySQLDialect) BuildLoadDataQuery(args LoadDataArgs) string {
	var fields []string
	for _, field := range args.Fields {
		if field == "" {
			fields = append(fields, DiscardPlaceholder)
		} else {
			fields = append(fields, md.QuoteIdentifier(field))
		}
	}

	parts := []string{
		fmt.Sprintf("LOAD DATA LOCAL INFILE %s INTO TABLE %s", sql.QuoteLiteral(args.FileName), args.StagingID.FullyQualifiedName()),
	}
	parts = append(parts, args.ExtraOptions...)
	parts = append(parts, fmt.Sprintf("FIELDS TERMINATED BY %s", sql.QuoteLiteral(args.Delimiter)))

	if args.Enclosure != "" {
		// Enclosure and escape are mutually exclusive, enclosed fields double the quote instead.
		parts = append(parts, fmt.Sprintf("OPTIONALLY ENCLOSED BY %s ESCAPED BY ''", sql.QuoteLiteral(args.Enclosure)))
	} else {
		parts = append(parts, fmt.Sprintf("ESCAPED BY %s", sql.QuoteLiteral(args.EscapeChar)))
	}

	parts = append(parts, fmt.Sprintf("LINES TERMINATED BY %s", sql.QuoteLiteral(args.LineBreak)))
	if args.IgnoreRows > 0 {
		parts = append(parts, fmt.Sprintf("IGNORE %d LINES", args.IgnoreRows))
	}
	parts = append(parts, fmt.Sprintf("(%s)", strings.Join(fields, ", ")))

	return strings.Join(parts, " ")
}
