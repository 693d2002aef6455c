package sql

import (
	"fmt"
	"strings"
)

// QuoteLiteral escapes backslashes and quotes with a backslash, the way MySQL and Snowflake read string literals.
func QuoteLiteral(value string) string {
	return fmt.Sprintf("'%s'", strings.ReplaceAll(strings.ReplaceAll(value, `\`, `\\`), "'", `\'`))
}

// QuoteStandardLiteral doubles single quotes and leaves backslashes alone.
func QuoteStandardLiteral(value string) string {
	return fmt.Sprintf("'%s'", strings.ReplaceAll(value, "'", "''"))
}

// QuoteIdentifier wraps the identifier in quote and doubles any embedded quote.
func QuoteIdentifier(identifier string, quote string) string {
	return quote + strings.ReplaceAll(identifier, quote, quote+quote) + quote
}
