package snowflake

import (
	"errors"
	"strings"

	"github.com/snowflakedb/gosnowflake"

	"github.com/artie-labs/bulkload/lib/importerr"
)

// Statement reached its statement or warehouse timeout.
const statementTimeoutErrorNumber = 630

var patterns = importerr.Patterns{
	importerr.NewPattern(`String '([^']*)' is too long and would be truncated`, importerr.StringTooLong, "value '$1' is too long for its column"),
	importerr.NewPattern(`User character length limit \((\d+)\) exceeded`, importerr.StringTooLong, "value exceeds the column width of $1"),
	importerr.NewPattern(`(Numeric value|Timestamp|Date|Boolean value) '([^']*)' is not recognized`, importerr.DataTypeMismatch, "$1 '$2' is not recognized"),
	importerr.NewPattern(`Number of columns in file \((\d+)\) does not match`, importerr.DataTypeMismatch, ""),
	importerr.NewPattern(`reached its statement or warehouse timeout|statement timeout`, importerr.QueryTimeout, "query exceeded the statement timeout"),
	importerr.NewPattern(`(?:Table|Object) '([^']+)' does not exist or not authorized`, importerr.TableNotFound, "table $1 does not exist"),
}

func Classify(err error) error {
	var snowflakeErr *gosnowflake.SnowflakeError
	if errors.As(err, &snowflakeErr) && snowflakeErr.Number == statementTimeoutErrorNumber {
		return importerr.Wrap(importerr.QueryTimeout, err, "query exceeded the statement timeout")
	}

	return patterns.Classify(err)
}

func AuthenticationExpirationErr(err error) bool {
	if err == nil {
		return false
	}

	return strings.Contains(err.Error(), "Authentication token has expired")
}
