package mysql

import (
	"errors"
	"slices"

	"github.com/go-sql-driver/mysql"

	"github.com/artie-labs/bulkload/lib/importerr"
)

// ER_QUERY_INTERRUPTED and ER_QUERY_TIMEOUT
var timeoutErrorNumbers = []uint16{1317, 3024}

var patterns = importerr.Patterns{
	importerr.NewPattern(`Data too long for column '([^']+)'`, importerr.StringTooLong, "value is too long for column $1"),
	importerr.NewPattern(`Incorrect (\w+) value: '([^']*)' for column '([^']+)'`, importerr.DataTypeMismatch, "invalid $1 value '$2' for column $3"),
	importerr.NewPattern(`Truncated incorrect (\w+) value`, importerr.DataTypeMismatch, ""),
	importerr.NewPattern(`Out of range value for column '([^']+)'`, importerr.DataTypeMismatch, "value is out of range for column $1"),
	importerr.NewPattern(`maximum statement execution time exceeded|Query execution was interrupted`, importerr.QueryTimeout, ""),
	importerr.NewPattern(`Table '([^']+)' doesn't exist`, importerr.TableNotFound, "table $1 does not exist"),
}

func Classify(err error) error {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && slices.Contains(timeoutErrorNumbers, mysqlErr.Number) {
		return importerr.Wrap(importerr.QueryTimeout, err, "query exceeded the execution time limit")
	}

	return patterns.Classify(err)
}
