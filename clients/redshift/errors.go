package redshift

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/artie-labs/bulkload/lib/importerr"
)

// https://www.postgresql.org/docs/current/errcodes-appendix.html
var sqlStateKinds = map[string]importerr.Kind{
	"57014": importerr.QueryTimeout,
	"22001": importerr.StringTooLong,
	"22P02": importerr.DataTypeMismatch,
	"22003": importerr.DataTypeMismatch,
	"42P01": importerr.TableNotFound,
}

var patterns = importerr.Patterns{
	importerr.NewPattern(`value too long for type character varying\((\d+)\)`, importerr.StringTooLong, "value exceeds the column width of $1"),
	importerr.NewPattern(`String length exceeds DDL length`, importerr.StringTooLong, ""),
	importerr.NewPattern(`invalid input syntax for (?:type )?(\w+)`, importerr.DataTypeMismatch, "value is not a valid $1"),
	importerr.NewPattern(`canceling statement due to statement timeout|Query \(\d+\) cancelled`, importerr.QueryTimeout, "query exceeded the statement timeout"),
	importerr.NewPattern(`relation "([^"]+)" does not exist`, importerr.TableNotFound, "table $1 does not exist"),
}

func Classify(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if kind, ok := sqlStateKinds[pgErr.Code]; ok {
			return &importerr.Error{Kind: kind, Message: pgErr.Message, Cause: err}
		}
	}

	return patterns.Classify(err)
}
