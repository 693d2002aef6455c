package db

import (
	"errors"
	"fmt"
	"io"
	"syscall"
)

var retryableErrs = []error{
	syscall.ECONNRESET,
	syscall.ECONNREFUSED,
	io.EOF,
}

func retryableError(err error) bool {
	if err == nil {
		return false
	}

	for _, retryableErr := range retryableErrs {
		if errors.Is(err, retryableErr) {
			return true
		}
	}

	return false
}

// QueryError carries the SQL that failed alongside the driver error.
type QueryError struct {
	Query string
	Err   error
}

func (q *QueryError) Error() string {
	return fmt.Sprintf("failed to execute %q: %v", q.Query, q.Err)
}

func (q *QueryError) Unwrap() error {
	return q.Err
}
