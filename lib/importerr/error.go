package importerr

import (
	"errors"
	"fmt"
)

type Error struct {
	Kind    Kind
	Message string
	// Query is the SQL statement that was running when the error happened, if any.
	Query string
	Cause error
}

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.Cause != nil && e.Cause.Error() != e.Message {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// WithQuery returns a copy of the error with the failing SQL attached.
func (e *Error) WithQuery(query string) *Error {
	copied := *e
	copied.Query = query
	return &copied
}

// KindOf returns the kind of the first [*Error] in the chain, or [UnknownError] when there is none.
func KindOf(err error) Kind {
	var importErr *Error
	if errors.As(err, &importErr) {
		return importErr.Kind
	}
	return UnknownError
}

func IsKind(err error, kind Kind) bool {
	var importErr *Error
	if errors.As(err, &importErr) {
		return importErr.Kind == kind
	}
	return false
}
