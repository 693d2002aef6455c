package importerr

import (
	"errors"
	"regexp"
)

// Pattern maps a backend error message onto a [Kind]. Template may reference sub-matches of
// Expression using the [regexp.Regexp.Expand] syntax, e.g. "column $1 is too short".
type Pattern struct {
	Expression *regexp.Regexp
	Kind       Kind
	Template   string
}

func NewPattern(expr string, kind Kind, template string) Pattern {
	return Pattern{Expression: regexp.MustCompile(expr), Kind: kind, Template: template}
}

type Patterns []Pattern

// Classify checks the patterns in order and returns an [*Error] for the first one that matches.
// Errors that are already classified are returned unchanged, anything unrecognized becomes [UnknownError].
func (p Patterns) Classify(err error) error {
	if err == nil {
		return nil
	}

	var importErr *Error
	if errors.As(err, &importErr) {
		return err
	}

	msg := err.Error()
	for _, pattern := range p {
		submatches := pattern.Expression.FindStringSubmatchIndex(msg)
		if submatches == nil {
			continue
		}

		message := msg
		if pattern.Template != "" {
			message = string(pattern.Expression.ExpandString(nil, pattern.Template, msg, submatches))
		}

		return &Error{Kind: pattern.Kind, Message: message, Cause: err}
	}

	return &Error{Kind: UnknownError, Message: msg, Cause: err}
}

// Reclassify behaves like [Patterns.Classify] but turns anything that would be [UnknownError] into fallback.
func (p Patterns) Reclassify(err error, fallback Kind) error {
	return Fallback(p.Classify(err), fallback)
}

// Fallback replaces the kind of an unclassified error, errors outside the taxonomy are wrapped first.
func Fallback(err error, kind Kind) error {
	if err == nil {
		return nil
	}

	var importErr *Error
	if !errors.As(err, &importErr) {
		return &Error{Kind: kind, Message: err.Error(), Cause: err}
	}

	if importErr.Kind != UnknownError {
		return err
	}

	copied := *importErr
	copied.Kind = kind
	return &copied
}
