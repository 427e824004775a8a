package policy

import "fmt"

type ErrorKind string

const (
	InvalidEnum          ErrorKind = "invalid-enum"
	InvalidRange         ErrorKind = "invalid-range"
	InvalidType          ErrorKind = "invalid-type"
	DuplicateIdentity    ErrorKind = "duplicate-identity"
	MissingRequiredField ErrorKind = "missing-required-field"
)

// ValidationError is returned for any rejected configuration value. A single
// ValidationError anywhere in a config tree fails the entire load.
type ValidationError struct {
	Field  string
	Kind   ErrorKind
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", e.Field, e.Reason, e.Kind)
}

func newError(field string, kind ErrorKind, format string, args ...any) *ValidationError {
	return &ValidationError{
		Field:  field,
		Kind:   kind,
		Reason: fmt.Sprintf(format, args...),
	}
}
