package reconcile

import (
	"errors"
	"fmt"
)

// ErrMissingPopulation is returned when one of the input populations is
// absent. An absent population is never treated as an empty one.
var ErrMissingPopulation = errors.New("population missing")

// PreconditionError reports which population was absent.
type PreconditionError struct {
	Population string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("reconcile precondition failed: %s %s", e.Population, ErrMissingPopulation)
}

// Unwrap allows errors.Is(err, ErrMissingPopulation).
func (e *PreconditionError) Unwrap() error {
	return ErrMissingPopulation
}

// DiagnosticCode classifies a non-fatal condition.
type DiagnosticCode string

const (
	// CodeInvalidInput marks a malformed hostname, IP or identifier on a record.
	CodeInvalidInput DiagnosticCode = "invalid_input"
	// CodeAmbiguousMatch marks an agent that matched several records.
	CodeAmbiguousMatch DiagnosticCode = "ambiguous_match"
)

// Diagnostic is a non-fatal condition surfaced alongside a report.
type Diagnostic struct {
	Code     DiagnosticCode `json:"code"`
	Kind     Kind           `json:"kind"`
	RecordID string         `json:"record_id"`
	Message  string         `json:"message"`
}

func invalidInput(kind Kind, id, format string, args ...any) Diagnostic {
	return Diagnostic{
		Code:     CodeInvalidInput,
		Kind:     kind,
		RecordID: id,
		Message:  fmt.Sprintf(format, args...),
	}
}
