package gateway

import "fmt"

// ValidationError reports a malformed input record rejected at the boundary.
// Reconciliation is never started on input that failed validation.
type ValidationError struct {
	Source string
	Record int
	Field  string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: record %d: invalid %s: %v", e.Source, e.Record, e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
