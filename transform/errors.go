package transform

import (
	"errors"
	"fmt"
)

var (
	// ErrTransformerExists is returned when registering a transformer whose
	// name is already taken.
	ErrTransformerExists = errors.New("transformer already registered")

	// ErrTransformerNotFound is returned when a step name does not resolve.
	ErrTransformerNotFound = errors.New("transformer not found")

	// ErrPipelineExists is returned when creating a pipeline under a name
	// already in use.
	ErrPipelineExists = errors.New("pipeline already exists")

	// ErrPipelineNotFound is returned when a pipeline name does not resolve.
	ErrPipelineNotFound = errors.New("pipeline not found")

	// ErrColumnMismatch is returned when a column specification references
	// columns absent from the table.
	ErrColumnMismatch = errors.New("columns not found in table")

	// ErrNotTabular is returned when a tabular-only step receives a
	// tabular-category container whose payload is not a table.
	ErrNotTabular = errors.New("payload is not a table")
)

// StepError describes a failure inside a transform step, carrying the
// offending step and, for column-level failures, the column and target
// dtype.
type StepError struct {
	Step   string
	Column string
	Dtype  string
	Err    error
}

func (e *StepError) Error() string {
	switch {
	case e.Column != "" && e.Dtype != "":
		return fmt.Sprintf("step %q: column %q -> %s: %v", e.Step, e.Column, e.Dtype, e.Err)
	case e.Column != "":
		return fmt.Sprintf("step %q: column %q: %v", e.Step, e.Column, e.Err)
	default:
		return fmt.Sprintf("step %q: %v", e.Step, e.Err)
	}
}

func (e *StepError) Unwrap() error { return e.Err }
