package quality

import (
	"errors"

	"github.com/tabkit/tabular/dataset"
)

var (
	// ErrCheckExists is returned when registering a check whose name is
	// already taken.
	ErrCheckExists = errors.New("check already registered")

	// ErrCheckNotFound is returned when a check is requested by an unknown
	// name.
	ErrCheckNotFound = errors.New("check not found")

	// ErrCannotHandle is returned when a named check declares it cannot
	// handle the container's category or payload shape.
	ErrCannotHandle = errors.New("check cannot handle data")
)

// CheckCategory groups quality checks by the structural property they
// examine.
type CheckCategory string

const (
	Completeness CheckCategory = "completeness"
	Consistency  CheckCategory = "consistency"
	Accuracy     CheckCategory = "accuracy"
	Temporal     CheckCategory = "temporal"
	Distribution CheckCategory = "distribution"
)

// Check is a plugin producing a pass/fail verdict about some structural
// property of a container.
type Check interface {
	// Name is the unique registry key for this check.
	Name() string

	// Category groups the check.
	Category() CheckCategory

	// Description is a short human-readable purpose statement.
	Description() string

	// CanHandle reports whether the check applies to the container.
	CanHandle(c *dataset.Container) bool

	// Check runs the analysis and produces a result.
	Check(c *dataset.Container) (Result, error)
}

// Result is the outcome of a single quality check.
type Result struct {
	CheckName string
	Category  CheckCategory

	// Status is true when the check passed.
	Status bool

	// Details holds the structured findings.
	Details map[string]any

	// Summary is a human-readable, possibly multi-line rendering of the
	// findings.
	Summary string

	// Visualization optionally carries a plot handle.
	Visualization any
}
