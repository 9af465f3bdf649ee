package transform

import (
	"context"

	"github.com/tabkit/tabular/dataset"
)

// Transformer turns one container into another, typically changing column
// types, names or content. Implementations must never mutate the input
// container; they derive a successor and append a change record to its
// history metadata.
type Transformer interface {
	// Name is the unique registry key for this step.
	Name() string

	// Categories lists the data categories this step declares support for.
	Categories() []dataset.Category

	// CanTransform reports whether the step applies to the container. A
	// category mismatch yields (false, nil) so pipelines can skip the
	// step; a structural mismatch the step cannot tolerate (missing
	// columns, wrong payload shape) yields (false, err).
	CanTransform(c *dataset.Container) (bool, error)

	// Transform produces the successor container.
	Transform(ctx context.Context, c *dataset.Container) (*dataset.Container, error)
}

// categoryIn reports whether cat is in the supported set.
func categoryIn(cat dataset.Category, supported []dataset.Category) bool {
	for _, s := range supported {
		if s == cat {
			return true
		}
	}
	return false
}
