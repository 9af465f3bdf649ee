package quality

import (
	"time"

	"github.com/google/uuid"

	"github.com/tabkit/tabular/dataset"
)

// Report aggregates the results of one quality run against a container.
type Report struct {
	ID        string
	Container *dataset.Container
	Results   []Result
	Timestamp time.Time
	Metadata  map[string]any
}

func newReport(c *dataset.Container, results []Result, metadata map[string]any) *Report {
	return &Report{
		ID:        uuid.NewString(),
		Container: c,
		Results:   results,
		Timestamp: time.Now().UTC(),
		Metadata:  metadata,
	}
}

// PassedChecks returns the results that passed.
func (r *Report) PassedChecks() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Status {
			out = append(out, res)
		}
	}
	return out
}

// FailedChecks returns the results that failed.
func (r *Report) FailedChecks() []Result {
	var out []Result
	for _, res := range r.Results {
		if !res.Status {
			out = append(out, res)
		}
	}
	return out
}

// ChecksByCategory filters results by check category.
func (r *Report) ChecksByCategory(category CheckCategory) []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Category == category {
			out = append(out, res)
		}
	}
	return out
}
