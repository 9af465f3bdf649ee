package eda

import (
	"errors"

	"github.com/tabkit/tabular/dataset"
	"github.com/tabkit/tabular/quality"
)

var (
	// ErrAnalyzerExists is returned when registering an analyzer whose
	// name is already taken.
	ErrAnalyzerExists = errors.New("analyzer already registered")

	// ErrNotTabular is returned when a tabular-only analyzer receives a
	// container without a table payload.
	ErrNotTabular = errors.New("payload is not a table")
)

// AnalysisType classifies the kind of exploratory analysis performed.
type AnalysisType string

const (
	Univariate   AnalysisType = "univariate"
	Bivariate    AnalysisType = "bivariate"
	Multivariate AnalysisType = "multivariate"
	Temporal     AnalysisType = "temporal"
	Categorical  AnalysisType = "categorical"
)

// Analyzer is a plugin producing descriptive statistics, visualizations
// and natural-language insights about a container.
type Analyzer interface {
	// Name is the unique registry key for this analyzer.
	Name() string

	// Type classifies the analysis.
	Type() AnalysisType

	// Categories lists the data categories this analyzer supports.
	Categories() []dataset.Category

	// Description is a short human-readable purpose statement.
	Description() string

	// CanAnalyze reports whether the analyzer applies to the container.
	CanAnalyze(c *dataset.Container) bool

	// Analyze runs the analysis. The quality report, when present, may
	// inform the analysis; it can be nil.
	Analyze(c *dataset.Container, qr *quality.Report) (Result, error)
}

// Result is the outcome of one analysis run.
type Result struct {
	AnalysisName string
	Type         AnalysisType

	// Statistics holds the structured measures, keyed per concern.
	Statistics map[string]any

	// Visualizations carries renderable plot handles.
	Visualizations []Visualization

	// Insights lists one-line human-readable findings.
	Insights []string

	// Metadata carries counts and context about the run.
	Metadata map[string]any
}
