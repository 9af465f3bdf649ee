package eda

import (
	"time"

	"github.com/google/uuid"

	"github.com/tabkit/tabular/dataset"
	"github.com/tabkit/tabular/quality"
)

// insightsPerAnalysis is how many leading insights each analysis
// contributes to the report summary.
const insightsPerAnalysis = 3

// Report combines the results of every analyzer that ran against a
// container.
type Report struct {
	ID            string
	Container     *dataset.Container
	QualityReport *quality.Report
	Analyses      []Result
	Timestamp     time.Time
	Metadata      map[string]any
}

func newReport(c *dataset.Container, qr *quality.Report, analyses []Result, metadata map[string]any) *Report {
	return &Report{
		ID:            uuid.NewString(),
		Container:     c,
		QualityReport: qr,
		Analyses:      analyses,
		Timestamp:     time.Now().UTC(),
		Metadata:      metadata,
	}
}

// AnalysesByType returns all analyses of the given type.
func (r *Report) AnalysesByType(t AnalysisType) []Result {
	var out []Result
	for _, a := range r.Analyses {
		if a.Type == t {
			out = append(out, a)
		}
	}
	return out
}

// AnalysisByName returns the analysis with the given name, or false.
func (r *Report) AnalysisByName(name string) (Result, bool) {
	for _, a := range r.Analyses {
		if a.AnalysisName == name {
			return a, true
		}
	}
	return Result{}, false
}

// Summary renders a high-level view: total analyses, per-type counts and
// the first few insights of every analysis flattened into one list.
func (r *Report) Summary() map[string]any {
	typeCounts := make(map[AnalysisType]int)
	var keyInsights []string
	for _, a := range r.Analyses {
		typeCounts[a.Type]++
		n := len(a.Insights)
		if n > insightsPerAnalysis {
			n = insightsPerAnalysis
		}
		keyInsights = append(keyInsights, a.Insights[:n]...)
	}
	return map[string]any{
		"total_analyses": len(r.Analyses),
		"analysis_types": typeCounts,
		"key_insights":   keyInsights,
	}
}
