package quality

import (
	"fmt"
	"math"

	"github.com/tabkit/tabular/dataset"
)

// DefaultCompletenessThreshold is the pass mark for overall completeness,
// in percent.
const DefaultCompletenessThreshold = 95.0

// CompletenessCheck analyzes missing values in tabular data: per-column
// missing counts and percentages, the aggregate completeness percentage
// and a pass/fail verdict against a threshold.
type CompletenessCheck struct {
	threshold float64
}

// NewCompletenessCheck creates the check with the given pass threshold in
// percent.
func NewCompletenessCheck(threshold float64) *CompletenessCheck {
	return &CompletenessCheck{threshold: threshold}
}

func (c *CompletenessCheck) Name() string            { return "completeness_check" }
func (c *CompletenessCheck) Category() CheckCategory { return Completeness }

func (c *CompletenessCheck) Description() string {
	return "Analyzes missing values and completeness patterns in tabular data"
}

// CanHandle accepts only tabular containers holding a table payload.
func (c *CompletenessCheck) CanHandle(container *dataset.Container) bool {
	if container.Category() != dataset.Tabular {
		return false
	}
	_, ok := container.Table()
	return ok
}

// Check computes the completeness statistics. An empty table is 100%
// complete; the zero-cell case is special-cased so no division fault can
// occur.
func (c *CompletenessCheck) Check(container *dataset.Container) (Result, error) {
	if !c.CanHandle(container) {
		return Result{}, fmt.Errorf("%w: completeness requires tabular data", ErrCannotHandle)
	}

	table, _ := container.Table()
	rows := table.NumRows()
	totalCells := rows * table.NumCols()

	totalMissing := 0
	columnStats := make(map[string]any, table.NumCols())
	for _, name := range table.Columns() {
		col, _ := table.Column(name)
		missing := col.MissingCount()
		totalMissing += missing

		missingPct := 0.0
		if rows > 0 {
			missingPct = float64(missing) / float64(rows) * 100
		}
		columnStats[name] = map[string]any{
			"missing_count":      missing,
			"missing_percentage": round2(missingPct),
			"dtype":              col.Type,
		}
	}

	completeness := 100.0
	if totalCells > 0 {
		completeness = float64(totalCells-totalMissing) / float64(totalCells) * 100
	}
	status := completeness >= c.threshold

	details := map[string]any{
		"total_rows":           rows,
		"total_columns":        table.NumCols(),
		"total_cells":          totalCells,
		"total_missing":        totalMissing,
		"overall_completeness": round2(completeness),
		"column_stats":         columnStats,
	}

	verdict := "FAILED"
	if status {
		verdict = "PASSED"
	}
	summary := fmt.Sprintf(
		"Dataset Completeness Analysis:\n"+
			"- Overall completeness: %.2f%%\n"+
			"- Total missing values: %d out of %d cells\n"+
			"- %d columns analyzed\n"+
			"- Status: %s",
		completeness, totalMissing, totalCells, table.NumCols(), verdict,
	)

	return Result{
		CheckName: c.Name(),
		Category:  c.Category(),
		Status:    status,
		Details:   details,
		Summary:   summary,
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
