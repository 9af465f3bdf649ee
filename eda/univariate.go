package eda

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/tabkit/tabular/dataset"
	"github.com/tabkit/tabular/quality"
)

// UnivariateAnalyzer examines each column of a tabular container on its
// own: summary statistics, skewness and kurtosis for numeric columns,
// value counts for categorical ones, plus distribution plots and one-line
// insights per column.
type UnivariateAnalyzer struct{}

// NewUnivariateAnalyzer creates the built-in univariate analyzer.
func NewUnivariateAnalyzer() *UnivariateAnalyzer {
	return &UnivariateAnalyzer{}
}

func (a *UnivariateAnalyzer) Name() string       { return "univariate_analyzer" }
func (a *UnivariateAnalyzer) Type() AnalysisType { return Univariate }

func (a *UnivariateAnalyzer) Categories() []dataset.Category {
	return []dataset.Category{dataset.Tabular}
}

func (a *UnivariateAnalyzer) Description() string {
	return "Performs univariate analysis on numerical and categorical columns"
}

// CanAnalyze accepts tabular containers holding a table payload.
func (a *UnivariateAnalyzer) CanAnalyze(c *dataset.Container) bool {
	if c.Category() != dataset.Tabular {
		return false
	}
	_, ok := c.Table()
	return ok
}

// Analyze computes per-column statistics, renders plots and generates
// insight strings.
func (a *UnivariateAnalyzer) Analyze(c *dataset.Container, qr *quality.Report) (Result, error) {
	table, ok := c.Table()
	if !ok {
		return Result{}, fmt.Errorf("%w (category %q)", ErrNotTabular, c.Category())
	}

	numericStats := make(map[string]any)
	categoricalStats := make(map[string]any)
	var visualizations []Visualization
	var insights []string
	numNumeric, numCategorical := 0, 0
	rows := table.NumRows()

	for _, name := range table.Columns() {
		col, _ := table.Column(name)
		switch col.Type {
		case dataset.TypeInt32, dataset.TypeInt64, dataset.TypeFloat64:
			numNumeric++
			values := numericValues(col)
			missing := col.MissingCount()
			if len(values) == 0 {
				numericStats[name] = map[string]any{"missing": missing, "count": 0}
				continue
			}

			summary := describe(values)
			skew := stat.Skew(values, nil)
			numericStats[name] = map[string]any{
				"summary":  summary,
				"skewness": skew,
				"kurtosis": stat.ExKurtosis(values, nil),
				"missing":  missing,
			}

			if hist, err := histogramPlot(name, values); err == nil {
				visualizations = append(visualizations, hist)
			}
			if box, err := boxPlot(name, values); err == nil {
				visualizations = append(visualizations, box)
			}

			insights = append(insights,
				fmt.Sprintf("%s: Mean = %.2f, Std = %.2f", name, summary["mean"], summary["std"]),
				fmt.Sprintf("%s: %.1f%% missing values", name, missingPct(missing, rows)),
				fmt.Sprintf("%s: Distribution is %s", name, skewShape(skew)),
			)

		case dataset.TypeString, dataset.TypeCategory, dataset.TypeBool:
			numCategorical++
			counts, order := valueCounts(col)
			missing := col.MissingCount()
			categoricalStats[name] = map[string]any{
				"value_counts":  counts,
				"missing":       missing,
				"unique_values": len(counts),
			}

			if len(order) > 0 {
				labels, barValues := topCounts(counts, order, 12)
				if bar, err := barPlot(name, labels, barValues); err == nil {
					visualizations = append(visualizations, bar)
				}

				top := order[0]
				topPct := missingPct(counts[top], rows)
				insights = append(insights,
					fmt.Sprintf("%s: %d unique values", name, len(counts)),
					fmt.Sprintf("%s: Most common category is %q (%.1f%%)", name, top, topPct),
					fmt.Sprintf("%s: %.1f%% missing values", name, missingPct(missing, rows)),
				)
			}
		}
	}

	statistics := make(map[string]any)
	if numNumeric > 0 {
		statistics["numerical"] = numericStats
	}
	if numCategorical > 0 {
		statistics["categorical"] = categoricalStats
	}

	return Result{
		AnalysisName:   a.Name(),
		Type:           a.Type(),
		Statistics:     statistics,
		Visualizations: visualizations,
		Insights:       insights,
		Metadata: map[string]any{
			"n_numerical":     numNumeric,
			"n_categorical":   numCategorical,
			"total_variables": table.NumCols(),
		},
	}, nil
}

// numericValues extracts the non-missing cells of a numeric column as
// float64.
func numericValues(col *dataset.Column) []float64 {
	var out []float64
	for _, cell := range col.Cells {
		switch v := cell.(type) {
		case int64:
			out = append(out, float64(v))
		case float64:
			out = append(out, v)
		}
	}
	return out
}

// describe computes the summary block: count, mean, std, min, quartiles,
// max.
func describe(values []float64) map[string]float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return map[string]float64{
		"count": float64(len(values)),
		"mean":  stat.Mean(values, nil),
		"std":   stat.StdDev(values, nil),
		"min":   sorted[0],
		"25%":   stat.Quantile(0.25, stat.Empirical, sorted, nil),
		"50%":   stat.Quantile(0.5, stat.Empirical, sorted, nil),
		"75%":   stat.Quantile(0.75, stat.Empirical, sorted, nil),
		"max":   sorted[len(sorted)-1],
	}
}

// valueCounts tallies non-missing cells, returning the counts and the
// distinct values ordered by descending count, value as tiebreak.
func valueCounts(col *dataset.Column) (map[string]int, []string) {
	counts := make(map[string]int)
	for _, cell := range col.Cells {
		if cell == nil {
			continue
		}
		counts[fmt.Sprintf("%v", cell)]++
	}

	order := make([]string, 0, len(counts))
	for v := range counts {
		order = append(order, v)
	}
	sort.Slice(order, func(i, j int) bool {
		if counts[order[i]] != counts[order[j]] {
			return counts[order[i]] > counts[order[j]]
		}
		return order[i] < order[j]
	})
	return counts, order
}

func topCounts(counts map[string]int, order []string, limit int) ([]string, []float64) {
	if len(order) > limit {
		order = order[:limit]
	}
	values := make([]float64, len(order))
	for i, label := range order {
		values[i] = float64(counts[label])
	}
	return order, values
}

// skewSymmetryBound is the |skewness| below which a distribution is
// described as symmetric rather than skewed.
const skewSymmetryBound = 0.5

func skewShape(skew float64) string {
	switch {
	case skew > skewSymmetryBound:
		return "positively skewed"
	case skew < -skewSymmetryBound:
		return "negatively skewed"
	default:
		return "approximately symmetric"
	}
}

func missingPct(count, rows int) float64 {
	if rows == 0 {
		return 0
	}
	return float64(count) / float64(rows) * 100
}
