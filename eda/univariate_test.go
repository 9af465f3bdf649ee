package eda

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabkit/tabular/dataset"
)

func tabularContainer(t *testing.T, columns ...dataset.Column) *dataset.Container {
	t.Helper()
	table, err := dataset.NewTable(columns...)
	require.NoError(t, err)
	return dataset.NewContainer(table, nil, dataset.Tabular)
}

func mixedContainer(t *testing.T) *dataset.Container {
	t.Helper()
	return tabularContainer(t,
		dataset.Column{Name: "score", Type: dataset.TypeFloat64,
			Cells: []any{1.0, 2.0, 3.0, 4.0, nil}},
		dataset.Column{Name: "city", Type: dataset.TypeString,
			Cells: []any{"oslo", "oslo", "bergen", nil, "oslo"}},
	)
}

func TestUnivariateAnalyzerCanAnalyze(t *testing.T) {
	a := NewUnivariateAnalyzer()

	assert.True(t, a.CanAnalyze(mixedContainer(t)))
	assert.False(t, a.CanAnalyze(dataset.NewContainer("words", nil, dataset.Text)))
	assert.False(t, a.CanAnalyze(dataset.NewContainer("not a table", nil, dataset.Tabular)))
}

func TestUnivariateAnalyzerNumeric(t *testing.T) {
	a := NewUnivariateAnalyzer()
	result, err := a.Analyze(mixedContainer(t), nil)
	require.NoError(t, err)

	assert.Equal(t, "univariate_analyzer", result.AnalysisName)
	assert.Equal(t, Univariate, result.Type)

	numerical := result.Statistics["numerical"].(map[string]any)
	score := numerical["score"].(map[string]any)
	summary := score["summary"].(map[string]float64)

	assert.Equal(t, 4.0, summary["count"])
	assert.InDelta(t, 2.5, summary["mean"], 1e-9)
	assert.Equal(t, 1.0, summary["min"])
	assert.Equal(t, 4.0, summary["max"])
	assert.InDelta(t, 2.0, summary["50%"], 1.0)
	assert.Equal(t, 1, score["missing"])
}

func TestUnivariateAnalyzerCategorical(t *testing.T) {
	a := NewUnivariateAnalyzer()
	result, err := a.Analyze(mixedContainer(t), nil)
	require.NoError(t, err)

	categorical := result.Statistics["categorical"].(map[string]any)
	city := categorical["city"].(map[string]any)

	counts := city["value_counts"].(map[string]int)
	assert.Equal(t, 3, counts["oslo"])
	assert.Equal(t, 1, counts["bergen"])
	assert.Equal(t, 2, city["unique_values"])
	assert.Equal(t, 1, city["missing"])
}

func TestUnivariateAnalyzerInsightsAndPlots(t *testing.T) {
	a := NewUnivariateAnalyzer()
	result, err := a.Analyze(mixedContainer(t), nil)
	require.NoError(t, err)

	// Three insight lines per column, numeric and categorical alike.
	assert.Len(t, result.Insights, 6)

	// Histogram and box plot for the numeric column, bar chart for the
	// categorical one.
	require.Len(t, result.Visualizations, 3)
	for _, v := range result.Visualizations {
		assert.NotNil(t, v.Plot)
		assert.NotEmpty(t, v.Title)
	}

	assert.Equal(t, 1, result.Metadata["n_numerical"])
	assert.Equal(t, 1, result.Metadata["n_categorical"])
	assert.Equal(t, 2, result.Metadata["total_variables"])
}

func TestUnivariateAnalyzerSkewShape(t *testing.T) {
	assert.Equal(t, "approximately symmetric", skewShape(0))
	assert.Equal(t, "approximately symmetric", skewShape(0.3))
	assert.Equal(t, "approximately symmetric", skewShape(-0.3))
	assert.Equal(t, "positively skewed", skewShape(1.2))
	assert.Equal(t, "negatively skewed", skewShape(-1.2))

	// The score column (1..4) is perfectly symmetric and must not be
	// reported as skewed.
	a := NewUnivariateAnalyzer()
	result, err := a.Analyze(mixedContainer(t), nil)
	require.NoError(t, err)
	assert.Contains(t, result.Insights, "score: Distribution is approximately symmetric")
}

func TestUnivariateAnalyzerAllMissingNumeric(t *testing.T) {
	c := tabularContainer(t,
		dataset.Column{Name: "empty", Type: dataset.TypeFloat64, Cells: []any{nil, nil}},
	)

	a := NewUnivariateAnalyzer()
	result, err := a.Analyze(c, nil)
	require.NoError(t, err)

	numerical := result.Statistics["numerical"].(map[string]any)
	empty := numerical["empty"].(map[string]any)
	assert.Equal(t, 0, empty["count"])
	assert.Equal(t, 2, empty["missing"])
	assert.Empty(t, result.Visualizations, "nothing to plot")
}

func TestUnivariateAnalyzerNotTabular(t *testing.T) {
	a := NewUnivariateAnalyzer()
	_, err := a.Analyze(dataset.NewContainer("text", nil, dataset.Tabular), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotTabular)
}

func TestValueCountsOrdering(t *testing.T) {
	col := &dataset.Column{Name: "c", Type: dataset.TypeString,
		Cells: []any{"b", "a", "b", "c", "a", "b", nil}}

	counts, order := valueCounts(col)
	assert.Equal(t, map[string]int{"a": 2, "b": 3, "c": 1}, counts)
	assert.Equal(t, []string{"b", "a", "c"}, order,
		"descending count, value as tiebreak")
}
