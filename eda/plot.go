package eda

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Visualization is a renderable plot handle produced by an analyzer.
type Visualization struct {
	Title string
	Plot  *plot.Plot
}

// SavePNG renders the plot to a PNG file at path.
func (v Visualization) SavePNG(path string) error {
	if v.Plot == nil {
		return fmt.Errorf("visualization %q has no plot", v.Title)
	}
	return v.Plot.Save(6*vg.Inch, 4*vg.Inch, path)
}

func histogramPlot(column string, values []float64) (Visualization, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Distribution of %s", column)
	p.X.Label.Text = column
	p.Y.Label.Text = "count"

	h, err := plotter.NewHist(plotter.Values(values), 16)
	if err != nil {
		return Visualization{}, fmt.Errorf("histogram for %q: %w", column, err)
	}
	p.Add(h)
	return Visualization{Title: p.Title.Text, Plot: p}, nil
}

func boxPlot(column string, values []float64) (Visualization, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Box Plot of %s", column)
	p.Y.Label.Text = column

	b, err := plotter.NewBoxPlot(vg.Points(30), 0, plotter.Values(values))
	if err != nil {
		return Visualization{}, fmt.Errorf("box plot for %q: %w", column, err)
	}
	p.Add(b)
	p.NominalX(column)
	return Visualization{Title: p.Title.Text, Plot: p}, nil
}

func barPlot(column string, labels []string, counts []float64) (Visualization, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Value Counts for %s", column)
	p.Y.Label.Text = "count"

	bars, err := plotter.NewBarChart(plotter.Values(counts), vg.Points(20))
	if err != nil {
		return Visualization{}, fmt.Errorf("bar chart for %q: %w", column, err)
	}
	p.Add(bars)
	p.NominalX(labels...)
	return Visualization{Title: p.Title.Text, Plot: p}, nil
}
