// Package charts renders the distribution visualizations as
// self-contained HTML files. Rendering belongs to go-echarts; this
// package only shapes aggregate counts into series.
package charts

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"sih-scout/pkg/aggregate"
)

// TopStatesBar renders a ranked bar chart of team counts per state.
func TopStatesBar(counts []aggregate.Count, path string) error {
	bar := newBar("Top States by Number of Selected Teams", counts)
	return renderTo(bar, path)
}

// CityDistributionBar renders team counts across the top cities.
func CityDistributionBar(counts []aggregate.Count, path string) error {
	bar := newBar("Distribution of Teams Across Top Cities", counts)
	return renderTo(bar, path)
}

// StateSharePie renders each state's share of the total.
func StateSharePie(counts []aggregate.Count, path string) error {
	return renderTo(newPie(counts), path)
}

// StateCityStacked renders per-city counts stacked by state, limited
// to the given ranked state and city lists.
func StateCityStacked(cross map[string]map[string]int, states, cities []aggregate.Count, path string) error {
	return renderTo(newStacked(cross, states, cities), path)
}

// Dashboard combines the state bar, city bar and state pie on one
// page, mirroring the summary view of the single charts.
func Dashboard(states, cities []aggregate.Count, cross map[string]map[string]int, path string) error {
	page := components.NewPage()
	page.PageTitle = "SIH Teams Analysis Dashboard"
	page.AddCharts(
		newBar("Top States", states),
		newBar("Top Cities", cities),
		newStacked(cross, states, cities),
	)
	return renderTo(page, path)
}

type renderable interface {
	Render(w io.Writer) error
}

func renderTo(chart renderable, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create results directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer f.Close()

	if err := chart.Render(f); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

func newBar(title string, counts []aggregate.Count) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithXAxisOpts(opts.XAxis{AxisLabel: &opts.AxisLabel{Rotate: 45}}),
	)

	names := make([]string, len(counts))
	data := make([]opts.BarData, len(counts))
	for i, c := range counts {
		names[i] = c.Key
		data[i] = opts.BarData{Value: c.Count}
	}

	bar.SetXAxis(names).AddSeries("teams", data)
	return bar
}

func newPie(counts []aggregate.Count) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Team Share by State"}))

	data := make([]opts.PieData, len(counts))
	for i, c := range counts {
		data[i] = opts.PieData{Name: c.Key, Value: c.Count}
	}

	pie.AddSeries("states", data)
	return pie
}

func newStacked(cross map[string]map[string]int, states, cities []aggregate.Count) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "State vs City Distribution"}),
		charts.WithXAxisOpts(opts.XAxis{AxisLabel: &opts.AxisLabel{Rotate: 45}}),
	)

	names := make([]string, len(cities))
	for i, c := range cities {
		names[i] = c.Key
	}
	bar.SetXAxis(names)

	for _, state := range states {
		data := make([]opts.BarData, len(cities))
		for i, city := range cities {
			data[i] = opts.BarData{Value: cross[state.Key][city.Key]}
		}
		bar.AddSeries(state.Key, data, charts.WithBarChartOpts(opts.BarChart{Stack: "total"}))
	}
	return bar
}
