package analyze

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"sih-scout/pkg/aggregate"
	"sih-scout/pkg/charts"
	"sih-scout/pkg/dataset"
)

// Summary is the YAML report written next to the chart artifacts.
type Summary struct {
	Dataset      string            `yaml:"dataset"`
	TotalEntries int               `yaml:"total_entries"`
	RowsDropped  int               `yaml:"rows_dropped,omitempty"`
	UniqueStates int               `yaml:"unique_states"`
	UniqueCities int               `yaml:"unique_cities"`
	TopStates    []aggregate.Count `yaml:"top_states"`
	TopCities    []aggregate.Count `yaml:"top_cities"`
}

// Command returns the analyze CLI command.
func Command() *cli.Command {
	return &cli.Command{
		Name:   "analyze",
		Usage:  "aggregate the dataset and render distribution charts",
		Action: AnalyzeAction,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "in",
				Value: "data/teams.csv",
				Usage: "dataset CSV to analyze",
			},
			&cli.StringFlag{
				Name:  "results-dir",
				Value: "results",
				Usage: "directory for chart artifacts and the summary",
			},
			&cli.IntFlag{
				Name:  "top",
				Value: 10,
				Usage: "how many states/cities to show and chart",
			},
			&cli.StringFlag{
				Name:  "state",
				Usage: "also break down cities within this state",
			},
			&cli.BoolFlag{
				Name:  "no-charts",
				Usage: "print tables only, skip chart artifacts",
			},
			&cli.BoolFlag{
				Name:  "quiet",
				Usage: "only log errors",
			},
		},
	}
}

func AnalyzeAction(c *cli.Context) error {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	in := c.String("in")
	records, dropped, err := dataset.ReadCSV(in)
	if err != nil {
		// Missing dataset and malformed header are fatal: there is
		// nothing meaningful to aggregate.
		return fmt.Errorf("cannot analyze %s: %w", in, err)
	}
	if dropped > 0 {
		logger.Warn("Dropped malformed dataset rows", "count", dropped)
	}
	logger.Info("Dataset loaded", "path", in, "records", len(records))

	byState := aggregate.ByState(records)
	byCity := aggregate.ByCity(records)
	topN := c.Int("top")

	fmt.Println("Basic Statistics:")
	statsTable := table.NewWriter()
	statsTable.SetOutputMirror(os.Stdout)
	statsTable.AppendRows([]table.Row{
		{"Total Entries", len(records)},
		{"Unique States", len(byState)},
		{"Unique Cities", len(byCity)},
	})
	statsTable.SetStyle(table.StyleLight)
	statsTable.Render()

	renderRanked("Top States", aggregate.Top(byState, topN))
	renderRanked("Top Cities", aggregate.Top(byCity, topN))

	if state := c.String("state"); state != "" {
		within := aggregate.CitiesWithin(records, state)
		if len(within) == 0 {
			logger.Warn("No records for state", "state", state)
		} else {
			renderRanked(fmt.Sprintf("Cities in %s", state), aggregate.Top(within, topN))
		}
	}

	resultsDir := c.String("results-dir")

	if !c.Bool("no-charts") {
		cross := aggregate.CrossStateCity(records)
		topStates := aggregate.Top(byState, topN)
		topCities := aggregate.Top(byCity, topN)

		artifacts := []struct {
			name   string
			render func(path string) error
		}{
			{"top_states.html", func(p string) error { return charts.TopStatesBar(topStates, p) }},
			{"city_distribution.html", func(p string) error { return charts.CityDistributionBar(topCities, p) }},
			{"state_share.html", func(p string) error { return charts.StateSharePie(byState, p) }},
			{"state_city.html", func(p string) error { return charts.StateCityStacked(cross, topStates, topCities, p) }},
			{"dashboard.html", func(p string) error { return charts.Dashboard(topStates, topCities, cross, p) }},
		}

		for _, a := range artifacts {
			path := filepath.Join(resultsDir, a.name)
			if err := a.render(path); err != nil {
				logger.Warn("Failed to render chart", "artifact", a.name, "error", err)
				continue
			}
			logger.Info("Chart saved", "path", path)
		}
	}

	summary := Summary{
		Dataset:      in,
		TotalEntries: len(records),
		RowsDropped:  dropped,
		UniqueStates: len(byState),
		UniqueCities: len(byCity),
		TopStates:    aggregate.Top(byState, topN),
		TopCities:    aggregate.Top(byCity, topN),
	}
	summaryData, err := yaml.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}
	if err := os.MkdirAll(resultsDir, 0755); err != nil {
		return fmt.Errorf("failed to create results directory: %w", err)
	}
	summaryPath := filepath.Join(resultsDir, "summary.yaml")
	if err := os.WriteFile(summaryPath, summaryData, 0644); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	logger.Info("Summary saved", "path", summaryPath)

	return nil
}

func renderRanked(title string, counts []aggregate.Count) {
	fmt.Printf("\n%s:\n", title)
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"#", "Name", "Teams"})
	for i, c := range counts {
		t.AppendRow(table.Row{i + 1, c.Key, c.Count})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}
