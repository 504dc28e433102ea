package collect

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"sih-scout/models"
	"sih-scout/pkg/caching"
	"sih-scout/pkg/dataset"
	"sih-scout/pkg/db"
	"sih-scout/pkg/fetcher"
)

// Command returns the collect CLI command.
func Command() *cli.Command {
	return &cli.Command{
		Name:   "collect",
		Usage:  "fetch screening-result pages and append team records to the dataset",
		Action: CollectAction,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "YAML config with source URLs, selectors and output paths",
			},
			&cli.StringFlag{
				Name:  "urls",
				Usage: "comma-separated source URLs (overrides config)",
			},
			&cli.StringFlag{
				Name:  "out",
				Usage: "dataset CSV path (overrides config)",
			},
			&cli.StringFlag{
				Name:  "json-out",
				Usage: "JSON export path (overrides config)",
			},
			&cli.BoolFlag{
				Name:  "force-fetch",
				Usage: "ignore cached pages and refetch everything",
			},
			&cli.StringFlag{
				Name:  "max-age",
				Value: "24h",
				Usage: "reuse cached pages younger than this",
			},
			&cli.BoolFlag{
				Name:  "quiet",
				Usage: "only log errors",
			},
		},
	}
}

func CollectAction(c *cli.Context) error {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	startTime := time.Now()

	config := models.DefaultConfig()
	if c.IsSet("config") {
		loaded, err := models.LoadConfig(c.String("config"))
		if err != nil {
			logger.Error("failed to load config", "error", err)
			os.Exit(2)
		}
		config = loaded
	}
	if c.IsSet("urls") {
		config.URLs = strings.Split(c.String("urls"), ",")
		for i := range config.URLs {
			config.URLs[i] = strings.TrimSpace(config.URLs[i])
		}
	}
	if c.IsSet("out") {
		config.OutputCSV = c.String("out")
	}
	if c.IsSet("json-out") {
		config.OutputJSON = c.String("json-out")
	}

	if len(config.URLs) == 0 {
		fmt.Fprintln(os.Stderr, "Error: No source URLs provided")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, `  sih-scout collect                                  # Built-in screening-result pages`)
		fmt.Fprintln(os.Stderr, `  sih-scout collect --urls "https://a.example,https://b.example"`)
		fmt.Fprintln(os.Stderr, `  sih-scout collect --config config.yaml`)
		os.Exit(1)
	}

	var maxAge time.Duration
	if !c.Bool("force-fetch") {
		var err error
		maxAge, err = time.ParseDuration(c.String("max-age"))
		if err != nil {
			logger.Error("invalid max-age duration", "error", err)
			os.Exit(2)
		}
	}

	cache, err := caching.New(config.CacheDir, maxAge)
	if err != nil {
		logger.Error("failed to initialize cache", "error", err)
		os.Exit(2)
	}

	// Bookkeeping is best effort: a broken DB must not block a scrape.
	database, err := db.Open(config.DatabasePath)
	if err != nil {
		logger.Warn("failed to open bookkeeping database, continuing without it", "error", err)
		database = nil
	} else {
		defer database.Close()
	}

	var runID int64
	if database != nil {
		runID, err = database.BeginRun(len(config.URLs))
		if err != nil {
			logger.Warn("failed to begin run in DB", "error", err)
		}
	}

	f := fetcher.New(config.UserAgent, time.Duration(config.TimeoutSeconds)*time.Second, config.RetryCount)

	logger.Info("Starting collection", "source_count", len(config.URLs), "max_age", maxAge)
	allRecords, results := collectSources(logger, config, f, cache, database, runID)

	if len(allRecords) > 0 {
		if err := dataset.AppendCSV(config.OutputCSV, allRecords); err != nil {
			logger.Error("failed to append dataset", "error", err)
			os.Exit(2)
		}

		// The JSON export mirrors the full dataset, including rows
		// from earlier runs.
		full, _, err := dataset.ReadCSV(config.OutputCSV)
		if err != nil {
			logger.Warn("failed to reload dataset for JSON export", "error", err)
		} else if err := dataset.WriteJSON(config.OutputJSON, full); err != nil {
			logger.Warn("failed to write JSON export", "error", err)
		}
	}

	summary := RunSummary{Dataset: config.OutputCSV}
	summary.Stats = Stats{
		TotalSources:     len(config.URLs),
		TotalTimeSeconds: time.Since(startTime).Seconds(),
	}
	for _, r := range results {
		out := SourceOutput{
			URL:       r.URL,
			Records:   r.Records,
			Skipped:   r.Skipped,
			FromCache: r.FromCache,
		}
		if r.Error != nil {
			summary.Stats.Failed++
			out.Status = "failed"
			out.Error = r.Error.Error()
			out.ErrorType = r.ErrorType
		} else {
			summary.Stats.Successful++
			out.Status = "success"
		}
		summary.Stats.RecordsAppended += r.Records
		summary.Stats.RowsSkipped += r.Skipped
		summary.Sources = append(summary.Sources, out)
	}

	switch {
	case summary.Stats.RecordsAppended == 0:
		// Sources that respond but match no rows are as dead an end
		// as sources that fail outright.
		summary.Status = "failure"
	case summary.Stats.Failed == 0:
		summary.Status = "success"
	default:
		summary.Status = "partial_failure"
	}

	if database != nil && runID > 0 {
		if err := database.FinishRun(runID, summary.Stats.Successful, summary.Stats.Failed, summary.Stats.RecordsAppended); err != nil {
			logger.Warn("failed to finish run in DB", "error", err)
		}
	}

	outputData, err := yaml.Marshal(summary)
	if err != nil {
		logger.Error("failed to marshal run summary", "error", err)
		os.Exit(2)
	}
	fmt.Print(string(outputData))

	// Partial failure still counts as a usable run; only a run that
	// produced nothing at all is an error exit.
	if summary.Stats.Successful == 0 {
		return cli.Exit("all sources failed", 2)
	}
	if summary.Stats.RecordsAppended == 0 {
		return cli.Exit("no records extracted from any source", 2)
	}
	return nil
}
