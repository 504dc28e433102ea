package collect

// SourceResult holds the outcome of processing one source page.
type SourceResult struct {
	URL       string
	Records   int
	Skipped   int
	FromCache bool
	Error     error
	ErrorType string
}

// SourceOutput is the per-source entry in the run summary.
type SourceOutput struct {
	URL       string `yaml:"url"`
	Status    string `yaml:"status"`
	Records   int    `yaml:"records"`
	Skipped   int    `yaml:"skipped,omitempty"`
	FromCache bool   `yaml:"from_cache,omitempty"`
	Error     string `yaml:"error,omitempty"`
	ErrorType string `yaml:"error_type,omitempty"`
}

// Stats provides summary statistics for the run.
type Stats struct {
	TotalSources     int     `yaml:"total_sources"`
	Successful       int     `yaml:"successful"`
	Failed           int     `yaml:"failed"`
	RecordsAppended  int     `yaml:"records_appended"`
	RowsSkipped      int     `yaml:"rows_skipped,omitempty"`
	TotalTimeSeconds float64 `yaml:"total_time_seconds"`
}

// RunSummary is the structured output for the entire run.
type RunSummary struct {
	Status  string         `yaml:"status"`
	Dataset string         `yaml:"dataset"`
	Sources []SourceOutput `yaml:"sources"`
	Stats   Stats          `yaml:"stats"`
}
