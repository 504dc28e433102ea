// Package models defines data structures shared across commands.
package models

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Selectors describes where team fields live in a source document.
// The screening-result pages render one team per <tr class="rowN">
// with positionally classed cells.
type Selectors struct {
	Row   string `yaml:"row"`
	Team  string `yaml:"team"`
	State string `yaml:"state"`
	City  string `yaml:"city"`
	ID    string `yaml:"id"`
}

// Config holds collector settings. Flags override file values.
type Config struct {
	URLs           []string  `yaml:"urls"`
	UserAgent      string    `yaml:"user_agent"`
	TimeoutSeconds int       `yaml:"timeout_seconds"`
	RetryCount     int       `yaml:"retry_count"`
	DelayMillis    int       `yaml:"delay_millis"`
	OutputCSV      string    `yaml:"output_csv"`
	OutputJSON     string    `yaml:"output_json"`
	CacheDir       string    `yaml:"cache_dir"`
	DatabasePath   string    `yaml:"database_path"`
	Selectors      Selectors `yaml:"selectors"`
}

// DefaultConfig returns the built-in settings for the SIH
// screening-result pages. The retry count and inter-page delay are an
// explicit politeness policy, not something the site mandates.
func DefaultConfig() *Config {
	return &Config{
		URLs: []string{
			"https://www.sih.gov.in/screeningresult",
			"https://www.sih.gov.in/screeningresult_batch_two",
			"https://sih.gov.in/screeningresult_batch_three",
		},
		UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
		TimeoutSeconds: 30,
		RetryCount:     2,
		DelayMillis:    500,
		OutputCSV:      "data/teams.csv",
		OutputJSON:     "data/teams.json",
		CacheDir:       "cache",
		DatabasePath:   "sih-scout.db",
		Selectors: Selectors{
			Row:   `tr[class^="row"]`,
			Team:  "td.column3",
			State: "td.column10",
			City:  "td.column9",
			ID:    "td.column1",
		},
	}
}

// LoadConfig reads a YAML config file and fills unset values from the
// defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return config, nil
}
