// Package dataset owns the flat-file interchange format between the
// collector and the analyzer: a CSV with a fixed header, plus a JSON
// mirror of the same rows.
package dataset

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"sih-scout/models"
)

// Header is the fixed CSV column order. The analyzer refuses files
// that do not start with exactly these columns.
var Header = []string{"team", "state", "city", "id"}

// ErrBadHeader is returned when the dataset header does not match.
var ErrBadHeader = errors.New("dataset header mismatch")

// AppendCSV appends records to the CSV at path, writing the header
// first when the file is new or empty.
func AppendCSV(path string, records []models.TeamRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat dataset: %w", err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(Header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	for _, r := range records {
		if err := w.Write([]string{r.Team, r.State, r.City, r.ID}); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}

	w.Flush()
	return w.Error()
}

// ReadCSV loads the whole dataset into memory. A missing file or a
// malformed header is fatal to the caller; malformed data rows are
// dropped with their count reported.
func ReadCSV(path string) ([]models.TeamRecord, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(Header)

	header, err := r.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read header: %w", err)
	}
	if !headerMatches(header) {
		return nil, 0, fmt.Errorf("%w: got %v, want %v", ErrBadHeader, header, Header)
	}

	var records []models.TeamRecord
	var dropped int
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Short or ragged rows are skipped, not fatal.
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				dropped++
				continue
			}
			return nil, dropped, fmt.Errorf("failed to read dataset: %w", err)
		}
		records = append(records, models.TeamRecord{
			Team:  row[0],
			State: row[1],
			City:  row[2],
			ID:    row[3],
		})
	}

	return records, dropped, nil
}

// WriteJSON rewrites the JSON mirror of the dataset.
func WriteJSON(path string, records []models.TeamRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal records: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write JSON export: %w", err)
	}
	return nil
}

func headerMatches(header []string) bool {
	if len(header) != len(Header) {
		return false
	}
	for i, col := range Header {
		if header[i] != col {
			return false
		}
	}
	return true
}
