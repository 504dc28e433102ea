package db

import (
	"database/sql"
	"fmt"
)

// InsertSource records a source URL if it is new and returns its ID
// either way.
func (db *DB) InsertSource(url string) (int64, error) {
	res, err := db.Exec("INSERT OR IGNORE INTO sources (url) VALUES (?)", url)
	if err != nil {
		return 0, fmt.Errorf("failed to insert source: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n > 0 {
		return res.LastInsertId()
	}

	var id int64
	err = db.QueryRow("SELECT source_id FROM sources WHERE url = ?", url).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to look up source: %w", err)
	}
	return id, nil
}

// BeginRun opens a run row and returns its ID.
func (db *DB) BeginRun(sourceCount int) (int64, error) {
	res, err := db.Exec("INSERT INTO runs (source_count) VALUES (?)", sourceCount)
	if err != nil {
		return 0, fmt.Errorf("failed to begin run: %w", err)
	}
	return res.LastInsertId()
}

// FinishRun closes out a run with its final tallies.
func (db *DB) FinishRun(runID int64, success, failed, recordsAppended int) error {
	_, err := db.Exec(`
		UPDATE runs
		SET finished_at = CURRENT_TIMESTAMP,
		    success_count = ?,
		    failed_count = ?,
		    records_appended = ?
		WHERE run_id = ?`,
		success, failed, recordsAppended, runID)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	return nil
}

// RecordAttempt logs one source access within a run.
func (db *DB) RecordAttempt(runID, sourceID int64, statusCode int, errorType string, success bool, records int, fromCache bool) error {
	_, err := db.Exec(`
		INSERT INTO fetch_attempts (run_id, source_id, status_code, error_type, success, records_extracted, from_cache)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, sourceID, statusCode, errorType, success, records, fromCache)
	if err != nil {
		return fmt.Errorf("failed to record attempt: %w", err)
	}
	return nil
}

// RunStats summarizes one collector run.
type RunStats struct {
	RunID           int64
	SourceCount     int
	SuccessCount    int
	FailedCount     int
	RecordsAppended int
}

// GetRunStats returns the tallies for a run.
func (db *DB) GetRunStats(runID int64) (*RunStats, error) {
	stats := &RunStats{RunID: runID}
	err := db.QueryRow(`
		SELECT source_count, success_count, failed_count, records_appended
		FROM runs WHERE run_id = ?`, runID).
		Scan(&stats.SourceCount, &stats.SuccessCount, &stats.FailedCount, &stats.RecordsAppended)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %d not found", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run stats: %w", err)
	}
	return stats, nil
}

// CountAttempts returns how many attempts a run logged, optionally
// only the failed ones.
func (db *DB) CountAttempts(runID int64, failedOnly bool) (int, error) {
	query := "SELECT COUNT(*) FROM fetch_attempts WHERE run_id = ?"
	if failedOnly {
		query += " AND success = 0"
	}

	var count int
	if err := db.QueryRow(query, runID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count attempts: %w", err)
	}
	return count, nil
}
