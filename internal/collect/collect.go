package collect

import (
	"log/slog"
	"time"

	"sih-scout/models"
	"sih-scout/pkg/caching"
	"sih-scout/pkg/db"
	"sih-scout/pkg/fetcher"
	"sih-scout/pkg/scrape"
)

// collectSources processes each source page in order: cache lookup,
// fetch, extract, append to the in-memory batch. A failure on one
// source is logged and recorded but never stops the remaining
// sources. database may be nil when bookkeeping is unavailable.
func collectSources(logger *slog.Logger, config *models.Config, f *fetcher.Fetcher, cache *caching.Cache, database *db.DB, runID int64) ([]models.TeamRecord, []SourceResult) {
	var allRecords []models.TeamRecord
	results := make([]SourceResult, 0, len(config.URLs))

	delay := time.Duration(config.DelayMillis) * time.Millisecond

	for i, url := range config.URLs {
		logger.Info("Processing source", "url", url)
		result := SourceResult{URL: url}

		var sourceID int64
		if database != nil {
			var err error
			sourceID, err = database.InsertSource(url)
			if err != nil {
				logger.Warn("Failed to insert source to DB", "url", url, "error", err)
			}
		}

		rawHTML, fromCache := cache.Get(url)
		statusCode := 0
		if fromCache {
			logger.Info("Raw HTML found in cache, using it", "url", url)
			result.FromCache = true
		} else {
			var err error
			rawHTML, statusCode, err = f.GetHtmlBytes(url)
			if err != nil {
				logger.Error("Error fetching HTML", "url", url, "error", err)
				result.Error = err
				result.ErrorType = "fetch_error"
				recordAttempt(logger, database, runID, sourceID, statusCode, &result)
				results = append(results, result)
				continue
			}
			if err := cache.Set(url, rawHTML); err != nil {
				logger.Warn("Failed to cache page", "url", url, "error", err)
			}
			// Courtesy delay between network hits; cached pages
			// don't count against it.
			if delay > 0 && i < len(config.URLs)-1 {
				time.Sleep(delay)
			}
		}

		extraction, err := scrape.ExtractHTML(rawHTML, config.Selectors)
		if err != nil {
			logger.Error("Error parsing HTML", "url", url, "error", err)
			result.Error = err
			result.ErrorType = "parse_error"
			recordAttempt(logger, database, runID, sourceID, statusCode, &result)
			results = append(results, result)
			continue
		}

		result.Records = len(extraction.Records)
		result.Skipped = extraction.Skipped
		if result.Records == 0 {
			logger.Warn("No rows extracted, check the document structure", "url", url)
		}
		if result.Skipped > 0 {
			logger.Warn("Some rows carried no extractable fields", "url", url, "skipped", result.Skipped)
		}

		allRecords = append(allRecords, extraction.Records...)
		recordAttempt(logger, database, runID, sourceID, statusCode, &result)
		results = append(results, result)
		logger.Info("Finished source", "url", url, "records", result.Records)
	}

	return allRecords, results
}

func recordAttempt(logger *slog.Logger, database *db.DB, runID, sourceID int64, statusCode int, result *SourceResult) {
	if database == nil || sourceID == 0 {
		return
	}
	err := database.RecordAttempt(runID, sourceID, statusCode, result.ErrorType, result.Error == nil, result.Records, result.FromCache)
	if err != nil {
		logger.Warn("Failed to record attempt to DB", "url", result.URL, "error", err)
	}
}
