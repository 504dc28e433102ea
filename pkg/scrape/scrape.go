// Package scrape extracts TeamRecords from screening-result pages.
package scrape

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"sih-scout/models"
)

// Extraction holds the outcome of scanning one document.
type Extraction struct {
	Records []models.TeamRecord
	// Skipped counts rows that matched the row selector but carried
	// no extractable field at all.
	Skipped int
}

// ExtractHTML parses raw HTML and extracts team rows per the selector
// set. Missing cells degrade to empty fields rather than failing the
// row; only rows with nothing extractable are skipped.
func ExtractHTML(rawHTML []byte, sel models.Selectors) (*Extraction, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return ExtractDocument(doc, sel), nil
}

// ExtractDocument extracts team rows from an already-parsed document.
func ExtractDocument(doc *goquery.Document, sel models.Selectors) *Extraction {
	ex := &Extraction{}

	doc.Find(sel.Row).Each(func(i int, row *goquery.Selection) {
		record := models.TeamRecord{
			Team:  cellText(row, sel.Team),
			State: cellText(row, sel.State),
			City:  cellText(row, sel.City),
			ID:    cellText(row, sel.ID),
		}
		if record.IsEmpty() {
			ex.Skipped++
			return
		}
		ex.Records = append(ex.Records, record)
	})

	return ex
}

func cellText(row *goquery.Selection, selector string) string {
	if selector == "" {
		return ""
	}
	return strings.TrimSpace(row.Find(selector).First().Text())
}
