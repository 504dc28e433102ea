// Package fetcher wraps the HTTP client used to pull source pages.
// Retries, backoff and connection handling belong to resty; callers
// only see bytes or a parsed document.
package fetcher

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

type Fetcher struct {
	client *resty.Client
}

// New builds a Fetcher. retries is the number of re-attempts after
// the first try; resty applies its default backoff between them.
func New(userAgent string, timeout time.Duration, retries int) *Fetcher {
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(retries)
	if userAgent != "" {
		client.SetHeader("User-Agent", userAgent)
	}
	return &Fetcher{client: client}
}

func (f *Fetcher) GetHtmlBytes(url string) ([]byte, int, error) {
	resp, err := f.client.R().Get(url)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to make HTTP request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, resp.StatusCode(), fmt.Errorf("failed to fetch HTML, status code: %d", resp.StatusCode())
	}
	return resp.Body(), resp.StatusCode(), nil
}

func (f *Fetcher) GetHtml(url string) (*goquery.Document, error) {
	bodyBytes, _, err := f.GetHtmlBytes(url)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}
