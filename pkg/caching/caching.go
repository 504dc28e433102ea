// Package caching stores fetched pages on disk so repeated collector
// runs within the max-age window skip the network.
package caching

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Cache is a file cache keyed by URL hash with a freshness window.
// A maxAge of zero disables reads, which is how --force-fetch works.
type Cache struct {
	dir    string
	maxAge time.Duration
}

func New(dir string, maxAge time.Duration) (*Cache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &Cache{dir: dir, maxAge: maxAge}, nil
}

func (c *Cache) pathFor(url string) string {
	hash := sha256.Sum256([]byte(url))
	return filepath.Join(c.dir, fmt.Sprintf("%x.html", hash))
}

// Get returns the cached page for url and whether it is still fresh.
// Stale, missing or unreadable entries all report a miss.
func (c *Cache) Get(url string) ([]byte, bool) {
	if c.maxAge <= 0 {
		return nil, false
	}

	path := c.pathFor(url)
	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}
	if time.Since(info.ModTime()) > c.maxAge {
		return nil, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	return data, true
}

// Set stores the page regardless of maxAge so a later run with a
// window can still use it.
func (c *Cache) Set(url string, data []byte) error {
	if err := os.WriteFile(c.pathFor(url), data, 0644); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}
