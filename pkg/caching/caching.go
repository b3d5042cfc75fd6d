package caching

import (
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/dtnitsch/quotes-etl/internal/common"
)

// Cache provides a simple file-based cache with a TTL.
type Cache struct {
	path string
	ttl  time.Duration
	now  func() time.Time
}

// NewCache creates a new Cache instance.
// The cache path will be created if it doesn't exist. A ttl of zero never
// expires entries.
func NewCache(path string, ttl time.Duration) (*Cache, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, errors.Wrap(err, "failed to create cache directory")
	}
	return &Cache{
		path: path,
		ttl:  ttl,
		now:  time.Now,
	}, nil
}

// key generates a SHA256 hash of the URL to use as a filename.
func (c *Cache) key(url string) string {
	return common.ContentHash([]byte(url)) + ".html"
}

// Get retrieves an item from the cache.
// It returns the data, when it was stored, and true if the item is found and
// not expired.
func (c *Cache) Get(url string) ([]byte, time.Time, bool) {
	filePath := filepath.Join(c.path, c.key(url))

	info, err := os.Stat(filePath)
	if err != nil {
		return nil, time.Time{}, false // miss
	}

	if c.ttl > 0 && c.now().Sub(info.ModTime()) > c.ttl {
		return nil, time.Time{}, false // expired
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, time.Time{}, false
	}

	return data, info.ModTime(), true
}

// Set adds an item to the cache.
func (c *Cache) Set(url string, data []byte) error {
	filePath := filepath.Join(c.path, c.key(url))
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return errors.Wrapf(err, "failed to write cache entry for %s", url)
	}
	return nil
}
