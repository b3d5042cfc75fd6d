package caching

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_SetGet(t *testing.T) {
	c, err := NewCache(filepath.Join(t.TempDir(), "nested", "cache"), time.Hour)
	require.NoError(t, err)

	_, _, ok := c.Get("http://quotes.toscrape.com/page/1/")
	assert.False(t, ok)

	require.NoError(t, c.Set("http://quotes.toscrape.com/page/1/", []byte("<html>1</html>")))

	data, storedAt, ok := c.Get("http://quotes.toscrape.com/page/1/")
	require.True(t, ok)
	assert.Equal(t, "<html>1</html>", string(data))
	assert.False(t, storedAt.IsZero())

	_, _, ok = c.Get("http://quotes.toscrape.com/page/2/")
	assert.False(t, ok)
}

func TestCache_Expiry(t *testing.T) {
	dir := t.TempDir()
	c, err := NewCache(dir, time.Minute)
	require.NoError(t, err)

	require.NoError(t, c.Set("u", []byte("x")))

	old := time.Now().Add(-2 * time.Minute)
	require.NoError(t, os.Chtimes(filepath.Join(dir, c.key("u")), old, old))

	_, _, ok := c.Get("u")
	assert.False(t, ok)

	forever, err := NewCache(dir, 0)
	require.NoError(t, err)
	_, _, ok = forever.Get("u")
	assert.True(t, ok)
}
