package models

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultRunConfig(), cfg)
}

func TestLoadConfig_YAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "etl.yaml")
	content := []byte(`
base_url: http://example.com
max_pages: 3
output_prefix: run_one
delay: 250ms
formats: [csv, db]
`)
	require.NoError(t, os.WriteFile(path, content, 0600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "http://example.com", cfg.BaseURL)
	assert.Equal(t, 3, cfg.MaxPages)
	assert.Equal(t, "run_one", cfg.OutputPrefix)
	assert.Equal(t, 250*time.Millisecond, cfg.Delay)
	assert.Equal(t, []string{"csv", "db"}, cfg.Formats)
	// untouched keys keep their defaults
	assert.Equal(t, 10, cfg.TopN)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
}

func TestLoadConfig_ValidationSection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "etl.yaml")
	content := []byte(`
validation:
  max_quote_length: 200
  min_author_length: 3
`)
	require.NoError(t, os.WriteFile(path, content, 0600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ValidationRules{MinQuoteLen: 5, MaxQuoteLen: 200, MinAuthorLen: 3}, cfg.Validation)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.NotEmpty(t, errors.GetAllHints(err))
}

func TestRunConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*RunConfig)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*RunConfig) {}},
		{name: "negative max pages", mutate: func(c *RunConfig) { c.MaxPages = -1 }, wantErr: true},
		{name: "max below min quote length", mutate: func(c *RunConfig) { c.Validation.MaxQuoteLen = 3 }, wantErr: true},
		{name: "negative author length", mutate: func(c *RunConfig) { c.Validation.MinAuthorLen = -1 }, wantErr: true},
		{name: "negative top", mutate: func(c *RunConfig) { c.TopN = -5 }, wantErr: true},
		{name: "bad base url", mutate: func(c *RunConfig) { c.BaseURL = "not a url" }, wantErr: true},
		{name: "bad start url", mutate: func(c *RunConfig) { c.StartURL = "ftp://quotes.toscrape.com" }, wantErr: true},
		{name: "prefix with path", mutate: func(c *RunConfig) { c.OutputPrefix = "out/quotes" }, wantErr: true},
		{name: "empty prefix", mutate: func(c *RunConfig) { c.OutputPrefix = "  " }, wantErr: true},
		{name: "unknown format", mutate: func(c *RunConfig) { c.Formats = []string{"xml"} }, wantErr: true},
		{name: "no formats", mutate: func(c *RunConfig) { c.Formats = nil }, wantErr: true},
		{name: "upper case format", mutate: func(c *RunConfig) { c.Formats = []string{"CSV"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultRunConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidConfig))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestRunConfig_ValidateFillsStartURL(t *testing.T) {
	cfg := DefaultRunConfig()
	cfg.BaseURL = "http://quotes.toscrape.com/"
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "http://quotes.toscrape.com", cfg.BaseURL)
	assert.Equal(t, "http://quotes.toscrape.com", cfg.StartURL)
}

func TestRunConfig_ValidateNormalizesURLs(t *testing.T) {
	cfg := DefaultRunConfig()
	cfg.BaseURL = "  HTTP://Quotes.ToScrape.com/ "
	cfg.StartURL = "http://quotes.toscrape.com/tag/love/#top"
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "http://quotes.toscrape.com", cfg.BaseURL)
	assert.Equal(t, "http://quotes.toscrape.com/tag/love/", cfg.StartURL)
}

func TestRunConfig_ValidateURLErrorHasHint(t *testing.T) {
	cfg := DefaultRunConfig()
	cfg.BaseURL = "quotes.toscrape.com"

	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
	assert.Contains(t, err.Error(), "base_url")
	assert.NotEmpty(t, errors.GetAllHints(err))
}
