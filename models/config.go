// Package models defines the records, reports and configuration shared by the pipeline stages.
package models

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/dtnitsch/quotes-etl/internal/common"
	"github.com/spf13/viper"
)

// ErrInvalidConfig marks every configuration validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Output formats understood by the run command.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatDB   = "db"
)

const (
	DefaultBaseURL   = "http://quotes.toscrape.com"
	DefaultPrefix    = "quotes_final"
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	DefaultDBName    = "quotes-etl.db"
)

// ValidationRules are the length limits a quote must satisfy. Lengths are
// counted in runes.
type ValidationRules struct {
	MinQuoteLen  int `mapstructure:"min_quote_length" yaml:"min_quote_length"`
	MaxQuoteLen  int `mapstructure:"max_quote_length" yaml:"max_quote_length"`
	MinAuthorLen int `mapstructure:"min_author_length" yaml:"min_author_length"`
}

func DefaultValidationRules() ValidationRules {
	return ValidationRules{
		MinQuoteLen:  5,
		MaxQuoteLen:  1000,
		MinAuthorLen: 2,
	}
}

// RunConfig holds everything one pipeline run needs. Values come from an
// optional config file and CLI flags; nothing is read from the environment.
type RunConfig struct {
	BaseURL        string        `mapstructure:"base_url" yaml:"base_url"`
	StartURL       string        `mapstructure:"start_url" yaml:"start_url"`
	MaxPages       int           `mapstructure:"max_pages" yaml:"max_pages"` // 0 = follow pagination to the end
	OutputPrefix   string        `mapstructure:"output_prefix" yaml:"output_prefix"`
	OutputDir      string        `mapstructure:"output_dir" yaml:"output_dir"`
	TopN           int           `mapstructure:"top_n" yaml:"top_n"`
	Delay          time.Duration `mapstructure:"delay" yaml:"delay"`
	Timeout        time.Duration `mapstructure:"timeout" yaml:"timeout"`
	UserAgent      string        `mapstructure:"user_agent" yaml:"user_agent"`
	CacheDir       string        `mapstructure:"cache_dir" yaml:"cache_dir"`
	CacheMaxAge    time.Duration `mapstructure:"cache_max_age" yaml:"cache_max_age"`
	DBPath         string        `mapstructure:"db_path" yaml:"db_path"`
	DetectLanguage bool          `mapstructure:"detect_language" yaml:"detect_language"`
	Formats        []string      `mapstructure:"formats" yaml:"formats"`

	Validation ValidationRules `mapstructure:"validation" yaml:"validation"`
}

// DefaultRunConfig waits one second between requests, gives up after ten
// seconds and sends a desktop browser user agent.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		BaseURL:      DefaultBaseURL,
		OutputPrefix: DefaultPrefix,
		OutputDir:    ".",
		TopN:         10,
		Delay:        time.Second,
		Timeout:      10 * time.Second,
		UserAgent:    DefaultUserAgent,
		CacheMaxAge:  24 * time.Hour,
		DBPath:       DefaultDBName,
		Formats:      []string{FormatCSV, FormatJSON},
		Validation:   DefaultValidationRules(),
	}
}

// LoadConfig reads a YAML, TOML or JSON config file on top of the defaults.
// An empty path returns the defaults unchanged.
func LoadConfig(path string) (RunConfig, error) {
	cfg := DefaultRunConfig()
	if path == "" {
		return cfg, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("base_url", cfg.BaseURL)
	v.SetDefault("output_prefix", cfg.OutputPrefix)
	v.SetDefault("output_dir", cfg.OutputDir)
	v.SetDefault("top_n", cfg.TopN)
	v.SetDefault("delay", cfg.Delay)
	v.SetDefault("timeout", cfg.Timeout)
	v.SetDefault("user_agent", cfg.UserAgent)
	v.SetDefault("cache_max_age", cfg.CacheMaxAge)
	v.SetDefault("db_path", cfg.DBPath)
	v.SetDefault("formats", cfg.Formats)
	v.SetDefault("validation.min_quote_length", cfg.Validation.MinQuoteLen)
	v.SetDefault("validation.max_quote_length", cfg.Validation.MaxQuoteLen)
	v.SetDefault("validation.min_author_length", cfg.Validation.MinAuthorLen)

	if err := v.ReadInConfig(); err != nil {
		return cfg, errors.WithHint(
			errors.Wrapf(err, "failed to read config file %s", path),
			"supported extensions are .yaml, .yml, .toml and .json",
		)
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, errors.Wrapf(err, "failed to decode config file %s", path)
	}
	return cfg, nil
}

// Validate normalizes the URLs in place and checks the remaining fields.
func (c *RunConfig) Validate() error {
	base, err := common.NormalizeBaseURL(c.BaseURL)
	if err != nil {
		return invalidURL(err, "base_url")
	}
	c.BaseURL = base

	if c.StartURL == "" {
		c.StartURL = c.BaseURL
	} else if c.StartURL, err = common.NormalizeStartURL(c.StartURL); err != nil {
		return invalidURL(err, "start_url")
	}

	if c.MaxPages < 0 {
		return errors.WithHint(
			errors.Wrapf(ErrInvalidConfig, "max_pages must be >= 0, got %d", c.MaxPages),
			"use 0 to follow pagination until the last page",
		)
	}
	if c.TopN < 0 {
		return errors.Wrapf(ErrInvalidConfig, "top_n must be >= 0, got %d", c.TopN)
	}
	if r := c.Validation; r.MinQuoteLen < 0 || r.MinAuthorLen < 0 || r.MaxQuoteLen < r.MinQuoteLen {
		return errors.WithHint(
			errors.Wrapf(ErrInvalidConfig, "validation limits %d..%d (author %d) are inconsistent",
				r.MinQuoteLen, r.MaxQuoteLen, r.MinAuthorLen),
			"lengths must be >= 0 and max_quote_length >= min_quote_length",
		)
	}
	if c.Delay < 0 || c.Timeout < 0 || c.CacheMaxAge < 0 {
		return errors.Wrap(ErrInvalidConfig, "durations must not be negative")
	}

	c.OutputPrefix = strings.TrimSpace(c.OutputPrefix)
	if c.OutputPrefix == "" {
		return errors.Wrap(ErrInvalidConfig, "output prefix must not be empty")
	}
	if strings.ContainsAny(c.OutputPrefix, `/\`) || filepath.Base(c.OutputPrefix) != c.OutputPrefix {
		return errors.WithHint(
			errors.Wrapf(ErrInvalidConfig, "output prefix %q must be a bare file name", c.OutputPrefix),
			"use --output-dir to choose the directory",
		)
	}

	if len(c.Formats) == 0 {
		return errors.Wrap(ErrInvalidConfig, "at least one output format is required")
	}
	for i, f := range c.Formats {
		f = strings.ToLower(strings.TrimSpace(f))
		switch f {
		case FormatCSV, FormatJSON, FormatYAML, FormatDB:
			c.Formats[i] = f
		default:
			return errors.WithHint(
				errors.Wrapf(ErrInvalidConfig, "unknown output format %q", f),
				"valid formats: csv, json, yaml, db",
			)
		}
	}
	return nil
}

func invalidURL(err error, field string) error {
	return errors.WithHint(
		errors.Mark(errors.Wrap(err, field), ErrInvalidConfig),
		"URLs must start with http:// or https://",
	)
}

// HasFormat reports whether format f was requested.
func (c RunConfig) HasFormat(f string) bool {
	for _, have := range c.Formats {
		if have == f {
			return true
		}
	}
	return false
}
