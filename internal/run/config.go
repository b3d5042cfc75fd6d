package run

import (
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/quotes-etl/models"
)

// ConfigFromContext layers CLI flags over the optional config file and
// validates the result. Only flags the user actually set override the file.
func ConfigFromContext(c *cli.Context) (models.RunConfig, error) {
	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		return cfg, err
	}

	if c.IsSet("base-url") {
		cfg.BaseURL = c.String("base-url")
	}
	if c.IsSet("start-url") {
		cfg.StartURL = c.String("start-url")
	}
	if c.IsSet("max-pages") {
		cfg.MaxPages = c.Int("max-pages")
	}
	if c.IsSet("prefix") {
		cfg.OutputPrefix = c.String("prefix")
	}
	if c.IsSet("output-dir") {
		cfg.OutputDir = c.String("output-dir")
	}
	if c.IsSet("top") {
		cfg.TopN = c.Int("top")
	}
	if c.IsSet("delay") {
		cfg.Delay = c.Duration("delay")
	}
	if c.IsSet("timeout") {
		cfg.Timeout = c.Duration("timeout")
	}
	if c.IsSet("user-agent") {
		cfg.UserAgent = c.String("user-agent")
	}
	if c.IsSet("cache-dir") {
		cfg.CacheDir = c.String("cache-dir")
	}
	if c.IsSet("max-age") {
		cfg.CacheMaxAge = c.Duration("max-age")
	}
	if c.IsSet("db") {
		cfg.DBPath = c.String("db")
	}
	if c.IsSet("detect-language") {
		cfg.DetectLanguage = c.Bool("detect-language")
	}
	if c.IsSet("formats") {
		cfg.Formats = splitFormats(c.String("formats"))
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func splitFormats(s string) []string {
	var formats []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			formats = append(formats, f)
		}
	}
	return formats
}

// Flags are the options of the run command.
func Flags() []cli.Flag {
	defaults := models.DefaultRunConfig()
	return []cli.Flag{
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML, TOML or JSON config file"},
		&cli.StringFlag{Name: "base-url", Value: defaults.BaseURL, Usage: "site root used to resolve author links"},
		&cli.StringFlag{Name: "start-url", Usage: "first page to extract (default: base URL)"},
		&cli.IntFlag{Name: "max-pages", Usage: "stop after this many pages (0 = all)"},
		&cli.StringFlag{Name: "prefix", Value: defaults.OutputPrefix, Usage: "output file name prefix"},
		&cli.StringFlag{Name: "output-dir", Aliases: []string{"o"}, Value: defaults.OutputDir, Usage: "directory for output files"},
		&cli.IntFlag{Name: "top", Value: defaults.TopN, Usage: "number of entries in the top authors/tags rankings"},
		&cli.DurationFlag{Name: "delay", Value: defaults.Delay, Usage: "minimum time between page requests"},
		&cli.DurationFlag{Name: "timeout", Value: defaults.Timeout, Usage: "per-request timeout"},
		&cli.StringFlag{Name: "user-agent", Value: defaults.UserAgent, Usage: "User-Agent header sent with every request"},
		&cli.StringFlag{Name: "cache-dir", Usage: "cache fetched pages in this directory"},
		&cli.DurationFlag{Name: "max-age", Value: defaults.CacheMaxAge, Usage: "how long cached pages stay fresh"},
		&cli.BoolFlag{Name: "force-fetch", Usage: "ignore cached pages"},
		&cli.StringFlag{Name: "formats", Value: strings.Join(defaults.Formats, ","), Usage: "comma-separated outputs: csv, json, yaml, db"},
		&cli.StringFlag{Name: "db", Value: defaults.DBPath, Usage: "SQLite run history path (with --formats db)"},
		&cli.BoolFlag{Name: "detect-language", Usage: "tag each quote with its language"},
		&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "only log errors and skip the summary table"},
		&cli.BoolFlag{Name: "dev", Usage: "human-readable console logs"},
	}
}
