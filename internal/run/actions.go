package run

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/dtnitsch/quotes-etl/models"
	"github.com/dtnitsch/quotes-etl/pkg/caching"
	"github.com/dtnitsch/quotes-etl/pkg/db"
	"github.com/dtnitsch/quotes-etl/pkg/extractor"
	"github.com/dtnitsch/quotes-etl/pkg/fetcher"
	"github.com/dtnitsch/quotes-etl/pkg/language"
	"github.com/dtnitsch/quotes-etl/pkg/logger"
	"github.com/dtnitsch/quotes-etl/pkg/parser"
	"github.com/dtnitsch/quotes-etl/pkg/pipeline"
	"github.com/dtnitsch/quotes-etl/pkg/storage"
	"github.com/dtnitsch/quotes-etl/pkg/transformer"
	"github.com/dtnitsch/quotes-etl/pkg/validator"
)

// Exit codes of the run command.
const (
	ExitOK      = 0
	ExitPartial = 1
	ExitFatal   = 2
)

func Command() *cli.Command {
	return &cli.Command{
		Name:   "run",
		Usage:  "extract, clean, validate and store quotes",
		Flags:  Flags(),
		Action: RunAction,
	}
}

func RunAction(c *cli.Context) error {
	cfg, err := ConfigFromContext(c)
	if err != nil {
		return cli.Exit(describe(err), ExitFatal)
	}

	level := "info"
	if c.Bool("quiet") {
		level = "error"
	}
	log, err := logger.New(level, c.Bool("dev"))
	if err != nil {
		return cli.Exit(describe(err), ExitFatal)
	}
	defer func() { _ = log.Sync() }()

	res, files, err := Execute(c.Context, cfg, c.Bool("force-fetch"), log)
	if !c.Bool("quiet") && res.RunID != "" {
		if perr := PrintSummary(res, files); perr != nil {
			log.Warn("failed to print summary", zap.Error(perr))
		}
	}

	code := ExitCode(res, err)
	switch {
	case err != nil:
		return cli.Exit(describe(err), code)
	case code != ExitOK:
		return cli.Exit(fmt.Sprintf("run %s finished with %d error(s) and %d valid quote(s)",
			res.RunID, res.Metrics.ErrorsEncountered, len(res.Valid)), code)
	}
	return nil
}

// Execute wires the collaborators for cfg and runs the pipeline once. It
// returns the files written alongside the pipeline result.
func Execute(ctx context.Context, cfg models.RunConfig, forceFetch bool, log *zap.Logger) (pipeline.Result, []string, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	var cache *caching.Cache
	if cfg.CacheDir != "" {
		var err error
		if cache, err = caching.NewCache(cfg.CacheDir, cfg.CacheMaxAge); err != nil {
			return pipeline.Result{}, nil, err
		}
	}

	f := fetcher.NewFetcher(fetcher.Options{
		Timeout:    cfg.Timeout,
		Delay:      cfg.Delay,
		UserAgent:  cfg.UserAgent,
		Cache:      cache,
		ForceFetch: forceFetch,
	}, log.Named("fetcher"))

	source := extractor.New(extractor.Config{
		BaseURL:  cfg.BaseURL,
		StartURL: cfg.StartURL,
		MaxPages: cfg.MaxPages,
	}, f, &parser.Parser{}, log.Named("extractor"))

	var trOpts []transformer.Option
	if cfg.DetectLanguage {
		trOpts = append(trOpts, transformer.WithDetector(language.NewDetector()))
	}

	store, err := storage.New(cfg.OutputDir)
	if err != nil {
		return pipeline.Result{}, nil, err
	}
	files := storage.NewFileSink(store, cfg.Formats, log.Named("storage"))
	sinks := []pipeline.Sink{files}

	if cfg.HasFormat(models.FormatDB) {
		database, err := db.Open(cfg.DBPath)
		if err != nil {
			return pipeline.Result{}, nil, errors.Wrap(err, "open run history")
		}
		defer database.Close()
		sinks = append(sinks, database)
	}

	p := pipeline.New(source, log,
		pipeline.WithTransformer(transformer.New(cfg.BaseURL, trOpts...)),
		pipeline.WithSink(pipeline.MultiSink(sinks...)),
		pipeline.WithValidator(validator.New(cfg.Validation)),
		pipeline.WithTopN(cfg.TopN),
		pipeline.WithOutputPrefix(cfg.OutputPrefix),
	)

	res, err := p.Run(ctx)
	written := files.Files()
	if cfg.HasFormat(models.FormatDB) && err == nil {
		written = append(written, cfg.DBPath)
	}
	return res, written, err
}

// ExitCode maps a run outcome to the process exit status.
func ExitCode(res pipeline.Result, err error) int {
	switch {
	case err != nil:
		return ExitFatal
	case res.Partial():
		return ExitPartial
	}
	return ExitOK
}

// describe renders err with any hints attached along the way.
func describe(err error) string {
	msg := err.Error()
	if hint := errors.FlattenHints(err); hint != "" {
		msg += "\nhint: " + hint
	}
	return msg
}
