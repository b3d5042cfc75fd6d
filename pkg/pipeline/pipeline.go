// Package pipeline sequences extraction, cleaning, deduplication, validation
// and reporting for one batch run, and owns the run's metrics.
package pipeline

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dtnitsch/quotes-etl/models"
	"github.com/dtnitsch/quotes-etl/pkg/dedup"
	"github.com/dtnitsch/quotes-etl/pkg/report"
	"github.com/dtnitsch/quotes-etl/pkg/transformer"
	"github.com/dtnitsch/quotes-etl/pkg/validator"
)

var (
	// ErrNoPages means extraction produced no page at all. It is the only
	// extraction outcome that fails a run.
	ErrNoPages = errors.New("no pages could be extracted")

	ErrAlreadyRun = errors.New("pipeline has already run")
)

// Source produces raw records. Page-level problems belong in
// Extraction.Failures; a returned error fails the run.
type Source interface {
	Extract(ctx context.Context) (models.Extraction, error)
}

// Sink receives the finished run.
type Sink interface {
	Persist(ctx context.Context, out models.RunOutput) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, out models.RunOutput) error

func (f SinkFunc) Persist(ctx context.Context, out models.RunOutput) error { return f(ctx, out) }

// MultiSink persists to each sink in order and stops at the first error.
func MultiSink(sinks ...Sink) Sink {
	return SinkFunc(func(ctx context.Context, out models.RunOutput) error {
		for _, s := range sinks {
			if s == nil {
				continue
			}
			if err := s.Persist(ctx, out); err != nil {
				return err
			}
		}
		return nil
	})
}

// Result is everything a run produced. It is populated as far as the run
// got, so a persistence failure still carries the cleaned data.
type Result struct {
	RunID      string
	State      State
	StartedAt  time.Time
	FinishedAt time.Time
	Valid      []models.Quote
	Invalid    []models.Rejection
	Skipped    []models.Skip
	Pages      []models.PageMeta
	Failures   []models.PageFailure
	Report     models.Report
	Metrics    models.RunMetrics
	Err        error
}

// Partial reports a completed run that lost data along the way or ended
// with nothing valid to show.
func (r Result) Partial() bool {
	return r.State == StateDone && (len(r.Valid) == 0 || r.Metrics.ErrorsEncountered > 0)
}

type Pipeline struct {
	source      Source
	sink        Sink
	transformer *transformer.Transformer
	validator   *validator.Validator
	topN        int
	prefix      string
	logger      *zap.Logger
	clock       func() time.Time
	newID       func() string

	state   State
	metrics models.RunMetrics
}

type Option func(*Pipeline)

// WithSink sets where finished runs are handed off. Without one the run
// stays in memory.
func WithSink(s Sink) Option {
	return func(p *Pipeline) { p.sink = s }
}

func WithTransformer(t *transformer.Transformer) Option {
	return func(p *Pipeline) { p.transformer = t }
}

func WithValidator(v *validator.Validator) Option {
	return func(p *Pipeline) { p.validator = v }
}

func WithTopN(n int) Option {
	return func(p *Pipeline) { p.topN = n }
}

// WithOutputPrefix is recorded on the run output for file sinks.
func WithOutputPrefix(prefix string) Option {
	return func(p *Pipeline) { p.prefix = prefix }
}

func WithClock(clock func() time.Time) Option {
	return func(p *Pipeline) { p.clock = clock }
}

func WithIDGenerator(gen func() string) Option {
	return func(p *Pipeline) { p.newID = gen }
}

func New(source Source, logger *zap.Logger, opts ...Option) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Pipeline{
		source:    source,
		validator: validator.New(validator.DefaultRules()),
		topN:      report.DefaultTopN,
		prefix:    models.DefaultPrefix,
		logger:    logger,
		clock:     time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// State is the stage the pipeline is currently in.
func (p *Pipeline) State() State { return p.state }

// Metrics returns a snapshot of the counters.
func (p *Pipeline) Metrics() models.RunMetrics { return p.metrics }

// Run executes every stage once. A pipeline cannot be run twice.
func (p *Pipeline) Run(ctx context.Context) (Result, error) {
	if p.state != StateIdle {
		return Result{State: p.state}, ErrAlreadyRun
	}

	res := Result{RunID: p.newID(), StartedAt: p.clock()}
	log := p.logger.With(zap.String("run_id", res.RunID))

	fail := func(err error) (Result, error) {
		p.advance(log, StateFailed)
		res.State = p.state
		res.Metrics = p.metrics
		res.FinishedAt = p.clock()
		res.Err = err
		log.Error("pipeline failed", zap.Error(err))
		p.logSummary(log, res)
		return res, err
	}

	// Extracting
	p.advance(log, StateExtracting)
	ext, err := p.source.Extract(ctx)
	if err != nil {
		if !errors.Is(err, ErrNoPages) {
			err = errors.Wrap(err, "extract")
		}
		res.Failures = ext.Failures
		p.metrics.ErrorsEncountered += len(ext.Failures)
		return fail(err)
	}
	if len(ext.Pages) == 0 {
		res.Failures = ext.Failures
		p.metrics.ErrorsEncountered += len(ext.Failures)
		return fail(ErrNoPages)
	}

	res.Pages = ext.Pages
	res.Failures = ext.Failures
	p.metrics.PagesScraped = len(ext.Pages)
	p.metrics.QuotesExtracted = len(ext.Records)
	p.metrics.ErrorsEncountered += len(ext.Failures)
	for _, f := range ext.Failures {
		log.Warn("skipped during extraction",
			zap.String("url", f.URL),
			zap.String("error_type", f.ErrorType),
			zap.String("error", f.Message))
	}
	log.Info("extraction complete",
		zap.Int("pages", p.metrics.PagesScraped),
		zap.Int("quotes", p.metrics.QuotesExtracted),
		zap.Int("failures", len(ext.Failures)))

	// Transforming
	p.advance(log, StateTransforming)
	tr := p.transformer
	if tr == nil {
		tr = transformer.New(ext.BaseURL)
	}
	cleaned, skips := tr.TransformAll(ext.Records)
	for _, s := range skips {
		log.Warn("record skipped",
			zap.Int("extraction_order", s.ExtractionOrder),
			zap.String("source_url", s.SourceURL),
			zap.String("error", s.Message))
	}
	p.metrics.ErrorsEncountered += len(skips)
	res.Skipped = skips

	unique, removed := dedup.RemoveDuplicates(cleaned)
	p.metrics.DuplicatesRemoved = removed
	p.metrics.QuotesCleaned = len(unique)
	log.Info("transformation complete",
		zap.Int("cleaned", len(cleaned)),
		zap.Int("skipped", len(skips)),
		zap.Int("duplicates_removed", removed),
		zap.Int("unique", len(unique)))

	// Validating
	p.advance(log, StateValidating)
	valid, invalid := p.validator.Validate(unique)
	for _, rej := range invalid {
		log.Warn("record failed validation",
			zap.Int("extraction_order", rej.Quote.ExtractionOrder),
			zap.String("reason", string(rej.Reason)))
	}
	p.metrics.InvalidRecords = len(invalid)
	p.metrics.ErrorsEncountered += len(invalid)
	res.Valid = valid
	res.Invalid = invalid
	log.Info("validation complete",
		zap.Int("valid", len(valid)),
		zap.Int("invalid", len(invalid)))
	if len(valid) == 0 {
		log.Warn("no valid quotes to load")
	}

	// Reporting
	p.advance(log, StateReporting)
	res.Report = report.Generate(valid, p.metrics, p.topN)
	res.Metrics = p.metrics
	log.Info("report generated",
		zap.Int("total_quotes", res.Report.TotalQuotes),
		zap.Int("unique_authors", res.Report.UniqueAuthors),
		zap.Int("unique_tags", res.Report.UniqueTags))

	if p.sink != nil {
		out := models.RunOutput{
			RunID:        res.RunID,
			StartedAt:    res.StartedAt,
			FinishedAt:   p.clock(),
			BaseURL:      ext.BaseURL,
			OutputPrefix: p.prefix,
			Quotes:       valid,
			Rejections:   invalid,
			Skips:        skips,
			Pages:        ext.Pages,
			Failures:     ext.Failures,
			Report:       res.Report,
		}
		if err := p.sink.Persist(ctx, out); err != nil {
			return fail(errors.Wrap(err, "persist"))
		}
		log.Info("results persisted")
	}

	p.advance(log, StateDone)
	res.State = p.state
	res.FinishedAt = p.clock()
	p.logSummary(log, res)
	return res, nil
}

func (p *Pipeline) advance(log *zap.Logger, next State) {
	if !p.state.canAdvance(next) {
		// Programming error: stages are sequenced in Run only.
		panic(errors.AssertionFailedf("illegal transition %s -> %s", p.state, next))
	}
	log.Debug("state change", zap.Stringer("from", p.state), zap.Stringer("to", next))
	p.state = next
}

func (p *Pipeline) logSummary(log *zap.Logger, res Result) {
	log.Info("run summary",
		zap.Stringer("state", res.State),
		zap.Duration("elapsed", res.FinishedAt.Sub(res.StartedAt)),
		zap.Int("pages_scraped", res.Metrics.PagesScraped),
		zap.Int("quotes_extracted", res.Metrics.QuotesExtracted),
		zap.Int("quotes_cleaned", res.Metrics.QuotesCleaned),
		zap.Int("duplicates_removed", res.Metrics.DuplicatesRemoved),
		zap.Int("invalid_quotes", res.Metrics.InvalidRecords),
		zap.Int("errors", res.Metrics.ErrorsEncountered),
		zap.Int("valid_quotes", len(res.Valid)),
		zap.Int("unique_authors", res.Report.UniqueAuthors),
		zap.Float64("avg_word_count", res.Report.AvgWordCount))
}
