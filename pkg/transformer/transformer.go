// Package transformer turns raw scraped records into cleaned quotes.
package transformer

import (
	"net/url"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/dtnitsch/quotes-etl/models"
	"github.com/dtnitsch/quotes-etl/pkg/normalizer"
)

// ErrorTypeTransform marks a record that could not be cleaned.
const ErrorTypeTransform = "transform_error"

// Detector tags cleaned quote text with a language code. An empty string
// means unknown.
type Detector interface {
	Detect(text string) string
}

type Transformer struct {
	BaseURL  string
	Clock    func() time.Time
	Detector Detector
}

type Option func(*Transformer)

// WithClock overrides the source of ProcessedTimestamp.
func WithClock(clock func() time.Time) Option {
	return func(t *Transformer) { t.Clock = clock }
}

// WithDetector enables language tagging.
func WithDetector(d Detector) Option {
	return func(t *Transformer) { t.Detector = d }
}

func New(baseURL string, opts ...Option) *Transformer {
	t := &Transformer{
		BaseURL: baseURL,
		Clock:   time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// TransformAll cleans every record in input order. Records that fail are
// returned as skips and never abort the batch. Empty text or author is not a
// failure here; the validator decides what to do with it.
func (t *Transformer) TransformAll(raw []models.RawRecord) ([]models.Quote, []models.Skip) {
	quotes := make([]models.Quote, 0, len(raw))
	var skips []models.Skip

	for _, rec := range raw {
		q, err := t.Transform(rec)
		if err != nil {
			skips = append(skips, models.Skip{
				ExtractionOrder: rec.ExtractionOrder,
				SourceURL:       rec.SourceURL,
				ErrorType:       ErrorTypeTransform,
				Message:         err.Error(),
			})
			continue
		}
		quotes = append(quotes, q)
	}
	return quotes, skips
}

// Transform cleans a single record.
func (t *Transformer) Transform(rec models.RawRecord) (q models.Quote, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf("record %d: %v", rec.ExtractionOrder, r)
		}
	}()

	if rec.SourceURL != "" {
		if _, perr := url.Parse(rec.SourceURL); perr != nil {
			return models.Quote{}, errors.Wrapf(perr, "record %d: source url", rec.ExtractionOrder)
		}
	}

	text := normalizer.CleanQuoteText(rec.Text)
	tags := normalizer.CleanTags(rec.Tags)

	q = models.Quote{
		QuoteText:          text,
		Author:             normalizer.CleanAuthorName(rec.Author),
		Tags:               tags,
		AuthorLink:         normalizer.ResolveLink(t.linkBase(rec), rec.AuthorLink),
		SourceURL:          rec.SourceURL,
		WordCount:          normalizer.CountWords(text),
		TagCount:           len(tags),
		CharacterCount:     normalizer.CountCharacters(text),
		ProcessedTimestamp: unixSeconds(t.Clock()),
		ExtractionOrder:    rec.ExtractionOrder,
	}

	if t.Detector != nil && text != "" {
		q.Language = t.Detector.Detect(text)
	}
	return q, nil
}

// linkBase prefers the configured base URL and falls back to the page the
// record came from.
func (t *Transformer) linkBase(rec models.RawRecord) string {
	if t.BaseURL != "" {
		return t.BaseURL
	}
	return rec.SourceURL
}

func unixSeconds(ts time.Time) float64 {
	return float64(ts.UnixNano()) / float64(time.Second)
}

