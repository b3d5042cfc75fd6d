// Package extractor walks a paginated quotes site and pulls raw quote blocks
// off every page.
package extractor

import (
	"bytes"
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/dtnitsch/quotes-etl/models"
	"github.com/dtnitsch/quotes-etl/pkg/fetcher"
	"github.com/dtnitsch/quotes-etl/pkg/pipeline"
)

// Failure kinds recorded on models.PageFailure.
const (
	ErrorTypeFetch   = "fetch_error"
	ErrorTypeParse   = "parse_error"
	ErrorTypeElement = "element_error"
)

// PageFetcher is the part of fetcher.Fetcher the extractor needs.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (fetcher.Page, error)
}

// MetaParser reads page-level metadata. Failures are logged and ignored.
type MetaParser interface {
	PageMeta(rawURL string, html []byte) (models.PageMeta, error)
}

// Selectors are the CSS selectors for one quote layout.
type Selectors struct {
	Quote      string
	Text       string
	Author     string
	Tag        string
	AuthorLink string
	Next       string
}

// DefaultSelectors match quotes.toscrape.com.
func DefaultSelectors() Selectors {
	return Selectors{
		Quote:      "div.quote",
		Text:       "span.text",
		Author:     "small.author",
		Tag:        "a.tag",
		AuthorLink: `a[href*="/author/"]`,
		Next:       "nav li.next a",
	}
}

type Config struct {
	BaseURL   string
	StartURL  string
	MaxPages  int // 0 follows pagination to the end
	Selectors Selectors
}

type Extractor struct {
	cfg     Config
	fetcher PageFetcher
	parser  MetaParser
	logger  *zap.Logger
	clock   func() time.Time
}

func New(cfg Config, f PageFetcher, p MetaParser, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.StartURL == "" {
		cfg.StartURL = cfg.BaseURL
	}
	if cfg.Selectors == (Selectors{}) {
		cfg.Selectors = DefaultSelectors()
	}
	return &Extractor{
		cfg:     cfg,
		fetcher: f,
		parser:  p,
		logger:  logger,
		clock:   time.Now,
	}
}

// Extract follows the "next" link from the start URL until there is none or
// the page cap is hit. A page that cannot be fetched or parsed ends the walk,
// since its next link is unknown. Extraction order is global across pages.
func (e *Extractor) Extract(ctx context.Context) (models.Extraction, error) {
	ext := models.Extraction{BaseURL: e.cfg.BaseURL}
	visited := map[string]bool{}

	for current := e.cfg.StartURL; current != ""; {
		if e.cfg.MaxPages > 0 && len(ext.Pages) >= e.cfg.MaxPages {
			break
		}
		if visited[current] {
			e.logger.Warn("pagination loop detected", zap.String("url", current))
			break
		}
		visited[current] = true

		if err := ctx.Err(); err != nil {
			return ext, errors.Wrap(err, "extraction cancelled")
		}

		e.logger.Info("extracting page", zap.String("url", current))
		page, err := e.fetcher.Fetch(ctx, current)
		if err != nil {
			e.logger.Warn("failed to fetch page", zap.String("url", current), zap.Error(err))
			ext.Failures = append(ext.Failures, models.PageFailure{URL: current, ErrorType: ErrorTypeFetch, Message: err.Error()})
			break
		}

		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Body))
		if err != nil {
			e.logger.Warn("failed to parse page", zap.String("url", current), zap.Error(err))
			ext.Failures = append(ext.Failures, models.PageFailure{URL: current, ErrorType: ErrorTypeParse, Message: err.Error()})
			break
		}

		records, failures := e.ParseQuotes(doc, current, len(ext.Records))
		ext.Records = append(ext.Records, records...)
		ext.Failures = append(ext.Failures, failures...)
		ext.Pages = append(ext.Pages, e.pageMeta(page, len(records)))

		e.logger.Info("extracted quotes from page",
			zap.Int("page", len(ext.Pages)),
			zap.Int("quotes", len(records)),
			zap.Bool("from_cache", page.FromCache))

		current = e.NextPage(doc, current)
	}

	if len(ext.Pages) == 0 {
		return ext, errors.Wrapf(pipeline.ErrNoPages, "start url %s", e.cfg.StartURL)
	}
	return ext, nil
}

// ParseQuotes turns every quote block in doc into a raw record. Orders start
// at firstOrder. A block with neither text nor author is reported as an
// element failure instead of a record.
func (e *Extractor) ParseQuotes(doc *goquery.Document, pageURL string, firstOrder int) ([]models.RawRecord, []models.PageFailure) {
	sel := e.cfg.Selectors
	var records []models.RawRecord
	var failures []models.PageFailure

	doc.Find(sel.Quote).Each(func(i int, block *goquery.Selection) {
		text := block.Find(sel.Text).First()
		author := block.Find(sel.Author).First()
		if text.Length() == 0 && author.Length() == 0 {
			e.logger.Warn("quote block has no content", zap.String("url", pageURL), zap.Int("index", i))
			failures = append(failures, models.PageFailure{
				URL:       pageURL,
				ErrorType: ErrorTypeElement,
				Message:   "quote block has neither text nor author",
			})
			return
		}

		tags := []string{}
		block.Find(sel.Tag).Each(func(_ int, tag *goquery.Selection) {
			tags = append(tags, tag.Text())
		})

		link, _ := block.Find(sel.AuthorLink).First().Attr("href")

		records = append(records, models.RawRecord{
			Text:                text.Text(),
			Author:              author.Text(),
			Tags:                tags,
			AuthorLink:          link,
			SourceURL:           pageURL,
			ExtractionOrder:     firstOrder + len(records),
			ExtractionTimestamp: float64(e.clock().UnixNano()) / float64(time.Second),
		})
	})

	return records, failures
}

// NextPage resolves the pagination link against the current page, or
// returns "" on the last page.
func (e *Extractor) NextPage(doc *goquery.Document, current string) string {
	href, ok := doc.Find(e.cfg.Selectors.Next).First().Attr("href")
	href = strings.TrimSpace(href)
	if !ok || href == "" {
		return ""
	}

	base, err := url.Parse(current)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		e.logger.Warn("bad next page link", zap.String("href", href), zap.Error(err))
		return ""
	}
	return base.ResolveReference(ref).String()
}

func (e *Extractor) pageMeta(page fetcher.Page, quotes int) models.PageMeta {
	meta := models.PageMeta{URL: page.URL}
	if e.parser != nil {
		parsed, err := e.parser.PageMeta(page.URL, page.Body)
		if err != nil {
			e.logger.Debug("page metadata unavailable", zap.String("url", page.URL), zap.Error(err))
		}
		meta = parsed
		meta.URL = page.URL
	}
	meta.QuoteCount = quotes
	meta.FromCache = page.FromCache
	meta.FetchedAt = page.FetchedAt
	return meta
}
