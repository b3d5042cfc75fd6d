package fetcher

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/dtnitsch/quotes-etl/pkg/caching"
)

// Options configures a Fetcher. Zero values mean no delay, no timeout, no
// user agent header and no cache.
type Options struct {
	Timeout    time.Duration
	Delay      time.Duration
	UserAgent  string
	Cache      *caching.Cache
	ForceFetch bool
}

// Page is one fetched HTML document.
type Page struct {
	URL       string
	Body      []byte
	FromCache bool
	FetchedAt time.Time
}

type Fetcher struct {
	client    *http.Client
	limiter   *rate.Limiter
	userAgent string
	cache     *caching.Cache
	force     bool
	logger    *zap.Logger
}

func NewFetcher(opts Options, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}

	limit := rate.Inf
	if opts.Delay > 0 {
		limit = rate.Every(opts.Delay)
	}

	return &Fetcher{
		client:    &http.Client{Timeout: opts.Timeout},
		limiter:   rate.NewLimiter(limit, 1),
		userAgent: opts.UserAgent,
		cache:     opts.Cache,
		force:     opts.ForceFetch,
		logger:    logger,
	}
}

// Fetch returns the body of url. Cached pages are served without touching
// the network; live requests are paced by the configured delay.
func (f *Fetcher) Fetch(ctx context.Context, url string) (Page, error) {
	if f.cache != nil && !f.force {
		if body, storedAt, ok := f.cache.Get(url); ok {
			f.logger.Debug("cache hit", zap.String("url", url))
			return Page{URL: url, Body: body, FromCache: true, FetchedAt: storedAt}, nil
		}
	}

	body, err := f.GetHtmlBytes(ctx, url)
	if err != nil {
		return Page{}, err
	}

	if f.cache != nil {
		if err := f.cache.Set(url, body); err != nil {
			f.logger.Warn("failed to cache page", zap.String("url", url), zap.Error(err))
		}
	}
	return Page{URL: url, Body: body, FetchedAt: time.Now()}, nil
}

// GetHtmlBytes performs one paced GET and returns the body of a 200 response.
func (f *Fetcher) GetHtmlBytes(ctx context.Context, url string) ([]byte, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, "waiting for request slot")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build HTTP request")
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	f.logger.Debug("fetching", zap.String("url", url))
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to make HTTP request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf("failed to fetch HTML, status code: %d", resp.StatusCode)
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response body")
	}
	return bodyBytes, nil
}
