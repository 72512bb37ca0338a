package pipeline

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/net/html/charset"

	"github.com/ppiankov/bookrel/internal/cache"
	"github.com/ppiankov/bookrel/internal/extract"
	"github.com/ppiankov/bookrel/internal/model"
	"github.com/ppiankov/bookrel/internal/util"
)

const maxFetchAttempts = 3

// fetchSleepFunc is replaced in tests to skip backoff
var fetchSleepFunc = time.Sleep

// ErrDisallowed is returned when robots.txt forbids fetching a source
var ErrDisallowed = errors.New("disallowed by robots.txt")

// ErrTooLarge is returned for a source larger than the configured body limit
var ErrTooLarge = errors.New("source exceeds size limit")

// StatusError reports a non-2xx response from a book source
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status: %d %s", e.Code, e.Status)
}

// RateLimiter delays requests per source domain
type RateLimiter interface {
	Wait(ctx context.Context, rawURL string) error
}

// crawlDelayer is implemented by limiters that honor robots.txt crawl delays
type crawlDelayer interface {
	SetCrawlDelay(rawURL string, delay time.Duration)
}

// Fetcher acquires book text from URLs
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64

	cache   cache.Cache
	robots  *util.RobotsChecker
	limiter RateLimiter
	logger  *log.Logger
}

// FetcherOption configures optional Fetcher collaborators
type FetcherOption func(*Fetcher)

// WithCache stores fetched text in c
func WithCache(c cache.Cache) FetcherOption {
	return func(f *Fetcher) { f.cache = c }
}

// WithRobots checks robots.txt before every network fetch
func WithRobots(r *util.RobotsChecker) FetcherOption {
	return func(f *Fetcher) { f.robots = r }
}

// WithRateLimiter waits on l before every network fetch
func WithRateLimiter(l RateLimiter) FetcherOption {
	return func(f *Fetcher) { f.limiter = l }
}

// WithLogger sets the fetch logger
func WithLogger(l *log.Logger) FetcherOption {
	return func(f *Fetcher) { f.logger = l }
}

// NewFetcher creates a new Fetcher with the given configuration.
// maxBytes <= 0 disables the body size limit.
func NewFetcher(timeout time.Duration, userAgent string, maxBytes int64, insecureTLS bool, httpProxy, httpsProxy, noProxy string, opts ...FetcherOption) *Fetcher {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = util.NewProxyFunc(httpProxy, httpsProxy, noProxy)
	if insecureTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in via http.insecure_tls
	}

	f := &Fetcher{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: userAgent,
		maxBytes:  maxBytes,
		logger:    util.Discard(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// NewFetcherFromConfig builds a Fetcher with the cache and robots checker
// described by cfg. limiter may be nil.
func NewFetcherFromConfig(cfg *model.Config, limiter RateLimiter, logger *log.Logger) *Fetcher {
	opts := []FetcherOption{WithLogger(logger)}
	if cfg.Cache.Enabled {
		opts = append(opts, WithCache(cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)))
	}
	if cfg.HTTP.RespectRobots {
		opts = append(opts, WithRobots(util.NewRobotsChecker(cfg.HTTP.UserAgent, cfg.HTTP.Timeout)))
	}
	if limiter != nil {
		opts = append(opts, WithRateLimiter(limiter))
	}

	h := cfg.HTTP
	return NewFetcher(h.Timeout, h.UserAgent, h.MaxBodyBytes, h.InsecureTLS, h.HTTPProxy, h.HTTPSProxy, h.NoProxy, opts...)
}

// FetchResult contains the fetched book text and metadata
type FetchResult struct {
	Text     string
	Meta     model.FetchMeta
	FinalURL string
}

// FetchWithRetry fetches rawURL, retrying transient failures with backoff.
// Cached sources are returned without touching the network.
func (f *Fetcher) FetchWithRetry(ctx context.Context, rawURL string) (*FetchResult, error) {
	if f.cache != nil {
		if src, ok := cache.LoadSource(f.cache, rawURL); ok {
			f.logger.Debug("source cache hit", "url", rawURL)
			meta := src.Meta
			meta.FromCache = true
			return &FetchResult{Text: src.Text, Meta: meta, FinalURL: src.URL}, nil
		}
	}

	if f.robots != nil {
		allowed, delay, err := f.robots.CanFetch(ctx, rawURL)
		if err != nil {
			return nil, fmt.Errorf("robots: %w", err)
		}
		if !allowed {
			return nil, fmt.Errorf("%s: %w", rawURL, ErrDisallowed)
		}
		if cd, ok := f.limiter.(crawlDelayer); ok && delay > 0 {
			f.logger.Debug("robots crawl delay", "url", rawURL, "delay", delay)
			cd.SetCrawlDelay(rawURL, delay)
		}
	}

	var lastErr error
	for attempt := 1; attempt <= maxFetchAttempts; attempt++ {
		if f.limiter != nil {
			if err := f.limiter.Wait(ctx, rawURL); err != nil {
				return nil, fmt.Errorf("rate limit: %w", err)
			}
		}

		result, err := f.fetch(ctx, rawURL)
		if err == nil {
			f.store(rawURL, result)
			return result, nil
		}
		lastErr = err

		if !isRetryableFetchError(err) || attempt == maxFetchAttempts || ctx.Err() != nil {
			break
		}

		backoff := time.Duration(attempt) * time.Second
		f.logger.Warn("fetch failed, retrying", "url", rawURL, "attempt", attempt, "backoff", backoff, "err", err)
		fetchSleepFunc(backoff)
	}

	return nil, lastErr
}

// fetch performs a single request and decodes the body to UTF-8 text
func (f *Fetcher) fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/plain,text/html;q=0.9,*/*;q=0.5")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	meta := model.FetchMeta{
		StatusCode:   resp.StatusCode,
		ContentType:  resp.Header.Get("Content-Type"),
		LastModified: resp.Header.Get("Last-Modified"),
		ETag:         resp.Header.Get("ETag"),
		Headers:      make(map[string]string),
	}

	// Store selected headers
	for _, key := range []string{"Content-Length", "Server", "Cache-Control"} {
		if val := resp.Header.Get(key); val != "" {
			meta.Headers[key] = val
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	if f.maxBytes > 0 && resp.ContentLength > f.maxBytes {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrTooLarge, resp.ContentLength, f.maxBytes)
	}

	// A book is never truncated: one byte past the limit fails the fetch
	var reader io.Reader = resp.Body
	if f.maxBytes > 0 {
		reader = io.LimitReader(resp.Body, f.maxBytes+1)
	}
	raw, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if f.maxBytes > 0 && int64(len(raw)) > f.maxBytes {
		return nil, fmt.Errorf("%w: limit %d bytes", ErrTooLarge, f.maxBytes)
	}

	enc, _, _ := charset.DetermineEncoding(raw, meta.ContentType)
	body, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}

	text := string(body)
	if extract.IsHTML(meta.ContentType) {
		text, err = extract.VisibleText(text)
		if err != nil {
			return nil, fmt.Errorf("parse html: %w", err)
		}
	}

	return &FetchResult{
		Text:     text,
		Meta:     meta,
		FinalURL: resp.Request.URL.String(),
	}, nil
}

func (f *Fetcher) store(rawURL string, result *FetchResult) {
	if f.cache == nil {
		return
	}
	src := &cache.Source{
		URL:       rawURL,
		Text:      result.Text,
		Meta:      result.Meta,
		FetchedAt: time.Now().UTC(),
	}
	if err := cache.StoreSource(f.cache, src, 0); err != nil {
		f.logger.Warn("source cache write failed", "url", rawURL, "err", err)
	}
}

// isRetryableFetchError reports whether a fetch error is transient:
// 5xx and 429 responses, timeouts and refused or reset connections
func isRetryableFetchError(err error) bool {
	if err == nil {
		return false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code >= 500 || statusErr.Code == http.StatusTooManyRequests
	}

	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	msg := err.Error()
	return strings.Contains(msg, "connection refused") || strings.Contains(msg, "connection reset")
}
