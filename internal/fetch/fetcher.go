// Package fetch retrieves documents over HTTP for scoring.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/ppiankov/stylometer/internal/document"
	"github.com/ppiankov/stylometer/internal/model"
)

// ErrDisallowed is returned when robots.txt forbids fetching a URL
var ErrDisallowed = errors.New("disallowed by robots.txt")

// maxAttempts bounds FetchWithRetry
const maxAttempts = 3

// fetchSleepFunc is swapped out by tests
var fetchSleepFunc = time.Sleep

// Limiter paces requests per host. worker.Limiter implements it.
type Limiter interface {
	WaitURL(ctx context.Context, rawURL string) error
}

// StatusError is a non-2xx response
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status: %d %s", e.Code, e.Status)
}

// transportError is a failure before any response arrived
type transportError struct {
	err error
}

func (e *transportError) Error() string { return "fetch: " + e.err.Error() }

func (e *transportError) Unwrap() error { return e.err }

// Fetcher fetches documents from URLs
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	robots     *RobotsChecker // nil when robots.txt is not consulted
	limiter    Limiter
}

// NewFetcher creates a new Fetcher with the given configuration
func NewFetcher(timeout time.Duration, userAgent string, maxBytes int64, respectRobots bool, httpProxy, httpsProxy string) *Fetcher {
	client := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: NewProxyFunc(httpProxy, httpsProxy),
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 3 {
				return fmt.Errorf("stopped after 3 redirects")
			}
			return nil
		},
	}

	f := &Fetcher{
		httpClient: client,
		userAgent:  userAgent,
		maxBytes:   maxBytes,
	}
	if respectRobots {
		f.robots = NewRobotsChecker(userAgent, client)
	}
	return f
}

// NewFetcherFromConfig creates a Fetcher from the HTTP section of the config
func NewFetcherFromConfig(cfg model.HTTPConfig) *Fetcher {
	return NewFetcher(cfg.Timeout, cfg.UserAgent, cfg.MaxBodyBytes, cfg.RespectRobots, cfg.HTTPProxy, cfg.HTTPSProxy)
}

// WithLimiter paces requests through l
func (f *Fetcher) WithLimiter(l Limiter) *Fetcher {
	f.limiter = l
	return f
}

// Result contains the fetched body and metadata
type Result struct {
	Body        []byte
	ContentType string
	FinalURL    string
	StatusCode  int
}

// Fetch retrieves the body at rawURL, reading at most maxBytes
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9,application/pdf;q=0.8,*/*;q=0.5")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, &transportError{err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return &Result{
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
		FinalURL:    resp.Request.URL.String(),
		StatusCode:  resp.StatusCode,
	}, nil
}

// FetchWithRetry retries transient failures (5xx, 429, connection errors)
// with exponential backoff, up to three attempts
func (f *Fetcher) FetchWithRetry(ctx context.Context, rawURL string) (*Result, error) {
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			fetchSleepFunc(time.Duration(500<<(attempt-1)) * time.Millisecond)
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		if f.limiter != nil {
			if err := f.limiter.WaitURL(ctx, rawURL); err != nil {
				return nil, fmt.Errorf("rate limit: %w", err)
			}
		}

		result, err := f.Fetch(ctx, rawURL)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !isRetryableFetchError(err) {
			return nil, err
		}
	}
	return nil, lastErr
}

// FetchText fetches rawURL and returns its visible text
func (f *Fetcher) FetchText(ctx context.Context, rawURL string) (string, error) {
	if f.robots != nil {
		allowed, _, err := f.robots.CanFetch(ctx, rawURL)
		if err != nil {
			return "", err
		}
		if !allowed {
			return "", fmt.Errorf("%w: %s", ErrDisallowed, rawURL)
		}
	}

	result, err := f.FetchWithRetry(ctx, rawURL)
	if err != nil {
		return "", err
	}

	return document.ExtractWithType(nameFromURL(result.FinalURL), result.ContentType, result.Body)
}

// nameFromURL returns the last path segment when it carries an extension
func nameFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	base := path.Base(parsed.Path)
	if path.Ext(base) == "" {
		return ""
	}
	return base
}

func isRetryableFetchError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code == http.StatusTooManyRequests || statusErr.Code >= 500
	}

	// Refused, reset, DNS
	var transportErr *transportError
	return errors.As(err, &transportErr)
}
