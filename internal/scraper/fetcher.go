package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
)

// Request captures everything needed to fetch a URL.
type Request struct {
	URL     string
	Headers http.Header
}

// Response is the raw result of a successful fetch.
type Response struct {
	URL        string
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Fetcher performs HTTP GETs through a tuned Colly collector, retrying
// transient failures with exponential backoff. It returns classified
// FetchErrors and never panics past this boundary.
type Fetcher struct {
	cfg    Config
	base   *colly.Collector
	retry  retryPolicy
	logger *zap.Logger
}

// NewFetcher constructs a configured Fetcher.
func NewFetcher(cfg Config, logger *zap.Logger) *Fetcher {
	cfg = cfg.withDefaults()
	base := colly.NewCollector(
		colly.Async(false),
		colly.UserAgent(cfg.UserAgent),
	)
	base.AllowURLRevisit = true
	base.IgnoreRobotsTxt = true
	base.WithTransport(&http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          64,
		MaxIdleConnsPerHost:   16,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: cfg.RequestTimeout,
		ForceAttemptHTTP2:     true,
	})
	base.SetRequestTimeout(cfg.RequestTimeout)

	return &Fetcher{
		cfg:    cfg,
		base:   base,
		retry:  newRetryPolicy(cfg),
		logger: logger,
	}
}

// Fetch retrieves a URL, retrying transient failures within the configured
// budget. Cancellation aborts the in-flight attempt and any pending backoff.
func (f *Fetcher) Fetch(ctx context.Context, req Request) (Response, error) {
	var lastErr error
	for attempt := 1; ; attempt++ {
		resp, err := f.fetchOnce(ctx, req)
		if err == nil {
			fetchAttemptsTotal.WithLabelValues("success").Inc()
			return resp, nil
		}
		fetchAttemptsTotal.WithLabelValues("error").Inc()
		lastErr = err
		if !f.retry.ShouldRetry(err, attempt) {
			return Response{}, lastErr
		}
		fetchRetriesTotal.Inc()
		f.logger.Debug("retrying fetch",
			zap.String("url", req.URL),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return Response{}, ctx.Err()
		case <-time.After(f.retry.Backoff(attempt)):
		}
	}
}

func (f *Fetcher) fetchOnce(ctx context.Context, req Request) (Response, error) {
	collector := f.base.Clone()

	var (
		result   Response
		fetchErr error
	)
	collector.OnRequest(func(r *colly.Request) {
		for key, values := range req.Headers {
			for _, v := range values {
				r.Headers.Add(key, v)
			}
		}
	})
	collector.OnResponse(func(r *colly.Response) {
		result = Response{
			URL:        r.Request.URL.String(),
			StatusCode: r.StatusCode,
			Headers:    r.Headers.Clone(),
			Body:       append([]byte(nil), r.Body...),
		}
	})
	collector.OnError(func(r *colly.Response, err error) {
		status := 0
		if r != nil {
			status = r.StatusCode
		}
		fetchErr = classifyFetchError(req.URL, status, err)
	})

	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(req.URL)
	}()

	select {
	case <-ctx.Done():
		return Response{}, ctx.Err()
	case err := <-done:
		if fetchErr != nil {
			return Response{}, fetchErr
		}
		if err != nil {
			// Visit failed before a request was dispatched (unparsable URL,
			// unsupported scheme).
			return Response{}, &FetchError{URL: req.URL, Err: err}
		}
		if result.StatusCode == 0 {
			return Response{}, &FetchError{URL: req.URL, Err: errors.New("no response produced")}
		}
		return result, nil
	}
}

// FetchHTML retrieves a page body as a string, with the full error contract.
func (f *Fetcher) FetchHTML(ctx context.Context, url string) (string, error) {
	resp, err := f.Fetch(ctx, Request{URL: url})
	if err != nil {
		return "", err
	}
	return string(resp.Body), nil
}

// tryHTML absorbs all failures into "": secondary pages that cannot be
// fetched are treated as absent, not broken.
func (f *Fetcher) tryHTML(ctx context.Context, url string) string {
	body, err := f.FetchHTML(ctx, url)
	if err != nil {
		f.logger.Debug("page absent", zap.String("url", url), zap.Error(err))
		return ""
	}
	return body
}

// FetchJSON retrieves a URL and decodes its body into v, returning false on
// any failure or when the response does not look like JSON. Callers treat
// false as a normal negative result.
func (f *Fetcher) FetchJSON(ctx context.Context, url string, v any) bool {
	resp, err := f.Fetch(ctx, Request{URL: url})
	if err != nil {
		return false
	}
	if !looksLikeJSON(resp) {
		return false
	}
	if err := json.Unmarshal(resp.Body, v); err != nil {
		f.logger.Debug("malformed json payload", zap.String("url", url), zap.Error(err))
		return false
	}
	return true
}

func looksLikeJSON(resp Response) bool {
	if strings.Contains(resp.Headers.Get("Content-Type"), "application/json") {
		return true
	}
	trimmed := bytes.TrimSpace(resp.Body)
	return len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[')
}
