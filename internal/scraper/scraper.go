// Package scraper implements the brand-context extraction pipeline: URL
// normalization, resilient fetching, multi-strategy extraction, and assembly
// of the final record.
package scraper

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"time"

	"go.uber.org/zap"

	"github.com/storesight/brand-insights/internal/archive"
	"github.com/storesight/brand-insights/internal/brand"
)

// Scraper sequences the pipeline phases against one normalized base URL.
// Each invocation owns its state; concurrent invocations for different
// storefronts need no coordination.
type Scraper struct {
	cfg     Config
	fetcher *Fetcher
	archive archive.Store
	prefix  string
	logger  *zap.Logger
}

// Option customizes a Scraper.
type Option func(*Scraper)

// WithArchive enables raw homepage snapshot archiving.
func WithArchive(store archive.Store, prefix string) Option {
	return func(s *Scraper) {
		s.archive = store
		s.prefix = prefix
	}
}

// New constructs a Scraper around the given fetcher.
func New(cfg Config, fetcher *Fetcher, logger *zap.Logger, opts ...Option) *Scraper {
	s := &Scraper{
		cfg:     cfg.withDefaults(),
		fetcher: fetcher,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scrape runs the full pipeline for one storefront URL and assembles the
// brand record. Only two failure classes abort it: unparsable input and an
// unreachable base URL. Everything else degrades the corresponding fields.
// Cancellation aborts in-flight fetches and discards partial data.
func (s *Scraper) Scrape(ctx context.Context, rawURL string) (*brand.Context, error) {
	start := time.Now()
	record, err := s.scrape(ctx, rawURL)
	scrapeDurationSeconds.Observe(time.Since(start).Seconds())
	scrapesTotal.WithLabelValues(resultLabel(err)).Inc()
	return record, err
}

func (s *Scraper) scrape(ctx context.Context, rawURL string) (*brand.Context, error) {
	base, err := NormalizeBase(rawURL)
	if err != nil {
		return nil, err
	}
	logger := s.logger.With(zap.String("base", base))
	logger.Info("scrape started")

	html, heroes, record, err := s.AnalyzeHomepage(ctx, base)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrSiteUnreachable, err)
	}
	s.archiveSnapshot(ctx, base, html)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	products := s.ListProducts(ctx, base)
	markHeroes(products, heroes)
	record.Products = products

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	record.Policies = s.ResolvePolicies(ctx, base, html)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	record.FAQs = s.ResolveFAQs(ctx, base, html, record.ImportantLinks)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logger.Info("scrape finished",
		zap.Int("products", len(record.Products)),
		zap.Int("heroes", len(record.HeroProducts)),
		zap.Int("policies", len(record.Policies)),
		zap.Int("faqs", len(record.FAQs)),
	)
	return record, nil
}

// markHeroes reconciles the hero flags against the full catalog: any catalog
// product whose URL exactly matches a resolved hero URL is marked.
func markHeroes(products []brand.Product, heroes []brand.Product) {
	heroURLs := make(map[string]struct{}, len(heroes))
	for _, h := range heroes {
		if h.URL != "" {
			heroURLs[h.URL] = struct{}{}
		}
	}
	for i := range products {
		if _, ok := heroURLs[products[i].URL]; ok {
			products[i].IsHero = true
		}
	}
}

var unsafePathChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// archiveSnapshot persists the raw homepage HTML when an archive store is
// configured. Failures are logged and absorbed.
func (s *Scraper) archiveSnapshot(ctx context.Context, base, html string) {
	if s.archive == nil || html == "" {
		return
	}
	host := base
	if parsed, err := url.Parse(base); err == nil && parsed.Hostname() != "" {
		host = parsed.Hostname()
	}
	path := fmt.Sprintf("%s/%s/%s.html",
		s.prefix,
		unsafePathChars.ReplaceAllString(host, "_"),
		time.Now().UTC().Format("20060102T150405Z"),
	)
	uri, err := s.archive.PutObject(ctx, path, "text/html; charset=utf-8", []byte(html))
	if err != nil {
		s.logger.Warn("homepage snapshot archive failed", zap.String("base", base), zap.Error(err))
		return
	}
	s.logger.Info("homepage snapshot archived", zap.String("uri", uri))
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case IsInputError(err):
		return "invalid_url"
	case IsUnreachableError(err):
		return "unreachable"
	default:
		return "error"
	}
}
