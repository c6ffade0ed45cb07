package cmd

import (
	"context"
	"fmt"
	"time"

	gstorage "cloud.google.com/go/storage"
	"go.uber.org/zap"

	"github.com/storesight/brand-insights/internal/archive"
	archivegcs "github.com/storesight/brand-insights/internal/archive/gcs"
	archivemem "github.com/storesight/brand-insights/internal/archive/memory"
	"github.com/storesight/brand-insights/internal/brand"
	"github.com/storesight/brand-insights/internal/competitors"
	"github.com/storesight/brand-insights/internal/config"
	"github.com/storesight/brand-insights/internal/notify"
	notifymem "github.com/storesight/brand-insights/internal/notify/memory"
	notifypubsub "github.com/storesight/brand-insights/internal/notify/pubsub"
	"github.com/storesight/brand-insights/internal/scraper"
	storagemem "github.com/storesight/brand-insights/internal/storage/memory"
	"github.com/storesight/brand-insights/internal/storage/postgres"
)

// buildScraper assembles the fetcher and pipeline from configuration,
// attaching the snapshot archive when one is configured.
func buildScraper(ctx context.Context, cfg config.Config, logger *zap.Logger) (*scraper.Scraper, *scraper.Fetcher, error) {
	scfg := scraper.Config{
		UserAgent:          cfg.Scraper.UserAgent,
		RequestTimeout:     cfg.RequestTimeout(),
		MaxAttempts:        cfg.HTTP.MaxAttempts,
		BackoffInitial:     time.Duration(cfg.HTTP.BackoffInitialMs) * time.Millisecond,
		BackoffMax:         time.Duration(cfg.HTTP.BackoffMaxMs) * time.Millisecond,
		MaxCatalogPages:    cfg.Scraper.MaxCatalogPages,
		PolicyMinBodyChars: cfg.Scraper.PolicyMinBodyChars,
		AboutTextMaxChars:  cfg.Scraper.AboutTextMaxChars,
		FAQAnswerMaxChars:  cfg.Scraper.FAQAnswerMaxChars,
		MaxConcurrent:      cfg.Scraper.MaxConcurrent,
	}
	fetcher := scraper.NewFetcher(scfg, logger)

	var opts []scraper.Option
	store, err := buildArchive(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	if store != nil {
		opts = append(opts, scraper.WithArchive(store, cfg.Archive.Prefix))
	}

	return scraper.New(scfg, fetcher, logger, opts...), fetcher, nil
}

func buildArchive(ctx context.Context, cfg config.Config) (archive.Store, error) {
	switch cfg.Archive.Provider {
	case "":
		return nil, nil
	case "memory":
		return archivemem.NewBlobStore(), nil
	case "gcs":
		client, err := gstorage.NewClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("init gcs client: %w", err)
		}
		return archivegcs.New(client, archivegcs.Config{Bucket: cfg.Archive.GCSBucket})
	default:
		return nil, fmt.Errorf("unknown archive provider %q", cfg.Archive.Provider)
	}
}

// buildStore selects the brand store. An empty DSN selects the in-memory
// store, which is suitable only for development and tests.
func buildStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (brand.Store, error) {
	if cfg.DB.DSN == "" {
		logger.Warn("db.dsn is empty, using the in-memory brand store")
		return storagemem.NewBrandStore(), nil
	}
	return postgres.NewBrandStore(ctx, postgres.Config{
		DSN:             cfg.DB.DSN,
		MaxConns:        cfg.DB.MaxConns,
		MinConns:        cfg.DB.MinConns,
		MaxConnLifetime: time.Duration(cfg.DB.MaxConnLifetime) * time.Second,
	})
}

func buildPublisher(ctx context.Context, cfg config.Config) (notify.Publisher, func(), error) {
	switch cfg.Notify.Provider {
	case "":
		return nil, func() {}, nil
	case "memory":
		return notifymem.New(), func() {}, nil
	case "pubsub":
		pub, err := notifypubsub.New(ctx, cfg.Notify.ProjectID, cfg.Notify.TopicID)
		if err != nil {
			return nil, nil, fmt.Errorf("init pubsub publisher: %w", err)
		}
		return pub, func() { _ = pub.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown notify provider %q", cfg.Notify.Provider)
	}
}

func buildCompetitors(cfg config.Config, fetcher *scraper.Fetcher, logger *zap.Logger) *competitors.Client {
	return competitors.New(competitors.Config{
		APIKey:   cfg.Competitors.BingAPIKey,
		Endpoint: cfg.Competitors.Endpoint,
		Limit:    cfg.Competitors.Limit,
	}, fetcher, logger)
}
