// Package competitors looks up competing storefronts through the Bing Web
// Search API. This is a pure pass-through, not extraction logic.
package competitors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/storesight/brand-insights/internal/scraper"
)

// Config controls the search client.
type Config struct {
	APIKey   string
	Endpoint string
	Limit    int
}

// Client queries the search API through the shared resilient fetcher.
type Client struct {
	cfg     Config
	fetcher *scraper.Fetcher
	logger  *zap.Logger
}

// New builds a Client. An empty API key yields a client that always returns
// no results.
func New(cfg Config, fetcher *scraper.Fetcher, logger *zap.Logger) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = "https://api.bing.microsoft.com/v7.0/search"
	}
	if cfg.Limit <= 0 {
		cfg.Limit = 5
	}
	return &Client{cfg: cfg, fetcher: fetcher, logger: logger}
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool {
	return c.cfg.APIKey != ""
}

type searchResponse struct {
	WebPages struct {
		Value []struct {
			URL string `json:"url"`
		} `json:"value"`
	} `json:"webPages"`
}

// Find returns up to Limit competitor URLs for the given storefront, or an
// empty list when lookup is disabled.
func (c *Client) Find(ctx context.Context, website string) ([]string, error) {
	if !c.Enabled() {
		return []string{}, nil
	}
	base, err := scraper.NormalizeBase(website)
	if err != nil {
		return nil, err
	}
	domain, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse base: %w", err)
	}

	query := fmt.Sprintf("similar brands to %s site:shopify.com OR site:myshopify.com", domain.Hostname())
	searchURL := fmt.Sprintf("%s?q=%s&count=%d", c.cfg.Endpoint, url.QueryEscape(query), c.cfg.Limit)

	resp, err := c.fetcher.Fetch(ctx, scraper.Request{
		URL:     searchURL,
		Headers: http.Header{"Ocp-Apim-Subscription-Key": {c.cfg.APIKey}},
	})
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	var payload searchResponse
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	results := []string{}
	for _, page := range payload.WebPages.Value {
		if page.URL == "" {
			continue
		}
		results = append(results, page.URL)
		if len(results) == c.cfg.Limit {
			break
		}
	}
	return results, nil
}
