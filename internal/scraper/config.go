package scraper

import "time"

// Config carries every knob the pipeline needs. It is threaded into the
// Fetcher and Scraper at construction time; there is no ambient global state.
type Config struct {
	UserAgent      string
	RequestTimeout time.Duration

	// Retry behavior for the resilient fetcher.
	MaxAttempts    int
	BackoffInitial time.Duration
	BackoffMax     time.Duration

	// Catalog pagination. Page size is fixed by the endpoint contract.
	MaxCatalogPages int

	// Heuristic thresholds. These mirror observed storefront behavior and
	// are tunable rather than hard invariants.
	PolicyMinBodyChars int
	AboutTextMaxChars  int
	FAQAnswerMaxChars  int

	// Reserved for future parallel candidate probing.
	MaxConcurrent int
}

// DefaultConfig returns the pipeline defaults.
func DefaultConfig() Config {
	return Config{
		UserAgent:          "brand-insights-bot/1.0 (+https://github.com/storesight/brand-insights)",
		RequestTimeout:     15 * time.Second,
		MaxAttempts:        3,
		BackoffInitial:     500 * time.Millisecond,
		BackoffMax:         8 * time.Second,
		MaxCatalogPages:    20,
		PolicyMinBodyChars: 80,
		AboutTextMaxChars:  4000,
		FAQAnswerMaxChars:  2000,
		MaxConcurrent:      5,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.UserAgent == "" {
		c.UserAgent = def.UserAgent
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = def.RequestTimeout
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = def.MaxAttempts
	}
	if c.BackoffInitial <= 0 {
		c.BackoffInitial = def.BackoffInitial
	}
	if c.BackoffMax <= 0 {
		c.BackoffMax = def.BackoffMax
	}
	if c.MaxCatalogPages <= 0 {
		c.MaxCatalogPages = def.MaxCatalogPages
	}
	if c.PolicyMinBodyChars <= 0 {
		c.PolicyMinBodyChars = def.PolicyMinBodyChars
	}
	if c.AboutTextMaxChars <= 0 {
		c.AboutTextMaxChars = def.AboutTextMaxChars
	}
	if c.FAQAnswerMaxChars <= 0 {
		c.FAQAnswerMaxChars = def.FAQAnswerMaxChars
	}
	if c.MaxConcurrent <= 0 {
		c.MaxConcurrent = def.MaxConcurrent
	}
	return c
}
