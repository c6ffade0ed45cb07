// Package notify publishes scrape-completion events.
package notify

import "context"

// Event describes one completed scrape.
type Event struct {
	BaseURL   string `json:"base_url"`
	BrandName string `json:"brand_name,omitempty"`
	Products  int    `json:"products"`
	Policies  int    `json:"policies"`
	FAQs      int    `json:"faqs"`
}

// Publisher pushes completion events to a topic.
type Publisher interface {
	Publish(ctx context.Context, event Event) (string, error)
}
