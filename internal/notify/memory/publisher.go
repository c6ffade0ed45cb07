// Package memory collects completion events in-memory for development and
// tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/storesight/brand-insights/internal/notify"
)

// Publisher records published events.
type Publisher struct {
	mu     sync.Mutex
	events []notify.Event
}

// New creates an empty in-memory publisher.
func New() *Publisher {
	return &Publisher{}
}

// Publish appends the event and returns a synthetic message ID.
func (p *Publisher) Publish(_ context.Context, event notify.Event) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return fmt.Sprintf("mem-%d", len(p.events)), nil
}

// Events returns a copy of everything published so far.
func (p *Publisher) Events() []notify.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]notify.Event(nil), p.events...)
}
