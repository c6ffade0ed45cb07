package brand

import "context"

// Store persists assembled brand records keyed by base URL. Upsert replaces
// the record's child collections (products, policies, faqs) as one unit.
type Store interface {
	Upsert(ctx context.Context, record *Context) error
	Get(ctx context.Context, baseURL string) (*Context, error)
	Close()
}
