// Package memory provides an in-memory brand store for development and
// tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/storesight/brand-insights/internal/brand"
)

// BrandStore keeps brand records in a mutex-guarded map keyed by base URL.
type BrandStore struct {
	mu      sync.RWMutex
	records map[string]*brand.Context
}

// NewBrandStore creates an empty in-memory store.
func NewBrandStore() *BrandStore {
	return &BrandStore{records: make(map[string]*brand.Context)}
}

// Upsert replaces the stored record for the base URL.
func (s *BrandStore) Upsert(_ context.Context, record *brand.Context) error {
	if record == nil || record.BaseURL == "" {
		return fmt.Errorf("record base url is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.BaseURL] = cloneContext(record)
	return nil
}

// Get returns a copy of the stored record for a base URL.
func (s *BrandStore) Get(_ context.Context, baseURL string) (*brand.Context, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[baseURL]
	if !ok {
		return nil, fmt.Errorf("brand not found: %s", baseURL)
	}
	return cloneContext(record), nil
}

// Close is a no-op for the in-memory store.
func (s *BrandStore) Close() {}

// cloneContext copies the record so callers cannot mutate stored state.
func cloneContext(src *brand.Context) *brand.Context {
	dst := *src
	dst.Products = cloneProducts(src.Products)
	dst.HeroProducts = cloneProducts(src.HeroProducts)
	dst.Policies = append([]brand.Policy(nil), src.Policies...)
	dst.FAQs = append([]brand.FAQ(nil), src.FAQs...)
	dst.ContactEmails = append([]string(nil), src.ContactEmails...)
	dst.ContactPhones = append([]string(nil), src.ContactPhones...)
	return &dst
}

func cloneProducts(src []brand.Product) []brand.Product {
	dst := append([]brand.Product(nil), src...)
	for i := range dst {
		dst[i].Tags = append([]string(nil), dst[i].Tags...)
		if dst[i].Raw != nil {
			raw := make(map[string]any, len(dst[i].Raw))
			for k, v := range dst[i].Raw {
				raw[k] = v
			}
			dst[i].Raw = raw
		}
	}
	return dst
}
