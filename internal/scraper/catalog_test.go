package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// catalogServer serves deterministic product pages and records which pages
// were requested.
type catalogServer struct {
	mu      sync.Mutex
	pages   map[string][]map[string]any
	visited []string
	srv     *httptest.Server
}

func newCatalogServer(t *testing.T, pages map[string][]map[string]any) *catalogServer {
	t.Helper()
	cs := &catalogServer{pages: pages}
	cs.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/products.json" {
			http.NotFound(w, r)
			return
		}
		if got := r.URL.Query().Get("limit"); got != "250" {
			t.Errorf("unexpected page size %q", got)
		}
		page := r.URL.Query().Get("page")
		cs.mu.Lock()
		cs.visited = append(cs.visited, page)
		cs.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		products, ok := cs.pages[page]
		if !ok {
			products = []map[string]any{}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"products": products})
	}))
	t.Cleanup(cs.srv.Close)
	return cs
}

func (cs *catalogServer) pagesVisited() []string {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return append([]string(nil), cs.visited...)
}

func newTestScraper(t *testing.T, mutate func(*Config)) *Scraper {
	t.Helper()
	cfg := DefaultConfig()
	cfg.BackoffInitial = 1
	cfg.BackoffMax = 1
	if mutate != nil {
		mutate(&cfg)
	}
	return New(cfg, NewFetcher(cfg, zap.NewNop()), zap.NewNop())
}

func TestListProductsPaginatesUntilEmptyPage(t *testing.T) {
	t.Parallel()

	cs := newCatalogServer(t, map[string][]map[string]any{
		"1": {
			{
				"title":        "Enamel Mug",
				"handle":       "enamel-mug",
				"product_type": "Drinkware",
				"vendor":       "Acme",
				"status":       "active",
				"tags":         "camping,kitchen",
				"image":        map[string]any{"src": "https://cdn.example.com/mug.jpg"},
			},
		},
		"2": {
			{"title": "Field Notebook", "handle": "field-notebook", "published_scope": "web"},
		},
	})

	s := newTestScraper(t, nil)
	products := s.ListProducts(context.Background(), cs.srv.URL)

	require.Len(t, products, 2)
	assert.Equal(t, []string{"1", "2", "3"}, cs.pagesVisited(), "stops on the first empty page")

	mug := products[0]
	assert.Equal(t, "Enamel Mug", mug.Title)
	assert.Equal(t, "enamel-mug", mug.Handle)
	assert.Equal(t, "Drinkware", mug.ProductType)
	assert.Equal(t, "Acme", mug.Vendor)
	assert.Equal(t, "active", mug.Status)
	assert.Equal(t, []string{"camping", "kitchen"}, mug.Tags)
	assert.Equal(t, "https://cdn.example.com/mug.jpg", mug.Image)
	assert.Equal(t, cs.srv.URL+"/products/enamel-mug", mug.URL)
	assert.False(t, mug.IsHero)
	assert.NotNil(t, mug.Raw)

	notebook := products[1]
	assert.Equal(t, "web", notebook.Status, "published_scope backfills a missing status")
	assert.Nil(t, notebook.Tags)
}

func TestListProductsStopsAtPageLimit(t *testing.T) {
	t.Parallel()

	pages := map[string][]map[string]any{}
	for i := 1; i <= 10; i++ {
		pages[fmt.Sprint(i)] = []map[string]any{{"title": fmt.Sprintf("Item %d", i), "handle": fmt.Sprintf("item-%d", i)}}
	}
	cs := newCatalogServer(t, pages)

	s := newTestScraper(t, func(cfg *Config) { cfg.MaxCatalogPages = 3 })
	products := s.ListProducts(context.Background(), cs.srv.URL)

	assert.Len(t, products, 3)
	assert.Equal(t, []string{"1", "2", "3"}, cs.pagesVisited(), "never requests past the limit")
}

func TestListProductsAbsentEndpointMeansEmptyCatalog(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	s := newTestScraper(t, nil)
	products := s.ListProducts(context.Background(), srv.URL)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestMapCatalogItemWithoutHandle(t *testing.T) {
	t.Parallel()

	p := mapCatalogItem("https://example.com", map[string]any{"title": "No Handle"})
	assert.Equal(t, "No Handle", p.Title)
	assert.Equal(t, "", p.URL, "no handle means no product url")
}
