package scraper

import (
	"context"
	"fmt"
	"strings"

	"github.com/storesight/brand-insights/internal/brand"
)

// catalogPageSize is fixed by the product-listing endpoint contract.
const catalogPageSize = 250

type catalogPage struct {
	Products []map[string]any `json:"products"`
}

// ListProducts paginates the product-listing JSON endpoint until the first
// empty page or the configured page limit. Absence of data signals
// end-of-catalog, not an error. The endpoint is treated as authoritative and
// non-overlapping across pages, so no deduplication happens here.
func (s *Scraper) ListProducts(ctx context.Context, base string) []brand.Product {
	products := []brand.Product{}
	for page := 1; page <= s.cfg.MaxCatalogPages; page++ {
		url := fmt.Sprintf("%s/products.json?limit=%d&page=%d", base, catalogPageSize, page)
		var payload catalogPage
		if !s.fetcher.FetchJSON(ctx, url, &payload) || len(payload.Products) == 0 {
			break
		}
		for _, item := range payload.Products {
			products = append(products, mapCatalogItem(base, item))
		}
	}
	return products
}

func mapCatalogItem(base string, item map[string]any) brand.Product {
	handle := stringField(item, "handle")
	status := stringField(item, "status")
	if status == "" {
		status = stringField(item, "published_scope")
	}
	p := brand.Product{
		Title:       stringField(item, "title"),
		Handle:      handle,
		ProductType: stringField(item, "product_type"),
		Vendor:      stringField(item, "vendor"),
		Status:      status,
		Tags:        splitTags(item["tags"]),
		Image:       nestedImageURL(item["image"]),
		Raw:         item,
	}
	if handle != "" {
		p.URL = fmt.Sprintf("%s/products/%s", base, handle)
	}
	return p
}

func stringField(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// splitTags turns a comma-joined tag string into a list; anything else maps
// to no tags.
func splitTags(v any) []string {
	joined, ok := v.(string)
	if !ok || joined == "" {
		return nil
	}
	return strings.Split(joined, ",")
}

func nestedImageURL(v any) string {
	image, ok := v.(map[string]any)
	if !ok {
		return ""
	}
	return stringField(image, "src")
}
