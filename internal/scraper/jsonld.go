package scraper

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/storesight/brand-insights/internal/brand"
)

// structuredBlocks decodes every embedded structured-data script on the page.
// Blocks that fail to parse are skipped individually so one bad block never
// aborts extraction of the others.
func structuredBlocks(doc *goquery.Document) []any {
	var blocks []any
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, sel *goquery.Selection) {
		raw := strings.TrimSpace(sel.Text())
		if raw == "" {
			return
		}
		var data any
		if err := json.Unmarshal([]byte(raw), &data); err != nil {
			return
		}
		blocks = append(blocks, data)
	})
	return blocks
}

// productsFromStructured extracts product records from structured data,
// supporting a single Product block, an ItemList of products, and top-level
// arrays of Product blocks.
func productsFromStructured(doc *goquery.Document) []brand.Product {
	var products []brand.Product
	for _, block := range structuredBlocks(doc) {
		var items []map[string]any
		switch data := block.(type) {
		case map[string]any:
			switch stringField(data, "@type") {
			case "Product":
				items = append(items, data)
			case "ItemList":
				items = append(items, itemListProducts(data)...)
			}
		case []any:
			for _, entry := range data {
				if d, ok := entry.(map[string]any); ok && stringField(d, "@type") == "Product" {
					items = append(items, d)
				}
			}
		}
		for _, d := range items {
			products = append(products, brand.Product{
				Title: stringField(d, "name"),
				URL:   stringField(d, "url"),
				Image: structuredImageURL(d["image"]),
				Raw:   d,
			})
		}
	}
	return products
}

func itemListProducts(data map[string]any) []map[string]any {
	elements, ok := data["itemListElement"].([]any)
	if !ok {
		return nil
	}
	var items []map[string]any
	for _, entry := range elements {
		el, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		if item, ok := el["item"].(map[string]any); ok {
			items = append(items, item)
			continue
		}
		items = append(items, el)
	}
	return items
}

func structuredImageURL(v any) string {
	switch image := v.(type) {
	case string:
		return image
	case []any:
		if len(image) > 0 {
			if first, ok := image[0].(string); ok {
				return first
			}
		}
	}
	return ""
}

// faqsFromStructured extracts question/answer pairs from FAQPage blocks.
func faqsFromStructured(doc *goquery.Document) []brand.FAQ {
	var faqs []brand.FAQ
	for _, block := range structuredBlocks(doc) {
		blocks := []any{block}
		if list, ok := block.([]any); ok {
			blocks = list
		}
		for _, entry := range blocks {
			d, ok := entry.(map[string]any)
			if !ok || stringField(d, "@type") != "FAQPage" {
				continue
			}
			entities, ok := d["mainEntity"].([]any)
			if !ok {
				continue
			}
			for _, raw := range entities {
				item, ok := raw.(map[string]any)
				if !ok {
					continue
				}
				question := stringField(item, "name")
				if question == "" {
					question = stringField(item, "question")
				}
				var answer string
				if accepted, ok := item["acceptedAnswer"].(map[string]any); ok {
					answer = stringField(accepted, "text")
				}
				faqs = append(faqs, brand.FAQ{
					Question: strings.TrimSpace(question),
					Answer:   strings.TrimSpace(answer),
				})
			}
		}
	}
	return faqs
}
