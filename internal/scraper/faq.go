package scraper

import (
	"context"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/storesight/brand-insights/internal/brand"
)

// faqQuestionSelectors lists the heading-like and disclosure-summary elements
// treated as question candidates, in document order.
const faqQuestionSelectors = "details summary, .faq-item h3, .faq h3, .accordion__title, h3, h4"

var questionLikePattern = regexp.MustCompile(`(?i)\?$|\b(how|what|when|where|do|does|is|can|why)\b`)

// ResolveFAQs accumulates FAQ entries from, in order: the configured FAQ path
// candidates, the important-links faq entry, and (only if nothing was found)
// the homepage itself. Each page prefers structured FAQPage data and falls
// back to DOM heuristics. The result is deduplicated by case-folded trimmed
// question text, first occurrence winning.
func (s *Scraper) ResolveFAQs(ctx context.Context, base, homepageHTML string, links brand.ImportantLinks) []brand.FAQ {
	var faqs []brand.FAQ

	for _, path := range brand.CommonLinkPaths["faq"] {
		if html := s.fetcher.tryHTML(ctx, base+path); html != "" {
			faqs = append(faqs, s.extractFAQs(html)...)
		}
	}

	if links.FAQ != "" {
		if html := s.fetcher.tryHTML(ctx, absoluteURL(base, links.FAQ)); html != "" {
			faqs = append(faqs, s.extractFAQs(html)...)
		}
	}

	if len(faqs) == 0 && homepageHTML != "" {
		faqs = append(faqs, s.extractFAQs(homepageHTML)...)
	}

	return dedupeFAQs(faqs)
}

// extractFAQs applies structured-then-heuristic extraction to one page.
func (s *Scraper) extractFAQs(html string) []brand.FAQ {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}
	if faqs := faqsFromStructured(doc); len(faqs) > 0 {
		return faqs
	}
	return s.faqsFromDOM(doc)
}

// faqsFromDOM pairs heading-like elements with their next sibling block. A
// candidate survives only if its text reads like a question.
func (s *Scraper) faqsFromDOM(doc *goquery.Document) []brand.FAQ {
	var faqs []brand.FAQ
	doc.Find(faqQuestionSelectors).Each(func(_ int, sel *goquery.Selection) {
		question := collapseSpace(sel.Text())
		if len(question) < 5 || len(question) > 200 {
			return
		}
		answerNode := sel.NextAllFiltered("div, p, section").First()
		if answerNode.Length() == 0 {
			return
		}
		answer := collapseSpace(answerNode.Text())
		if len(answer) < 5 {
			return
		}
		if !questionLikePattern.MatchString(question) {
			return
		}
		faqs = append(faqs, brand.FAQ{
			Question: question,
			Answer:   truncate(answer, s.cfg.FAQAnswerMaxChars),
		})
	})
	return faqs
}

// dedupeFAQs keeps the first entry per normalized question; entries with an
// empty question are dropped.
func dedupeFAQs(faqs []brand.FAQ) []brand.FAQ {
	seen := make(map[string]struct{}, len(faqs))
	unique := make([]brand.FAQ, 0, len(faqs))
	for _, f := range faqs {
		key := strings.ToLower(strings.TrimSpace(f.Question))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, f)
	}
	return unique
}
