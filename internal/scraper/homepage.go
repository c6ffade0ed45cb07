package scraper

import (
	"context"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/storesight/brand-insights/internal/brand"
)

var (
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	phonePattern = regexp.MustCompile(`(?:\+\d{1,3}[\s-]?)?(?:\(?\d{2,4}\)?[\s-]?)?\d{3,4}[\s-]?\d{4}`)
)

// AnalyzeHomepage fetches the base page once and extracts every homepage
// signal: brand name, hero product candidates, social links, contacts, the
// important-links table, and the about summary (via a secondary fetch).
//
// A failed homepage fetch is fatal only when the site itself is absent (DNS
// failure or 404-class on the base URL); any other failure degrades to an
// empty partial record.
func (s *Scraper) AnalyzeHomepage(ctx context.Context, base string) (string, []brand.Product, *brand.Context, error) {
	record := brand.NewContext(base)

	html, err := s.fetcher.FetchHTML(ctx, base)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", nil, nil, ctxErr
		}
		if isUnreachable(err) {
			return "", nil, nil, err
		}
		s.logger.Warn("homepage fetch failed, degrading to minimal record",
			zap.String("base", base), zap.Error(err))
		return "", nil, record, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		s.logger.Warn("homepage parse failed", zap.String("base", base), zap.Error(err))
		return html, nil, record, nil
	}

	record.BrandName = extractBrandName(doc)

	heroes := productsFromStructured(doc)
	heroes = append(heroes, productCards(doc, base)...)
	heroes = dedupeHeroes(heroes)

	record.SocialHandles = extractSocials(doc)
	record.ContactEmails, record.ContactPhones = extractContacts(doc)
	record.ImportantLinks = extractImportantLinks(doc, base)
	record.AboutText = s.aboutText(ctx, base, record.ImportantLinks.About)
	record.HeroProducts = heroes

	return html, heroes, record, nil
}

// extractBrandName tries the page title (up to the first "|"), then the
// site-name meta tag, then a header logo alt attribute.
func extractBrandName(doc *goquery.Document) string {
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return strings.TrimSpace(strings.SplitN(title, "|", 2)[0])
	}
	if name, ok := doc.Find(`meta[property="og:site_name"]`).Attr("content"); ok {
		if name = strings.TrimSpace(name); name != "" {
			return name
		}
	}
	if alt, ok := doc.Find("header img[alt]").First().Attr("alt"); ok {
		return truncate(strings.TrimSpace(alt), 128)
	}
	return ""
}

// productCards collects every anchor pointing into /products/ as a hero
// candidate, using its title attribute or link text.
func productCards(doc *goquery.Document, base string) []brand.Product {
	var cards []brand.Product
	doc.Find(`a[href*="/products/"]`).Each(func(_ int, sel *goquery.Selection) {
		title := sel.AttrOr("title", "")
		if title == "" {
			title = collapseSpace(sel.Text())
		}
		href, _ := sel.Attr("href")
		if title == "" || href == "" {
			return
		}
		cards = append(cards, brand.Product{
			Title:  truncate(strings.TrimSpace(title), 256),
			URL:    absoluteURL(base, href),
			IsHero: true,
		})
	})
	return cards
}

// dedupeHeroes keeps the first occurrence per title+URL key; candidates with
// neither a title nor a URL are dropped. Survivors carry the hero marker.
func dedupeHeroes(candidates []brand.Product) []brand.Product {
	seen := make(map[string]struct{}, len(candidates))
	unique := make([]brand.Product, 0, len(candidates))
	for _, c := range candidates {
		key := c.Title + c.URL
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		c.IsHero = true
		unique = append(unique, c)
	}
	return unique
}

// extractSocials records the first anchor matching each known platform
// domain.
func extractSocials(doc *goquery.Document) brand.SocialHandles {
	var handles brand.SocialHandles
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		for platform, domain := range brand.SocialDomains {
			if strings.Contains(href, domain) && handles.Handle(platform) == "" {
				handles.SetHandle(platform, href)
			}
		}
	})
	return handles
}

// extractContacts scans the visible page text for email-like and phone-like
// substrings. Both are collected as deduplicated sets in first-seen order;
// emails are case-folded.
func extractContacts(doc *goquery.Document) (emails, phones []string) {
	text := collapseSpace(doc.Text())
	emails = []string{}
	phones = []string{}
	seenEmails := map[string]struct{}{}
	for _, m := range emailPattern.FindAllString(text, -1) {
		m = strings.ToLower(m)
		if _, ok := seenEmails[m]; ok {
			continue
		}
		seenEmails[m] = struct{}{}
		emails = append(emails, m)
	}
	seenPhones := map[string]struct{}{}
	for _, m := range phonePattern.FindAllString(text, -1) {
		m = strings.TrimSpace(m)
		if _, ok := seenPhones[m]; ok {
			continue
		}
		seenPhones[m] = struct{}{}
		phones = append(phones, m)
	}
	return emails, phones
}

// extractImportantLinks probes each category's path candidates in order and
// records the first homepage anchor whose href contains the candidate path.
func extractImportantLinks(doc *goquery.Document, base string) brand.ImportantLinks {
	var links brand.ImportantLinks
	anchors := doc.Find("a[href]")
	for _, category := range brand.LinkCategories {
		for _, candidate := range brand.LinkCandidates(category) {
			href, found := firstAnchorContaining(anchors, candidate)
			if found {
				links.SetLink(category, absoluteURL(base, href))
				break
			}
		}
	}
	return links
}

func firstAnchorContaining(anchors *goquery.Selection, fragment string) (string, bool) {
	var href string
	found := false
	anchors.EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		h, _ := sel.Attr("href")
		if strings.Contains(h, fragment) {
			href = h
			found = true
			return false
		}
		return true
	})
	return href, found
}

// aboutText fetches the about page (resolved link or the conventional
// /pages/about fallback) and keeps its single longest paragraph.
func (s *Scraper) aboutText(ctx context.Context, base, aboutLink string) string {
	if aboutLink == "" {
		aboutLink = "/pages/about"
	}
	html := s.fetcher.tryHTML(ctx, absoluteURL(base, aboutLink))
	if html == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	longest := ""
	doc.Find("p").Each(func(_ int, sel *goquery.Selection) {
		text := collapseSpace(sel.Text())
		if len(text) > len(longest) {
			longest = text
		}
	})
	return truncate(longest, s.cfg.AboutTextMaxChars)
}

// collapseSpace joins all whitespace runs into single spaces and trims.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
