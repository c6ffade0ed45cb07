package scraper

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/storesight/brand-insights/internal/brand"
)

// policyContentCap bounds stored policy text.
const policyContentCap = 8000

// policyKeywords maps scan keywords to the kind they resolve, in match
// order. "return" must precede "shipping" so return-shipping pages classify
// as returns.
var policyKeywords = []struct {
	keyword string
	kind    brand.PolicyKind
}{
	{"privacy", brand.PolicyPrivacy},
	{"refund", brand.PolicyRefund},
	{"return", brand.PolicyReturns},
	{"shipping", brand.PolicyShipping},
	{"terms", brand.PolicyTerms},
}

// ResolvePolicies resolves up to one policy per kind: first by probing each
// kind's known path candidates in order, then by scanning homepage anchors
// whose href or text contains a policy keyword. A kind resolved from known
// paths is never overwritten by the fallback scan.
func (s *Scraper) ResolvePolicies(ctx context.Context, base, homepageHTML string) []brand.Policy {
	policies := []brand.Policy{}
	resolved := map[brand.PolicyKind]bool{}

	for _, kind := range brand.PolicyKinds {
		for _, path := range brand.PolicyPaths[kind] {
			url := base + path
			content, ok := s.policyBody(ctx, url)
			if !ok {
				continue
			}
			policies = append(policies, brand.Policy{Kind: kind, URL: url, Content: content})
			resolved[kind] = true
			break
		}
	}

	if homepageHTML == "" {
		return policies
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(homepageHTML))
	if err != nil {
		return policies
	}
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		kind, ok := matchPolicyKeyword(href, collapseSpace(sel.Text()))
		if !ok || resolved[kind] {
			return
		}
		url := absoluteURL(base, href)
		content, found := s.policyBody(ctx, url)
		if !found {
			return
		}
		policies = append(policies, brand.Policy{Kind: kind, URL: url, Content: content})
		resolved[kind] = true
	})
	return policies
}

// policyBody fetches a candidate page and accepts it only when its body text
// clears the configured length floor.
func (s *Scraper) policyBody(ctx context.Context, url string) (string, bool) {
	html := s.fetcher.tryHTML(ctx, url)
	if html == "" {
		return "", false
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", false
	}
	body := doc.Find("main")
	if body.Length() == 0 {
		body = doc.Find("article")
	}
	text := collapseSpace(body.Text())
	if body.Length() == 0 {
		text = collapseSpace(doc.Text())
	}
	if len(text) <= s.cfg.PolicyMinBodyChars {
		return "", false
	}
	return truncate(text, policyContentCap), true
}

// matchPolicyKeyword classifies an anchor by the first keyword contained in
// its href, falling back to its link text.
func matchPolicyKeyword(href, text string) (brand.PolicyKind, bool) {
	lowerHref := strings.ToLower(href)
	lowerText := strings.ToLower(text)
	for _, kw := range policyKeywords {
		if strings.Contains(lowerHref, kw.keyword) || strings.Contains(lowerText, kw.keyword) {
			return kw.kind, true
		}
	}
	return "", false
}
