package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storesight/brand-insights/internal/brand"
)

// policySite serves configured pages and records every requested path.
type policySite struct {
	mu      sync.Mutex
	pages   map[string]string
	visited []string
	srv     *httptest.Server
}

func newPolicySite(t *testing.T, pages map[string]string) *policySite {
	t.Helper()
	ps := &policySite{pages: pages}
	ps.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ps.mu.Lock()
		ps.visited = append(ps.visited, r.URL.Path)
		ps.mu.Unlock()
		body, ok := ps.pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(ps.srv.Close)
	return ps
}

func (ps *policySite) requested(path string) bool {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	for _, p := range ps.visited {
		if p == path {
			return true
		}
	}
	return false
}

func policyPage(topic string) string {
	return fmt.Sprintf("<html><body><main>%s</main></body></html>",
		strings.Repeat("Our "+topic+" policy explained in detail. ", 10))
}

func TestResolvePoliciesKnownPathsFirstCandidateWins(t *testing.T) {
	t.Parallel()

	ps := newPolicySite(t, map[string]string{
		"/policies/privacy-policy": policyPage("privacy"),
		"/pages/privacy-policy":    policyPage("privacy duplicate"),
		"/policies/refund-policy":  policyPage("refund"),
	})

	s := newTestScraper(t, nil)
	policies := s.ResolvePolicies(context.Background(), ps.srv.URL, "")

	require.Len(t, policies, 2)
	assert.Equal(t, brand.PolicyPrivacy, policies[0].Kind)
	assert.Equal(t, ps.srv.URL+"/policies/privacy-policy", policies[0].URL)
	assert.Contains(t, policies[0].Content, "privacy policy explained")
	assert.Equal(t, brand.PolicyRefund, policies[1].Kind)

	assert.False(t, ps.requested("/pages/privacy-policy"),
		"later candidates are skipped once a kind resolves")
}

func TestResolvePoliciesRejectsThinBodies(t *testing.T) {
	t.Parallel()

	ps := newPolicySite(t, map[string]string{
		"/policies/return-policy": "<html><body><main>short</main></body></html>",
		"/pages/return-policy":    policyPage("returns"),
	})

	s := newTestScraper(t, nil)
	policies := s.ResolvePolicies(context.Background(), ps.srv.URL, "")

	require.Len(t, policies, 1)
	assert.Equal(t, brand.PolicyReturns, policies[0].Kind)
	assert.Equal(t, ps.srv.URL+"/pages/return-policy", policies[0].URL,
		"a candidate below the length floor falls through to the next")
}

func TestResolvePoliciesHomepageAnchorFallback(t *testing.T) {
	t.Parallel()

	ps := newPolicySite(t, map[string]string{
		"/legal/household-shipping": policyPage("shipping"),
	})
	homepage := fmt.Sprintf(
		`<html><body><a href="%s/legal/household-shipping">Shipping info</a></body></html>`,
		ps.srv.URL)

	s := newTestScraper(t, nil)
	policies := s.ResolvePolicies(context.Background(), ps.srv.URL, homepage)

	require.Len(t, policies, 1)
	assert.Equal(t, brand.PolicyShipping, policies[0].Kind)
	assert.Equal(t, ps.srv.URL+"/legal/household-shipping", policies[0].URL)
}

func TestResolvePoliciesKnownPathNotOverwrittenByAnchor(t *testing.T) {
	t.Parallel()

	ps := newPolicySite(t, map[string]string{
		"/policies/terms-of-service": policyPage("terms"),
		"/alt-terms":                 policyPage("alternative terms"),
	})
	homepage := fmt.Sprintf(`<html><body><a href="%s/alt-terms">Terms</a></body></html>`, ps.srv.URL)

	s := newTestScraper(t, nil)
	policies := s.ResolvePolicies(context.Background(), ps.srv.URL, homepage)

	require.Len(t, policies, 1)
	assert.Equal(t, ps.srv.URL+"/policies/terms-of-service", policies[0].URL)
	assert.False(t, ps.requested("/alt-terms"))
}

func TestMatchPolicyKeyword(t *testing.T) {
	t.Parallel()

	kind, ok := matchPolicyKeyword("/pages/return-shipping", "")
	require.True(t, ok)
	assert.Equal(t, brand.PolicyReturns, kind, "return outranks shipping in match order")

	kind, ok = matchPolicyKeyword("/pages/legal", "Privacy Notice")
	require.True(t, ok)
	assert.Equal(t, brand.PolicyPrivacy, kind, "link text is the fallback signal")

	_, ok = matchPolicyKeyword("/pages/lookbook", "Lookbook")
	assert.False(t, ok)
}

func TestResolvePoliciesNoneFound(t *testing.T) {
	t.Parallel()

	ps := newPolicySite(t, nil)
	s := newTestScraper(t, nil)
	policies := s.ResolvePolicies(context.Background(), ps.srv.URL, "<html><body></body></html>")
	assert.NotNil(t, policies)
	assert.Empty(t, policies)
}
