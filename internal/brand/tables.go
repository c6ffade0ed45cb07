package brand

// PolicyPaths lists the conventional path candidates for each policy kind,
// tried in order. The tables are data so resolution strategies stay
// independently testable.
var PolicyPaths = map[PolicyKind][]string{
	PolicyPrivacy:  {"/policies/privacy-policy", "/pages/privacy-policy", "/pages/privacy", "/privacy-policy"},
	PolicyRefund:   {"/policies/refund-policy", "/pages/refund-policy", "/refund-policy"},
	PolicyReturns:  {"/policies/return-policy", "/pages/return-policy", "/returns"},
	PolicyShipping: {"/policies/shipping-policy", "/pages/shipping-policy", "/shipping-policy"},
	PolicyTerms:    {"/policies/terms-of-service", "/pages/terms-of-service", "/terms-of-service"},
}

// CommonLinkPaths lists the non-policy important-link candidates.
var CommonLinkPaths = map[string][]string{
	"contact_us":     {"/pages/contact", "/contact", "/pages/contact-us", "/contact-us"},
	"about":          {"/pages/about", "/pages/about-us", "/about", "/about-us"},
	"blogs":          {"/blogs", "/blogs/news"},
	"order_tracking": {"/pages/track-order", "/pages/order-tracking", "/apps/track", "/a/track"},
	"faq":            {"/pages/faq", "/pages/faqs", "/faq", "/faqs", "/pages/help", "/pages/support"},
}

// LinkCategories is the probe order for the important-links table: the five
// policy kinds followed by the common categories.
var LinkCategories = []string{
	"privacy", "refund", "returns", "shipping", "terms",
	"contact_us", "about", "blogs", "order_tracking", "faq",
}

// LinkCandidates returns the path candidates for a link category.
func LinkCandidates(category string) []string {
	if paths, ok := PolicyPaths[PolicyKind(category)]; ok {
		return paths
	}
	return CommonLinkPaths[category]
}

// SocialDomains maps platform names to the domain matched by substring
// containment in anchor hrefs.
var SocialDomains = map[string]string{
	"instagram": "instagram.com",
	"facebook":  "facebook.com",
	"tiktok":    "tiktok.com",
	"youtube":   "youtube.com",
	"twitter":   "twitter.com",
	"pinterest": "pinterest.com",
	"linkedin":  "linkedin.com",
}

// SetLink records a resolved URL under the named category. Unknown categories
// are ignored.
func (l *ImportantLinks) SetLink(category, url string) {
	switch category {
	case "contact_us":
		l.ContactUs = url
	case "about":
		l.About = url
	case "blogs":
		l.Blogs = url
	case "order_tracking":
		l.OrderTracking = url
	case "terms":
		l.Terms = url
	case "shipping":
		l.Shipping = url
	case "privacy":
		l.Privacy = url
	case "refund":
		l.Refund = url
	case "returns":
		l.Returns = url
	case "faq":
		l.FAQ = url
	}
}

// Link returns the resolved URL for the named category, or "".
func (l *ImportantLinks) Link(category string) string {
	switch category {
	case "contact_us":
		return l.ContactUs
	case "about":
		return l.About
	case "blogs":
		return l.Blogs
	case "order_tracking":
		return l.OrderTracking
	case "terms":
		return l.Terms
	case "shipping":
		return l.Shipping
	case "privacy":
		return l.Privacy
	case "refund":
		return l.Refund
	case "returns":
		return l.Returns
	case "faq":
		return l.FAQ
	}
	return ""
}

// SetHandle records a social link under the named platform.
func (s *SocialHandles) SetHandle(platform, url string) {
	switch platform {
	case "instagram":
		s.Instagram = url
	case "facebook":
		s.Facebook = url
	case "tiktok":
		s.TikTok = url
	case "youtube":
		s.YouTube = url
	case "twitter":
		s.Twitter = url
	case "pinterest":
		s.Pinterest = url
	case "linkedin":
		s.LinkedIn = url
	}
}

// Handle returns the recorded link for the named platform, or "".
func (s *SocialHandles) Handle(platform string) string {
	switch platform {
	case "instagram":
		return s.Instagram
	case "facebook":
		return s.Facebook
	case "tiktok":
		return s.TikTok
	case "youtube":
		return s.YouTube
	case "twitter":
		return s.Twitter
	case "pinterest":
		return s.Pinterest
	case "linkedin":
		return s.LinkedIn
	}
	return ""
}
