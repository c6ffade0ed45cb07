// Package brand defines the core types shared across the extraction pipeline.
package brand

// PolicyKind enumerates the policy categories resolved for a storefront.
type PolicyKind string

// Policy kinds persisted with the brand record.
const (
	PolicyPrivacy  PolicyKind = "privacy"
	PolicyRefund   PolicyKind = "refund"
	PolicyReturns  PolicyKind = "returns"
	PolicyShipping PolicyKind = "shipping"
	PolicyTerms    PolicyKind = "terms"
)

// PolicyKinds lists every kind in resolution order.
var PolicyKinds = []PolicyKind{PolicyPrivacy, PolicyRefund, PolicyReturns, PolicyShipping, PolicyTerms}

// Product is one catalog or hero product. Identity for deduplication is the
// (Title, URL) pair; empty keys are never deduplicated against each other.
type Product struct {
	Title       string         `json:"title"`
	Handle      string         `json:"handle,omitempty"`
	ProductType string         `json:"product_type,omitempty"`
	Vendor      string         `json:"vendor,omitempty"`
	Status      string         `json:"status,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
	Image       string         `json:"image,omitempty"`
	URL         string         `json:"url,omitempty"`
	Raw         map[string]any `json:"raw,omitempty"`
	IsHero      bool           `json:"is_hero"`
}

// Policy is a resolved policy document. The final record carries at most one
// entry per kind.
type Policy struct {
	Kind    PolicyKind `json:"kind"`
	URL     string     `json:"url,omitempty"`
	Content string     `json:"content,omitempty"`
}

// FAQ is one question/answer pair, unique by case-folded trimmed question.
type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer,omitempty"`
	URL      string `json:"url,omitempty"`
}

// SocialHandles holds the first discovered link for each known platform.
type SocialHandles struct {
	Instagram string `json:"instagram,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	TikTok    string `json:"tiktok,omitempty"`
	YouTube   string `json:"youtube,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Pinterest string `json:"pinterest,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
}

// ImportantLinks maps content categories to their discovered URLs.
type ImportantLinks struct {
	ContactUs     string `json:"contact_us,omitempty"`
	About         string `json:"about,omitempty"`
	Blogs         string `json:"blogs,omitempty"`
	OrderTracking string `json:"order_tracking,omitempty"`
	Terms         string `json:"terms,omitempty"`
	Shipping      string `json:"shipping,omitempty"`
	Privacy       string `json:"privacy,omitempty"`
	Refund        string `json:"refund,omitempty"`
	Returns       string `json:"returns,omitempty"`
	FAQ           string `json:"faq,omitempty"`
}

// Context is the assembled brand record for one storefront. BaseURL is always
// the normalized scheme://host form and keys the record in storage.
type Context struct {
	BrandName      string         `json:"brand_name,omitempty"`
	BaseURL        string         `json:"base_url"`
	Products       []Product      `json:"products"`
	HeroProducts   []Product      `json:"hero_products"`
	Policies       []Policy       `json:"policies"`
	FAQs           []FAQ          `json:"faqs"`
	SocialHandles  SocialHandles  `json:"social_handles"`
	ContactEmails  []string       `json:"contact_emails"`
	ContactPhones  []string       `json:"contact_phones"`
	AboutText      string         `json:"about_text,omitempty"`
	ImportantLinks ImportantLinks `json:"important_links"`
}

// NewContext returns a minimal record carrying just the normalized base URL.
func NewContext(baseURL string) *Context {
	return &Context{
		BaseURL:       baseURL,
		Products:      []Product{},
		HeroProducts:  []Product{},
		Policies:      []Policy{},
		FAQs:          []FAQ{},
		ContactEmails: []string{},
		ContactPhones: []string{},
	}
}
