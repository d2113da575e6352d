// Package generator produces marketing-email drafts conditioned on a
// user brief and retrieved similar examples.
package generator

import "time"

// Brief is the user's campaign description. Website fields are
// optional context supplied by the caller; the pipeline never
// scrapes.
type Brief struct {
	ProductName        string
	ProductDescription string
	CampaignType       string
	TargetAudience     string
	KeyMessage         string
	Website            WebsiteInfo
}

// WebsiteInfo is optional website-derived context for the prompt.
type WebsiteInfo struct {
	Title       string
	Description string
	Content     string
}

// Example is one retrieved similar email rendered into the prompt.
type Example struct {
	Score       float64 `json:"score"`
	Subject     string  `json:"subject"`
	Body        string  `json:"body"`
	Category    string  `json:"category"`
	Brand       string  `json:"brand"`
	HasUrgency  bool    `json:"has_urgency"`
	HasDiscount bool    `json:"has_discount"`
}

// Email is a generated marketing email draft. Created fresh per
// generation call and never mutated.
type Email struct {
	Subject     string    `json:"subject"`
	Body        string    `json:"body"`
	CTA         string    `json:"cta"`
	GeneratedAt time.Time `json:"generated_at"`

	// Fallback reports that the content came from the deterministic
	// fallback path rather than the model.
	Fallback bool `json:"fallback,omitempty"`

	// ImageURL references an optionally generated campaign image.
	ImageURL string `json:"image_url,omitempty"`
}
