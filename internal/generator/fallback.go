package generator

import (
	"fmt"
	"time"
)

// FallbackEmail synthesizes deterministic content directly from the
// brief, with no model call. Given the same brief it is
// bit-reproducible in subject, body, and CTA; only the timestamp
// varies. Used when no provider is configured, the provider call
// fails, or the response does not parse.
func FallbackEmail(brief Brief) Email {
	product := orDefault(brief.ProductName, "Our New Product")
	description := orDefault(brief.ProductDescription, "This innovative solution will transform your experience.")

	return Email{
		Subject: fmt.Sprintf("🚀 Introducing %s", product),
		Body: fmt.Sprintf("We're excited to announce %s!\n\n%s\n\nKey benefits:\n• Enhanced productivity\n• User-friendly design\n• Reliable performance\n\nDon't miss out on this opportunity to upgrade your experience!",
			product, description),
		CTA:         "Get Started Today",
		GeneratedAt: time.Now(),
		Fallback:    true,
	}
}

// FallbackExamples is the fixed, documented example set used when the
// index is unavailable (never configured, or the service call
// failed). It is not used when the index merely returns zero matches.
func FallbackExamples() []Example {
	return []Example{
		{
			Score:      0.89,
			Subject:    "🚀 Exciting Product Launch: Revolutionary App Now Available!",
			Category:   "product_launch",
			Body:       "We are thrilled to announce the launch of our groundbreaking mobile app that will transform how you manage your daily tasks. With cutting-edge features and an intuitive interface, this app is designed to boost your productivity by 300%.",
			Brand:      "TechCorp",
			HasUrgency: true,
		},
		{
			Score:       0.85,
			Subject:     "✨ New Feature Alert: Enhanced User Experience",
			Category:    "feature_announcement",
			Body:        "Get ready for an improved experience with our latest feature updates. We have listened to your feedback and implemented powerful new tools that will streamline your workflow.",
			Brand:       "ProductCo",
			HasDiscount: true,
		},
		{
			Score:       0.82,
			Subject:     "🎉 Special Launch Offer: 50% Off Premium Features",
			Category:    "special_offer",
			Body:        "To celebrate our new product launch, we are offering an exclusive 50% discount on all premium features. This limited-time offer expires in 48 hours.",
			Brand:       "StartupXYZ",
			HasDiscount: true,
			HasUrgency:  true,
		},
	}
}
