package corpus

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"
)

// ctaMarker replaces bracketed placeholder spans. It preserves the
// structural fact that a call-to-action or variable slot existed
// without leaking the placeholder text into the embedding.
const ctaMarker = "[CTA]"

var (
	whitespaceRe  = regexp.MustCompile(`\s+`)
	placeholderRe = regexp.MustCompile(`\[[^\]]*\]`)
	variableRe    = regexp.MustCompile(`\{[^}]*\}`)

	emojiRe    = regexp.MustCompile(`[🎉🚀📧💎🌟✨🔥📱⚡️💰🎯]`)
	urgencyRe  = regexp.MustCompile(`(?i)\b(urgent|limited|now|today|hurry|act fast|don't miss)\b`)
	discountRe = regexp.MustCompile(`(?i)\b(\d+%|discount|save|off|deal|free|promo)\b`)
	ctaRe      = regexp.MustCompile(`(?i)\[[^\]]*\]|get started|learn more|sign up|download|try|buy`)
)

// Normalizer cleans raw records into Records and derives their signal
// features. It assigns positional ids stable within one corpus
// generation.
type Normalizer struct {
	logger *slog.Logger
}

// NewNormalizer creates a Normalizer. A nil logger uses slog.Default().
func NewNormalizer(logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{logger: logger}
}

// Normalize cleans every raw record and drops those whose content is
// empty after cleaning. The returned dropped count lets callers detect
// attrition. Output length is always <= input length.
func (n *Normalizer) Normalize(raws []RawRecord) (records []Record, dropped int) {
	records = make([]Record, 0, len(raws))
	for _, raw := range raws {
		rec := n.normalizeOne(raw)
		if strings.TrimSpace(rec.FullContent) == "" {
			dropped++
			continue
		}
		rec.ID = fmt.Sprintf("email_%d", len(records))
		records = append(records, rec)
	}
	n.logger.Info("normalized corpus", "input", len(raws), "retained", len(records), "dropped", dropped)
	return records, dropped
}

func (n *Normalizer) normalizeOne(raw RawRecord) Record {
	subject := CleanText(string(raw.Subject))
	body := CleanText(string(raw.Body))
	full := subject + " " + body

	return Record{
		Subject:       subject,
		Body:          body,
		Brand:         string(raw.Brand),
		Category:      string(raw.Category),
		Source:        string(raw.Source),
		CreatedAt:     string(raw.ScrapedAt),
		FullContent:   full,
		SubjectLength: utf8.RuneCountInString(subject),
		BodyLength:    utf8.RuneCountInString(body),
		WordCount:     len(strings.Fields(full)),
		HasEmoji:      emojiRe.MatchString(full),
		HasUrgency:    urgencyRe.MatchString(full),
		HasDiscount:   discountRe.MatchString(full),
		HasCTA:        ctaRe.MatchString(full),
	}
}

// CleanText collapses whitespace runs to single spaces, rewrites
// bracketed placeholder spans to the CTA marker, and strips
// brace-delimited variable spans entirely.
func CleanText(text string) string {
	text = whitespaceRe.ReplaceAllString(strings.TrimSpace(text), " ")
	text = placeholderRe.ReplaceAllString(text, ctaMarker)
	text = variableRe.ReplaceAllString(text, "")
	return text
}
