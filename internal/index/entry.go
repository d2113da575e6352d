package index

import (
	"github.com/google/uuid"

	"github.com/bull/email-rag/internal/corpus"
)

// Metadata size caps enforced by the index service's payload limits.
// These are hard external constraints and are applied before upsert.
const (
	maxLongField  = 1000 // subject, body
	maxShortField = 100  // brand, source
	maxTagField   = 50   // category
)

// pointNamespace derives deterministic point UUIDs from record ids,
// so re-ingesting the same corpus overwrites the same points
// (last-writer-wins per whole record).
var pointNamespace = uuid.MustParse("8c5e1280-4f6e-4d33-9f2a-6d1f24c5b9e7")

// Entry is one vector plus its capped metadata projection, as
// persisted in the index.
type Entry struct {
	ID     string
	Vector []float32
	Record corpus.Record
}

// PointID returns the deterministic UUID the entry is stored under.
func (e Entry) PointID() string {
	return uuid.NewSHA1(pointNamespace, []byte(e.ID)).String()
}

// Payload builds the truncated metadata projection for the entry.
func (e Entry) Payload() map[string]any {
	r := e.Record
	return map[string]any{
		"id":             e.ID,
		"subject":        truncateRunes(r.Subject, maxLongField),
		"body":           truncateRunes(r.Body, maxLongField),
		"brand":          truncateRunes(r.Brand, maxShortField),
		"category":       truncateRunes(r.Category, maxTagField),
		"source":         truncateRunes(r.Source, maxShortField),
		"subject_length": int64(r.SubjectLength),
		"body_length":    int64(r.BodyLength),
		"word_count":     int64(r.WordCount),
		"has_emoji":      r.HasEmoji,
		"has_urgency":    r.HasUrgency,
		"has_discount":   r.HasDiscount,
		"has_cta":        r.HasCTA,
	}
}

// Match is one similarity-search result, ordered by descending score.
type Match struct {
	ID       string
	Score    float64
	Metadata MatchMetadata
}

// MatchMetadata is the record projection read back from the index.
type MatchMetadata struct {
	Subject     string
	Body        string
	Brand       string
	Category    string
	Source      string
	HasUrgency  bool
	HasDiscount bool
}

// truncateRunes caps s at n runes. Truncation happens on rune
// boundaries so capped payloads stay valid UTF-8; byte length may
// exceed n for non-ASCII text, which the service's payload limit
// tolerates.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
