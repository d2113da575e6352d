// Package corpus normalizes raw marketing-email examples into the
// uniform record shape the rest of the pipeline consumes.
package corpus

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Record is one normalized marketing-email example.
// Derived fields are computed by the Normalizer and never hand-set.
// Records are immutable after normalization; re-ingestion supersedes
// them wholesale.
type Record struct {
	ID        string `json:"id"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	Brand     string `json:"brand,omitempty"`
	Category  string `json:"category,omitempty"`
	Source    string `json:"source,omitempty"`
	CreatedAt string `json:"scraped_at,omitempty"`

	// FullContent is subject + " " + body after cleaning; it is the
	// text that gets embedded.
	FullContent string `json:"full_content"`

	SubjectLength int `json:"subject_length"`
	BodyLength    int `json:"body_length"`
	WordCount     int `json:"word_count"`

	HasEmoji    bool `json:"has_emoji"`
	HasUrgency  bool `json:"has_urgency"`
	HasDiscount bool `json:"has_discount"`
	HasCTA      bool `json:"has_cta"`
}

// RawRecord is a loosely-typed record as produced by a corpus source.
// Scalar JSON values of any type coerce to text; absent fields are
// empty strings.
type RawRecord struct {
	Subject   looseString `json:"subject"`
	Body      looseString `json:"body"`
	Brand     looseString `json:"brand"`
	Category  looseString `json:"category"`
	Source    looseString `json:"source"`
	ScrapedAt looseString `json:"scraped_at"`
}

// looseString accepts string, number, bool, or null where a source
// emits inconsistent scalar types. Arrays and objects are rejected,
// which marks the whole record malformed.
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case nil:
		*s = ""
	case string:
		*s = looseString(t)
	case float64:
		*s = looseString(strconv.FormatFloat(t, 'f', -1, 64))
	case bool:
		*s = looseString(strconv.FormatBool(t))
	default:
		return fmt.Errorf("cannot coerce %T to text", v)
	}
	return nil
}
