package generator

import (
	"testing"
)

func TestParseResponse_FullContract(t *testing.T) {
	response := `Subject: 🚀 Big News for Builders

Body:
You asked, we shipped.

Key benefits:
• Faster onboarding
• Cleaner dashboards

Don't wait on this one.

CTA: Start Building Today`

	parsed := parseResponse(response)

	if !parsed.ok() {
		t.Fatal("Expected successful parse")
	}
	if parsed.Subject != "🚀 Big News for Builders" {
		t.Errorf("Subject: got %q", parsed.Subject)
	}
	want := "You asked, we shipped.\nKey benefits:\n• Faster onboarding\n• Cleaner dashboards\nDon't wait on this one."
	if parsed.Body != want {
		t.Errorf("Body: got %q, want %q", parsed.Body, want)
	}
	if parsed.CTA != "Start Building Today" {
		t.Errorf("CTA: got %q", parsed.CTA)
	}
}

// TestParseResponse_MissingCTA: subject and body present without a
// CTA line still parses, with a non-empty default CTA.
func TestParseResponse_MissingCTA(t *testing.T) {
	response := "Subject: Hello\n\nBody:\nSome body text here."

	parsed := parseResponse(response)

	if !parsed.ok() {
		t.Fatal("Expected successful parse without CTA line")
	}
	if parsed.CTA != "Learn More" {
		t.Errorf("CTA default: got %q, want %q", parsed.CTA, "Learn More")
	}
}

// TestParseResponse_MissingBody fails the success criterion.
func TestParseResponse_MissingBody(t *testing.T) {
	parsed := parseResponse("Subject: Only a subject\n\nCTA: Click")

	if parsed.ok() {
		t.Error("Parse without body must not be ok")
	}
}

func TestParseResponse_MissingSubject(t *testing.T) {
	parsed := parseResponse("Body:\nJust body text.\n\nCTA: Click")

	if parsed.ok() {
		t.Error("Parse without subject must not be ok")
	}
}

// TestParseResponse_BodyStopsAtCTA: body accumulation ends when the
// CTA prefix appears.
func TestParseResponse_BodyStopsAtCTA(t *testing.T) {
	response := "Subject: S\nBody:\nline one\nCTA: Go\nline after cta"

	parsed := parseResponse(response)

	if parsed.Body != "line one" {
		t.Errorf("Body should stop at CTA, got %q", parsed.Body)
	}
	if parsed.CTA != "Go" {
		t.Errorf("CTA: got %q", parsed.CTA)
	}
}

// TestParseResponse_TrimsAndSkipsBlankBodyLines matches the
// line-oriented, whitespace-trimmed contract.
func TestParseResponse_TrimsAndSkipsBlankBodyLines(t *testing.T) {
	response := "Subject:   padded subject   \nBody:\n   indented line\n\n\nnext line   "

	parsed := parseResponse(response)

	if parsed.Subject != "padded subject" {
		t.Errorf("Subject should be trimmed, got %q", parsed.Subject)
	}
	if parsed.Body != "indented line\nnext line" {
		t.Errorf("Body: got %q", parsed.Body)
	}
}

func TestParseResponse_Empty(t *testing.T) {
	if parseResponse("").ok() {
		t.Error("Empty response must not be ok")
	}
}
