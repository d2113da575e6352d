package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bull/email-rag/internal/generator"
)

func TestHTML_RendersEmailFields(t *testing.T) {
	email := generator.Email{
		Subject: "🚀 Introducing TaskFlow",
		Body:    "We built something new.\n\nKey benefits:\n• Enhanced productivity\n• Reliable performance",
		CTA:     "Get Started Today",
	}

	doc, err := HTML(email)
	require.NoError(t, err)

	assert.Contains(t, doc, "<title>🚀 Introducing TaskFlow</title>")
	assert.Contains(t, doc, ">🚀 Introducing TaskFlow</h1>")
	assert.Contains(t, doc, ">Get Started Today</a>")
	assert.Contains(t, doc, "We built something new.")
}

func TestHTML_BulletsBecomeListItems(t *testing.T) {
	email := generator.Email{
		Subject: "s",
		Body:    "Intro\n\n• First benefit\n• Second benefit",
		CTA:     "Go",
	}

	doc, err := HTML(email)
	require.NoError(t, err)

	assert.Contains(t, doc, "<li>First benefit</li>")
	assert.Contains(t, doc, "<li>Second benefit</li>")
	assert.NotContains(t, doc, "•")
}

func TestHTML_ImageConditional(t *testing.T) {
	email := generator.Email{Subject: "s", Body: "b", CTA: "c"}

	doc, err := HTML(email)
	require.NoError(t, err)
	assert.NotContains(t, doc, "<img")

	email.ImageURL = "https://example.com/hero.png"
	doc, err = HTML(email)
	require.NoError(t, err)
	assert.Contains(t, doc, `<img src="https://example.com/hero.png"`)
}

func TestHTML_EmptyCTADefaults(t *testing.T) {
	doc, err := HTML(generator.Email{Subject: "s", Body: "b"})
	require.NoError(t, err)
	assert.Contains(t, doc, ">Learn More</a>")
}

func TestHTML_BodyIsEscaped(t *testing.T) {
	doc, err := HTML(generator.Email{
		Subject: "s",
		Body:    "Click <script>alert(1)</script> now",
		CTA:     "c",
	})
	require.NoError(t, err)
	assert.NotContains(t, doc, "<script>")
}
