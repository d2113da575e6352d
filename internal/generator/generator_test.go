package generator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChat struct {
	response string
	err      error
	calls    int
	prompt   string
}

func (f *fakeChat) Complete(_ context.Context, _, user string) (string, error) {
	f.calls++
	f.prompt = user
	return f.response, f.err
}

func testBrief() Brief {
	return Brief{
		ProductName:        "TaskFlow",
		ProductDescription: "A task manager for small teams",
		CampaignType:       "product_launch",
		TargetAudience:     "startup founders",
		KeyMessage:         "ship faster together",
	}
}

func TestGenerate_ParsesModelResponse(t *testing.T) {
	chat := &fakeChat{response: "Subject: 🚀 TaskFlow is here\n\nBody:\nShip faster.\n\nCTA: Try TaskFlow"}
	g := NewGenerator(chat, nil)

	email := g.Generate(context.Background(), testBrief(), nil)

	assert.Equal(t, "🚀 TaskFlow is here", email.Subject)
	assert.Equal(t, "Ship faster.", email.Body)
	assert.Equal(t, "Try TaskFlow", email.CTA)
	assert.False(t, email.Fallback)
	assert.False(t, email.GeneratedAt.IsZero())
}

// TestGenerate_NoProvider: the designed offline default goes straight
// to fallback content without constructing a request.
func TestGenerate_NoProvider(t *testing.T) {
	g := NewGenerator(nil, nil)

	email := g.Generate(context.Background(), testBrief(), nil)

	assert.True(t, email.Fallback)
	assert.Contains(t, email.Subject, "TaskFlow")
	assert.NotEmpty(t, email.Body)
	assert.NotEmpty(t, email.CTA)
}

func TestGenerate_ProviderErrorFallsBack(t *testing.T) {
	chat := &fakeChat{err: errors.New("rate limited")}
	g := NewGenerator(chat, nil)

	email := g.Generate(context.Background(), testBrief(), nil)

	assert.True(t, email.Fallback)
	assert.Equal(t, FallbackEmail(testBrief()).Subject, email.Subject)
}

// TestGenerate_UnparseableResponseFallsBack: a response violating the
// Subject/Body/CTA contract discards the partial parse entirely.
func TestGenerate_UnparseableResponseFallsBack(t *testing.T) {
	chat := &fakeChat{response: "Here is your email!\nIt has no recognizable sections."}
	g := NewGenerator(chat, nil)

	email := g.Generate(context.Background(), testBrief(), nil)

	assert.True(t, email.Fallback)
	assert.NotEmpty(t, email.Subject)
	assert.NotEmpty(t, email.Body)
}

// TestGenerate_PromptRendersExamples: retrieved examples appear with
// score, subject, category, and a capped body excerpt.
func TestGenerate_PromptRendersExamples(t *testing.T) {
	chat := &fakeChat{response: "Subject: S\nBody:\nB\nCTA: C"}
	g := NewGenerator(chat, nil)

	examples := []Example{
		{Score: 0.91, Subject: "Old launch", Category: "product_launch", Body: strings.Repeat("x", 300)},
		{Score: 0.72, Subject: "Feature drop", Category: "feature_announcement", Body: "short"},
	}
	g.Generate(context.Background(), testBrief(), examples)

	require.Equal(t, 1, chat.calls)
	assert.Contains(t, chat.prompt, "Example 1 (Score: 0.91)")
	assert.Contains(t, chat.prompt, "Subject: Old launch")
	assert.Contains(t, chat.prompt, "Category: product_launch")
	assert.Contains(t, chat.prompt, strings.Repeat("x", 200)+"...")
	assert.NotContains(t, chat.prompt, strings.Repeat("x", 201))
	assert.Contains(t, chat.prompt, "Example 2 (Score: 0.72)")
	// Brief fields land in the USER INPUT block.
	assert.Contains(t, chat.prompt, "Product/Company: TaskFlow")
	assert.Contains(t, chat.prompt, "Target Audience: startup founders")
}

// TestGenerate_PromptCapsExamplesAtThree even when more are passed.
func TestGenerate_PromptCapsExamplesAtThree(t *testing.T) {
	chat := &fakeChat{response: "Subject: S\nBody:\nB\nCTA: C"}
	g := NewGenerator(chat, nil)

	examples := make([]Example, 5)
	for i := range examples {
		examples[i] = Example{Score: 0.5, Subject: "ex", Body: "b"}
	}
	g.Generate(context.Background(), testBrief(), examples)

	assert.Contains(t, chat.prompt, "Example 3")
	assert.NotContains(t, chat.prompt, "Example 4")
}

func TestQueryText(t *testing.T) {
	got := QueryText(testBrief())
	assert.Equal(t, "product_launch A task manager for small teams ship faster together startup founders", got)
}

func TestImagePrompt_Heuristics(t *testing.T) {
	tests := []struct {
		name     string
		brief    Brief
		contains string
	}{
		{"mobile app", Brief{ProductName: "TaskFlow Mobile App"}, "smartphone mockup"},
		{"web platform", Brief{ProductName: "DataPlatform", ProductDescription: "a SaaS platform"}, "laptop"},
		{"hardware", Brief{ProductName: "SmartSensor", ProductDescription: "a tiny hardware gadget"}, "studio background"},
		{"service", Brief{ProductName: "Advisory", ProductDescription: "a consulting service"}, "graphic representing"},
		{"generic", Brief{ProductName: "Thing"}, "marketing visual"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prompt := ImagePrompt(tt.brief)
			assert.Contains(t, prompt, tt.contains)
			assert.Contains(t, prompt, "commercial grade")
		})
	}
}
