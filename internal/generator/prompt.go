package generator

import (
	"fmt"
	"strings"
)

const (
	// maxPromptExamples caps how many retrieved examples the prompt
	// renders.
	maxPromptExamples = 3

	// bodyExcerptRunes caps the example body excerpt length.
	bodyExcerptRunes = 200
)

// systemPrompt fixes the model's role and output discipline.
const systemPrompt = "You are an expert email marketer who writes high-converting marketing emails. Always follow the exact output format requested."

// buildPrompt renders the brief and the retrieved examples into the
// single structured generation prompt. The OUTPUT FORMAT block is the
// contract parseResponse expects back.
func buildPrompt(brief Brief, examples []Example) string {
	var examplesContext strings.Builder
	for i, ex := range examples {
		if i >= maxPromptExamples {
			break
		}
		fmt.Fprintf(&examplesContext, "\nExample %d (Score: %.2f):\nSubject: %s\nCategory: %s\nBody: %s...\n",
			i+1, ex.Score, ex.Subject, ex.Category, excerpt(ex.Body, bodyExcerptRunes))
	}

	websiteContext := ""
	if brief.Website.Title != "" {
		websiteContext = fmt.Sprintf("\nWebsite Analysis:\n- Title: %s\n- Description: %s\n- Key Content: %s...",
			brief.Website.Title,
			orDefault(brief.Website.Description, "N/A"),
			excerpt(orDefault(brief.Website.Content, "N/A"), bodyExcerptRunes))
	}

	return fmt.Sprintf(`You are an expert email marketer specializing in high-converting campaigns. Generate a compelling marketing email that drives action.

USER INPUT:
- Product/Company: %s
- Description: %s
- Campaign Type: %s
- Target Audience: %s
- Key Message: %s
%s

SUCCESSFUL EMAIL EXAMPLES FOR REFERENCE:
%s

REQUIREMENTS:
1. Create a compelling subject line (45-60 characters) with emoji if appropriate
2. Write an engaging email body (250-400 words) that:
   - Hooks the reader in the first sentence
   - Clearly explains the value proposition
   - Uses bullet points for key benefits
   - Creates urgency or excitement
   - Maintains a conversational tone
3. Include a strong, action-oriented call-to-action
4. Match the tone and effectiveness of the similar examples
5. Make it specific to the user's product/service
6. Use formatting like bullets and emojis strategically

OUTPUT FORMAT (exactly as shown):
Subject: [compelling subject line with emoji]

Body:
[Hook sentence that grabs attention]

[Value proposition paragraph]

Key benefits:
• [Benefit 1]
• [Benefit 2]
• [Benefit 3]

[Urgency or social proof paragraph]

[Closing with clear next step]

CTA: [Strong action-oriented call-to-action]`,
		orDefault(brief.ProductName, "N/A"),
		orDefault(brief.ProductDescription, "N/A"),
		orDefault(brief.CampaignType, "announcement"),
		orDefault(brief.TargetAudience, "general audience"),
		orDefault(brief.KeyMessage, "N/A"),
		websiteContext,
		examplesContext.String(),
	)
}

// QueryText synthesizes the retrieval query for a brief.
func QueryText(brief Brief) string {
	return fmt.Sprintf("%s %s %s %s",
		brief.CampaignType, brief.ProductDescription, brief.KeyMessage, brief.TargetAudience)
}

// excerpt truncates s to n runes.
func excerpt(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
