package generator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/openai/openai-go"
)

// Generation tuning, matching the sizes the corpus was curated for.
const (
	maxCompletionTokens = 1000
	temperature         = 0.7
)

// ChatProvider produces a single text completion for a prompt. The
// implementation must bound the call with a timeout.
type ChatProvider interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// openAIChat is the OpenAI-backed ChatProvider.
type openAIChat struct {
	client *openai.Client
	model  string
}

// NewChatProvider wraps an OpenAI client as a ChatProvider using the
// given chat model identifier.
func NewChatProvider(client *openai.Client, model string) ChatProvider {
	return &openAIChat{client: client, model: model}
}

func (c *openAIChat) Complete(ctx context.Context, system, user string) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Model:       openai.ChatModel(c.model),
		MaxTokens:   openai.Int(maxCompletionTokens),
		Temperature: openai.Float(temperature),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// Generator builds generation requests from a brief plus retrieved
// examples and parses responses into the fixed email schema.
type Generator struct {
	chat   ChatProvider
	logger *slog.Logger
}

// NewGenerator creates a Generator. A nil chat provider is the
// designed offline default: Generate then goes straight to
// deterministic fallback content without building a request.
func NewGenerator(chat ChatProvider, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{chat: chat, logger: logger}
}

// Generate produces an email from the brief and up to three retrieved
// examples. It always returns a usable email: provider errors and
// unparseable responses degrade to FallbackEmail, never to a caller
// failure.
func (g *Generator) Generate(ctx context.Context, brief Brief, examples []Example) Email {
	if g.chat == nil {
		g.logger.Info("no model provider configured, using fallback content")
		return FallbackEmail(brief)
	}

	prompt := buildPrompt(brief, examples)
	response, err := g.chat.Complete(ctx, systemPrompt, prompt)
	if err != nil {
		g.logger.Warn("generation call failed, using fallback content", "error", err)
		return FallbackEmail(brief)
	}

	parsed := parseResponse(response)
	if !parsed.ok() {
		// Keep the raw response in the log for diagnosis; the
		// partial parse is discarded entirely.
		g.logger.Warn("response did not match Subject/Body/CTA contract, using fallback content",
			"response", response)
		return FallbackEmail(brief)
	}

	return Email{
		Subject:     parsed.Subject,
		Body:        parsed.Body,
		CTA:         parsed.CTA,
		GeneratedAt: time.Now(),
	}
}
