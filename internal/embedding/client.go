package embedding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/bull/email-rag/internal/config"
)

// requestTimeout bounds every round trip to the provider. An
// unbounded external call is a defect.
const requestTimeout = 15 * time.Second

// Provider converts an ordered batch of texts into an aligned list of
// fixed-length vectors, or fails the whole batch.
type Provider interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Client wraps the OpenAI client for embedding generation. The same
// underlying client is reused for chat and image generation so the
// process holds a single connection pool.
type Client struct {
	client *openai.Client
	model  string
}

// NewClient creates an OpenAI client from explicit configuration.
// It returns an error when no API key is configured; callers that
// support offline mode should check cfg.HasOpenAI() first.
func NewClient(cfg *config.Config) (*Client, error) {
	if !cfg.HasOpenAI() {
		return nil, fmt.Errorf("openai api key not configured")
	}
	client := openai.NewClient(
		option.WithAPIKey(cfg.OpenAIAPIKey),
		option.WithRequestTimeout(requestTimeout),
	)
	return &Client{client: &client, model: cfg.EmbeddingModel}, nil
}

// Client returns the underlying OpenAI client for use in other
// packages (chat and image generation).
func (c *Client) Client() *openai.Client {
	return c.client
}

// Embed generates embeddings for one batch of texts, retrying with
// exponential backoff on rate limit errors. Other errors are
// permanent and fail the batch immediately.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	var embeddings [][]float32

	operation := func() error {
		resp, err := c.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
			Input: openai.EmbeddingNewParamsInputUnion{
				OfArrayOfStrings: texts,
			},
			Model: c.model,
		})
		if err != nil {
			if isRateLimitError(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		if len(resp.Data) != len(texts) {
			return backoff.Permanent(fmt.Errorf("provider returned %d embeddings for %d texts", len(resp.Data), len(texts)))
		}

		embeddings = make([][]float32, len(resp.Data))
		for i, data := range resp.Data {
			embeddings[i] = toFloat32(data.Embedding)
		}
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 10 * time.Second
	b.MaxElapsedTime = 30 * time.Second

	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		return nil, err
	}
	return embeddings, nil
}

// isRateLimitError checks if the error is a rate limit error (HTTP 429).
func isRateLimitError(err error) bool {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429
	}
	return false
}

// toFloat32 converts []float64 to []float32. The API returns float64
// but vectors are stored as float32.
func toFloat32(f64 []float64) []float32 {
	f32 := make([]float32, len(f64))
	for i, v := range f64 {
		f32[i] = float32(v)
	}
	return f32
}
