package embedding

import (
	"context"
	"log/slog"
	"time"
)

const (
	// Dimension is the vector size for text-embedding-3-small. The
	// index derives its collection dimensionality from this.
	Dimension = 1536

	// DefaultBatchSize keeps individual requests inside provider
	// rate limits.
	DefaultBatchSize = 50

	// DefaultCooldown is the pause between consecutive batches.
	DefaultCooldown = time.Second
)

// Producer converts texts into embedding vectors in sequential,
// rate-limited batches. A failed batch is substituted with zero
// vectors rather than aborting the run, so the output is always
// aligned index-for-index with the input: no silent drops, no
// misalignment.
type Producer struct {
	provider  Provider
	batchSize int
	cooldown  time.Duration
	logger    *slog.Logger
}

// NewProducer creates a Producer. A nil provider puts the producer in
// offline mode: every batch yields zero vectors. batchSize <= 0 uses
// DefaultBatchSize; a nil logger uses slog.Default().
func NewProducer(provider Provider, batchSize int, logger *slog.Logger) *Producer {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Producer{
		provider:  provider,
		batchSize: batchSize,
		cooldown:  DefaultCooldown,
		logger:    logger,
	}
}

// Produce embeds every text and returns vectors aligned with the
// input, plus the number of batches that failed and were zero-filled.
// It never returns an error: provider failures degrade to zero
// vectors at batch granularity.
func (p *Producer) Produce(ctx context.Context, texts []string) (vectors [][]float32, failedBatches int) {
	vectors = make([][]float32, 0, len(texts))

	for i := 0; i < len(texts); i += p.batchSize {
		end := min(i+p.batchSize, len(texts))
		batch := texts[i:end]
		batchNum := i/p.batchSize + 1

		embedded, err := p.embedBatch(ctx, batch)
		if err != nil {
			p.logger.Warn("embedding batch failed, substituting zero vectors",
				"batch", batchNum, "size", len(batch), "error", err)
			failedBatches++
			embedded = zeroVectors(len(batch))
		}
		vectors = append(vectors, embedded...)

		// Cooldown between batches, skipped after the last one and
		// when there is no live provider to rate-limit against.
		if end < len(texts) && p.provider != nil {
			p.sleep(ctx)
		}
	}

	return vectors, failedBatches
}

func (p *Producer) embedBatch(ctx context.Context, batch []string) ([][]float32, error) {
	if p.provider == nil {
		return zeroVectors(len(batch)), nil
	}
	return p.provider.Embed(ctx, batch)
}

func (p *Producer) sleep(ctx context.Context) {
	t := time.NewTimer(p.cooldown)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// zeroVectors builds n zero-valued vectors of the standard dimension.
func zeroVectors(n int) [][]float32 {
	vectors := make([][]float32, n)
	for i := range vectors {
		vectors[i] = make([]float32, Dimension)
	}
	return vectors
}
