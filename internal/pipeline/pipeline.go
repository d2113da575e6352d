// Package pipeline sequences ingestion (normalize, embed, index) and
// serving (retrieve, generate), reporting per-stage counts so callers
// can detect silent attrition.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bull/email-rag/internal/corpus"
	"github.com/bull/email-rag/internal/embedding"
	"github.com/bull/email-rag/internal/generator"
	"github.com/bull/email-rag/internal/index"
)

// DefaultTopK is the retrieval depth for serving; only the top 3
// matches reach the prompt.
const DefaultTopK = 5

// Index is the vector index surface the pipeline depends on.
// *index.Manager satisfies it.
type Index interface {
	EnsureCollection(ctx context.Context) error
	Upsert(ctx context.Context, entries []index.Entry) (*index.UpsertResult, error)
	Query(ctx context.Context, vector []float32, topK int) ([]index.Match, error)
	Describe(ctx context.Context) (uint64, error)
}

// Pipeline wires the components together. All execution is
// synchronous and batch-sequential; callers needing responsiveness
// run it off their interaction thread.
type Pipeline struct {
	normalizer *corpus.Normalizer
	producer   *embedding.Producer
	embedder   embedding.Provider // nil in offline mode
	idx        Index              // nil when the index was never configured
	generator  *generator.Generator
	images     generator.ImageProvider // nil when images are not configured
	logger     *slog.Logger
}

// New creates a Pipeline. embedder, idx, and images may be nil; each
// nil collaborator selects the corresponding documented fallback.
func New(
	normalizer *corpus.Normalizer,
	producer *embedding.Producer,
	embedder embedding.Provider,
	idx Index,
	gen *generator.Generator,
	images generator.ImageProvider,
	logger *slog.Logger,
) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		normalizer: normalizer,
		producer:   producer,
		embedder:   embedder,
		idx:        idx,
		generator:  gen,
		images:     images,
		logger:     logger,
	}
}

// IngestStats reports counts at every ingestion stage.
type IngestStats struct {
	Loaded             int
	Malformed          int
	Retained           int
	Dropped            int
	Embedded           int
	FailedEmbedBatches int
	Upserted           int
	Unindexed          int
	Duration           time.Duration
}

// Ingest runs normalize -> embed -> ensure collection -> upsert.
// malformed is the count of records the source already skipped; it is
// folded into the stats. The only error returned is index
// unavailability: there is nothing to degrade to when the durable
// store cannot be written.
func (p *Pipeline) Ingest(ctx context.Context, raws []corpus.RawRecord, malformed int) (*IngestStats, []corpus.Record, error) {
	start := time.Now()
	stats := &IngestStats{Loaded: len(raws) + malformed, Malformed: malformed}

	records, dropped := p.normalizer.Normalize(raws)
	stats.Retained = len(records)
	stats.Dropped = dropped

	texts := make([]string, len(records))
	for i, rec := range records {
		texts[i] = rec.FullContent
	}

	vectors, failedBatches := p.producer.Produce(ctx, texts)
	stats.Embedded = len(vectors)
	stats.FailedEmbedBatches = failedBatches
	p.logger.Info("embeddings produced", "count", len(vectors), "failed_batches", failedBatches)

	if p.idx == nil {
		return nil, nil, fmt.Errorf("%w: no index configured for ingestion", index.ErrIndexUnavailable)
	}
	if err := p.idx.EnsureCollection(ctx); err != nil {
		return nil, nil, fmt.Errorf("ensure collection: %w", err)
	}

	// Vectors are aligned index-for-index with records.
	entries := make([]index.Entry, len(records))
	for i, rec := range records {
		entries[i] = index.Entry{ID: rec.ID, Vector: vectors[i], Record: rec}
	}

	result, err := p.idx.Upsert(ctx, entries)
	if err != nil {
		return nil, nil, fmt.Errorf("upsert: %w", err)
	}
	stats.Upserted = result.Upserted
	stats.Unindexed = result.Unindexed
	stats.Duration = time.Since(start)

	p.logger.Info("ingestion complete",
		"loaded", stats.Loaded,
		"retained", stats.Retained,
		"upserted", stats.Upserted,
		"unindexed", stats.Unindexed,
		"duration", stats.Duration,
	)
	return stats, records, nil
}

// ComposeResult is the outcome of one serving run.
type ComposeResult struct {
	Email    generator.Email
	Examples []generator.Example

	// UsedFallbackExamples reports that retrieval was unavailable and
	// the fixed example set stood in. An empty Examples slice with
	// this false means the index genuinely matched nothing.
	UsedFallbackExamples bool
}

// Compose runs the serving sequence: retrieve similar examples for
// the brief, then generate. Every recoverable failure degrades to a
// documented fallback; the caller always receives a usable email.
func (p *Pipeline) Compose(ctx context.Context, brief generator.Brief, topK int) *ComposeResult {
	if topK <= 0 {
		topK = DefaultTopK
	}

	result := &ComposeResult{}
	result.Examples, result.UsedFallbackExamples = p.retrieve(ctx, brief, topK)
	result.Email = p.generator.Generate(ctx, brief, capExamples(result.Examples))
	return result
}

// retrieve finds the topK most similar prior examples for the brief.
// Index unavailability (never configured, or the service failed)
// yields the fixed fallback set; zero matches from a healthy index do
// not.
func (p *Pipeline) retrieve(ctx context.Context, brief generator.Brief, topK int) ([]generator.Example, bool) {
	if p.idx == nil {
		p.logger.Info("no index configured, using fallback examples")
		return generator.FallbackExamples(), true
	}
	if p.embedder == nil {
		p.logger.Info("no embedding provider configured, using fallback examples")
		return generator.FallbackExamples(), true
	}

	queryText := generator.QueryText(brief)
	vectors, err := p.embedder.Embed(ctx, []string{queryText})
	if err != nil {
		p.logger.Warn("query embedding failed, using fallback examples", "error", err)
		return generator.FallbackExamples(), true
	}

	matches, err := p.idx.Query(ctx, vectors[0], topK)
	if err != nil {
		if !errors.Is(err, index.ErrIndexUnavailable) {
			p.logger.Warn("unexpected query failure", "error", err)
		}
		p.logger.Warn("retrieval unavailable, using fallback examples", "error", err)
		return generator.FallbackExamples(), true
	}

	examples := make([]generator.Example, len(matches))
	for i, match := range matches {
		examples[i] = generator.Example{
			Score:       match.Score,
			Subject:     match.Metadata.Subject,
			Body:        match.Metadata.Body,
			Category:    match.Metadata.Category,
			Brand:       match.Metadata.Brand,
			HasUrgency:  match.Metadata.HasUrgency,
			HasDiscount: match.Metadata.HasDiscount,
		}
	}
	return examples, false
}

// GenerateImage optionally produces a campaign image for the brief.
// Failures degrade to an empty URL; the email remains usable.
func (p *Pipeline) GenerateImage(ctx context.Context, brief generator.Brief) string {
	if p.images == nil {
		return ""
	}
	url, err := p.images.GenerateImage(ctx, generator.ImagePrompt(brief))
	if err != nil {
		p.logger.Warn("image generation failed", "error", err)
		return ""
	}
	return url
}

// VectorCount reports the total vectors in the index.
func (p *Pipeline) VectorCount(ctx context.Context) (uint64, error) {
	if p.idx == nil {
		return 0, index.ErrIndexUnavailable
	}
	return p.idx.Describe(ctx)
}

// capExamples limits the examples rendered into the prompt to the
// top three.
func capExamples(examples []generator.Example) []generator.Example {
	if len(examples) > 3 {
		return examples[:3]
	}
	return examples
}
