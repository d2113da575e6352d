// Package index manages the durable similarity index: collection
// lifecycle, idempotent upserts, and top-K queries against Qdrant.
package index

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/qdrant/go-client/qdrant"

	"github.com/bull/email-rag/internal/config"
	"github.com/bull/email-rag/internal/embedding"
)

const (
	// VectorDimension is the vector size stored in the collection,
	// fixed by the embedding model.
	VectorDimension = embedding.Dimension

	// upsertBatchSize bounds upsert payload size.
	upsertBatchSize = 100

	// upsertDelay mitigates service-side rate limiting between batches.
	upsertDelay = time.Second

	// requestTimeout bounds every round trip to the index service. An
	// unbounded external call is a defect.
	requestTimeout = 15 * time.Second
)

// operationContext derives a per-call deadline. Retry policies bound
// the total elapsed time; this bounds each in-flight call, so a
// server that accepts the connection but never replies cannot hang
// the caller.
func operationContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, requestTimeout)
}

// Manager owns the email-campaigns collection. All writes are
// append/upsert by unique id; reads never mutate.
type Manager struct {
	client     *qdrant.Client
	collection string
	logger     *slog.Logger
}

// NewManager connects to Qdrant and validates reachability with a
// health check retried under exponential backoff. An unreachable
// service yields ErrIndexUnavailable.
func NewManager(cfg *config.Config, logger *slog.Logger) (*Manager, error) {
	if logger == nil {
		logger = slog.Default()
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host: cfg.QdrantHost,
		Port: cfg.QdrantPort,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create client: %v", ErrIndexUnavailable, err)
	}

	m := &Manager{
		client:     client,
		collection: cfg.Collection,
		logger:     logger,
	}

	if err := m.healthCheckWithRetry(context.Background()); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: %v", ErrIndexUnavailable, err)
	}

	return m, nil
}

// healthCheckWithRetry probes the service under exponential backoff.
// Initial interval 500ms, max interval 10s, max elapsed 30s.
func (m *Manager) healthCheckWithRetry(ctx context.Context) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 10 * time.Second
	b.MaxElapsedTime = 30 * time.Second

	return backoff.Retry(func() error {
		return m.Health(ctx)
	}, backoff.WithContext(b, ctx))
}

// Health performs a single health check against the index service.
func (m *Manager) Health(ctx context.Context) error {
	ctx, cancel := operationContext(ctx)
	defer cancel()

	result, err := m.client.HealthCheck(ctx)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	if result == nil || result.Title == "" {
		return fmt.Errorf("health check returned invalid response")
	}
	return nil
}

// EnsureCollection creates the collection with the configured
// dimensionality and cosine distance if it does not exist, then waits
// until it reports ready. Idempotent: an existing collection is
// reused as-is.
func (m *Manager) EnsureCollection(ctx context.Context) error {
	listCtx, cancel := operationContext(ctx)
	collections, err := m.client.ListCollections(listCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("%w: list collections: %v", ErrIndexUnavailable, err)
	}

	exists := false
	for _, name := range collections {
		if name == m.collection {
			exists = true
			break
		}
	}

	if !exists {
		createCtx, cancel := operationContext(ctx)
		defer cancel()
		err = m.client.CreateCollection(createCtx, &qdrant.CreateCollection{
			CollectionName: m.collection,
			VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
				Size:     VectorDimension,
				Distance: qdrant.Distance_Cosine,
			}),
		})
		if err != nil {
			return fmt.Errorf("create collection: %w", err)
		}

		if err := m.createPayloadIndexes(ctx); err != nil {
			return fmt.Errorf("create payload indexes: %w", err)
		}
		m.logger.Info("created collection", "name", m.collection, "dimension", VectorDimension)
	}

	return m.waitReady(ctx)
}

// createPayloadIndexes indexes the filterable tag fields.
func (m *Manager) createPayloadIndexes(ctx context.Context) error {
	fields := []string{"category", "brand", "source"}

	for _, field := range fields {
		fieldCtx, cancel := operationContext(ctx)
		_, err := m.client.CreateFieldIndex(fieldCtx, &qdrant.CreateFieldIndexCollection{
			CollectionName: m.collection,
			FieldName:      field,
			FieldType:      qdrant.FieldType_FieldTypeKeyword.Enum(),
		})
		cancel()
		if err != nil {
			return fmt.Errorf("index field %s: %w", field, err)
		}
	}
	return nil
}

// waitReady polls the collection status until it reports green.
func (m *Manager) waitReady(ctx context.Context) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	b.MaxElapsedTime = 30 * time.Second

	return backoff.Retry(func() error {
		pollCtx, cancel := operationContext(ctx)
		defer cancel()

		info, err := m.client.GetCollectionInfo(pollCtx, m.collection)
		if err != nil {
			return err
		}
		if info.GetStatus() != qdrant.CollectionStatus_Green {
			return fmt.Errorf("collection %s not ready: %s", m.collection, info.GetStatus())
		}
		return nil
	}, backoff.WithContext(b, ctx))
}

// UpsertResult reports how much of an upsert run landed in the index.
type UpsertResult struct {
	Upserted      int
	FailedBatches int
	Unindexed     int
}

// Upsert writes entries in batches, applying the metadata caps before
// each write. Batch failures are not retried: the batch is logged,
// its entries counted un-indexed, and the run continues. Re-running
// ingestion heals the gap.
func (m *Manager) Upsert(ctx context.Context, entries []Entry) (*UpsertResult, error) {
	result := &UpsertResult{}
	if len(entries) == 0 {
		return result, nil
	}

	for i, entry := range entries {
		if len(entry.Vector) != VectorDimension {
			return nil, fmt.Errorf("%w: entry %d has %d dimensions, expected %d",
				ErrDimensionMismatch, i, len(entry.Vector), VectorDimension)
		}
	}

	for i := 0; i < len(entries); i += upsertBatchSize {
		end := min(i+upsertBatchSize, len(entries))
		batch := entries[i:end]

		points := make([]*qdrant.PointStruct, len(batch))
		for j, entry := range batch {
			points[j] = &qdrant.PointStruct{
				Id:      qdrant.NewIDUUID(entry.PointID()),
				Vectors: qdrant.NewVectors(entry.Vector...),
				Payload: qdrant.NewValueMap(entry.Payload()),
			}
		}

		batchCtx, cancel := operationContext(ctx)
		_, err := m.client.Upsert(batchCtx, &qdrant.UpsertPoints{
			CollectionName: m.collection,
			Points:         points,
		})
		cancel()
		if err != nil {
			m.logger.Warn("upsert batch failed, entries un-indexed",
				"batch", i/upsertBatchSize+1, "size", len(batch), "error", err)
			result.FailedBatches++
			result.Unindexed += len(batch)
			continue
		}
		result.Upserted += len(batch)

		if end < len(entries) {
			m.sleep(ctx)
		}
	}

	return result, nil
}

func (m *Manager) sleep(ctx context.Context) {
	t := time.NewTimer(upsertDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// Query returns the top-K entries most similar to the query vector,
// ordered by descending cosine similarity. A pure read. An empty
// result with a nil error means the index matched nothing; a service
// failure is surfaced as ErrIndexUnavailable so callers can switch to
// the fallback example set.
func (m *Manager) Query(ctx context.Context, vector []float32, topK int) ([]Match, error) {
	if len(vector) != VectorDimension {
		return nil, fmt.Errorf("%w: query has %d dimensions, expected %d",
			ErrDimensionMismatch, len(vector), VectorDimension)
	}

	ctx, cancel := operationContext(ctx)
	defer cancel()

	results, err := m.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: m.collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(topK)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: query: %v", ErrIndexUnavailable, err)
	}

	matches := make([]Match, 0, len(results))
	for _, result := range results {
		payload := result.Payload
		matches = append(matches, Match{
			ID:    payload["id"].GetStringValue(),
			Score: float64(result.Score),
			Metadata: MatchMetadata{
				Subject:     payload["subject"].GetStringValue(),
				Body:        payload["body"].GetStringValue(),
				Brand:       payload["brand"].GetStringValue(),
				Category:    payload["category"].GetStringValue(),
				Source:      payload["source"].GetStringValue(),
				HasUrgency:  payload["has_urgency"].GetBoolValue(),
				HasDiscount: payload["has_discount"].GetBoolValue(),
			},
		})
	}

	return matches, nil
}

// Describe returns the total vector count in the collection.
func (m *Manager) Describe(ctx context.Context) (uint64, error) {
	ctx, cancel := operationContext(ctx)
	defer cancel()

	info, err := m.client.GetCollectionInfo(ctx, m.collection)
	if err != nil {
		return 0, fmt.Errorf("%w: describe: %v", ErrIndexUnavailable, err)
	}
	return info.GetPointsCount(), nil
}

// Close closes the connection to the index service.
func (m *Manager) Close() error {
	if m.client != nil {
		return m.client.Close()
	}
	return nil
}
