//go:build integration

package index

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bull/email-rag/internal/config"
	"github.com/bull/email-rag/internal/corpus"
)

// setupTestManager skips the test when Qdrant is not running.
func setupTestManager(t *testing.T) *Manager {
	cfg := &config.Config{
		QdrantHost: "localhost",
		QdrantPort: 6334,
		Collection: fmt.Sprintf("email-campaigns-test-%s", t.Name()),
	}
	m, err := NewManager(cfg, nil)
	if err != nil {
		t.Skipf("Qdrant not available: %v", err)
	}

	require.NoError(t, m.EnsureCollection(context.Background()))
	return m
}

func testEntry(id string, seed float32) Entry {
	vector := make([]float32, VectorDimension)
	vector[0] = seed
	vector[1] = 1 - seed
	return Entry{
		ID:     id,
		Vector: vector,
		Record: corpus.Record{
			ID:       id,
			Subject:  "Subject for " + id,
			Body:     "Body for " + id,
			Category: "product_launch",
		},
	}
}

// TestEnsureCollection_Idempotent: calling twice with identical
// parameters must not recreate the collection or fail.
func TestEnsureCollection_Idempotent(t *testing.T) {
	m := setupTestManager(t)
	defer m.Close()

	require.NoError(t, m.EnsureCollection(context.Background()))
	require.NoError(t, m.EnsureCollection(context.Background()))
}

// TestUpsertQueryRoundTrip: querying with an upserted entry's exact
// vector must return that entry as the top match.
func TestUpsertQueryRoundTrip(t *testing.T) {
	m := setupTestManager(t)
	defer m.Close()
	ctx := context.Background()

	entries := []Entry{
		testEntry("email_0", 0.9),
		testEntry("email_1", 0.1),
	}
	result, err := m.Upsert(ctx, entries)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Upserted)
	assert.Zero(t, result.Unindexed)

	matches, err := m.Query(ctx, entries[0].Vector, 2)
	require.NoError(t, err)
	require.NotEmpty(t, matches)

	assert.Equal(t, "email_0", matches[0].ID, "self-similarity must be maximal under cosine")
	assert.Equal(t, "Subject for email_0", matches[0].Metadata.Subject)
	for _, match := range matches[1:] {
		assert.LessOrEqual(t, match.Score, matches[0].Score)
	}
}

// TestQuery_OffTopicStillReturnsMatches: a non-empty index returns
// top-K matches even when nothing is on topic.
func TestQuery_OffTopicStillReturnsMatches(t *testing.T) {
	m := setupTestManager(t)
	defer m.Close()
	ctx := context.Background()

	_, err := m.Upsert(ctx, []Entry{testEntry("email_0", 0.5)})
	require.NoError(t, err)

	offTopic := make([]float32, VectorDimension)
	offTopic[VectorDimension-1] = 1

	matches, err := m.Query(ctx, offTopic, 5)
	require.NoError(t, err)
	assert.NotEmpty(t, matches, "empty result is only valid when the index is empty")
}

func TestDescribe(t *testing.T) {
	m := setupTestManager(t)
	defer m.Close()
	ctx := context.Background()

	_, err := m.Upsert(ctx, []Entry{testEntry("email_0", 0.3), testEntry("email_1", 0.6)})
	require.NoError(t, err)

	count, err := m.Describe(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, count, uint64(2))
}
