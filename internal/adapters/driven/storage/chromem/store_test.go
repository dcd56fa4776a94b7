package chromem

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haldane-labs/memora/internal/embedding/hashed"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(hashed.New())
	require.NoError(t, err)
	return store
}

func TestNewStore_RequiresEmbedder(t *testing.T) {
	_, err := NewStore(nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "embedder is required")
}

func TestStore_StoreMemory(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.StoreMemory(ctx, "refund policy is thirty days", "conv-1", "prose", 0.8,
		[]string{"rag-document", "doc:doc-1"})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	results, err := store.RetrieveRelevantMemories(ctx, "refund policy", "conv-1", 10, 0)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, id, results[0].ID)
	assert.Equal(t, "refund policy is thirty days", results[0].Content)
	assert.Equal(t, "prose", results[0].ContentType)
	assert.Equal(t, 0.8, results[0].Importance)
	assert.Equal(t, []string{"rag-document", "doc:doc-1"}, results[0].Tags)
	assert.False(t, results[0].CreatedAt.IsZero())
}

func TestStore_RetrieveRelevantMemories_EmptyCollection(t *testing.T) {
	store := newTestStore(t)

	results, err := store.RetrieveRelevantMemories(context.Background(), "anything", "conv-1", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestStore_RetrieveRelevantMemories_ScopeIsolation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.StoreMemory(ctx, "refund policy in the first conversation", "conv-1", "prose", 0.5, nil)
	require.NoError(t, err)
	_, err = store.StoreMemory(ctx, "refund policy in the second conversation", "conv-2", "prose", 0.5, nil)
	require.NoError(t, err)

	results, err := store.RetrieveRelevantMemories(ctx, "refund policy", "conv-1", 10, 0)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Contains(t, results[0].Content, "first conversation")
}

func TestStore_RetrieveRelevantMemories_SimilarityOrdering(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.StoreMemory(ctx, "the quarterly sales figures improved across every region", "conv-1", "prose", 0.5, nil)
	require.NoError(t, err)
	_, err = store.StoreMemory(ctx, "refund policy details for electronics purchases", "conv-1", "prose", 0.5, nil)
	require.NoError(t, err)

	results, err := store.RetrieveRelevantMemories(ctx, "refund policy for electronics", "conv-1", 10, 0)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Contains(t, results[0].Content, "refund policy details")
}

func TestStore_RetrieveRelevantMemories_Threshold(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.StoreMemory(ctx, "completely unrelated gardening advice about tulip bulbs", "conv-1", "prose", 0.5, nil)
	require.NoError(t, err)

	results, err := store.RetrieveRelevantMemories(ctx, "refund policy for electronics", "conv-1", 10, 0.5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestStore_RetrieveRelevantMemories_LimitClamped(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.StoreMemory(ctx, "a single refund entry in the scope", "conv-1", "prose", 0.5, nil)
	require.NoError(t, err)

	// Asking for more results than stored must not error.
	results, err := store.RetrieveRelevantMemories(ctx, "refund", "conv-1", 50, 0)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestStore_SearchAllMemories(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.StoreMemory(ctx, "refund policy in the first conversation", "conv-1", "prose", 0.5, nil)
	require.NoError(t, err)
	_, err = store.StoreMemory(ctx, "refund policy in the second conversation", "conv-2", "prose", 0.5, nil)
	require.NoError(t, err)

	results, err := store.SearchAllMemories(ctx, "refund policy", 10, 0)
	require.NoError(t, err)
	assert.Len(t, results, 2, "global search spans every scope")
}

func TestStore_Close(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Close())
}
