// Package chromem provides an embedded vector-database implementation of
// driven.MemoryStore backed by chromem-go. Each scope gets its own
// collection for namespace isolation; similarity comes from chromem's
// cosine ranking over embeddings produced by the injected Embedder.
package chromem

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	chromem "github.com/philippgille/chromem-go"

	"github.com/haldane-labs/memora/internal/core/domain"
	"github.com/haldane-labs/memora/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.MemoryStore = (*Store)(nil)

// Store wraps chromem-go for vector storage. chromem-go is a pure Go,
// embedded vector database, so no external service is needed.
type Store struct {
	db       *chromem.DB
	embedder driven.Embedder

	mu          sync.RWMutex
	collections map[string]*chromem.Collection
}

// NewStore creates a new chromem-based memory store.
func NewStore(embedder driven.Embedder) (*Store, error) {
	if embedder == nil {
		return nil, fmt.Errorf("chromem store: %w: embedder is required", domain.ErrInvalidInput)
	}

	return &Store{
		db:          chromem.NewDB(),
		embedder:    embedder,
		collections: make(map[string]*chromem.Collection),
	}, nil
}

// getOrCreateCollection returns the collection for a scope. Each scope
// gets its own collection for namespace isolation.
func (s *Store) getOrCreateCollection(scopeID string) (*chromem.Collection, error) {
	s.mu.RLock()
	col, exists := s.collections[scopeID]
	s.mu.RUnlock()

	if exists {
		return col, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check after acquiring write lock
	if col, exists := s.collections[scopeID]; exists {
		return col, nil
	}

	name := "scope_" + scopeID
	if scopeID == "" {
		name = "global"
	}

	// Embeddings are supplied explicitly, so no embedding func is set.
	col, err := s.db.CreateCollection(name, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("creating collection: %w", err)
	}

	s.collections[scopeID] = col
	return col, nil
}

// StoreMemory embeds and stores a memory entry in its scope's
// collection, returning the generated ID.
func (s *Store) StoreMemory(ctx context.Context, content, scopeID, contentType string,
	importance float64, tags []string) (string, error) {
	embedding, err := s.embedder.Embed(ctx, content)
	if err != nil {
		return "", fmt.Errorf("embedding memory: %w", err)
	}

	col, err := s.getOrCreateCollection(scopeID)
	if err != nil {
		return "", err
	}

	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("marshalling tags: %w", err)
	}

	id := uuid.NewString()
	doc := chromem.Document{
		ID:        id,
		Content:   content,
		Embedding: embedding.Vector,
		Metadata: map[string]string{
			"content_type": contentType,
			"importance":   strconv.FormatFloat(importance, 'f', -1, 64),
			"tags":         string(tagsJSON),
			"created_at":   time.Now().UTC().Format(time.RFC3339Nano),
		},
	}

	if err := col.AddDocument(ctx, doc); err != nil {
		return "", fmt.Errorf("adding document: %w", err)
	}
	return id, nil
}

// RetrieveRelevantMemories returns entries in a scope ranked by cosine
// similarity against the query, most similar first.
func (s *Store) RetrieveRelevantMemories(ctx context.Context, query, scopeID string,
	limit int, threshold float64) ([]driven.MemoryCandidate, error) {
	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	col, err := s.getOrCreateCollection(scopeID)
	if err != nil {
		return nil, err
	}

	return s.queryCollection(ctx, col, embedding.Vector, limit, threshold)
}

// SearchAllMemories returns entries across every scope ranked by cosine
// similarity against the query, most similar first.
func (s *Store) SearchAllMemories(ctx context.Context, query string,
	limit int, threshold float64) ([]driven.MemoryCandidate, error) {
	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	s.mu.RLock()
	cols := make([]*chromem.Collection, 0, len(s.collections))
	for _, col := range s.collections {
		cols = append(cols, col)
	}
	s.mu.RUnlock()

	var candidates []driven.MemoryCandidate
	for _, col := range cols {
		scoped, err := s.queryCollection(ctx, col, embedding.Vector, limit, threshold)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, scoped...)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Similarity > candidates[j].Similarity
	})
	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}

// Close releases resources. chromem-go keeps everything in memory, so
// there is nothing to release.
func (s *Store) Close() error {
	return nil
}

// queryCollection runs an embedding query against one collection.
// chromem-go rejects result counts above the collection size, so the
// limit is clamped first.
func (s *Store) queryCollection(ctx context.Context, col *chromem.Collection,
	embedding []float32, limit int, threshold float64) ([]driven.MemoryCandidate, error) {
	count := col.Count()
	if count == 0 {
		return nil, nil
	}
	if limit <= 0 || limit > count {
		limit = count
	}

	results, err := col.QueryEmbedding(ctx, embedding, limit, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("querying collection: %w", err)
	}

	var candidates []driven.MemoryCandidate
	for _, result := range results {
		similarity := float64(result.Similarity)
		if similarity < threshold {
			continue
		}
		candidates = append(candidates, resultToCandidate(result, similarity))
	}
	return candidates, nil
}

// resultToCandidate decodes a chromem result's metadata back into a
// memory candidate.
func resultToCandidate(result chromem.Result, similarity float64) driven.MemoryCandidate {
	candidate := driven.MemoryCandidate{
		ID:          result.ID,
		Content:     result.Content,
		ContentType: result.Metadata["content_type"],
		Similarity:  similarity,
	}

	if v, err := strconv.ParseFloat(result.Metadata["importance"], 64); err == nil {
		candidate.Importance = v
	}
	if t, err := time.Parse(time.RFC3339Nano, result.Metadata["created_at"]); err == nil {
		candidate.CreatedAt = t
	}
	if tagsJSON := result.Metadata["tags"]; tagsJSON != "" {
		_ = json.Unmarshal([]byte(tagsJSON), &candidate.Tags)
	}

	return candidate
}
