package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/haldane-labs/memora/internal/core/domain"
	"github.com/haldane-labs/memora/internal/core/ports/driven"
)

// --- Mock implementations ---

// storedMemory captures one StoreMemory call.
type storedMemory struct {
	content     string
	scopeID     string
	contentType string
	importance  float64
	tags        []string
}

// mockMemoryStore implements driven.MemoryStore for testing.
type mockMemoryStore struct {
	mu     sync.Mutex
	stored []storedMemory
	calls  int

	// storeErrs fails specific StoreMemory calls by index.
	storeErrs map[int]error

	candidates  []driven.MemoryCandidate
	retrieveErr error

	scopedCalls int
	globalCalls int
	lastScope   string
	lastLimit   int
}

func (m *mockMemoryStore) StoreMemory(_ context.Context, content, scopeID, contentType string,
	importance float64, tags []string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.calls
	m.calls++
	if err := m.storeErrs[idx]; err != nil {
		return "", err
	}

	m.stored = append(m.stored, storedMemory{
		content:     content,
		scopeID:     scopeID,
		contentType: contentType,
		importance:  importance,
		tags:        tags,
	})
	return fmt.Sprintf("mem-%d", idx), nil
}

func (m *mockMemoryStore) RetrieveRelevantMemories(_ context.Context, _, scopeID string,
	limit int, _ float64) ([]driven.MemoryCandidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scopedCalls++
	m.lastScope = scopeID
	m.lastLimit = limit
	return m.candidates, m.retrieveErr
}

func (m *mockMemoryStore) SearchAllMemories(_ context.Context, _ string,
	limit int, _ float64) ([]driven.MemoryCandidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.globalCalls++
	m.lastLimit = limit
	return m.candidates, m.retrieveErr
}

func (m *mockMemoryStore) Close() error {
	return nil
}

func (m *mockMemoryStore) storedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.stored)
}

// mockEmbedder implements driven.Embedder for testing.
type mockEmbedder struct {
	mu    sync.Mutex
	calls int

	// embedErrs fails specific Embed calls by index.
	embedErrs map[int]error

	dims int
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.Embedding, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.calls
	m.calls++
	if err := m.embedErrs[idx]; err != nil {
		return domain.Embedding{}, err
	}

	dims := m.dims
	if dims == 0 {
		dims = 8
	}
	vector := make([]float32, dims)
	vector[0] = 1
	return domain.Embedding{
		Vector:      vector,
		Dimensions:  dims,
		Generator:   "mock-embed",
		GeneratedAt: time.Now(),
	}, nil
}

func (m *mockEmbedder) Dimensions() int {
	if m.dims > 0 {
		return m.dims
	}
	return 8
}

func (m *mockEmbedder) ModelName() string {
	return "mock-embed"
}

func (m *mockEmbedder) Ping(_ context.Context) error {
	return nil
}

func (m *mockEmbedder) Close() error {
	return nil
}

// ragCandidate builds a store candidate carrying the RAG marker.
func ragCandidate(id, docID, content string, importance float64, age time.Duration) driven.MemoryCandidate {
	return driven.MemoryCandidate{
		ID:          id,
		Content:     content,
		ContentType: "prose",
		Importance:  importance,
		Similarity:  0.5,
		Tags:        []string{"rag-document", "prose", "doc:" + docID},
		CreatedAt:   time.Now().Add(-age),
	}
}
