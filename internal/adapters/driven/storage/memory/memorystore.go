// Package memory provides in-memory implementations of driven ports,
// used for tests and for ephemeral sessions where persistence is not
// wanted.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/haldane-labs/memora/internal/core/ports/driven"
)

// Ensure MemoryStore implements the interface.
var _ driven.MemoryStore = (*MemoryStore)(nil)

// record is one stored memory entry.
type record struct {
	id          string
	content     string
	scopeID     string
	contentType string
	importance  float64
	tags        []string
	createdAt   time.Time
	words       map[string]struct{}
}

// MemoryStore is an in-memory implementation of driven.MemoryStore.
// Similarity is word-overlap based, which is enough for tests and for
// small ephemeral sessions.
type MemoryStore struct {
	mu      sync.RWMutex
	records []record
}

// NewMemoryStore creates a new in-memory memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// StoreMemory persists a memory entry and returns its generated ID.
func (s *MemoryStore) StoreMemory(_ context.Context, content, scopeID, contentType string,
	importance float64, tags []string) (string, error) {
	id := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record{
		id:          id,
		content:     content,
		scopeID:     scopeID,
		contentType: contentType,
		importance:  importance,
		tags:        append([]string(nil), tags...),
		createdAt:   time.Now(),
		words:       wordSet(content),
	})
	return id, nil
}

// RetrieveRelevantMemories returns entries in a scope scored against the
// query, most similar first.
func (s *MemoryStore) RetrieveRelevantMemories(_ context.Context, query, scopeID string,
	limit int, threshold float64) ([]driven.MemoryCandidate, error) {
	return s.retrieve(query, scopeID, limit, threshold, true)
}

// SearchAllMemories returns entries across every scope scored against
// the query, most similar first.
func (s *MemoryStore) SearchAllMemories(_ context.Context, query string,
	limit int, threshold float64) ([]driven.MemoryCandidate, error) {
	return s.retrieve(query, "", limit, threshold, false)
}

// Close releases the store. It is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}

// Len reports the number of stored entries.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func (s *MemoryStore) retrieve(query, scopeID string, limit int, threshold float64, scoped bool) ([]driven.MemoryCandidate, error) {
	queryWords := wordSet(query)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var candidates []driven.MemoryCandidate
	for _, r := range s.records {
		if scoped && r.scopeID != scopeID {
			continue
		}
		sim := overlap(queryWords, r.words)
		if sim < threshold {
			continue
		}
		candidates = append(candidates, driven.MemoryCandidate{
			ID:          r.id,
			Content:     r.content,
			ContentType: r.contentType,
			Importance:  r.importance,
			Similarity:  sim,
			Tags:        append([]string(nil), r.tags...),
			CreatedAt:   r.createdAt,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Similarity > candidates[j].Similarity
	})
	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}

// wordSet lowercases and splits text into its distinct words.
func wordSet(text string) map[string]struct{} {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// overlap reports the fraction of query words present in the entry.
func overlap(query, entry map[string]struct{}) float64 {
	if len(query) == 0 {
		return 0
	}
	matched := 0
	for w := range query {
		if _, ok := entry[w]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(query))
}
