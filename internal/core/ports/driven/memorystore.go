package driven

import (
	"context"
	"time"
)

// MemoryStore persists and retrieves memory entries. It is opaque to
// the core: persistence layout, indexing and native scoring all belong
// to the implementation. The store is assumed to serialize its own
// writes per scope.
//
// Implementations may include:
//   - In-memory map (tests, ephemeral runs)
//   - SQLite (default persistent backend)
//   - chromem-go (embedded vector database)
type MemoryStore interface {
	// StoreMemory persists one entry under a scope and returns the
	// assigned memory ID.
	StoreMemory(ctx context.Context, content, scopeID, contentType string,
		importance float64, tags []string) (string, error)

	// RetrieveRelevantMemories returns candidates for a query within a
	// single scope, filtered by the store's native threshold.
	RetrieveRelevantMemories(ctx context.Context, query, scopeID string,
		limit int, threshold float64) ([]MemoryCandidate, error)

	// SearchAllMemories returns candidates for a query across every scope.
	SearchAllMemories(ctx context.Context, query string,
		limit int, threshold float64) ([]MemoryCandidate, error)

	// Close releases resources.
	Close() error
}

// MemoryCandidate is a raw hit from the store, before the search
// engine re-ranks it.
type MemoryCandidate struct {
	// ID is the stored memory identifier.
	ID string

	// Content is the stored text.
	Content string

	// ContentType is the type recorded at store time.
	ContentType string

	// Importance is the importance recorded at store time.
	Importance float64

	// Similarity is the store's native relevance score (0-1).
	Similarity float64

	// Tags are the labels recorded at store time.
	Tags []string

	// CreatedAt is when the entry was stored.
	CreatedAt time.Time
}

// HasTag reports whether the candidate carries the given tag.
func (c MemoryCandidate) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
