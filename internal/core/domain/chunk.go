package domain

import "time"

// Chunk is a transient, pre-storage excerpt of a document.
type Chunk struct {
	// Content is the text content of this chunk.
	Content string

	// ContextLabel describes where the chunk came from,
	// e.g. "Design Notes (part 3)" or "report.pdf (page 2)".
	ContextLabel string

	// Importance is a heuristic score in [0,1] based on word
	// diversity, length and salience keywords.
	Importance float64

	// Metadata contains chunk-specific key-value pairs
	// (page number, turn index, source kind).
	Metadata map[string]string
}

// ProcessedChunk is a chunk that has been embedded and persisted.
// It is immutable once stored.
type ProcessedChunk struct {
	// ID is the memory identifier assigned by the store.
	ID string

	// DocumentID links back to the source document.
	DocumentID string

	// Index is the ordinal position within the document.
	Index int

	// Chunk is the embedded content.
	Chunk Chunk

	// Embedding is the vector representation.
	Embedding Embedding
}

// Embedding is a fixed-dimension vector representation of text.
type Embedding struct {
	// Vector is the embedding values.
	Vector []float32

	// Dimensions is the vector length, fixed per generator.
	Dimensions int

	// Generator identifies which strategy produced the vector.
	// Callers use this to detect the lower-quality fallback.
	Generator string

	// GeneratedAt is when the embedding was produced.
	GeneratedAt time.Time
}

// IsZero reports whether the embedding carries no vector.
func (e Embedding) IsZero() bool {
	return len(e.Vector) == 0
}
