package domain

// ChunkFailure records a single chunk that could not be embedded or stored.
type ChunkFailure struct {
	// Index is the chunk's ordinal position within the document.
	Index int

	// Err is the underlying embedding or storage error.
	Err error
}

// IngestionResult reports the outcome of ingesting one document.
//
// Success means at least one chunk was embedded and persisted.
// PartialFailure marks a degraded success where some (not all)
// chunks failed; the caller decides whether to surface it.
type IngestionResult struct {
	// DocumentID is the ingested document.
	DocumentID string

	// ScopeID is the scope the chunks were stored under.
	ScopeID string

	// ChunksTotal is how many chunks the chunker produced.
	ChunksTotal int

	// ChunksStored is how many chunks were embedded and persisted.
	ChunksStored int

	// PartialFailure is true when some but not all chunks failed.
	PartialFailure bool

	// Failures holds per-chunk diagnostics for the failed chunks.
	Failures []ChunkFailure

	// Stored lists the chunks that were embedded and persisted,
	// in document order.
	Stored []ProcessedChunk
}

// FailedChunks returns the number of chunks that were dropped.
func (r *IngestionResult) FailedChunks() int {
	return len(r.Failures)
}
