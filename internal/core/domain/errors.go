package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Validation errors. Always surfaced, never retried.

	// ErrMissingScope indicates a document arrived without a scope ID.
	// There is no ambient default scope; rejecting here prevents
	// cross-conversation leakage.
	ErrMissingScope = errors.New("document has no scope ID")

	// ErrContentTooSmall indicates document content is below the
	// minimum chunk size and cannot be ingested.
	ErrContentTooSmall = errors.New("content below minimum chunk size")

	// ErrNoChunks indicates segmentation produced nothing meeting the
	// minimum size despite sufficient input. Callers should bypass
	// retrieval and use the content directly.
	ErrNoChunks = errors.New("chunking produced no usable chunks")

	// Ingestion errors.

	// ErrIngestionFailed indicates every chunk of a document failed to
	// embed or persist. Wraps the joined per-chunk errors.
	ErrIngestionFailed = errors.New("ingestion failed for all chunks")

	// Availability errors.

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured or not reachable.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrStoreUnavailable indicates the memory store is not configured.
	ErrStoreUnavailable = errors.New("memory store unavailable")
)
