// Package domain defines the core business entities for Memora.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: a raw document handed to the ingestion pipeline
//   - Chunk: a bounded, semantically coherent excerpt of a document
//   - ProcessedChunk: a chunk with its embedding, as persisted
//   - SearchResult: a ranked retrieval hit
//   - AugmentedContext: the token-bounded blob assembled for generation
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
