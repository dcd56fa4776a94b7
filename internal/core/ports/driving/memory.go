package driving

import (
	"context"

	"github.com/haldane-labs/memora/internal/core/domain"
)

// MemoryService is the caller-facing surface of the memory core.
type MemoryService interface {
	// IngestDocument chunks, embeds and stores a document under its
	// scope. Per-chunk failures do not abort the document; the result
	// reports partial failure when some (not all) chunks were dropped.
	IngestDocument(ctx context.Context, doc *domain.Document) (*domain.IngestionResult, error)

	// SemanticSearch returns ranked results for a query. An empty
	// scope spans all scopes. An empty result set is not an error.
	SemanticSearch(ctx context.Context, query, scopeID string,
		limit int, threshold float64) ([]domain.SearchResult, error)

	// RetrieveAugmentedContext searches, prunes near-duplicates and
	// assembles a token-bounded context blob for generation.
	RetrieveAugmentedContext(ctx context.Context, query, scopeID string,
		maxTokens int, diversityFactor float64) (*domain.AugmentedContext, error)

	// Stats reports running ingestion totals.
	Stats() IngestionStats
}

// IngestionStats holds running totals for the lifetime of the pipeline.
type IngestionStats struct {
	// DocumentsIngested counts documents with at least one stored chunk.
	DocumentsIngested int64

	// ChunksStored counts chunks persisted across all documents.
	ChunksStored int64
}
