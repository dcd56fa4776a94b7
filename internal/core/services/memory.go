package services

import (
	"context"

	"github.com/haldane-labs/memora/internal/core/domain"
	"github.com/haldane-labs/memora/internal/core/ports/driving"
)

// Ensure MemoryService implements the interface.
var _ driving.MemoryService = (*MemoryService)(nil)

// Retrieval defaults for augmented context assembly.
const (
	// DefaultCandidateLimit is how many search results feed diversity
	// selection.
	DefaultCandidateLimit = 20

	// DefaultSearchThreshold is the store-native threshold applied
	// when retrieving candidates.
	DefaultSearchThreshold = 0.3
)

// MemoryService is the caller-facing facade composing the ingestion
// pipeline, search engine, diversity selector and context assembler.
type MemoryService struct {
	pipeline  *IngestionPipeline
	search    *SearchEngine
	selector  *DiversitySelector
	assembler *ContextAssembler

	candidateLimit  int
	searchThreshold float64
}

// MemoryOption configures the memory service.
type MemoryOption func(*MemoryService)

// WithCandidateLimit sets how many candidates feed context assembly.
func WithCandidateLimit(limit int) MemoryOption {
	return func(m *MemoryService) {
		if limit > 0 {
			m.candidateLimit = limit
		}
	}
}

// WithSearchThreshold sets the store-native candidate threshold.
func WithSearchThreshold(threshold float64) MemoryOption {
	return func(m *MemoryService) {
		if threshold >= 0 {
			m.searchThreshold = threshold
		}
	}
}

// NewMemoryService wires the core components together.
func NewMemoryService(
	pipeline *IngestionPipeline,
	search *SearchEngine,
	selector *DiversitySelector,
	assembler *ContextAssembler,
	opts ...MemoryOption,
) *MemoryService {
	m := &MemoryService{
		pipeline:        pipeline,
		search:          search,
		selector:        selector,
		assembler:       assembler,
		candidateLimit:  DefaultCandidateLimit,
		searchThreshold: DefaultSearchThreshold,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// IngestDocument chunks, embeds and stores a document under its scope.
func (m *MemoryService) IngestDocument(ctx context.Context, doc *domain.Document) (*domain.IngestionResult, error) {
	return m.pipeline.Ingest(ctx, doc)
}

// SemanticSearch returns ranked results for a query.
func (m *MemoryService) SemanticSearch(ctx context.Context, query, scopeID string, limit int, threshold float64) ([]domain.SearchResult, error) {
	return m.search.Search(ctx, query, scopeID, limit, threshold)
}

// RetrieveAugmentedContext searches, prunes near-duplicates and packs
// the survivors into a token-bounded context blob.
func (m *MemoryService) RetrieveAugmentedContext(ctx context.Context, query, scopeID string, maxTokens int, diversityFactor float64) (*domain.AugmentedContext, error) {
	results, err := m.search.Search(ctx, query, scopeID, m.candidateLimit, m.searchThreshold)
	if err != nil {
		return nil, err
	}

	selected := m.selector.Select(results, diversityFactor)
	return m.assembler.Assemble(selected, query, maxTokens), nil
}

// Stats reports running ingestion totals.
func (m *MemoryService) Stats() driving.IngestionStats {
	return m.pipeline.Stats()
}
