package domain

import "time"

// SearchResult is a single ranked retrieval hit. Ephemeral, per query.
type SearchResult struct {
	// ID is the stored memory identifier.
	ID string

	// DocumentID is the source document, when known.
	DocumentID string

	// Content is the chunk text.
	Content string

	// Similarity is the combined relevance score used for ranking.
	Similarity float64

	// Importance is the stored importance of the chunk.
	Importance float64

	// ContextLabel describes the chunk's origin.
	ContextLabel string

	// Metadata contains the stored chunk metadata.
	Metadata map[string]string

	// ChunkIndex is the ordinal position within the source document.
	ChunkIndex int

	// Timestamp is when the chunk was stored.
	Timestamp time.Time
}

// AugmentedContext is the token-bounded text blob assembled from ranked
// chunks for a generation request. Ephemeral.
type AugmentedContext struct {
	// Query is the original query.
	Query string

	// Text is the assembled context.
	Text string

	// TokenCount is the approximate token count of Text.
	TokenCount int

	// SourceDocuments lists the distinct contributing document IDs.
	SourceDocuments []string

	// RelevanceScore is the similarity of the top included result,
	// or 0 when nothing fit the token budget.
	RelevanceScore float64

	// GeneratedAt is when the context was assembled.
	GeneratedAt time.Time
}

// RankWeights blends the relevance signals used when re-ranking
// retrieval candidates. The defaults are empirical; they are carried
// as values rather than literals so callers can tune them.
type RankWeights struct {
	// Lexical weights the Jaccard word overlap between query and content.
	Lexical float64

	// Temporal weights recency decay over one year, floored at 0.1.
	Temporal float64

	// Importance weights the stored chunk importance.
	Importance float64
}

// DefaultRankWeights returns the standard 0.4/0.3/0.3 blend.
func DefaultRankWeights() RankWeights {
	return RankWeights{Lexical: 0.4, Temporal: 0.3, Importance: 0.3}
}

// AssemblyWeights blends similarity and importance when ordering
// results for context assembly.
type AssemblyWeights struct {
	// Similarity weights the combined relevance from search.
	Similarity float64

	// Importance weights the stored chunk importance.
	Importance float64
}

// DefaultAssemblyWeights returns the standard 0.7/0.3 blend.
func DefaultAssemblyWeights() AssemblyWeights {
	return AssemblyWeights{Similarity: 0.7, Importance: 0.3}
}

// EstimateTokens approximates the token count of text as len/4.
// Good enough for budget enforcement; never used for billing.
func EstimateTokens(text string) int {
	return len(text) / 4
}
