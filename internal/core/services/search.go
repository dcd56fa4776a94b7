package services

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/haldane-labs/memora/internal/core/domain"
	"github.com/haldane-labs/memora/internal/core/ports/driven"
	"github.com/haldane-labs/memora/internal/logger"
)

// defaultSearchLimit applies when the caller passes no limit.
const defaultSearchLimit = 10

// SearchEngine re-ranks memory store candidates by a combined
// relevance blend of lexical overlap, recency and stored importance.
type SearchEngine struct {
	store   driven.MemoryStore
	weights domain.RankWeights
}

// NewSearchEngine creates a search engine over a memory store.
func NewSearchEngine(store driven.MemoryStore, weights domain.RankWeights) *SearchEngine {
	return &SearchEngine{
		store:   store,
		weights: weights,
	}
}

// Search returns ranked results for a query, best first.
//
// A non-empty scopeID restricts retrieval to that scope; an empty one
// spans all scopes. Candidates come from the store's native threshold
// filter; only RAG-tagged entries survive, re-ranked locally. An empty
// result set is not an error.
func (e *SearchEngine) Search(ctx context.Context, query, scopeID string, limit int, threshold float64) ([]domain.SearchResult, error) {
	logger.Section("Search Execution")
	logger.Debug("Query: %q, scope: %q", query, scopeID)

	query = strings.TrimSpace(query)
	if query == "" {
		logger.Debug("Empty query, returning no results")
		return []domain.SearchResult{}, nil
	}

	if limit <= 0 {
		limit = defaultSearchLimit
	}

	// Request more results internally to account for tag filtering
	internalLimit := limit * 2

	var candidates []driven.MemoryCandidate
	var err error
	if scopeID != "" {
		candidates, err = e.store.RetrieveRelevantMemories(ctx, query, scopeID, internalLimit, threshold)
	} else {
		candidates, err = e.store.SearchAllMemories(ctx, query, internalLimit, threshold)
	}
	if err != nil {
		return nil, fmt.Errorf("retrieve candidates: %w", err)
	}
	logger.Debug("Store returned %d candidates", len(candidates))

	queryWords := wordSet(query)
	now := time.Now()

	results := make([]domain.SearchResult, 0, len(candidates))
	for _, cand := range candidates {
		if !cand.HasTag(ragDocumentTag) {
			continue
		}

		combined := e.weights.Lexical*jaccard(queryWords, wordSet(cand.Content)) +
			e.weights.Temporal*temporalRelevance(now, cand.CreatedAt) +
			e.weights.Importance*cand.Importance

		results = append(results, candidateToResult(cand, combined))
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})

	if len(results) > limit {
		results = results[:limit]
	}
	logger.Info("Search: %d results for %q", len(results), query)

	return results, nil
}

// temporalRelevance decays linearly over one year, floored at 0.1 so
// old memories stay reachable.
func temporalRelevance(now, createdAt time.Time) float64 {
	ageDays := now.Sub(createdAt).Hours() / 24
	relevance := 1 - ageDays/365
	if relevance < 0.1 {
		return 0.1
	}
	return relevance
}

// candidateToResult decodes the provenance tags stored alongside a
// memory entry back into a search result.
func candidateToResult(cand driven.MemoryCandidate, combined float64) domain.SearchResult {
	result := domain.SearchResult{
		ID:         cand.ID,
		Content:    cand.Content,
		Similarity: combined,
		Importance: cand.Importance,
		Metadata:   map[string]string{},
		Timestamp:  cand.CreatedAt,
	}

	for _, tag := range cand.Tags {
		switch {
		case strings.HasPrefix(tag, tagPrefixDoc):
			result.DocumentID = strings.TrimPrefix(tag, tagPrefixDoc)
		case strings.HasPrefix(tag, tagPrefixChunk):
			if n, err := strconv.Atoi(strings.TrimPrefix(tag, tagPrefixChunk)); err == nil {
				result.ChunkIndex = n
			}
		case strings.HasPrefix(tag, tagPrefixLabel):
			result.ContextLabel = strings.TrimPrefix(tag, tagPrefixLabel)
		case strings.HasPrefix(tag, tagPrefixMeta):
			if k, v, ok := strings.Cut(strings.TrimPrefix(tag, tagPrefixMeta), "="); ok {
				result.Metadata[k] = v
			}
		}
	}

	return result
}

// wordSet returns the lowercased word set of text.
func wordSet(text string) map[string]struct{} {
	words := strings.Fields(strings.ToLower(text))
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// jaccard computes the Jaccard index of two word sets.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	intersection := 0
	for w := range a {
		if _, ok := b[w]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}
