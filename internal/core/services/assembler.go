package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/haldane-labs/memora/internal/core/domain"
	"github.com/haldane-labs/memora/internal/logger"
)

// ContextAssembler packs ranked results into a token-bounded text blob
// for a generation request.
type ContextAssembler struct {
	weights domain.AssemblyWeights
}

// NewContextAssembler creates an assembler with the given blend.
func NewContextAssembler(weights domain.AssemblyWeights) *ContextAssembler {
	return &ContextAssembler{weights: weights}
}

// Assemble re-ranks the diversified results by a stricter
// similarity/importance blend and greedily appends them under the
// token budget. A result that would exceed the budget is dropped,
// never truncated; assembly stops at the first result that does not
// fit. Token counts are approximate (length/4).
func (a *ContextAssembler) Assemble(results []domain.SearchResult, query string, maxTokens int) *domain.AugmentedContext {
	ranked := make([]domain.SearchResult, len(results))
	copy(ranked, results)
	sort.SliceStable(ranked, func(i, j int) bool {
		return a.score(ranked[i]) > a.score(ranked[j])
	})

	var text strings.Builder
	header := fmt.Sprintf("Query: %s\n\nRelevant Information:\n", query)
	text.WriteString(header)
	tokens := domain.EstimateTokens(header)

	var included []domain.SearchResult
	for _, result := range ranked {
		entry := fmt.Sprintf("\n[%d] %s\n", len(included)+1, result.Content)
		entryTokens := domain.EstimateTokens(entry)
		if tokens+entryTokens > maxTokens {
			break
		}
		text.WriteString(entry)
		tokens += entryTokens
		included = append(included, result)
	}

	logger.Debug("Assembled context: %d/%d results, %d tokens", len(included), len(results), tokens)

	relevance := 0.0
	if len(included) > 0 {
		relevance = included[0].Similarity
	}

	return &domain.AugmentedContext{
		Query:           query,
		Text:            text.String(),
		TokenCount:      tokens,
		SourceDocuments: distinctDocuments(included),
		RelevanceScore:  relevance,
		GeneratedAt:     time.Now(),
	}
}

// score blends search similarity with stored importance.
func (a *ContextAssembler) score(r domain.SearchResult) float64 {
	return a.weights.Similarity*r.Similarity + a.weights.Importance*r.Importance
}

// distinctDocuments lists contributing document IDs in first-seen order.
func distinctDocuments(results []domain.SearchResult) []string {
	seen := make(map[string]struct{}, len(results))
	var docs []string
	for _, r := range results {
		if r.DocumentID == "" {
			continue
		}
		if _, ok := seen[r.DocumentID]; ok {
			continue
		}
		seen[r.DocumentID] = struct{}{}
		docs = append(docs, r.DocumentID)
	}
	return docs
}
