package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/haldane-labs/memora/internal/core/domain"
)

func distinctResults(n int) []domain.SearchResult {
	results := make([]domain.SearchResult, n)
	for i := range results {
		results[i] = domain.SearchResult{
			ID:         fmt.Sprintf("m-%d", i),
			Content:    fmt.Sprintf("completely distinct topic number %d about subject%d and theme%d", i, i, i),
			Similarity: 1 - float64(i)*0.01,
		}
	}
	return results
}

func duplicateResults(n int) []domain.SearchResult {
	results := make([]domain.SearchResult, n)
	for i := range results {
		results[i] = domain.SearchResult{
			ID:         fmt.Sprintf("m-%d", i),
			Content:    "the exact same content repeated in every single result",
			Similarity: 1 - float64(i)*0.01,
		}
	}
	return results
}

func TestSelect_CapsAtTen(t *testing.T) {
	selector := NewDiversitySelector()
	selected := selector.Select(distinctResults(25), 0)
	assert.Len(t, selected, maxDiverseResults)
}

func TestSelect_MinimumGuarantee(t *testing.T) {
	selector := NewDiversitySelector()

	t.Run("duplicates still yield three", func(t *testing.T) {
		selected := selector.Select(duplicateResults(8), 1.0)
		assert.Len(t, selected, minDiverseResults)
	})

	t.Run("small input returned whole", func(t *testing.T) {
		selected := selector.Select(distinctResults(2), 1.0)
		assert.Len(t, selected, 2)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, selector.Select(nil, 1.0))
	})
}

func TestSelect_PrunesNearDuplicates(t *testing.T) {
	selector := NewDiversitySelector()

	// Three distinct openers, then duplicates of the first.
	results := distinctResults(3)
	for i := 0; i < 4; i++ {
		dup := results[0]
		dup.ID = fmt.Sprintf("dup-%d", i)
		results = append(results, dup)
	}
	results = append(results, domain.SearchResult{
		ID:      "fresh",
		Content: "an entirely different topic never seen before in this set",
	})

	selected := selector.Select(results, 1.0)

	ids := make(map[string]bool, len(selected))
	for _, r := range selected {
		ids[r.ID] = true
	}
	assert.False(t, ids["dup-0"], "duplicate of a selected result must be pruned")
	assert.True(t, ids["fresh"], "novel content must be admitted")
	assert.Len(t, selected, 4)
}

func TestSelect_ZeroFactorKeepsEverything(t *testing.T) {
	selector := NewDiversitySelector()
	selected := selector.Select(duplicateResults(7), 0)
	assert.Len(t, selected, 7, "factor 0 disables pruning")
}

func TestSelect_PreservesRankOrder(t *testing.T) {
	selector := NewDiversitySelector()
	selected := selector.Select(distinctResults(10), 0.5)

	for i := 1; i < len(selected); i++ {
		assert.GreaterOrEqual(t, selected[i-1].Similarity, selected[i].Similarity,
			"selection must preserve incoming rank order")
	}
}
