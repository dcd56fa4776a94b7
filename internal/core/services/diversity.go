package services

import "github.com/haldane-labs/memora/internal/core/domain"

// maxDiverseResults caps how many results survive diversity selection.
const maxDiverseResults = 10

// minDiverseResults are admitted unconditionally so a usable minimum
// set exists even under high redundancy.
const minDiverseResults = 3

// DiversitySelector greedily prunes near-duplicate ranked results to
// maximise coverage within a capped set.
type DiversitySelector struct{}

// NewDiversitySelector creates a diversity selector.
func NewDiversitySelector() *DiversitySelector {
	return &DiversitySelector{}
}

// Select returns a subsequence of results in their incoming rank
// order. A candidate is admitted when its penalised similarity to the
// already-selected set stays above 0.5, or unconditionally while fewer
// than three are selected. diversityFactor scales the penalty: 0 keeps
// everything, 1 prunes aggressively.
func (s *DiversitySelector) Select(results []domain.SearchResult, diversityFactor float64) []domain.SearchResult {
	selected := make([]domain.SearchResult, 0, maxDiverseResults)
	selectedWords := make([]map[string]struct{}, 0, maxDiverseResults)

	for _, candidate := range results {
		if len(selected) >= maxDiverseResults {
			break
		}

		words := wordSet(candidate.Content)

		if len(selected) < minDiverseResults {
			selected = append(selected, candidate)
			selectedWords = append(selectedWords, words)
			continue
		}

		maxSimilarity := 0.0
		for _, prev := range selectedWords {
			if sim := jaccard(words, prev); sim > maxSimilarity {
				maxSimilarity = sim
			}
		}

		if 1-maxSimilarity*diversityFactor > 0.5 {
			selected = append(selected, candidate)
			selectedWords = append(selectedWords, words)
		}
	}

	return selected
}
