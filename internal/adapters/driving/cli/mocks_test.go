package cli

import (
	"context"
	"time"

	"github.com/spf13/pflag"

	"github.com/haldane-labs/memora/internal/core/domain"
	"github.com/haldane-labs/memora/internal/core/ports/driving"
)

// mockMemoryService implements driving.MemoryService for command tests.
type mockMemoryService struct {
	ingestResult *domain.IngestionResult
	ingestErr    error
	lastDoc      *domain.Document

	searchResults []domain.SearchResult
	searchErr     error
	lastQuery     string
	lastScope     string
	lastLimit     int
	lastThreshold float64

	contextResult *domain.AugmentedContext
	contextErr    error
	lastMaxTokens int
	lastDiversity float64

	stats driving.IngestionStats
}

var _ driving.MemoryService = (*mockMemoryService)(nil)

func (m *mockMemoryService) IngestDocument(_ context.Context, doc *domain.Document) (*domain.IngestionResult, error) {
	m.lastDoc = doc
	if m.ingestErr != nil {
		return nil, m.ingestErr
	}
	if m.ingestResult != nil {
		return m.ingestResult, nil
	}
	return &domain.IngestionResult{
		DocumentID:   doc.ID,
		ScopeID:      doc.ScopeID,
		ChunksTotal:  2,
		ChunksStored: 2,
	}, nil
}

func (m *mockMemoryService) SemanticSearch(_ context.Context, query, scopeID string,
	limit int, threshold float64) ([]domain.SearchResult, error) {
	m.lastQuery = query
	m.lastScope = scopeID
	m.lastLimit = limit
	m.lastThreshold = threshold
	return m.searchResults, m.searchErr
}

func (m *mockMemoryService) RetrieveAugmentedContext(_ context.Context, query, scopeID string,
	maxTokens int, diversityFactor float64) (*domain.AugmentedContext, error) {
	m.lastQuery = query
	m.lastScope = scopeID
	m.lastMaxTokens = maxTokens
	m.lastDiversity = diversityFactor
	if m.contextErr != nil {
		return nil, m.contextErr
	}
	if m.contextResult != nil {
		return m.contextResult, nil
	}
	return &domain.AugmentedContext{
		Query:       query,
		Text:        "Query: " + query + "\n\nRelevant Information:\n",
		GeneratedAt: time.Now(),
	}, nil
}

func (m *mockMemoryService) Stats() driving.IngestionStats {
	return m.stats
}

// mockConfigStore is a map-backed driven.ConfigStore for command tests.
type mockConfigStore struct {
	values map[string]any
}

func (m *mockConfigStore) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *mockConfigStore) GetString(key string) string {
	v, _ := m.values[key].(string)
	return v
}

func (m *mockConfigStore) GetInt(key string) int {
	v, _ := m.values[key].(int)
	return v
}

func (m *mockConfigStore) GetFloat(key string) float64 {
	v, _ := m.values[key].(float64)
	return v
}

func (m *mockConfigStore) GetBool(key string) bool {
	v, _ := m.values[key].(bool)
	return v
}

func (m *mockConfigStore) Set(key string, value any) error {
	m.values[key] = value
	return nil
}

func (m *mockConfigStore) Save() error { return nil }

// setupTestServices installs a mock service and returns it with a
// cleanup that restores the package state.
func setupTestServices() (*mockMemoryService, func()) {
	mock := &mockMemoryService{}
	memoryService = mock

	prevScope := scopeID
	return mock, func() {
		memoryService = nil
		configStore = nil
		scopeID = prevScope
		ingestKind = ""
		ingestTitle = ""
		searchLimit = 10
		searchThreshold = 0.3
		searchJSON = false
		contextMaxTokens = 2000
		contextDiversity = 0.7
		contextJSON = false
		statsJSON = false
		rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
		for _, c := range rootCmd.Commands() {
			c.Flags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
		}
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	}
}
