package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haldane-labs/memora/internal/core/domain"
)

func TestContextCmd_Use(t *testing.T) {
	assert.Equal(t, "context [query]", contextCmd.Use)
}

func TestContextCmd_HasFlags(t *testing.T) {
	maxTokens := contextCmd.Flags().Lookup("max-tokens")
	require.NotNil(t, maxTokens)
	assert.Equal(t, "2000", maxTokens.DefValue)

	diversity := contextCmd.Flags().Lookup("diversity")
	require.NotNil(t, diversity)
	assert.Equal(t, "0.7", diversity.DefValue)
}

func TestContextCmd_NoServiceConfigured(t *testing.T) {
	memoryService = nil

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"context", "test query"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestContextCmd_AssemblesContext(t *testing.T) {
	mock, cleanup := setupTestServices()
	defer cleanup()
	mock.contextResult = &domain.AugmentedContext{
		Query:           "refund policy",
		Text:            "Query: refund policy\n\nRelevant Information:\n\n[1] thirty days\n",
		TokenCount:      16,
		SourceDocuments: []string{"doc-1"},
		RelevanceScore:  0.82,
		GeneratedAt:     time.Now(),
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"context", "--scope", "conv-1", "refund policy"})

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Equal(t, "refund policy", mock.lastQuery)
	assert.Equal(t, "conv-1", mock.lastScope)
	assert.Contains(t, buf.String(), "Relevant Information:")
	assert.Contains(t, buf.String(), "16 tokens, 1 source document(s), relevance 0.82")
}

func TestContextCmd_PassesBudgetFlags(t *testing.T) {
	mock, cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"context", "--max-tokens", "500", "--diversity", "0.9", "query"})

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Equal(t, 500, mock.lastMaxTokens)
	assert.Equal(t, 0.9, mock.lastDiversity)
}

func TestContextCmd_JSONOutput(t *testing.T) {
	mock, cleanup := setupTestServices()
	defer cleanup()
	mock.contextResult = &domain.AugmentedContext{
		Query:      "refund",
		Text:       "Query: refund\n\nRelevant Information:\n",
		TokenCount: 9,
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"context", "--json", "refund"})

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"TokenCount": 9`)
}
