package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haldane-labs/memora/internal/core/domain"
)

var (
	searchLimit     int
	searchThreshold float64
	searchJSON      bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search stored memory",
	Long: `Searches stored chunks for the query, ranking by a blend of lexical
overlap, recency and chunk importance. With --scope the search is limited
to one conversation; without it all scopes are searched.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results")
	searchCmd.Flags().Float64Var(&searchThreshold, "threshold", 0.3, "minimum store similarity for candidates")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if memoryService == nil {
		return errors.New("memory service not configured")
	}

	// Config supplies defaults for flags the user did not set.
	if configStore != nil {
		if !cmd.Flags().Changed("limit") {
			if v := configStore.GetInt("search.limit"); v > 0 {
				searchLimit = v
			}
		}
		if !cmd.Flags().Changed("threshold") {
			if v := configStore.GetFloat("search.threshold"); v > 0 {
				searchThreshold = v
			}
		}
	}

	ctx := context.Background()
	results, err := memoryService.SemanticSearch(ctx, query, scopeID, searchLimit, searchThreshold)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}

	return outputSearchText(cmd, results)
}

func outputSearchJSON(cmd *cobra.Command, results []domain.SearchResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchText(cmd *cobra.Command, results []domain.SearchResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		label := results[i].ContextLabel
		if label == "" {
			label = results[i].DocumentID
		}

		cmd.Printf("  [%d] %s (%.2f)\n", i+1, label, results[i].Similarity)
		cmd.Printf("      %s\n", snippet(results[i].Content, 120))
		cmd.Println()
	}
	return nil
}

// snippet truncates content to at most n characters for display.
func snippet(content string, n int) string {
	if len(content) <= n {
		return content
	}
	return content[:n] + "..."
}
