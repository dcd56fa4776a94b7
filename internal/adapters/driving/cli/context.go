package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	contextMaxTokens int
	contextDiversity float64
	contextJSON      bool
)

var contextCmd = &cobra.Command{
	Use:   "context [query]",
	Short: "Assemble a token-bounded context block",
	Long: `Retrieves relevant memory for the query, prunes near-duplicate
results and packs the survivors into a context block that fits the token
budget. The output is ready to prepend to a generation request.`,
	Args: cobra.ExactArgs(1),
	RunE: runContext,
}

func init() {
	contextCmd.Flags().IntVar(&contextMaxTokens, "max-tokens", 2000, "token budget for the assembled context")
	contextCmd.Flags().Float64Var(&contextDiversity, "diversity", 0.7, "near-duplicate pruning strength, 0 disables")
	contextCmd.Flags().BoolVar(&contextJSON, "json", false, "output the context as JSON")
	rootCmd.AddCommand(contextCmd)
}

func runContext(cmd *cobra.Command, args []string) error {
	query := args[0]

	if memoryService == nil {
		return errors.New("memory service not configured")
	}

	// Config supplies defaults for flags the user did not set.
	if configStore != nil {
		if !cmd.Flags().Changed("max-tokens") {
			if v := configStore.GetInt("context.max_tokens"); v > 0 {
				contextMaxTokens = v
			}
		}
		if !cmd.Flags().Changed("diversity") {
			if v := configStore.GetFloat("context.diversity"); v > 0 {
				contextDiversity = v
			}
		}
	}

	ctx := context.Background()
	augmented, err := memoryService.RetrieveAugmentedContext(ctx, query, scopeID, contextMaxTokens, contextDiversity)
	if err != nil {
		return fmt.Errorf("context assembly failed: %w", err)
	}

	if contextJSON {
		data, err := json.MarshalIndent(augmented, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal context: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println(augmented.Text)
	cmd.Printf("\n-- %d tokens, %d source document(s), relevance %.2f\n",
		augmented.TokenCount, len(augmented.SourceDocuments), augmented.RelevanceScore)
	return nil
}
