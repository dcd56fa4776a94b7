// Package cli provides the cobra command tree for the memora binary.
// Commands talk to the core exclusively through the driving ports;
// services are injected once at startup via the setters below.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/haldane-labs/memora/internal/core/ports/driven"
	"github.com/haldane-labs/memora/internal/core/ports/driving"
	"github.com/haldane-labs/memora/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Services injected at startup.
var (
	memoryService driving.MemoryService
	configStore   driven.ConfigStore

	// initServices wires the services lazily, after flags are parsed.
	initServices func() error
)

var (
	verbose bool
	scopeID string
	dataDir string
)

var rootCmd = &cobra.Command{
	Use:   "memora",
	Short: "Retrieval-augmented memory for conversational agents",
	Long: `Memora ingests documents into scoped conversational memory and
retrieves relevant, diverse, token-bounded context for generation.

Documents are chunked by kind (prose, code, conversation), embedded and
stored per scope. Queries blend lexical overlap, recency and chunk
importance, prune near-duplicates and pack the survivors into a context
block that fits a token budget.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		if memoryService == nil && initServices != nil {
			return initServices()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&scopeID, "scope", "", "conversation scope identifier")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default ~/.memora/data)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetMemoryService injects the memory service used by the commands.
func SetMemoryService(svc driving.MemoryService) {
	memoryService = svc
}

// SetConfigStore injects the configuration store.
func SetConfigStore(store driven.ConfigStore) {
	configStore = store
}

// SetInitializer registers a function that wires the services once
// flags have been parsed. It runs before the first command that finds
// no service installed.
func SetInitializer(fn func() error) {
	initServices = fn
}

// SetVersion overrides the build version string.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// DataDir returns the --data-dir flag value.
func DataDir() string {
	return dataDir
}
