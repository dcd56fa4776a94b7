// Command memora is a retrieval-augmented memory CLI for conversational
// agents. It wires the storage backend, embedder and core services from
// configuration, then hands control to the cobra command tree.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/haldane-labs/memora/internal/adapters/driven/config/file"
	"github.com/haldane-labs/memora/internal/adapters/driven/storage/chromem"
	"github.com/haldane-labs/memora/internal/adapters/driven/storage/memory"
	"github.com/haldane-labs/memora/internal/adapters/driven/storage/sqlite"
	"github.com/haldane-labs/memora/internal/adapters/driving/cli"
	"github.com/haldane-labs/memora/internal/chunker"
	"github.com/haldane-labs/memora/internal/core/domain"
	"github.com/haldane-labs/memora/internal/core/ports/driven"
	"github.com/haldane-labs/memora/internal/core/services"
	"github.com/haldane-labs/memora/internal/embedding/hashed"
	"github.com/haldane-labs/memora/internal/embedding/ollama"
	"github.com/haldane-labs/memora/internal/logger"
)

// version is overridden at build time via
// -ldflags "-X main.version=...".
var version = "dev"

// pingTimeout bounds the Ollama availability probe at startup.
const pingTimeout = 2 * time.Second

func main() {
	cli.SetVersion(version)
	cli.SetInitializer(initServices)

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// initServices wires the config store, embedder, storage backend and
// core services. It runs once, after flags are parsed.
func initServices() error {
	cfg, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	cli.SetConfigStore(cfg)

	embedder := selectEmbedder(cfg)
	store, err := openStore(cfg, embedder)
	if err != nil {
		return err
	}

	svc := services.NewMemoryService(
		services.NewIngestionPipeline(store, embedder, newChunker(cfg)),
		services.NewSearchEngine(store, rankWeights(cfg)),
		services.NewDiversitySelector(),
		services.NewContextAssembler(assemblyWeights(cfg)),
	)
	cli.SetMemoryService(svc)
	return nil
}

// selectEmbedder picks the embedding provider. Ollama is preferred when
// reachable; otherwise the deterministic hashed fallback keeps the tool
// usable offline.
func selectEmbedder(cfg driven.ConfigStore) driven.Embedder {
	provider := cfg.GetString("embedder.provider")
	if provider == "hashed" {
		return hashed.New()
	}

	client := ollama.New(ollama.Config{
		BaseURL: cfg.GetString("embedder.base_url"),
		Model:   cfg.GetString("embedder.model"),
	})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := client.Ping(ctx); err != nil {
		logger.Warn("ollama unreachable (%v), falling back to hashed embeddings", err)
		return hashed.New()
	}

	logger.Debug("using ollama embedder, model %s", client.ModelName())
	return client
}

// openStore opens the configured storage backend. SQLite is the
// default; "memory" and "chromem" are available for ephemeral runs.
func openStore(cfg driven.ConfigStore, embedder driven.Embedder) (driven.MemoryStore, error) {
	backend := cfg.GetString("storage.backend")
	switch backend {
	case "memory":
		return memory.NewMemoryStore(), nil
	case "chromem":
		return chromem.NewStore(embedder)
	case "", "sqlite":
		store, err := sqlite.NewStore(cli.DataDir(), embedder)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("%w: unknown storage backend %q", domain.ErrInvalidInput, backend)
	}
}

// newChunker builds the chunker with any configured size overrides.
func newChunker(cfg driven.ConfigStore) *chunker.Chunker {
	var opts []chunker.Option
	if v := cfg.GetInt("chunker.target_size"); v > 0 {
		opts = append(opts, chunker.WithTargetSize(v))
	}
	if v := cfg.GetInt("chunker.overlap"); v > 0 {
		opts = append(opts, chunker.WithOverlap(v))
	}
	if v := cfg.GetInt("chunker.min_size"); v > 0 {
		opts = append(opts, chunker.WithMinSize(v))
	}
	return chunker.New(opts...)
}

// rankWeights reads the search blend from config, keeping the defaults
// for any unset component.
func rankWeights(cfg driven.ConfigStore) domain.RankWeights {
	weights := domain.DefaultRankWeights()
	if v := cfg.GetFloat("search.lexical_weight"); v > 0 {
		weights.Lexical = v
	}
	if v := cfg.GetFloat("search.temporal_weight"); v > 0 {
		weights.Temporal = v
	}
	if v := cfg.GetFloat("search.importance_weight"); v > 0 {
		weights.Importance = v
	}
	return weights
}

// assemblyWeights reads the assembly blend from config.
func assemblyWeights(cfg driven.ConfigStore) domain.AssemblyWeights {
	weights := domain.DefaultAssemblyWeights()
	if v := cfg.GetFloat("context.similarity_weight"); v > 0 {
		weights.Similarity = v
	}
	if v := cfg.GetFloat("context.importance_weight"); v > 0 {
		weights.Importance = v
	}
	return weights
}
