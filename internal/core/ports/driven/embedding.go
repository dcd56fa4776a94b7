package driven

import (
	"context"

	"github.com/haldane-labs/memora/internal/core/domain"
)

// Embedder generates vector embeddings from text.
//
// The strategy is chosen once at startup and never switched per call:
// either a high-quality semantic model (e.g. Ollama with
// nomic-embed-text) or the deterministic hashed fallback. The fallback
// never returns an error; remote providers may. Downstream ranking
// inspects Embedding.Generator to detect the fallback and blend in
// other signals to compensate.
type Embedder interface {
	// Embed generates an embedding for the given text.
	Embed(ctx context.Context, text string) (domain.Embedding, error)

	// Dimensions returns the embedding vector size. Fixed per
	// instance and identical across every embedding it produces.
	Dimensions() int

	// ModelName returns the generator identifier recorded on
	// embeddings.
	ModelName() string

	// Ping validates the service is reachable. Used once at startup
	// to decide between primary and fallback strategies.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
