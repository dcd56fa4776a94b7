// Package hashed provides the deterministic fallback embedder.
//
// It hashes word n-grams into a fixed number of buckets and
// L2-normalizes the result. This is a bag-of-n-grams signal, not true
// semantics: two texts sharing vocabulary score close, paraphrases do
// not. The generator identifier marks embeddings as fallback-quality
// so downstream ranking can blend in other signals to compensate.
package hashed

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"time"
	"unicode"

	"github.com/haldane-labs/memora/internal/core/domain"
	"github.com/haldane-labs/memora/internal/core/ports/driven"
)

// Ensure Embedder implements the interface.
var _ driven.Embedder = (*Embedder)(nil)

// GeneratorName labels embeddings produced by this package.
// The "fallback" suffix is load-bearing: callers detect it.
const GeneratorName = "hashed-ngrams-fallback"

// DefaultDimensions is the default embedding size.
const DefaultDimensions = 768

// N-gram weights. Longer n-grams carry positional signal but repeat
// less, so they contribute less weight per occurrence.
const (
	unigramWeight = 1.0
	bigramWeight  = 0.5
	trigramWeight = 0.3
)

// Embedder generates deterministic bag-of-n-grams embeddings.
// Embed never fails and is safe for concurrent use.
type Embedder struct {
	dimensions int
}

// Option configures the embedder.
type Option func(*Embedder)

// WithDimensions sets the embedding vector size.
func WithDimensions(d int) Option {
	return func(e *Embedder) {
		if d > 0 {
			e.dimensions = d
		}
	}
}

// New creates a new hashed embedder.
func New(opts ...Option) *Embedder {
	e := &Embedder{dimensions: DefaultDimensions}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Embed generates an embedding for the given text. Empty or
// whitespace input yields the zero vector. The error is always nil;
// it exists to satisfy the Embedder interface shared with remote
// providers.
func (e *Embedder) Embed(_ context.Context, text string) (domain.Embedding, error) {
	vector := make([]float32, e.dimensions)

	words := tokenize(text)
	e.accumulate(vector, ngrams(words, 1), unigramWeight)
	e.accumulate(vector, ngrams(words, 2), bigramWeight)
	e.accumulate(vector, ngrams(words, 3), trigramWeight)
	normalize(vector)

	return domain.Embedding{
		Vector:      vector,
		Dimensions:  e.dimensions,
		Generator:   GeneratorName,
		GeneratedAt: time.Now(),
	}, nil
}

// Dimensions returns the embedding vector size.
func (e *Embedder) Dimensions() int {
	return e.dimensions
}

// ModelName returns the generator identifier.
func (e *Embedder) ModelName() string {
	return GeneratorName
}

// Ping always succeeds; the fallback has no external dependency.
func (e *Embedder) Ping(_ context.Context) error {
	return nil
}

// Close releases resources. The embedder holds none.
func (e *Embedder) Close() error {
	return nil
}

// accumulate hashes each n-gram into a bucket, adding weight scaled
// by 1/sqrt of the n-gram count so long texts do not dominate.
func (e *Embedder) accumulate(vector []float32, grams []string, weight float64) {
	if len(grams) == 0 {
		return
	}
	scaled := float32(weight / math.Sqrt(float64(len(grams))))
	for _, gram := range grams {
		h := fnv.New32a()
		h.Write([]byte(gram))
		vector[h.Sum32()%uint32(len(vector))] += scaled
	}
}

// tokenize lowercases and splits text on non-alphanumeric runes.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// ngrams returns all n-grams of the given order, space-joined.
func ngrams(words []string, n int) []string {
	if len(words) < n {
		return nil
	}
	if n == 1 {
		return words
	}
	grams := make([]string, 0, len(words)-n+1)
	for i := 0; i+n <= len(words); i++ {
		grams = append(grams, strings.Join(words[i:i+n], " "))
	}
	return grams
}

// normalize scales the vector to unit L2 norm in place.
// The zero vector stays zero.
func normalize(vector []float32) {
	var sum float64
	for _, v := range vector {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return
	}
	inv := float32(1 / math.Sqrt(sum))
	for i := range vector {
		vector[i] *= inv
	}
}
