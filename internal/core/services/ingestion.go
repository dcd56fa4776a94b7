package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/haldane-labs/memora/internal/chunker"
	"github.com/haldane-labs/memora/internal/core/domain"
	"github.com/haldane-labs/memora/internal/core/ports/driven"
	"github.com/haldane-labs/memora/internal/core/ports/driving"
	"github.com/haldane-labs/memora/internal/logger"
)

// ragDocumentTag marks stored chunks as retrieval-augmentation
// content. Search filters on it so other memory kinds held by the
// same store never surface as document context.
const ragDocumentTag = "rag-document"

// Tag prefixes carrying chunk provenance through the narrow
// MemoryStore interface.
const (
	tagPrefixDoc   = "doc:"
	tagPrefixChunk = "chunk:"
	tagPrefixLabel = "label:"
	tagPrefixMeta  = "meta:"
)

// IngestionPipeline chunks, embeds and stores documents.
//
// It is a long-lived component carrying running totals. Independent
// documents may be ingested concurrently; within one document chunks
// are processed sequentially, and a single chunk's failure never
// aborts the rest.
type IngestionPipeline struct {
	store    driven.MemoryStore
	embedder driven.Embedder
	chunker  *chunker.Chunker

	docsIngested atomic.Int64
	chunksStored atomic.Int64
}

// NewIngestionPipeline creates a pipeline with explicit dependencies.
func NewIngestionPipeline(store driven.MemoryStore, embedder driven.Embedder, ch *chunker.Chunker) *IngestionPipeline {
	return &IngestionPipeline{
		store:    store,
		embedder: embedder,
		chunker:  ch,
	}
}

// Ingest processes one document into stored chunks.
//
// A document without a scope ID is rejected before any work happens:
// there is no ambient default scope. Chunker failures propagate
// unchanged. Per-chunk embedding or storage failures are recorded and
// skipped; the whole ingestion fails only when every chunk failed.
func (p *IngestionPipeline) Ingest(ctx context.Context, doc *domain.Document) (*domain.IngestionResult, error) {
	if strings.TrimSpace(doc.ScopeID) == "" {
		return nil, fmt.Errorf("document %q: %w", doc.ID, domain.ErrMissingScope)
	}

	logger.Section("Ingestion")
	logger.Debug("Document %s (%s), scope %s, %d pages", doc.ID, doc.Kind, doc.ScopeID, len(doc.Pages))

	chunks, err := p.chunker.Chunk(doc)
	if err != nil {
		return nil, err
	}
	logger.Debug("Chunker produced %d chunks", len(chunks))

	var stored []domain.ProcessedChunk
	var failures []domain.ChunkFailure

	for i, chunk := range chunks {
		embedding, err := p.embedder.Embed(ctx, chunk.Content)
		if err != nil {
			logger.Warn("Chunk %d embedding failed: %v", i, err)
			failures = append(failures, domain.ChunkFailure{
				Index: i,
				Err:   fmt.Errorf("embed chunk %d: %w", i, err),
			})
			continue
		}

		id, err := p.store.StoreMemory(ctx, chunk.Content, doc.ScopeID,
			string(doc.Kind), chunk.Importance, chunkTags(doc, chunk, i))
		if err != nil {
			logger.Warn("Chunk %d store failed: %v", i, err)
			failures = append(failures, domain.ChunkFailure{
				Index: i,
				Err:   fmt.Errorf("store chunk %d: %w", i, err),
			})
			continue
		}

		stored = append(stored, domain.ProcessedChunk{
			ID:         id,
			DocumentID: doc.ID,
			Index:      i,
			Chunk:      chunk,
			Embedding:  embedding,
		})
		p.chunksStored.Add(1)
	}

	if len(stored) == 0 {
		errs := make([]error, len(failures))
		for i, f := range failures {
			errs[i] = f.Err
		}
		return nil, fmt.Errorf("document %q: %w: %w", doc.ID, domain.ErrIngestionFailed, errors.Join(errs...))
	}

	p.docsIngested.Add(1)
	logger.Info("Ingested %s: %d/%d chunks stored", doc.ID, len(stored), len(chunks))

	return &domain.IngestionResult{
		DocumentID:     doc.ID,
		ScopeID:        doc.ScopeID,
		ChunksTotal:    len(chunks),
		ChunksStored:   len(stored),
		PartialFailure: len(failures) > 0,
		Failures:       failures,
		Stored:         stored,
	}, nil
}

// Stats reports running totals since the pipeline was created.
func (p *IngestionPipeline) Stats() driving.IngestionStats {
	return driving.IngestionStats{
		DocumentsIngested: p.docsIngested.Load(),
		ChunksStored:      p.chunksStored.Load(),
	}
}

// chunkTags encodes chunk provenance into store tags: the RAG marker,
// the document kind, and prefixed document ID, chunk index, context
// label and metadata entries.
func chunkTags(doc *domain.Document, chunk domain.Chunk, index int) []string {
	tags := []string{
		ragDocumentTag,
		string(doc.Kind),
		tagPrefixDoc + doc.ID,
		fmt.Sprintf("%s%d", tagPrefixChunk, index),
	}
	if chunk.ContextLabel != "" {
		tags = append(tags, tagPrefixLabel+chunk.ContextLabel)
	}

	keys := make([]string, 0, len(chunk.Metadata))
	for k := range chunk.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		tags = append(tags, fmt.Sprintf("%s%s=%s", tagPrefixMeta, k, chunk.Metadata[k]))
	}
	return tags
}
