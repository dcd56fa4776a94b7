package chunker

import (
	"strconv"
	"strings"

	"github.com/haldane-labs/memora/internal/core/domain"
)

// chunkPages handles documents carrying page structure. Pages at or
// below the small-page threshold stay intact as one chunk each, which
// preserves short structural units (slides, form pages) exactly.
// Longer pages run through the sentence-accumulation algorithm. Every
// chunk is tagged with its source page number.
func (c *Chunker) chunkPages(doc *domain.Document) []domain.Chunk {
	var chunks []domain.Chunk

	for i, page := range doc.Pages {
		if strings.TrimSpace(page) == "" {
			continue
		}

		pageMeta := map[string]string{"page": strconv.Itoa(i + 1)}

		if len(page) <= c.smallPageThreshold {
			if len(strings.TrimSpace(page)) < c.minSize {
				continue
			}
			chunks = append(chunks, c.newChunk(doc, strings.TrimSpace(normalize(page)), len(chunks), pageMeta))
			continue
		}

		chunks = append(chunks, c.chunkProse(doc, page, pageMeta)...)
	}

	return chunks
}
