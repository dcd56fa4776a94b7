package chunker

import (
	"strconv"
	"strings"

	"github.com/haldane-labs/memora/internal/core/domain"
)

// chunkConversation splits a transcript on blank-line-delimited turns.
// Each non-empty turn meeting the minimum size becomes one chunk
// tagged with its turn index.
func (c *Chunker) chunkConversation(doc *domain.Document) []domain.Chunk {
	turns := strings.Split(normalize(doc.Content), "\n\n")

	var chunks []domain.Chunk
	for i, turn := range turns {
		turn = strings.TrimSpace(turn)
		if turn == "" || len(turn) < c.minSize {
			continue
		}
		chunks = append(chunks, c.newChunk(doc, turn, len(chunks), map[string]string{"turn": strconv.Itoa(i)}))
	}

	return chunks
}
