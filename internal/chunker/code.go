package chunker

import (
	"strings"

	"github.com/haldane-labs/memora/internal/core/domain"
)

// definitionKeywords mark lines that likely start a new definition.
// Cross-language heuristic; precise parsing is deliberately avoided.
var definitionKeywords = []string{
	"func ", "def ", "fn ", "function ", "class ", "struct ",
	"interface ", "impl ", "trait ", "type ", "module ",
	"public ", "private ", "protected ", "static ", "export ",
}

// closingTokens mark lines that likely end a definition.
var closingTokens = map[string]bool{
	"}": true, "};": true, ")": true, ");": true, "end": true,
}

// chunkCode groups source lines into definition-sized chunks.
// Flushes happen on a likely closing token, on a new definition start,
// or when the size threshold is reached during a blank-line gap. A
// trailing partial chunk is flushed at end of input. Buffers below the
// minimum size keep accumulating so small definitions group together.
func (c *Chunker) chunkCode(doc *domain.Document) []domain.Chunk {
	lines := strings.Split(normalize(doc.Content), "\n")

	var chunks []domain.Chunk
	var current []string
	currentLen := 0

	flush := func() {
		content := strings.TrimSpace(strings.Join(current, "\n"))
		if len(content) >= c.minSize {
			chunks = append(chunks, c.newChunk(doc, content, len(chunks), map[string]string{"language": "code"}))
			current = nil
			currentLen = 0
		}
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if isDefinitionStart(trimmed) && currentLen >= c.minSize {
			flush()
		}

		current = append(current, line)
		currentLen += len(line) + 1

		if closingTokens[trimmed] && currentLen >= c.minSize {
			flush()
			continue
		}
		if trimmed == "" && currentLen >= c.targetSize {
			flush()
		}
	}

	flush()
	return chunks
}

// isDefinitionStart reports whether a line likely begins a definition.
func isDefinitionStart(line string) bool {
	for _, kw := range definitionKeywords {
		if strings.HasPrefix(line, kw) {
			return true
		}
	}
	return false
}
