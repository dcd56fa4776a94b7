// Package chunker splits documents into overlapping, semantically
// bounded chunks ahead of embedding and storage.
//
// Chunking is pure computation with no shared state; a single Chunker
// may be used from any number of goroutines.
package chunker

import (
	"fmt"
	"math"
	"strings"

	"github.com/haldane-labs/memora/internal/core/domain"
)

// DefaultTargetSize is the default target chunk size in characters.
const DefaultTargetSize = 2500

// DefaultOverlap is the default overlap carried between chunks.
const DefaultOverlap = 300

// DefaultMinSize is the default minimum chunk size. Fragments below
// this are never produced.
const DefaultMinSize = 200

// DefaultSmallPageThreshold is the page length at or below which a
// page becomes exactly one chunk.
const DefaultSmallPageThreshold = 2000

// minSentenceLength is the shortest run accepted as a sentence.
// Shorter candidates are treated as abbreviations or decimals and
// merged into the following sentence. Known precision limit: genuine
// short sentences merge too.
const minSentenceLength = 20

// salienceKeywords boost importance when present in a chunk.
var salienceKeywords = []string{"important", "summary", "conclusion", "key", "critical"}

// Chunker splits document content into chunks.
type Chunker struct {
	targetSize         int
	overlap            int
	minSize            int
	smallPageThreshold int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithTargetSize sets the target chunk size in characters.
func WithTargetSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.targetSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// WithMinSize sets the minimum chunk size in characters.
func WithMinSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.minSize = size
		}
	}
}

// WithSmallPageThreshold sets the page length at or below which a
// page is kept intact as a single chunk.
func WithSmallPageThreshold(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.smallPageThreshold = size
		}
	}
}

// New creates a new chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		targetSize:         DefaultTargetSize,
		overlap:            DefaultOverlap,
		minSize:            DefaultMinSize,
		smallPageThreshold: DefaultSmallPageThreshold,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Ensure overlap doesn't exceed target size
	if c.overlap >= c.targetSize {
		c.overlap = c.targetSize / 4
	}

	return c
}

// MinSize returns the configured minimum chunk size.
func (c *Chunker) MinSize() int {
	return c.minSize
}

// Chunk splits a document into an ordered sequence of chunks.
//
// It returns domain.ErrContentTooSmall when the total content is below
// the minimum chunk size, and domain.ErrNoChunks when segmentation
// yields nothing meeting the minimum despite sufficient input. The
// latter is a signal to skip retrieval and use the content directly.
func (c *Chunker) Chunk(doc *domain.Document) ([]domain.Chunk, error) {
	if len(strings.TrimSpace(c.totalContent(doc))) < c.minSize {
		return nil, fmt.Errorf("document %s: %w", doc.ID, domain.ErrContentTooSmall)
	}

	var chunks []domain.Chunk
	if len(doc.Pages) > 0 {
		chunks = c.chunkPages(doc)
	} else {
		switch doc.Kind {
		case domain.KindCode:
			chunks = c.chunkCode(doc)
		case domain.KindConversation:
			chunks = c.chunkConversation(doc)
		default:
			chunks = c.chunkProse(doc, doc.Content, nil)
		}
	}

	if len(chunks) == 0 {
		return nil, fmt.Errorf("document %s: %w", doc.ID, domain.ErrNoChunks)
	}
	return chunks, nil
}

// totalContent returns the content the size check applies to.
func (c *Chunker) totalContent(doc *domain.Document) string {
	if len(doc.Pages) == 0 {
		return doc.Content
	}
	var b strings.Builder
	for _, page := range doc.Pages {
		b.WriteString(page)
	}
	return b.String()
}

// chunkProse runs the sentence-accumulation algorithm over text.
// Extra metadata (e.g. a page number) is merged into every chunk.
//
// Sentences accumulate greedily until the running chunk reaches the
// target size. The next chunk is seeded with an overlap tail of the
// previous chunk's sentences; the tail preserves continuity across
// boundaries and does not count against the next chunk's budget.
func (c *Chunker) chunkProse(doc *domain.Document, text string, extra map[string]string) []domain.Chunk {
	sentences := splitSentences(normalize(text))
	if len(sentences) == 0 {
		return nil
	}

	var chunks []domain.Chunk
	var tail []string    // overlap carried from the previous chunk
	var current []string // new sentences accumulated for this chunk

	emit := func() {
		all := append(append([]string{}, tail...), current...)
		content := strings.Join(all, " ")
		if len(content) >= c.minSize {
			chunks = append(chunks, c.newChunk(doc, content, len(chunks), extra))
		}
	}

	for _, sentence := range sentences {
		current = append(current, sentence)
		if joinedLen(current) >= c.targetSize {
			emit()
			tail = c.overlapTail(current)
			current = nil
		}
	}

	if len(current) > 0 {
		emit()
	}

	return chunks
}

// overlapTail walks accumulated sentences backward until the target
// overlap length is reached, preserving continuity across boundaries.
func (c *Chunker) overlapTail(sentences []string) []string {
	if c.overlap == 0 {
		return nil
	}
	total := 0
	i := len(sentences)
	for i > 0 && total < c.overlap {
		i--
		total += len(sentences[i])
	}
	tail := make([]string, len(sentences)-i)
	copy(tail, sentences[i:])
	return tail
}

// newChunk builds a chunk with its context label, importance and
// merged metadata.
func (c *Chunker) newChunk(doc *domain.Document, content string, ordinal int, extra map[string]string) domain.Chunk {
	meta := make(map[string]string, len(doc.Metadata)+len(extra))
	for k, v := range doc.Metadata {
		meta[k] = v
	}
	for k, v := range extra {
		meta[k] = v
	}

	label := doc.Title
	if label == "" {
		label = doc.ID
	}
	if page, ok := extra["page"]; ok {
		label = fmt.Sprintf("%s (page %s)", label, page)
	} else {
		label = fmt.Sprintf("%s (part %d)", label, ordinal+1)
	}

	return domain.Chunk{
		Content:      content,
		ContextLabel: label,
		Importance:   importanceScore(content),
		Metadata:     meta,
	}
}

// normalize unifies line endings and collapses redundant blank lines.
func normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	for strings.Contains(text, "\n\n\n") {
		text = strings.ReplaceAll(text, "\n\n\n", "\n\n")
	}
	return strings.TrimSpace(text)
}

// splitSentences scans for sentence-like units terminated by '.', '!'
// or '?'. Candidates shorter than minSentenceLength keep accumulating,
// which avoids false splits on abbreviations at the cost of merging
// genuinely short sentences.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	for _, r := range text {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			candidate := strings.TrimSpace(current.String())
			if len(candidate) >= minSentenceLength {
				sentences = append(sentences, candidate)
				current.Reset()
			}
		}
	}

	if trailing := strings.TrimSpace(current.String()); trailing != "" {
		sentences = append(sentences, trailing)
	}

	return sentences
}

// joinedLen is the length of sentences once joined with single spaces.
func joinedLen(sentences []string) int {
	if len(sentences) == 0 {
		return 0
	}
	total := len(sentences) - 1
	for _, s := range sentences {
		total += len(s)
	}
	return total
}

// importanceScore estimates chunk importance in [0,1] from word
// diversity, with small boosts for length and salience keywords.
func importanceScore(content string) float64 {
	lower := strings.ToLower(content)
	words := strings.Fields(lower)
	if len(words) == 0 {
		return 0
	}

	unique := make(map[string]struct{}, len(words))
	for _, w := range words {
		unique[w] = struct{}{}
	}
	diversity := float64(len(unique)) / float64(len(words))

	score := diversity * 1.5
	if len(content) > 1000 {
		score += 0.1
	}
	for _, kw := range salienceKeywords {
		if strings.Contains(lower, kw) {
			score += 0.05
		}
	}

	return math.Min(1, score)
}
