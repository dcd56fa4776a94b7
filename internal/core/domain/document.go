package domain

import "time"

// DocumentKind classifies document content for chunking dispatch.
type DocumentKind string

// Supported document kinds.
const (
	// KindProse is plain text or markdown prose.
	KindProse DocumentKind = "prose"

	// KindCode is source code in any language.
	KindCode DocumentKind = "code"

	// KindConversation is a transcript of blank-line-delimited turns.
	KindConversation DocumentKind = "conversation"
)

// Valid reports whether the kind is one of the supported values.
func (k DocumentKind) Valid() bool {
	switch k {
	case KindProse, KindCode, KindConversation:
		return true
	}
	return false
}

// Document is a raw document handed to the ingestion pipeline.
// Documents are not persisted themselves; only their chunks are.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Title is the human-readable title.
	Title string

	// Content is the full text content.
	Content string

	// Kind selects the chunking algorithm.
	Kind DocumentKind

	// ScopeID is the conversation or topic the document belongs to.
	// It is required: ingestion without a scope is rejected outright
	// so chunks can never leak across conversations.
	ScopeID string

	// Pages holds ordered page texts when the document has page
	// structure. When non-empty the page-aware chunking variant is used.
	Pages []string

	// Metadata contains arbitrary key-value pairs carried onto chunks.
	Metadata map[string]string

	// CreatedAt is when the document was produced.
	CreatedAt time.Time
}
