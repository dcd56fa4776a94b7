package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/haldane-labs/memora/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/haldane-labs/memora/internal/core/domain"
	"github.com/haldane-labs/memora/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.MemoryStore = (*Store)(nil)

// Store is a SQLite-backed memory store. Entries carry an embedding
// computed at write time; retrieval embeds the query and ranks by
// cosine similarity.
type Store struct {
	db       *sql.DB
	path     string
	embedder driven.Embedder
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.memora/data/memories.db.
func NewStore(dataDir string, embedder driven.Embedder) (*Store, error) {
	if embedder == nil {
		return nil, fmt.Errorf("sqlite store: %w: embedder is required", domain.ErrInvalidInput)
	}

	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".memora", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "memories.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:       db,
		path:     dbPath,
		embedder: embedder,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// StoreMemory embeds and persists a memory entry, returning its ID.
func (s *Store) StoreMemory(ctx context.Context, content, scopeID, contentType string,
	importance float64, tags []string) (string, error) {
	embedding, err := s.embedder.Embed(ctx, content)
	if err != nil {
		return "", fmt.Errorf("embedding memory: %w", err)
	}

	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("marshalling tags: %w", err)
	}

	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO memories (id, scope_id, content, content_type, importance, tags, embedding, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, id, scopeID, content, contentType, importance, string(tagsJSON),
		float32SliceToBytes(embedding.Vector), time.Now().UTC())

	if err != nil {
		return "", fmt.Errorf("saving memory: %w", err)
	}
	return id, nil
}

// RetrieveRelevantMemories returns entries in a scope ranked by cosine
// similarity against the query, most similar first.
func (s *Store) RetrieveRelevantMemories(ctx context.Context, query, scopeID string,
	limit int, threshold float64) ([]driven.MemoryCandidate, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, scope_id, content, content_type, importance, tags, embedding, created_at
		FROM memories WHERE scope_id = ?
	`, scopeID)
	if err != nil {
		return nil, fmt.Errorf("querying memories: %w", err)
	}
	defer rows.Close()

	return s.rank(ctx, rows, query, limit, threshold)
}

// SearchAllMemories returns entries across every scope ranked by cosine
// similarity against the query, most similar first.
func (s *Store) SearchAllMemories(ctx context.Context, query string,
	limit int, threshold float64) ([]driven.MemoryCandidate, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, scope_id, content, content_type, importance, tags, embedding, created_at
		FROM memories
	`)
	if err != nil {
		return nil, fmt.Errorf("querying memories: %w", err)
	}
	defer rows.Close()

	return s.rank(ctx, rows, query, limit, threshold)
}

// rank scores scanned rows against the query embedding, filters by
// threshold and returns the top candidates.
func (s *Store) rank(ctx context.Context, rows *sql.Rows, query string, limit int, threshold float64) ([]driven.MemoryCandidate, error) {
	queryEmbedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	var candidates []driven.MemoryCandidate //nolint:prealloc // size unknown from query
	for rows.Next() {
		candidate, vector, err := scanMemory(rows)
		if err != nil {
			return nil, err
		}

		candidate.Similarity = cosineSimilarity(queryEmbedding.Vector, vector)
		if candidate.Similarity < threshold {
			continue
		}
		candidates = append(candidates, *candidate)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating memories: %w", err)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Similarity > candidates[j].Similarity
	})
	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// scanMemory scans a memory row, returning the candidate and its stored
// embedding vector.
func scanMemory(rows *sql.Rows) (*driven.MemoryCandidate, []float32, error) {
	var candidate driven.MemoryCandidate
	var scopeID, tagsJSON string
	var embeddingBlob []byte

	if err := rows.Scan(&candidate.ID, &scopeID, &candidate.Content, &candidate.ContentType,
		&candidate.Importance, &tagsJSON, &embeddingBlob, &candidate.CreatedAt); err != nil {
		return nil, nil, fmt.Errorf("scanning memory: %w", err)
	}

	if tagsJSON != "" {
		if err := json.Unmarshal([]byte(tagsJSON), &candidate.Tags); err != nil {
			return nil, nil, fmt.Errorf("unmarshaling tags: %w", err)
		}
	}

	return &candidate, bytesToFloat32Slice(embeddingBlob), nil
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}

// cosineSimilarity computes the cosine of the angle between two vectors.
// Mismatched or zero vectors score 0.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
