// Package sqlite provides a persistent SQLite-backed implementation of
// driven.MemoryStore.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO, enabling easy cross-compilation. Memory entries are stored
// with their embedding vectors as little-endian float32 BLOBs and their tags
// as JSON arrays. Retrieval embeds the query through the injected Embedder
// and ranks candidates by cosine similarity.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory.
//
// # Data Location
//
// By default, the database is stored at ~/.memora/data/memories.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking
// provided by SQLite in WAL mode.
package sqlite
