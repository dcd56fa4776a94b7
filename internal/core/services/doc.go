// Package services implements the core memory operations: ingestion,
// semantic search, diversity selection and context assembly.
//
// Services receive their storage and embedding dependencies through
// constructor injection and talk to them strictly through the driven
// ports. No service holds global state beyond the ingestion pipeline's
// running totals.
package services
