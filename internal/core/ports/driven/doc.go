// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports).
//
// The core services consume storage and embedding strictly through
// these interfaces; they never decide persistence layout or model
// choice themselves.
package driven
