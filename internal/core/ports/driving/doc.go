// Package driving provides interfaces for application entry points
// (primary/inbound ports). The CLI adapter talks to the core through
// these interfaces only.
package driving
