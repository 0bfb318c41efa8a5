// Package driving defines the interfaces through which the UI and CLI
// drive the core. Services under internal/core/services implement
// them.
package driving
