// Package tui provides the interactive terminal user interface for
// packrat. It implements a driving adapter following hexagonal
// architecture principles.
package tui

import (
	"github.com/tiller-tolbus/packrat/internal/core/ports/driven"
	"github.com/tiller-tolbus/packrat/internal/core/ports/driving"
)

// Ports aggregates the port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Chunking drives the open document, selection and chunk saves.
	Chunking driving.ChunkingService

	// Progress supplies per-file coverage for the explorer.
	Progress driving.ProgressService

	// Watcher reports external changes to the open file. Optional;
	// when nil the TUI never offers reloads.
	Watcher driven.FileWatcher
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Chunking == nil {
		return ErrMissingChunkingService
	}
	if p.Progress == nil {
		return ErrMissingProgressService
	}
	return nil
}
