package driving

import (
	"github.com/tiller-tolbus/packrat/internal/core/domain"
)

// SaveResult reports a successful chunk save. Overlap is a warning
// signal, never an error: overlapping chunks are permitted and the
// store never merges them.
type SaveResult struct {
	// ChunkID is the identifier of the newly persisted chunk.
	ChunkID string

	// Overlap is true if the saved range shares lines with a
	// previously chunked range of the same file.
	Overlap bool
}

// ChunkingService is the orchestrator over the open document, its
// chunked-range index and the chunk store. All operations are
// synchronous and complete on the calling goroutine.
type ChunkingService interface {
	// Open loads the file at path, replacing any previously open
	// document, and rebuilds the chunked-range index from the store.
	Open(path string) error

	// Document returns the currently open document, or nil.
	Document() *domain.Document

	// SaveSelection persists the current selection as a chunk with the
	// given labels, updates the range index and clears the selection.
	// Fails with domain.ErrNoSelection or domain.ErrInvalidRange.
	SaveSelection(labels []string) (SaveResult, error)

	// UpdateSelectedContent replaces the selected lines with edited
	// content, maintaining the range index under the line-count
	// change. Returns false if there is no valid selection.
	UpdateSelectedContent(lines []string) bool

	// IsLineChunked reports whether the line belongs to a saved chunk
	// of the open file.
	IsLineChunked(line domain.ViewerLine) bool

	// SelectionOverlaps reports whether the current selection overlaps
	// an already chunked range.
	SelectionOverlaps() bool

	// Coverage returns the chunk coverage percentage of the open file.
	Coverage() float64

	// SelectionTokenCount returns the token count of the selected
	// text. The second result is false if there is no selection.
	SelectionTokenCount() (int, bool)

	// TotalTokenCount returns the token count of the whole working
	// document.
	TotalTokenCount() int

	// TokenBudget returns the configured advisory maximum tokens per
	// chunk.
	TokenBudget() int
}

// ProgressService reports per-file chunking progress for display.
type ProgressService interface {
	// CoverageForFile returns the chunk coverage percentage for the
	// file at the given absolute path.
	CoverageForFile(path string) (float64, error)
}
