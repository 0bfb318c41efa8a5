package driven

import (
	"github.com/tiller-tolbus/packrat/internal/core/domain"
)

// ChunkStore is the durable, file-backed collection of chunk records
// across all files. The on-disk representation and the in-memory
// sequence are equal immediately after every successful Add or load.
//
// The store is owned by exactly one process; there is no locking and
// no multi-writer protocol. Records are never deleted or deduplicated.
type ChunkStore interface {
	// Add appends a chunk and persists the full sequence. Not
	// transactional: a crash between the in-memory append and the
	// rewrite loses the new chunk on the next load.
	Add(chunk domain.Chunk) error

	// Chunks returns every stored chunk, across all files, in insert
	// order.
	Chunks() []domain.Chunk

	// ChunksForFile returns the chunks whose FilePath exactly equals
	// path (paths are stored pre-normalised, so this is a plain string
	// comparison).
	ChunksForFile(path string) []domain.Chunk

	// ChunkedRanges returns the line ranges of the file's chunks,
	// still in 1-indexed storage coordinates.
	ChunkedRanges(path string) []domain.StorageRange

	// CoveragePercentage returns the fraction of the file's lines
	// touched by at least one chunk, in [0, 100]. Overlap never
	// double-counts.
	CoveragePercentage(path string, totalLines int) float64

	// Path returns the backing file path.
	Path() string
}
