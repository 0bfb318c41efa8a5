// Package memory provides in-memory driven-port implementations for
// tests and ephemeral sessions.
package memory

import (
	"github.com/tiller-tolbus/packrat/internal/core/domain"
	"github.com/tiller-tolbus/packrat/internal/core/ports/driven"
)

// Ensure ChunkStore implements the interface.
var _ driven.ChunkStore = (*ChunkStore)(nil)

// ChunkStore is an in-memory implementation of driven.ChunkStore.
// Nothing is persisted; the record sequence lives for the process.
type ChunkStore struct {
	chunks []domain.Chunk
}

// NewChunkStore creates a new in-memory chunk store.
func NewChunkStore() *ChunkStore {
	return &ChunkStore{}
}

// Add appends a chunk to the sequence.
func (s *ChunkStore) Add(chunk domain.Chunk) error {
	if err := chunk.Validate(); err != nil {
		return err
	}
	s.chunks = append(s.chunks, chunk)
	return nil
}

// Chunks returns every stored chunk in insert order.
func (s *ChunkStore) Chunks() []domain.Chunk {
	return s.chunks
}

// ChunksForFile returns the chunks stored for the given relative path.
func (s *ChunkStore) ChunksForFile(path string) []domain.Chunk {
	var out []domain.Chunk
	for _, c := range s.chunks {
		if c.FilePath == path {
			out = append(out, c)
		}
	}
	return out
}

// ChunkedRanges returns the line ranges of the file's chunks in
// storage coordinates.
func (s *ChunkStore) ChunkedRanges(path string) []domain.StorageRange {
	var out []domain.StorageRange
	for _, c := range s.chunks {
		if c.FilePath == path {
			out = append(out, domain.StorageRange{Start: c.StartLine, End: c.EndLine})
		}
	}
	return out
}

// CoveragePercentage returns the percentage of the file's lines
// covered by at least one chunk.
func (s *ChunkStore) CoveragePercentage(path string, totalLines int) float64 {
	return domain.NewRangeSet(s.ChunksForFile(path)).Coverage(totalLines)
}

// Path returns the pseudo-path of the store.
func (s *ChunkStore) Path() string {
	return ":memory:"
}
