package services

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tiller-tolbus/packrat/internal/core/domain"
	"github.com/tiller-tolbus/packrat/internal/core/ports/driven"
	"github.com/tiller-tolbus/packrat/internal/core/ports/driving"
)

// Ensure ChunkingService implements the interface.
var _ driving.ChunkingService = (*ChunkingService)(nil)

// maxLineSize is the scanner buffer limit when reading files. Lines
// longer than this fail the open rather than being silently split.
const maxLineSize = 10 * 1024 * 1024

// ChunkingService orchestrates the open document, its chunked-range
// index and the chunk store. One instance manages at most one open
// file at a time; opening a different file fully replaces the
// document and rebuilds the index.
type ChunkingService struct {
	store     driven.ChunkStore
	tokenizer driven.Tokenizer
	rootDir   string
	maxTokens int

	doc   *domain.Document
	index *domain.RangeSet
}

// NewChunkingService creates a chunking service. rootDir is the root
// chunk file paths are stored relative to; maxTokens is the advisory
// per-chunk token budget.
func NewChunkingService(store driven.ChunkStore, tokenizer driven.Tokenizer, rootDir string, maxTokens int) *ChunkingService {
	return &ChunkingService{
		store:     store,
		tokenizer: tokenizer,
		rootDir:   rootDir,
		maxTokens: maxTokens,
	}
}

// Open loads the file at path, replacing any previously open document,
// and rebuilds the chunked-range index from the store.
func (s *ChunkingService) Open(path string) error {
	lines, err := readLines(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}

	s.doc = domain.NewDocument(path, lines)
	s.index = &domain.RangeSet{}
	for _, r := range s.store.ChunkedRanges(s.relativePath(path)) {
		s.index.Add(r.ToViewer())
	}
	return nil
}

// Document returns the currently open document, or nil.
func (s *ChunkingService) Document() *domain.Document {
	return s.doc
}

// SaveSelection persists the current selection as a chunk. The
// selection's working lines are snapshotted (post-edit if edited),
// the chunk is appended to the store, the range index is extended and
// the selection is cleared. Overlap with existing chunks is reported,
// not rejected.
func (s *ChunkingService) SaveSelection(labels []string) (driving.SaveResult, error) {
	if s.doc == nil {
		return driving.SaveResult{}, domain.ErrNoFileOpen
	}
	r, ok := s.doc.SelectionRange()
	if !ok {
		return driving.SaveResult{}, domain.ErrNoSelection
	}
	if int(r.Start) >= s.doc.Len() || int(r.End) >= s.doc.Len() {
		return driving.SaveResult{}, domain.ErrInvalidRange
	}

	overlap := s.index.Overlaps(r)

	chunk := domain.Chunk{
		ID:        uuid.NewString(),
		FilePath:  s.relativePath(s.doc.Path()),
		StartLine: r.Start.ToStorage(),
		EndLine:   r.End.ToStorage(),
		Content:   strings.Join(s.doc.Slice(r.Start, r.End), "\n"),
		Timestamp: uint64(time.Now().Unix()),
		Edited:    s.doc.Edited(),
		Labels:    labels,
	}

	if err := s.store.Add(chunk); err != nil {
		return driving.SaveResult{}, fmt.Errorf("saving chunk: %w", err)
	}

	s.index.Add(r)
	s.doc.ClearSelection()

	return driving.SaveResult{ChunkID: chunk.ID, Overlap: overlap}, nil
}

// UpdateSelectedContent replaces the selected lines with edited
// content. When the edit changes the line count, index ranges after
// the edit shift and ranges overlapping it are dropped.
func (s *ChunkingService) UpdateSelectedContent(lines []string) bool {
	if s.doc == nil {
		return false
	}
	r, ok := s.doc.SelectionRange()
	if !ok {
		return false
	}

	oldLen := r.Len()
	if !s.doc.ReplaceRange(r.Start, r.End, lines) {
		return false
	}
	if delta := len(lines) - oldLen; delta != 0 {
		s.index.ApplyEdit(r.Start, r.End, delta)
	}
	return true
}

// IsLineChunked reports whether the line belongs to a saved chunk of
// the open file.
func (s *ChunkingService) IsLineChunked(line domain.ViewerLine) bool {
	if s.index == nil {
		return false
	}
	return s.index.ContainsLine(line)
}

// SelectionOverlaps reports whether the current selection overlaps an
// already chunked range.
func (s *ChunkingService) SelectionOverlaps() bool {
	if s.doc == nil || s.index == nil {
		return false
	}
	r, ok := s.doc.SelectionRange()
	if !ok {
		return false
	}
	return s.index.Overlaps(r)
}

// Coverage returns the chunk coverage percentage of the open file.
func (s *ChunkingService) Coverage() float64 {
	if s.doc == nil || s.index == nil {
		return 0.0
	}
	return s.index.Coverage(s.doc.Len())
}

// SelectionTokenCount returns the token count of the selected text.
func (s *ChunkingService) SelectionTokenCount() (int, bool) {
	if s.doc == nil {
		return 0, false
	}
	r, ok := s.doc.SelectionRange()
	if !ok {
		return 0, false
	}
	selected := s.doc.Slice(r.Start, r.End)
	if selected == nil {
		return 0, false
	}
	return s.tokenizer.Count(strings.Join(selected, "\n")), true
}

// TotalTokenCount returns the token count of the whole working
// document.
func (s *ChunkingService) TotalTokenCount() int {
	if s.doc == nil {
		return 0
	}
	return s.tokenizer.Count(strings.Join(s.doc.Lines(), "\n"))
}

// TokenBudget returns the configured advisory token budget per chunk.
func (s *ChunkingService) TokenBudget() int {
	return s.maxTokens
}

// relativePath makes path relative to the configured root when it lies
// under it; otherwise the path is stored unmodified. Stored paths
// always use forward slashes.
func (s *ChunkingService) relativePath(path string) string {
	p := filepath.ToSlash(filepath.Clean(path))
	root := filepath.ToSlash(filepath.Clean(s.rootDir))
	if root != "" && root != "." && strings.HasPrefix(p, root+"/") {
		return strings.TrimPrefix(p, root+"/")
	}
	return p
}

// readLines reads a file as a line sequence using standard line
// splitting.
func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
