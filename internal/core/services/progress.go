package services

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tiller-tolbus/packrat/internal/core/ports/driven"
	"github.com/tiller-tolbus/packrat/internal/core/ports/driving"
)

// Ensure ProgressService implements the interface.
var _ driving.ProgressService = (*ProgressService)(nil)

// ProgressService reports per-file chunking progress. The explorer
// reads only the coverage percentage; it never touches chunk content.
type ProgressService struct {
	store   driven.ChunkStore
	rootDir string
}

// NewProgressService creates a progress service over the given store.
func NewProgressService(store driven.ChunkStore, rootDir string) *ProgressService {
	return &ProgressService{store: store, rootDir: rootDir}
}

// CoverageForFile returns the chunk coverage percentage for the file
// at the given path. A file with no chunks reports 0 without reading
// it.
func (s *ProgressService) CoverageForFile(path string) (float64, error) {
	rel := s.relativePath(path)
	if len(s.store.ChunksForFile(rel)) == 0 {
		return 0.0, nil
	}

	lines, err := readLines(path)
	if err != nil {
		return 0.0, fmt.Errorf("reading %s: %w", path, err)
	}
	return s.store.CoveragePercentage(rel, len(lines)), nil
}

func (s *ProgressService) relativePath(path string) string {
	p := filepath.ToSlash(filepath.Clean(path))
	root := filepath.ToSlash(filepath.Clean(s.rootDir))
	if root != "" && root != "." && strings.HasPrefix(p, root+"/") {
		return strings.TrimPrefix(p, root+"/")
	}
	return p
}
