package services

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tiller-tolbus/packrat/internal/core/domain"
)

func TestCoverageForFile_NoChunks(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	path := writeTestFile(t, root, "plain.txt", 10)

	svc := NewProgressService(&fakeStore{}, root)
	coverage, err := svc.CoverageForFile(path)
	require.NoError(t, err)
	assert.Zero(t, coverage)
}

func TestCoverageForFile_ReportsPercentage(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	path := writeTestFile(t, root, "covered.txt", 10)

	store := &fakeStore{}
	require.NoError(t, store.Add(domain.Chunk{
		ID:        "chunk-1",
		FilePath:  "covered.txt",
		StartLine: 1,
		EndLine:   4,
		Content:   "line 1\nline 2\nline 3\nline 4",
		Timestamp: 1,
	}))

	svc := NewProgressService(store, root)
	coverage, err := svc.CoverageForFile(path)
	require.NoError(t, err)
	assert.InDelta(t, 40.0, coverage, 0.01)
}

func TestCoverageForFile_MissingFileWithChunks(t *testing.T) {
	t.Parallel()

	root := t.TempDir()

	store := &fakeStore{}
	require.NoError(t, store.Add(domain.Chunk{
		ID:        "chunk-1",
		FilePath:  "gone.txt",
		StartLine: 1,
		EndLine:   2,
		Content:   "x",
		Timestamp: 1,
	}))

	svc := NewProgressService(store, root)
	_, err := svc.CoverageForFile(filepath.Join(root, "gone.txt"))
	assert.Error(t, err)
}

func TestRelativePath(t *testing.T) {
	t.Parallel()

	svc := NewProgressService(&fakeStore{}, "/repo/docs")

	assert.Equal(t, "guide/intro.txt", svc.relativePath("/repo/docs/guide/intro.txt"))
	assert.Equal(t, "/elsewhere/file.txt", svc.relativePath("/elsewhere/file.txt"))
}
