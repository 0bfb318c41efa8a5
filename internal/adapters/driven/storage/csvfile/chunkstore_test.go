package csvfile_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tiller-tolbus/packrat/internal/adapters/driven/storage/csvfile"
	"github.com/tiller-tolbus/packrat/internal/core/domain"
)

func testChunk(id, path string, start, end domain.StorageLine, content string) domain.Chunk {
	return domain.Chunk{
		ID:        id,
		FilePath:  path,
		StartLine: start,
		EndLine:   end,
		Content:   content,
		Timestamp: 1700000000,
	}
}

func TestChunkStore_OpenOrCreate(t *testing.T) {
	t.Parallel()

	t.Run("starts empty when file does not exist", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "nested", "dir", "chunks.csv")
		store, err := csvfile.OpenOrCreate(path)

		require.NoError(t, err)
		assert.Empty(t, store.Chunks())
		assert.Equal(t, path, store.Path())

		// Parent directories were created so the first Add succeeds.
		require.NoError(t, store.Add(testChunk("a", "f.txt", 1, 2, "x\ny")))
	})

	t.Run("loads existing records", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "chunks.csv")
		store, err := csvfile.OpenOrCreate(path)
		require.NoError(t, err)
		require.NoError(t, store.Add(testChunk("a", "f.txt", 1, 5, "content")))
		require.NoError(t, store.Add(testChunk("b", "g.txt", 3, 4, "other")))

		loaded, err := csvfile.OpenOrCreate(path)
		require.NoError(t, err)
		require.Len(t, loaded.Chunks(), 2)
		assert.Equal(t, store.Chunks(), loaded.Chunks())
	})

	t.Run("fails the whole load on a malformed record", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "chunks.csv")
		content := `"a","f.txt","1","5","content","1700000000","false",""
"b","g.txt","not-a-number","4","other","1700000000","false",""
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		_, err := csvfile.OpenOrCreate(path)
		assert.ErrorIs(t, err, domain.ErrMalformedStore)
	})

	t.Run("fails on wrong field count", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "chunks.csv")
		require.NoError(t, os.WriteFile(path, []byte(`"a","f.txt","1"`+"\n"), 0o644))

		_, err := csvfile.OpenOrCreate(path)
		assert.ErrorIs(t, err, domain.ErrMalformedStore)
	})

	t.Run("fails on an unquoted field", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "chunks.csv")
		content := `a,"f.txt","1","5","content","1700000000","false",""` + "\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		_, err := csvfile.OpenOrCreate(path)
		assert.ErrorIs(t, err, domain.ErrMalformedStore)
	})

	t.Run("fails on an unterminated quote", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "chunks.csv")
		require.NoError(t, os.WriteFile(path, []byte(`"a","f.txt`), 0o644))

		_, err := csvfile.OpenOrCreate(path)
		assert.ErrorIs(t, err, domain.ErrMalformedStore)
	})

	t.Run("fails on inverted line range", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "chunks.csv")
		content := `"a","f.txt","5","1","content","1700000000","false",""` + "\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		_, err := csvfile.OpenOrCreate(path)
		assert.ErrorIs(t, err, domain.ErrMalformedStore)
	})
}

func TestChunkStore_RoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "chunks.csv")
	store, err := csvfile.OpenOrCreate(path)
	require.NoError(t, err)

	// Content mixing newlines, escaped quotes, commas, tabs and
	// trailing whitespace must survive byte for byte.
	content := "First line\nSecond with \"quotes\"\nThird, with, commas\n\ttabbed\ntrailing spaces   \n"
	chunk := domain.Chunk{
		ID:        "id-1",
		FilePath:  "docs/readme.md",
		StartLine: 3,
		EndLine:   8,
		Content:   content,
		Timestamp: 1700000042,
		Edited:    true,
		Labels:    []string{"intro", "has, comma", "spaced label"},
	}
	require.NoError(t, store.Add(chunk))

	loaded, err := csvfile.OpenOrCreate(path)
	require.NoError(t, err)
	require.Len(t, loaded.Chunks(), 1)
	assert.Equal(t, chunk, loaded.Chunks()[0])
}

func TestChunkStore_RoundTrip_CarriageReturns(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "chunks.csv")
	store, err := csvfile.OpenOrCreate(path)
	require.NoError(t, err)

	// CRLF line endings inside the content must not be rewritten to
	// bare LF on load.
	chunk := testChunk("crlf", "dos.txt", 1, 2, "first\r\nsecond\r")
	require.NoError(t, store.Add(chunk))

	loaded, err := csvfile.OpenOrCreate(path)
	require.NoError(t, err)
	require.Len(t, loaded.Chunks(), 1)
	assert.Equal(t, "first\r\nsecond\r", loaded.Chunks()[0].Content)
	assert.Equal(t, chunk, loaded.Chunks()[0])
}

func TestChunkStore_AlwaysQuotesFields(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "chunks.csv")
	store, err := csvfile.OpenOrCreate(path)
	require.NoError(t, err)
	require.NoError(t, store.Add(testChunk("plain", "f.txt", 1, 1, "plain")))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	line := strings.TrimRight(string(raw), "\n")
	assert.Equal(t, `"plain","f.txt","1","1","plain","1700000000","false",""`, line,
		"fields that need no quoting are quoted anyway")
}

func TestChunkStore_EmptyLabels(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "chunks.csv")
	store, err := csvfile.OpenOrCreate(path)
	require.NoError(t, err)
	require.NoError(t, store.Add(testChunk("a", "f.txt", 1, 1, "x")))

	loaded, err := csvfile.OpenOrCreate(path)
	require.NoError(t, err)
	assert.Nil(t, loaded.Chunks()[0].Labels, "empty labels load as none, not one empty label")
}

func TestChunkStore_RejectsInvalidChunk(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "chunks.csv")
	store, err := csvfile.OpenOrCreate(path)
	require.NoError(t, err)

	err = store.Add(testChunk("bad", "f.txt", 0, 4, "x"))
	assert.ErrorIs(t, err, domain.ErrInvalidRange)
	assert.Empty(t, store.Chunks())
}

func TestChunkStore_ChunksForFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "chunks.csv")
	store, err := csvfile.OpenOrCreate(path)
	require.NoError(t, err)

	require.NoError(t, store.Add(testChunk("a", "one.txt", 1, 5, "1")))
	require.NoError(t, store.Add(testChunk("b", "one.txt", 10, 15, "2")))
	require.NoError(t, store.Add(testChunk("c", "two.txt", 1, 5, "3")))

	assert.Len(t, store.ChunksForFile("one.txt"), 2)
	assert.Len(t, store.ChunksForFile("two.txt"), 1)
	assert.Empty(t, store.ChunksForFile("three.txt"))

	ranges := store.ChunkedRanges("one.txt")
	assert.Equal(t, []domain.StorageRange{{Start: 1, End: 5}, {Start: 10, End: 15}}, ranges)
}

func TestChunkStore_CoveragePercentage(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "chunks.csv")
	store, err := csvfile.OpenOrCreate(path)
	require.NoError(t, err)

	assert.Zero(t, store.CoveragePercentage("f.txt", 100))

	// Lines 1-10 and 21-30: 20 of 100.
	require.NoError(t, store.Add(testChunk("a", "f.txt", 1, 10, "1")))
	require.NoError(t, store.Add(testChunk("b", "f.txt", 21, 30, "2")))
	assert.InDelta(t, 20.0, store.CoveragePercentage("f.txt", 100), 0.001)

	// Overlapping chunk over 6-16 adds only the six uncovered lines.
	require.NoError(t, store.Add(testChunk("c", "f.txt", 6, 16, "3")))
	assert.InDelta(t, 26.0, store.CoveragePercentage("f.txt", 100), 0.001)

	// A chunk past the end of the file clamps.
	assert.InDelta(t, 100.0, store.CoveragePercentage("f.txt", 5), 0.001)
	assert.Zero(t, store.CoveragePercentage("f.txt", 0))
}

func TestChunkStore_OverlappingChunksNeverMerge(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "chunks.csv")
	store, err := csvfile.OpenOrCreate(path)
	require.NoError(t, err)

	require.NoError(t, store.Add(testChunk("a", "f.txt", 1, 4, "same")))
	require.NoError(t, store.Add(testChunk("b", "f.txt", 1, 4, "same")))

	loaded, err := csvfile.OpenOrCreate(path)
	require.NoError(t, err)
	assert.Len(t, loaded.ChunksForFile("f.txt"), 2, "re-saving the same range creates a distinct record")
}
