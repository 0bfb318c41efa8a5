package explorer

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tiller-tolbus/packrat/internal/adapters/driving/tui/messages"
	"github.com/tiller-tolbus/packrat/internal/adapters/driving/tui/styles"
)

// stubProgress serves fixed coverage percentages keyed by path and
// counts how often each path is queried.
type stubProgress struct {
	coverage map[string]float64
	calls    map[string]int
}

func (s *stubProgress) CoverageForFile(path string) (float64, error) {
	if s.calls == nil {
		s.calls = make(map[string]int)
	}
	s.calls[path]++
	return s.coverage[path], nil
}

// newTestTree builds root/{alpha,beta}/ and root/{notes.txt,zebra.txt}.
func newTestTree(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "beta"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(root, "alpha"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "zebra.txt"), []byte("z\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("n\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "alpha", "inner.txt"), []byte("i\n"), 0o644))
	return root
}

func newTestView(t *testing.T, root string, progress *stubProgress) *View {
	t.Helper()

	if progress == nil {
		progress = &stubProgress{}
	}
	v, err := NewView(styles.DefaultStyles(), progress, root)
	require.NoError(t, err)
	return v
}

func keyMsg(s string) tea.KeyMsg {
	if s == "enter" {
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewView_SortsDirectoriesFirst(t *testing.T) {
	root := newTestTree(t)
	v := newTestView(t, root, nil)

	entries := v.Entries()
	require.Len(t, entries, 4)
	assert.Equal(t, "alpha", entries[0].Name)
	assert.True(t, entries[0].IsDir)
	assert.Equal(t, "beta", entries[1].Name)
	assert.Equal(t, "notes.txt", entries[2].Name)
	assert.Equal(t, "zebra.txt", entries[3].Name)
}

func TestNewView_MissingRoot(t *testing.T) {
	_, err := NewView(styles.DefaultStyles(), &stubProgress{}, filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}

func TestView_SelectionClamping(t *testing.T) {
	root := newTestTree(t)
	v := newTestView(t, root, nil)

	v, _ = v.Update(keyMsg("k"))
	assert.Equal(t, 0, v.Selected(), "cannot move above first entry")

	for range [10]int{} {
		v, _ = v.Update(keyMsg("j"))
	}
	assert.Equal(t, len(v.Entries())-1, v.Selected(), "cannot move past last entry")

	v, _ = v.Update(keyMsg("g"))
	assert.Equal(t, 0, v.Selected())

	v, _ = v.Update(keyMsg("G"))
	assert.Equal(t, len(v.Entries())-1, v.Selected())
}

func TestView_OpenDirectoryDescends(t *testing.T) {
	root := newTestTree(t)
	v := newTestView(t, root, nil)

	// First entry is the alpha directory.
	v, cmd := v.Update(keyMsg("enter"))
	assert.Nil(t, cmd)
	assert.Equal(t, filepath.Join(root, "alpha"), v.CurrentDir())

	// Inside a subdirectory the first entry leads back up.
	entries := v.Entries()
	require.NotEmpty(t, entries)
	assert.Equal(t, "..", entries[0].Name)
}

func TestView_ParentClampedToRoot(t *testing.T) {
	root := newTestTree(t)
	v := newTestView(t, root, nil)

	v, _ = v.Update(keyMsg("h"))
	assert.Equal(t, root, v.CurrentDir(), "cannot navigate above the root")

	v, _ = v.Update(keyMsg("enter"))
	require.Equal(t, filepath.Join(root, "alpha"), v.CurrentDir())

	v, _ = v.Update(keyMsg("h"))
	assert.Equal(t, root, v.CurrentDir())
}

func TestView_OpenFileEmitsFileSelected(t *testing.T) {
	root := newTestTree(t)
	v := newTestView(t, root, nil)

	// Move to notes.txt (third entry).
	v, _ = v.Update(keyMsg("j"))
	v, _ = v.Update(keyMsg("j"))
	v, cmd := v.Update(keyMsg("enter"))
	require.NotNil(t, cmd)

	msg := cmd()
	selected, ok := msg.(messages.FileSelected)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "notes.txt"), selected.Path)
}

func TestView_ShowsCoverage(t *testing.T) {
	root := newTestTree(t)
	progress := &stubProgress{coverage: map[string]float64{
		filepath.Join(root, "notes.txt"): 40.0,
	}}
	v := newTestView(t, root, progress)
	v.SetDimensions(80, 24)

	out := v.View()
	assert.Contains(t, out, "notes.txt  (40%)")
	assert.NotContains(t, out, "zebra.txt  (")
}

func TestView_CachesCoverageAcrossNavigation(t *testing.T) {
	root := newTestTree(t)
	progress := &stubProgress{coverage: map[string]float64{
		filepath.Join(root, "notes.txt"): 40.0,
	}}
	v := newTestView(t, root, progress)

	notes := filepath.Join(root, "notes.txt")
	require.Equal(t, 1, progress.calls[notes])

	// Descending into a directory and coming back reuses the cache
	// instead of rescanning every file.
	v, _ = v.Update(keyMsg("enter"))
	v, _ = v.Update(keyMsg("h"))
	assert.Equal(t, 1, progress.calls[notes])

	entries := v.Entries()
	require.Len(t, entries, 4)
	assert.Equal(t, 40.0, entries[2].Coverage)

	// Refresh drops the cache so new chunk saves show up.
	progress.coverage[notes] = 60.0
	v.Refresh()
	assert.Equal(t, 2, progress.calls[notes])
	assert.Equal(t, 60.0, v.Entries()[2].Coverage)
}

func TestView_RendersBreadcrumbAndEntries(t *testing.T) {
	root := newTestTree(t)
	v := newTestView(t, root, nil)
	v.SetDimensions(80, 24)

	out := v.View()
	assert.Contains(t, out, "Packrat")
	assert.Contains(t, out, "alpha")
	assert.Contains(t, out, "zebra.txt")
}
