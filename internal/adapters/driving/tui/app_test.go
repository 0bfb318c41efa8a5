package tui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tiller-tolbus/packrat/internal/adapters/driven/storage/memory"
	"github.com/tiller-tolbus/packrat/internal/adapters/driving/tui/messages"
	"github.com/tiller-tolbus/packrat/internal/core/services"
)

// wordTokenizer keeps token figures deterministic in tests.
type wordTokenizer struct{}

func (wordTokenizer) Count(text string) int {
	if text == "" {
		return 0
	}
	return len(strings.Fields(text))
}

func newTestApp(t *testing.T) (*App, string) {
	t.Helper()

	root := t.TempDir()
	path := filepath.Join(root, "notes.txt")
	content := "alpha one\nbeta two\ngamma three\ndelta four\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	store := memory.NewChunkStore()
	ports := &Ports{
		Chunking: services.NewChunkingService(store, wordTokenizer{}, root, 8192),
		Progress: services.NewProgressService(store, root),
	}

	app, err := NewApp(ports, root)
	require.NoError(t, err)
	app.SetDimensions(100, 30)
	return app, path
}

// openFile drives the app through the select/open message exchange the
// explorer would produce.
func openFile(t *testing.T, app *App, path string) {
	t.Helper()

	_, cmd := app.Update(messages.FileSelected{Path: path})
	require.NotNil(t, cmd)
	_, cmd = app.Update(cmd())
	if cmd != nil {
		cmd()
	}
	require.Equal(t, messages.ViewViewer, app.CurrentView())
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestNewApp_RequiresServices(t *testing.T) {
	t.Parallel()

	_, err := NewApp(&Ports{}, t.TempDir())
	assert.ErrorIs(t, err, ErrMissingChunkingService)
}

func TestNewApp_StartsInExplorer(t *testing.T) {
	app, _ := newTestApp(t)

	assert.Equal(t, messages.ViewExplorer, app.CurrentView())
	assert.True(t, app.Ready())
}

func TestApp_OpenFileSwitchesToViewer(t *testing.T) {
	app, path := newTestApp(t)

	openFile(t, app, path)
	assert.Contains(t, app.View(), "notes.txt")
	assert.Contains(t, app.View(), "alpha one")
}

func TestApp_OpenMissingFileReportsError(t *testing.T) {
	app, _ := newTestApp(t)

	_, cmd := app.Update(messages.FileSelected{Path: "/nonexistent/nope.txt"})
	require.NotNil(t, cmd)
	app.Update(cmd())

	assert.Error(t, app.Err())
	assert.Equal(t, messages.ViewExplorer, app.CurrentView())
}

func TestApp_HelpToggle(t *testing.T) {
	app, _ := newTestApp(t)

	app.Update(keyMsg("?"))
	assert.Equal(t, messages.ViewHelp, app.CurrentView())
	assert.Contains(t, app.View(), "Keyboard Shortcuts")

	app.Update(keyMsg("?"))
	assert.Equal(t, messages.ViewExplorer, app.CurrentView())
}

func TestApp_AnyKeyClosesHelp(t *testing.T) {
	app, _ := newTestApp(t)

	app.Update(keyMsg("?"))
	app.Update(keyMsg("x"))
	assert.Equal(t, messages.ViewExplorer, app.CurrentView())
}

func TestApp_QuitFromExplorer(t *testing.T) {
	app, _ := newTestApp(t)

	_, cmd := app.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_CtrlCQuitsEverywhere(t *testing.T) {
	app, path := newTestApp(t)
	openFile(t, app, path)

	_, cmd := app.Update(keyMsg("ctrl+c"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_SaveSelectionFlow(t *testing.T) {
	app, path := newTestApp(t)
	openFile(t, app, path)

	app.Update(keyMsg(" "))
	app.Update(keyMsg("j"))
	app.Update(keyMsg("s"))

	// Typing goes to the label prompt, not the view keymap.
	for _, r := range "intro" {
		app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	_, cmd := app.Update(keyMsg("enter"))
	require.NotNil(t, cmd)
	_, cmd = app.Update(cmd())
	if cmd != nil {
		cmd()
	}

	require.NotNil(t, app.ports.Chunking.Document())
	assert.True(t, app.ports.Chunking.IsLineChunked(0))
	assert.True(t, app.ports.Chunking.IsLineChunked(1))
	assert.False(t, app.ports.Chunking.IsLineChunked(2))
	assert.InDelta(t, 50.0, app.ports.Chunking.Coverage(), 0.01)
}

func TestApp_EditFlow(t *testing.T) {
	app, path := newTestApp(t)
	openFile(t, app, path)

	app.Update(keyMsg(" "))
	_, cmd := app.Update(keyMsg("e"))
	require.NotNil(t, cmd)
	app.Update(cmd())
	require.Equal(t, messages.ViewEditor, app.CurrentView())

	app.Update(messages.EditApplied{Lines: []string{"rewritten line"}})
	assert.Equal(t, messages.ViewViewer, app.CurrentView())
	assert.Equal(t, "rewritten line", app.ports.Chunking.Document().Line(0))
	assert.True(t, app.ports.Chunking.Document().Edited())
}

func TestApp_EditCancelReturnsToViewer(t *testing.T) {
	app, path := newTestApp(t)
	openFile(t, app, path)

	app.Update(keyMsg(" "))
	_, cmd := app.Update(keyMsg("e"))
	require.NotNil(t, cmd)
	app.Update(cmd())

	app.Update(messages.EditCancelled{})
	assert.Equal(t, messages.ViewViewer, app.CurrentView())
	assert.Equal(t, "alpha one", app.ports.Chunking.Document().Line(0))
}

func TestApp_EscReturnsToExplorer(t *testing.T) {
	app, path := newTestApp(t)
	openFile(t, app, path)

	_, cmd := app.Update(keyMsg("esc"))
	require.NotNil(t, cmd)
	app.Update(cmd())
	assert.Equal(t, messages.ViewExplorer, app.CurrentView())
}

func TestApp_FileChangedOnDiskReloads(t *testing.T) {
	app, path := newTestApp(t)
	openFile(t, app, path)

	require.NoError(t, os.WriteFile(path, []byte("fresh content\n"), 0o600))
	app.Update(messages.FileChangedOnDisk{Path: path})

	assert.Equal(t, "fresh content", app.ports.Chunking.Document().Line(0))
	assert.Contains(t, app.StatusBar().View(), "reloaded")
}

func TestApp_ErrorOccurredShownInStatusBar(t *testing.T) {
	app, _ := newTestApp(t)

	app.Update(messages.ErrorOccurred{Err: errors.New("watch failed")})
	assert.Contains(t, app.StatusBar().View(), "watch failed")
}

func TestApp_ViewBeforeSizeReportsInitialising(t *testing.T) {
	root := t.TempDir()
	store := memory.NewChunkStore()
	ports := &Ports{
		Chunking: services.NewChunkingService(store, wordTokenizer{}, root, 8192),
		Progress: services.NewProgressService(store, root),
	}
	app, err := NewApp(ports, root)
	require.NoError(t, err)

	assert.Contains(t, app.View(), "Initialising")
}
