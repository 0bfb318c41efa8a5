package tui

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tiller-tolbus/packrat/internal/adapters/driving/tui/components/status"
	"github.com/tiller-tolbus/packrat/internal/adapters/driving/tui/keymap"
	"github.com/tiller-tolbus/packrat/internal/adapters/driving/tui/messages"
	"github.com/tiller-tolbus/packrat/internal/adapters/driving/tui/styles"
	"github.com/tiller-tolbus/packrat/internal/adapters/driving/tui/views/editor"
	"github.com/tiller-tolbus/packrat/internal/adapters/driving/tui/views/explorer"
	"github.com/tiller-tolbus/packrat/internal/adapters/driving/tui/views/viewer"
	"github.com/tiller-tolbus/packrat/internal/core/ports/driven"
)

// fileEventMsg wraps a watcher event for the update loop.
type fileEventMsg struct {
	event driven.FileEvent
}

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services.
	ports *Ports

	// styles holds the TUI styles.
	styles *styles.Styles

	// keymap holds the keybindings.
	keymap *keymap.KeyMap

	// explorerView is the file browser.
	explorerView *explorer.View

	// viewerView is the document view.
	viewerView *viewer.View

	// editorView is the selection editor.
	editorView *editor.View

	// statusBar is the bottom status line.
	statusBar *status.Bar

	// currentView tracks which view is active.
	currentView messages.ViewType

	// previousView is where Back from help returns to.
	previousView messages.ViewType

	// openPath is the absolute path of the open file, if any.
	openPath string

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports, browsing
// from rootDir.
func NewApp(ports *Ports, rootDir string) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	explorerView, err := explorer.NewView(s, ports.Progress, rootDir)
	if err != nil {
		return nil, fmt.Errorf("creating explorer: %w", err)
	}

	return &App{
		ports:        ports,
		styles:       s,
		keymap:       km,
		explorerView: explorerView,
		viewerView:   viewer.NewView(s, ports.Chunking),
		editorView:   editor.NewView(s),
		statusBar:    status.NewBar(s, km),
		currentView:  messages.ViewExplorer,
		previousView: messages.ViewExplorer,
	}, nil
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tea.SetWindowTitle("packrat"),
	}
	if a.ports.Watcher != nil {
		cmds = append(cmds, a.waitForFileEvent())
	}
	return tea.Batch(cmds...)
}

// waitForFileEvent returns a command that blocks on the next watcher
// event.
func (a *App) waitForFileEvent() tea.Cmd {
	events := a.ports.Watcher.Events()
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return fileEventMsg{event: ev}
	}
}

// Update implements tea.Model.
//
//nolint:gocognit,gocyclo // central message handler requires complexity
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.explorerView.SetDimensions(msg.Width, msg.Height-1)
		a.viewerView.SetDimensions(msg.Width, msg.Height-1)
		a.editorView.SetDimensions(msg.Width, msg.Height-1)
		a.statusBar.SetWidth(msg.Width)
		return a, nil

	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case messages.FileSelected:
		return a, a.openFile(msg.Path)

	case messages.FileOpened:
		if msg.Err != nil {
			a.err = msg.Err
			a.statusBar.SetState(status.StateError)
			a.statusBar.SetMessage(msg.Err.Error())
			return a, nil
		}
		a.err = nil
		a.openPath = msg.Path
		a.currentView = messages.ViewViewer
		a.viewerView.Reset()
		a.refreshStatus()
		return a, a.watchOpenFile(msg.Path)

	case messages.ChunkSaved:
		a.viewerView, cmd = a.viewerView.Update(msg)
		if msg.Err == nil {
			a.refreshStatus()
		}
		return a, cmd

	case messages.EditRequested:
		a.currentView = messages.ViewEditor
		a.statusBar.SetState(status.StateEdit)
		return a, tea.Batch(a.editorView.SetContent(msg.Lines), a.editorView.Init())

	case messages.EditApplied:
		a.currentView = messages.ViewViewer
		if !a.ports.Chunking.UpdateSelectedContent(msg.Lines) {
			a.err = errors.New("edit could not be applied")
		}
		a.refreshStatus()
		return a, nil

	case messages.EditCancelled:
		a.currentView = messages.ViewViewer
		a.refreshStatus()
		return a, nil

	case messages.ViewChanged:
		return a.changeView(msg.View)

	case fileEventMsg:
		return a.handleFileEvent(msg.event)

	case messages.FileChangedOnDisk:
		// Reload the document and rebuild the range index from the
		// store. The cursor and selection restart from the top.
		if err := a.ports.Chunking.Open(msg.Path); err != nil {
			a.err = err
			a.statusBar.SetState(status.StateError)
			a.statusBar.SetMessage(err.Error())
			return a, nil
		}
		a.viewerView.Reset()
		a.refreshStatus()
		a.statusBar.SetMessage("File changed on disk, reloaded")
		return a, nil

	case messages.ErrorOccurred:
		a.err = msg.Err
		a.statusBar.SetState(status.StateError)
		a.statusBar.SetMessage(msg.Err.Error())
		return a, nil
	}

	// Forward other messages to the active view.
	switch a.currentView {
	case messages.ViewExplorer:
		a.explorerView, cmd = a.explorerView.Update(msg)
	case messages.ViewViewer:
		a.viewerView, cmd = a.viewerView.Update(msg)
	case messages.ViewEditor:
		a.editorView, cmd = a.editorView.Update(msg)
	case messages.ViewHelp:
		// Help ignores non-key messages.
	}

	return a, cmd
}

// handleKeyMsg routes key presses.
func (a *App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	// Global quit.
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	// The editor and the label prompt own every other key.
	typing := a.currentView == messages.ViewEditor ||
		(a.currentView == messages.ViewViewer && a.viewerView.Prompting())

	if !typing && keymap.Matches(msg.String(), a.keymap.Help) {
		if a.currentView == messages.ViewHelp {
			a.currentView = a.previousView
		} else {
			a.previousView = a.currentView
			a.currentView = messages.ViewHelp
		}
		return a, nil
	}

	switch a.currentView {
	case messages.ViewExplorer:
		if msg.String() == "q" {
			return a, tea.Quit
		}
		a.explorerView, cmd = a.explorerView.Update(msg)
		return a, cmd

	case messages.ViewViewer:
		a.viewerView, cmd = a.viewerView.Update(msg)
		a.refreshTokens()
		return a, cmd

	case messages.ViewEditor:
		a.editorView, cmd = a.editorView.Update(msg)
		return a, cmd

	case messages.ViewHelp:
		// Any key closes help.
		a.currentView = a.previousView
		return a, nil
	}

	return a, nil
}

// changeView switches the active view.
func (a *App) changeView(view messages.ViewType) (tea.Model, tea.Cmd) {
	a.currentView = view
	switch view {
	case messages.ViewExplorer:
		// Refresh coverage figures after saves and reopen visits.
		a.explorerView.Refresh()
		a.statusBar.Clear()
		return a, a.unwatchOpenFile()
	case messages.ViewViewer:
		a.refreshStatus()
	case messages.ViewEditor, messages.ViewHelp:
	}
	return a, nil
}

// openFile opens the selected file through the chunking service.
func (a *App) openFile(path string) tea.Cmd {
	return func() tea.Msg {
		err := a.ports.Chunking.Open(path)
		return messages.FileOpened{Path: path, Err: err}
	}
}

// handleFileEvent reacts to a watcher event and rearms the wait.
func (a *App) handleFileEvent(ev driven.FileEvent) (tea.Model, tea.Cmd) {
	rearm := a.waitForFileEvent()

	if ev.Path != a.openPath {
		return a, rearm
	}

	switch ev.Op {
	case driven.FileModified, driven.FileCreated:
		return a, tea.Batch(rearm, func() tea.Msg {
			return messages.FileChangedOnDisk{Path: ev.Path}
		})
	case driven.FileRemoved:
		a.statusBar.SetState(status.StateError)
		a.statusBar.SetMessage("File removed on disk")
		return a, rearm
	}
	return a, rearm
}

// watchOpenFile starts watching the newly opened file.
func (a *App) watchOpenFile(path string) tea.Cmd {
	if a.ports.Watcher == nil {
		return nil
	}
	return func() tea.Msg {
		if err := a.ports.Watcher.Watch(path); err != nil {
			return messages.ErrorOccurred{Err: err}
		}
		return nil
	}
}

// unwatchOpenFile stops watching the previously open file.
func (a *App) unwatchOpenFile() tea.Cmd {
	path := a.openPath
	a.openPath = ""
	if a.ports.Watcher == nil || path == "" {
		return nil
	}
	return func() tea.Msg {
		if err := a.ports.Watcher.Unwatch(path); err != nil {
			return messages.ErrorOccurred{Err: err}
		}
		return nil
	}
}

// refreshStatus syncs the status bar with the open document.
func (a *App) refreshStatus() {
	a.statusBar.SetState(status.StateView)
	a.statusBar.SetMessage("")
	a.statusBar.SetCoverage(a.ports.Chunking.Coverage())
	a.refreshTokens()
}

// refreshTokens syncs the token report with the current selection.
func (a *App) refreshTokens() {
	doc := a.ports.Chunking.Document()
	if doc == nil {
		return
	}

	selection, hasSelection := a.ports.Chunking.SelectionTokenCount()
	a.statusBar.SetTokens(
		selection,
		a.ports.Chunking.TotalTokenCount(),
		a.ports.Chunking.TokenBudget(),
		hasSelection,
	)
	if hasSelection {
		a.statusBar.SetState(status.StateSelect)
	} else if a.currentView == messages.ViewViewer {
		a.statusBar.SetState(status.StateView)
	}
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewExplorer:
		body = a.explorerView.View()
	case messages.ViewViewer:
		body = a.viewerView.View()
	case messages.ViewEditor:
		body = a.editorView.View()
	case messages.ViewHelp:
		body = a.viewHelp()
	default:
		body = a.explorerView.View()
	}

	return body + "\n" + a.statusBar.View()
}

// viewHelp renders the keybinding reference.
func (a *App) viewHelp() string {
	return a.styles.Title.Render("Keyboard Shortcuts") + `

Explorer:
  j/k, ↑/↓    Move selection
  PgUp/PgDn   Page up/down
  g/G         Jump to top/bottom
  enter/l/→   Open file or directory
  h/←         Parent directory
  q           Quit

Viewer:
  j/k, ↑/↓    Move cursor
  space/v     Start or abandon selection
  s           Save selection as chunk (prompts for labels)
  e           Edit selection
  esc/q       Back to explorer

Editor:
  ctrl+s      Apply changes to the document
  esc         Cancel

Press ? or any key to close help.`
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// StatusBar returns the status bar component.
func (a *App) StatusBar() *status.Bar {
	return a.statusBar
}

// SetDimensions sets the terminal dimensions (for testing).
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.explorerView.SetDimensions(width, height-1)
	a.viewerView.SetDimensions(width, height-1)
	a.editorView.SetDimensions(width, height-1)
	a.statusBar.SetWidth(width)
}
