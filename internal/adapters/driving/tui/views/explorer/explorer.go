// Package explorer provides the file browser view component for the TUI.
package explorer

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tiller-tolbus/packrat/internal/adapters/driving/tui/messages"
	"github.com/tiller-tolbus/packrat/internal/adapters/driving/tui/styles"
	"github.com/tiller-tolbus/packrat/internal/core/ports/driving"
)

// Entry is a single row in the file browser.
type Entry struct {
	// Name is the entry's base name.
	Name string

	// Path is the entry's absolute path.
	Path string

	// IsDir reports whether the entry is a directory.
	IsDir bool

	// Coverage is the file's chunked percentage, 0 for directories.
	Coverage float64
}

// View is the file browser. Navigation is clamped to the configured
// root directory.
type View struct {
	styles   *styles.Styles
	progress driving.ProgressService

	rootDir    string
	currentDir string
	entries    []Entry
	selected   int
	scroll     int

	// coverage caches per-file chunked percentages so navigating
	// between directories never rescans files. Refresh invalidates it.
	coverage map[string]float64

	width  int
	height int
	err    error
}

// NewView creates an explorer rooted at rootDir and loads its entries.
func NewView(s *styles.Styles, progress driving.ProgressService, rootDir string) (*View, error) {
	abs, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("resolving root directory: %w", err)
	}

	v := &View{
		styles:     s,
		progress:   progress,
		rootDir:    abs,
		currentDir: abs,
		coverage:   make(map[string]float64),
		width:      80,
		height:     24,
	}

	if err := v.loadEntries(); err != nil {
		return nil, err
	}
	return v, nil
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// loadEntries reloads the current directory, directories first, each
// group sorted by name. A ".." entry leads back up unless the current
// directory is the root.
func (v *View) loadEntries() error {
	dirEntries, err := os.ReadDir(v.currentDir)
	if err != nil {
		return fmt.Errorf("reading directory %s: %w", v.currentDir, err)
	}

	entries := make([]Entry, 0, len(dirEntries)+1)
	if v.currentDir != v.rootDir {
		entries = append(entries, Entry{
			Name:  "..",
			Path:  filepath.Dir(v.currentDir),
			IsDir: true,
		})
	}

	for _, de := range dirEntries {
		entry := Entry{
			Name:  de.Name(),
			Path:  filepath.Join(v.currentDir, de.Name()),
			IsDir: de.IsDir(),
		}
		if !entry.IsDir {
			entry.Coverage = v.coverageFor(entry.Path)
		}
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Name == ".." {
			return true
		}
		if entries[j].Name == ".." {
			return false
		}
		if entries[i].IsDir != entries[j].IsDir {
			return entries[i].IsDir
		}
		return entries[i].Name < entries[j].Name
	})

	v.entries = entries
	v.selected = 0
	v.scroll = 0
	return nil
}

// coverageFor returns the cached chunked percentage for the file,
// computing and caching it on the first sight of the path.
func (v *View) coverageFor(path string) float64 {
	if cached, ok := v.coverage[path]; ok {
		return cached
	}

	var coverage float64
	if v.progress != nil {
		// Missing or unreadable files simply show no progress.
		if c, err := v.progress.CoverageForFile(path); err == nil {
			coverage = c
		}
	}
	v.coverage[path] = coverage
	return coverage
}

// Refresh invalidates the coverage cache and reloads the current
// directory, so figures pick up freshly saved chunks.
func (v *View) Refresh() {
	v.coverage = make(map[string]float64)
	if err := v.loadEntries(); err != nil {
		v.err = err
	}
}

// Update handles messages for the explorer view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	return v, nil
}

// handleKeyMsg handles key presses.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		v.moveSelection(-1)
	case "down", "j":
		v.moveSelection(1)
	case "pgup", "ctrl+u":
		v.moveSelection(-v.pageSize())
	case "pgdown", "ctrl+d":
		v.moveSelection(v.pageSize())
	case "home", "g":
		v.selected = 0
		v.followSelection()
	case "end", "G":
		v.selected = len(v.entries) - 1
		v.followSelection()
	case "enter", "l", "right":
		return v.openSelected()
	case "h", "left":
		v.gotoParent()
	}

	return v, nil
}

// moveSelection moves the highlighted entry by delta, clamped to the
// entry list.
func (v *View) moveSelection(delta int) {
	if len(v.entries) == 0 {
		return
	}
	v.selected += delta
	if v.selected < 0 {
		v.selected = 0
	}
	if v.selected >= len(v.entries) {
		v.selected = len(v.entries) - 1
	}
	v.followSelection()
}

// followSelection scrolls the list so the highlighted entry stays
// visible.
func (v *View) followSelection() {
	page := v.pageSize()
	if v.selected < v.scroll {
		v.scroll = v.selected
	}
	if v.selected >= v.scroll+page {
		v.scroll = v.selected - page + 1
	}
}

// openSelected descends into a directory or emits a FileSelected
// message for a file.
func (v *View) openSelected() (*View, tea.Cmd) {
	if len(v.entries) == 0 {
		return v, nil
	}

	entry := v.entries[v.selected]
	if entry.IsDir {
		v.currentDir = entry.Path
		if err := v.loadEntries(); err != nil {
			v.err = err
		}
		return v, nil
	}

	path := entry.Path
	return v, func() tea.Msg {
		return messages.FileSelected{Path: path}
	}
}

// gotoParent moves to the parent directory, never above the root.
func (v *View) gotoParent() {
	if v.currentDir == v.rootDir {
		return
	}
	v.currentDir = filepath.Dir(v.currentDir)
	if err := v.loadEntries(); err != nil {
		v.err = err
	}
}

// pageSize returns the number of visible list rows.
func (v *View) pageSize() int {
	// Reserve rows for the title, separator and breadcrumb.
	available := v.height - 5
	if available < 1 {
		available = 1
	}
	return available
}

// View renders the explorer.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("◆ Packrat"))
	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render(v.breadcrumb()))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", minInt(v.width-4, 60)))
	b.WriteString("\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n")
		return b.String()
	}

	if len(v.entries) == 0 {
		b.WriteString(v.styles.Muted.Render("(empty directory)"))
		b.WriteString("\n")
		return b.String()
	}

	page := v.pageSize()
	for i := v.scroll; i < len(v.entries) && i < v.scroll+page; i++ {
		b.WriteString(v.renderEntry(i))
		b.WriteString("\n")
	}

	return b.String()
}

// renderEntry renders a single list row.
func (v *View) renderEntry(i int) string {
	entry := v.entries[i]

	var label string
	if entry.IsDir {
		label = "▶ " + entry.Name
	} else {
		label = "■ " + entry.Name
		if entry.Coverage > 0 {
			label = fmt.Sprintf("%s  (%.0f%%)", label, entry.Coverage)
		}
	}

	if i == v.selected {
		return v.styles.Selected.Render("> " + label)
	}
	if entry.IsDir {
		return "  " + v.styles.Directory.Render(label)
	}
	return "  " + v.styles.Normal.Render(label)
}

// breadcrumb shows the current directory relative to the root.
func (v *View) breadcrumb() string {
	rel, err := filepath.Rel(v.rootDir, v.currentDir)
	if err != nil || rel == "." {
		return v.rootDir
	}
	return filepath.Join(filepath.Base(v.rootDir), rel)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Entries returns the current entry list.
func (v *View) Entries() []Entry {
	return v.entries
}

// Selected returns the index of the highlighted entry.
func (v *View) Selected() int {
	return v.selected
}

// CurrentDir returns the directory being listed.
func (v *View) CurrentDir() string {
	return v.currentDir
}

// RootDir returns the navigation root.
func (v *View) RootDir() string {
	return v.rootDir
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
