// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewExplorer is the file browser.
	ViewExplorer ViewType = iota
	// ViewViewer shows an open file with cursor and selection.
	ViewViewer
	// ViewEditor edits the selected lines before saving.
	ViewEditor
	// ViewHelp is the keybinding reference.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewExplorer:
		return "explorer"
	case ViewViewer:
		return "viewer"
	case ViewEditor:
		return "editor"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// FileSelected is sent when the explorer picks a file to open.
type FileSelected struct {
	Path string
}

// FileOpened signals the result of opening a file.
type FileOpened struct {
	Path string
	Err  error
}

// ChunkSaved signals the result of saving the current selection.
type ChunkSaved struct {
	ChunkID string
	Overlap bool
	Err     error
}

// EditRequested carries the selected lines into the editor view.
type EditRequested struct {
	Lines []string
}

// EditApplied signals the editor finished and its content was handed
// back to the document.
type EditApplied struct {
	Lines []string
}

// EditCancelled signals the editor was dismissed without applying.
type EditCancelled struct{}

// FileChangedOnDisk signals the open file was modified externally.
type FileChangedOnDisk struct {
	Path string
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}
