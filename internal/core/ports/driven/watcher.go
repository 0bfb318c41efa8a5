package driven

// FileOp classifies a filesystem change seen by a watcher.
type FileOp int

const (
	// FileCreated indicates a watched path came into existence.
	FileCreated FileOp = iota
	// FileModified indicates a watched path's content changed.
	FileModified
	// FileRemoved indicates a watched path was deleted or renamed away.
	FileRemoved
)

// FileEvent is a single filesystem change on a watched path.
type FileEvent struct {
	Path string
	Op   FileOp
}

// FileWatcher reports external changes to watched files, so the UI can
// offer to reload an open document that changed on disk.
type FileWatcher interface {
	// Watch starts watching the given path.
	Watch(path string) error

	// Unwatch stops watching the given path.
	Unwatch(path string) error

	// Events returns the channel change notifications arrive on.
	Events() <-chan FileEvent

	// Close releases the watcher and closes the event channel.
	Close() error
}
