package fswatch

import (
	"errors"
	"fmt"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/tiller-tolbus/packrat/internal/core/ports/driven"
	"github.com/tiller-tolbus/packrat/internal/logger"
)

// Watcher is an fsnotify-backed implementation of driven.FileWatcher.
type Watcher struct {
	fs     *fsnotify.Watcher
	events chan driven.FileEvent

	closeOnce sync.Once
	done      chan struct{}
}

var _ driven.FileWatcher = (*Watcher)(nil)

// NewWatcher creates a Watcher and starts its event loop. Callers must
// Close the watcher when done with it.
func NewWatcher() (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating filesystem watcher: %w", err)
	}

	w := &Watcher{
		fs:     fs,
		events: make(chan driven.FileEvent, 16),
		done:   make(chan struct{}),
	}

	go w.run()

	return w, nil
}

// Watch starts watching the given path.
func (w *Watcher) Watch(path string) error {
	if err := w.fs.Add(path); err != nil {
		return fmt.Errorf("watching %s: %w", path, err)
	}
	return nil
}

// Unwatch stops watching the given path. Unwatching a path that was
// never watched is not an error.
func (w *Watcher) Unwatch(path string) error {
	if err := w.fs.Remove(path); err != nil {
		// fsnotify reports an error for paths that were never
		// watched; treat that as a no-op.
		if errors.Is(err, fsnotify.ErrNonExistentWatch) {
			return nil
		}
		return fmt.Errorf("unwatching %s: %w", path, err)
	}
	return nil
}

// Events returns the channel change notifications arrive on.
func (w *Watcher) Events() <-chan driven.FileEvent {
	return w.events
}

// Close releases the watcher and closes the event channel.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		err = w.fs.Close()
		<-w.done
		close(w.events)
	})
	return err
}

// run pumps raw fsnotify events to the outgoing channel until the
// underlying watcher is closed.
func (w *Watcher) run() {
	defer close(w.done)

	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if out, handled := translateEvent(ev); handled {
				select {
				case w.events <- out:
				default:
					// Drop when the consumer is not keeping up. The
					// UI only needs to learn that the file changed,
					// not see every individual event.
					logger.Warn("dropped file event for %s", out.Path)
				}
			}
		case _, ok := <-w.fs.Errors:
			if !ok {
				return
			}
		}
	}
}

// translateEvent maps an fsnotify event to a FileEvent. Chmod-only
// events are not reported.
func translateEvent(ev fsnotify.Event) (driven.FileEvent, bool) {
	switch {
	case ev.Op.Has(fsnotify.Create):
		return driven.FileEvent{Path: ev.Name, Op: driven.FileCreated}, true
	case ev.Op.Has(fsnotify.Write):
		return driven.FileEvent{Path: ev.Name, Op: driven.FileModified}, true
	case ev.Op.Has(fsnotify.Remove), ev.Op.Has(fsnotify.Rename):
		return driven.FileEvent{Path: ev.Name, Op: driven.FileRemoved}, true
	}
	return driven.FileEvent{}, false
}
