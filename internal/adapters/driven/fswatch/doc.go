// Package fswatch provides an fsnotify-backed implementation of the
// FileWatcher port. It watches individual files and translates raw
// fsnotify events into the simpler created/modified/removed events the
// core cares about.
package fswatch
