package domain

import "errors"

// Domain errors represent expected failure conditions in the core.
// These are distinct from infrastructure errors, which are wrapped
// and propagated by the adapters.
var (
	// ErrNoSelection indicates an operation required an active
	// selection and none exists. Recoverable; surfaced as a transient
	// message.
	ErrNoSelection = errors.New("no text selected")

	// ErrInvalidRange indicates a line range falls outside the open
	// document or is inverted.
	ErrInvalidRange = errors.New("invalid line range")

	// ErrNoFileOpen indicates no document is currently open.
	ErrNoFileOpen = errors.New("no file open")

	// ErrMalformedStore indicates a persisted chunk record failed to
	// parse. The whole store load fails; a partially readable store is
	// an integrity problem, not an opportunity for partial recovery.
	ErrMalformedStore = errors.New("malformed chunk store")

	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")
)
