package domain

// Chunk is a persisted, immutable record of a saved line range plus its
// text snapshot. Re-saving the same logical selection produces a new
// Chunk with a new ID; existing records are never mutated or deleted.
type Chunk struct {
	// ID is the unique identifier for the chunk, assigned at creation
	// and never reused.
	ID string

	// FilePath is the source file path, stored relative to the
	// configured root so records are portable across machines sharing
	// the same root layout. Always POSIX-style separators.
	FilePath string

	// StartLine is the first line of the chunk, 1-indexed, inclusive.
	StartLine StorageLine

	// EndLine is the last line of the chunk, 1-indexed, inclusive.
	EndLine StorageLine

	// Content is the exact text of the selected lines at save time,
	// newline-joined. Post-edit if the selection was edited.
	Content string

	// Timestamp is the creation time in seconds since the epoch.
	Timestamp uint64

	// Edited reports whether Content differs from the as-loaded text
	// of the same lines.
	Edited bool

	// Labels is an ordered list of user tags. May be empty.
	Labels []string
}

// Validate checks the chunk's line-range invariant.
func (c *Chunk) Validate() error {
	if c.StartLine < 1 || c.EndLine < 1 || c.StartLine > c.EndLine {
		return ErrInvalidRange
	}
	return nil
}

// Range returns the chunk's line range in viewer coordinates.
func (c *Chunk) Range() LineRange {
	return LineRange{Start: c.StartLine.ToViewer(), End: c.EndLine.ToViewer()}
}
