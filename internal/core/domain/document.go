package domain

// defaultViewHeight is used for cursor-follow scrolling until the
// renderer reports the real viewport size.
const defaultViewHeight = 20

// Document is the in-memory model of one open file. It holds the
// immutable as-loaded baseline, the mutable working line sequence that
// selections and edits operate on, and the transient cursor, scroll
// and selection state.
type Document struct {
	// path is the file the document was loaded from.
	path string

	// baseline is the line sequence as loaded from disk. Immutable for
	// the life of the open file; used only to detect edits.
	baseline []string

	// working is the mutable line sequence. Equal to baseline until an
	// edit replaces a sub-range.
	working []string

	cursor ViewerLine
	scroll ViewerLine

	// viewHeight is the number of lines the renderer can show; scroll
	// follows the cursor to keep it within this window.
	viewHeight int

	// selectionActive marks selection mode. The anchor only has
	// meaning while it is set.
	selectionActive bool
	anchor          ViewerLine

	// edited records whether the last ReplaceRange changed the text
	// relative to the baseline. Attached to the next chunk save.
	edited bool
}

// NewDocument creates a document over the given lines. The slice is
// copied into both the baseline and the working sequence.
func NewDocument(path string, lines []string) *Document {
	baseline := make([]string, len(lines))
	copy(baseline, lines)
	working := make([]string, len(lines))
	copy(working, lines)

	return &Document{
		path:       path,
		baseline:   baseline,
		working:    working,
		viewHeight: defaultViewHeight,
	}
}

// Path returns the file path the document was loaded from.
func (d *Document) Path() string {
	return d.path
}

// Len returns the number of working lines.
func (d *Document) Len() int {
	return len(d.working)
}

// Lines returns the working line sequence.
func (d *Document) Lines() []string {
	return d.working
}

// Line returns the working line at the given position, or the empty
// string if out of bounds.
func (d *Document) Line(i ViewerLine) string {
	if i < 0 || int(i) >= len(d.working) {
		return ""
	}
	return d.working[i]
}

// Edited reports whether the last ReplaceRange changed the text
// relative to the baseline.
func (d *Document) Edited() bool {
	return d.edited
}

// SetViewHeight sets the visible window size used for cursor-follow
// scrolling.
func (d *Document) SetViewHeight(h int) {
	if h > 0 {
		d.viewHeight = h
	}
}

// ReplaceRange splices newLines over working[start..end] (inclusive).
// It returns false without mutating anything if the range is inverted
// or out of bounds. The edited flag is determined by comparing the
// original baseline slice at [start..end] to newLines.
func (d *Document) ReplaceRange(start, end ViewerLine, newLines []string) bool {
	if start < 0 || start > end || int(end) >= len(d.working) {
		return false
	}

	original := d.baseline[start : end+1]
	d.edited = len(original) != len(newLines)
	if !d.edited {
		for i := range original {
			if original[i] != newLines[i] {
				d.edited = true
				break
			}
		}
	}

	replaced := make([]string, 0, len(d.working)-int(end-start+1)+len(newLines))
	replaced = append(replaced, d.working[:start]...)
	replaced = append(replaced, newLines...)
	replaced = append(replaced, d.working[end+1:]...)
	d.working = replaced

	d.clampCursor()
	return true
}

// Slice returns a copy of working[start..end] (inclusive), or nil if
// the range is out of bounds.
func (d *Document) Slice(start, end ViewerLine) []string {
	if start < 0 || start > end || int(end) >= len(d.working) {
		return nil
	}
	out := make([]string, end-start+1)
	copy(out, d.working[start:end+1])
	return out
}

// Cursor returns the current cursor position.
func (d *Document) Cursor() ViewerLine {
	return d.cursor
}

// Scroll returns the current scroll position.
func (d *Document) Scroll() ViewerLine {
	return d.scroll
}

// CursorUp moves the cursor up one line, scrolling to keep it visible.
func (d *Document) CursorUp() {
	if d.cursor > 0 {
		d.cursor--
	}
	if d.cursor < d.scroll {
		d.scroll = d.cursor
	}
}

// CursorDown moves the cursor down one line, scrolling to keep it
// visible.
func (d *Document) CursorDown() {
	if len(d.working) == 0 {
		return
	}
	if int(d.cursor) < len(d.working)-1 {
		d.cursor++
	}
	if d.cursor >= d.scroll+ViewerLine(d.viewHeight) {
		d.scroll = d.cursor - ViewerLine(d.viewHeight) + 1
	}
}

// ScrollPageUp moves scroll and cursor up by one page.
func (d *Document) ScrollPageUp() {
	page := ViewerLine(d.viewHeight)
	old := d.scroll
	d.scroll -= page
	if d.scroll < 0 {
		d.scroll = 0
	}
	d.cursor -= old - d.scroll
	if d.cursor < d.scroll {
		d.cursor = d.scroll
	}
}

// ScrollPageDown moves scroll and cursor down by one page.
func (d *Document) ScrollPageDown() {
	if len(d.working) == 0 {
		return
	}
	page := ViewerLine(d.viewHeight)
	last := ViewerLine(len(d.working) - 1)
	old := d.scroll
	d.scroll += page
	if d.scroll > last {
		d.scroll = last
	}
	d.cursor += d.scroll - old
	if d.cursor > last {
		d.cursor = last
	}
}

// ScrollToTop moves the cursor and scroll to the first line.
func (d *Document) ScrollToTop() {
	d.cursor = 0
	d.scroll = 0
}

// ScrollToBottom moves the cursor and scroll to the last line.
func (d *Document) ScrollToBottom() {
	if len(d.working) == 0 {
		return
	}
	last := ViewerLine(len(d.working) - 1)
	d.cursor = last
	d.scroll = last - ViewerLine(d.viewHeight) + 1
	if d.scroll < 0 {
		d.scroll = 0
	}
}

// VisibleLines returns the working lines from the scroll position down
// to at most height lines.
func (d *Document) VisibleLines(height int) []string {
	if len(d.working) == 0 || height <= 0 {
		return nil
	}
	start := int(d.scroll)
	if start >= len(d.working) {
		start = len(d.working) - 1
	}
	end := start + height
	if end > len(d.working) {
		end = len(d.working)
	}
	return d.working[start:end]
}

// SelectionActive reports whether selection mode is on.
func (d *Document) SelectionActive() bool {
	return d.selectionActive
}

// ToggleSelection turns selection mode on with the anchor at the
// cursor, or off, clearing the anchor. A selection exists only while
// the mode is active.
func (d *Document) ToggleSelection() {
	if len(d.working) == 0 {
		return
	}
	if d.selectionActive {
		d.ClearSelection()
		return
	}
	d.selectionActive = true
	d.anchor = d.cursor
}

// ClearSelection deactivates selection mode and discards the anchor.
func (d *Document) ClearSelection() {
	d.selectionActive = false
	d.anchor = 0
}

// SelectionRange returns the normalised (min, max) of the anchor and
// cursor, or false if selection mode is inactive.
func (d *Document) SelectionRange() (LineRange, bool) {
	if !d.selectionActive {
		return LineRange{}, false
	}
	r := LineRange{Start: d.anchor, End: d.cursor}
	if r.Start > r.End {
		r.Start, r.End = r.End, r.Start
	}
	return r, true
}

func (d *Document) clampCursor() {
	if len(d.working) == 0 {
		d.cursor = 0
		d.scroll = 0
		return
	}
	last := ViewerLine(len(d.working) - 1)
	if d.cursor > last {
		d.cursor = last
	}
	if d.scroll > last {
		d.scroll = last
	}
}
