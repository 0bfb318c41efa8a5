package domain

// LineRange is an inclusive range of viewer lines.
type LineRange struct {
	Start ViewerLine
	End   ViewerLine
}

// Overlaps reports whether two ranges share at least one line.
// The relation is symmetric.
func (r LineRange) Overlaps(other LineRange) bool {
	return r.Start <= other.End && other.Start <= r.End
}

// Contains reports whether the range covers the given line.
func (r LineRange) Contains(line ViewerLine) bool {
	return line >= r.Start && line <= r.End
}

// Len returns the number of lines in the range.
func (r LineRange) Len() int {
	return int(r.End-r.Start) + 1
}

// RangeSet indexes the line ranges of a file that already belong to
// saved chunks. It is a read-through cache over the chunk store,
// rebuilt whenever a file is opened, and maintained incrementally as
// chunks are saved and edits move lines around.
type RangeSet struct {
	ranges []LineRange
}

// NewRangeSet builds a range set from chunk records, converting their
// persisted 1-indexed bounds to viewer coordinates.
func NewRangeSet(chunks []Chunk) *RangeSet {
	rs := &RangeSet{}
	for i := range chunks {
		rs.ranges = append(rs.ranges, chunks[i].Range())
	}
	return rs
}

// Add appends a range to the set. Overlapping ranges are permitted;
// the set never merges or deduplicates.
func (rs *RangeSet) Add(r LineRange) {
	rs.ranges = append(rs.ranges, r)
}

// Ranges returns the indexed ranges.
func (rs *RangeSet) Ranges() []LineRange {
	return rs.ranges
}

// Len returns the number of indexed ranges.
func (rs *RangeSet) Len() int {
	return len(rs.ranges)
}

// Overlaps reports whether the given range shares any line with an
// indexed range.
func (rs *RangeSet) Overlaps(r LineRange) bool {
	for _, indexed := range rs.ranges {
		if indexed.Overlaps(r) {
			return true
		}
	}
	return false
}

// ContainsLine reports whether the line belongs to any indexed range.
func (rs *RangeSet) ContainsLine(line ViewerLine) bool {
	for _, indexed := range rs.ranges {
		if indexed.Contains(line) {
			return true
		}
	}
	return false
}

// Coverage returns the percentage of a file's lines touched by at
// least one indexed range, in [0, 100]. Overlapping ranges never
// double-count. Returns 0 for an empty file or an empty set.
func (rs *RangeSet) Coverage(totalLines int) float64 {
	if totalLines == 0 || len(rs.ranges) == 0 {
		return 0.0
	}

	covered := make([]bool, totalLines)
	for _, r := range rs.ranges {
		end := r.End
		if end > ViewerLine(totalLines-1) {
			end = ViewerLine(totalLines - 1)
		}
		for i := r.Start; i <= end; i++ {
			if i >= 0 && int(i) < totalLines {
				covered[i] = true
			}
		}
	}

	count := 0
	for _, c := range covered {
		if c {
			count++
		}
	}
	return float64(count) / float64(totalLines) * 100.0
}

// ApplyEdit maintains the set after lines [start, end] were replaced
// by a block whose length differs from the original by delta lines.
//
// Ranges entirely after the edited span shift by delta. Ranges that
// overlap the edited span are dropped: their backing text is stale
// relative to the new content and must not be advertised as already
// chunked until a fresh chunk is saved over it. Ranges entirely
// before the edit are unchanged.
func (rs *RangeSet) ApplyEdit(start, end ViewerLine, delta int) {
	kept := rs.ranges[:0]
	for _, r := range rs.ranges {
		switch {
		case r.Start > end:
			kept = append(kept, LineRange{
				Start: r.Start + ViewerLine(delta),
				End:   r.End + ViewerLine(delta),
			})
		case r.End >= start:
			// Overlaps the edited span; drop.
		default:
			kept = append(kept, r)
		}
	}
	rs.ranges = kept
}
