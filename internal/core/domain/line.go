package domain

// The document model, cursor and selection all work in 0-indexed
// positions, while persisted chunk records use 1-indexed positions
// matching typical editor display. The two are kept as distinct types
// so the conversion happens in exactly one place.

// ViewerLine is a 0-indexed line position within an open document.
type ViewerLine int

// StorageLine is a 1-indexed line position as persisted in chunk records.
type StorageLine int

// ToStorage converts a viewer position to its persisted representation.
func (v ViewerLine) ToStorage() StorageLine {
	return StorageLine(v + 1)
}

// StorageRange is an inclusive range in storage coordinates, as
// reported by the chunk store.
type StorageRange struct {
	Start StorageLine
	End   StorageLine
}

// ToViewer converts a storage range to viewer coordinates.
func (r StorageRange) ToViewer() LineRange {
	return LineRange{Start: r.Start.ToViewer(), End: r.End.ToViewer()}
}

// ToViewer converts a persisted position back to a viewer position.
// Storage lines start at 1; smaller values clamp to the first line.
func (s StorageLine) ToViewer() ViewerLine {
	if s <= 1 {
		return 0
	}
	return ViewerLine(s - 1)
}
