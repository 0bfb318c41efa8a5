// Package domain defines the core entities and algorithms for Packrat.
//
// This package is part of the hexagonal architecture's innermost layer.
// It defines the fundamental types:
//
//   - Chunk: A persisted, immutable record of a saved line range
//   - Document: The in-memory model of one open file
//   - RangeSet: The per-file index of already-chunked line ranges
//   - ViewerLine / StorageLine: The two line coordinate systems
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse. Chunk identifiers are generated by the
// services layer, not here.
package domain
