package tui

import "errors"

// ErrMissingChunkingService is returned when the chunking service is not provided.
var ErrMissingChunkingService = errors.New("tui: chunking service is required")

// ErrMissingProgressService is returned when the progress service is not provided.
var ErrMissingProgressService = errors.New("tui: progress service is required")
