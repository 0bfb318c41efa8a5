// Package csvfile implements the chunk store over a single CSV file.
//
// Every field is quoted on write so that content containing commas,
// quotes and newlines round-trips byte for byte. Reading accepts
// quoted fields with escaped quotes and preserves the field bytes
// exactly; encoding/csv is not used on the read path because its
// reader rewrites \r\n to \n inside quoted fields. The whole file is
// rewritten on every add, so the on-disk file is always a complete,
// independently loadable snapshot of the store.
package csvfile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tiller-tolbus/packrat/internal/core/domain"
	"github.com/tiller-tolbus/packrat/internal/core/ports/driven"
	"github.com/tiller-tolbus/packrat/internal/logger"
)

// Ensure ChunkStore implements the interface.
var _ driven.ChunkStore = (*ChunkStore)(nil)

// recordFields is the number of fields in a persisted chunk record:
// id, file_path, start_line, end_line, content, timestamp, edited,
// labels.
const recordFields = 8

// labelSeparator joins labels within the single labels field. It is
// deliberately not the field delimiter, so labels containing commas
// survive the round trip.
const labelSeparator = "|"

// ChunkStore is the CSV-backed chunk store. It keeps the full record
// sequence in memory; the backing file and the in-memory sequence are
// equal after every successful Add.
type ChunkStore struct {
	path   string
	chunks []domain.Chunk
}

// OpenOrCreate opens the store at path, loading every record if the
// backing file exists. Any record that fails to parse fails the whole
// load: a corrupt store must not silently lose chunks. If the file
// does not exist the store starts empty and parent directories are
// created.
func OpenOrCreate(path string) (*ChunkStore, error) {
	s := &ChunkStore{path: path}

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		if dir := filepath.Dir(path); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("creating store directory: %w", err)
			}
		}
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening chunk store: %w", err)
	}
	defer f.Close()

	chunks, err := readAll(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrMalformedStore, path, err)
	}
	s.chunks = chunks
	logger.Debug("loaded %d chunks from %s", len(chunks), path)
	return s, nil
}

// Add appends the chunk to the in-memory sequence and rewrites the
// backing file from the full sequence. Not transactional: a crash
// after the append but before the rewrite completes loses the chunk
// on the next load.
func (s *ChunkStore) Add(chunk domain.Chunk) error {
	if err := chunk.Validate(); err != nil {
		return err
	}
	s.chunks = append(s.chunks, chunk)
	if err := s.save(); err != nil {
		return fmt.Errorf("persisting chunk store: %w", err)
	}
	return nil
}

// Chunks returns every stored chunk in insert order.
func (s *ChunkStore) Chunks() []domain.Chunk {
	return s.chunks
}

// ChunksForFile returns the chunks stored for the given relative path.
func (s *ChunkStore) ChunksForFile(path string) []domain.Chunk {
	var out []domain.Chunk
	for _, c := range s.chunks {
		if c.FilePath == path {
			out = append(out, c)
		}
	}
	return out
}

// ChunkedRanges returns the line ranges of the file's chunks in
// storage coordinates.
func (s *ChunkStore) ChunkedRanges(path string) []domain.StorageRange {
	var out []domain.StorageRange
	for _, c := range s.chunks {
		if c.FilePath == path {
			out = append(out, domain.StorageRange{Start: c.StartLine, End: c.EndLine})
		}
	}
	return out
}

// CoveragePercentage returns the percentage of the file's lines
// covered by at least one chunk.
func (s *ChunkStore) CoveragePercentage(path string, totalLines int) float64 {
	return domain.NewRangeSet(s.ChunksForFile(path)).Coverage(totalLines)
}

// Path returns the backing file path.
func (s *ChunkStore) Path() string {
	return s.path
}

// save rewrites the backing file from the full in-memory sequence.
func (s *ChunkStore) save() error {
	f, err := os.Create(s.path)
	if err != nil {
		return err
	}

	var b strings.Builder
	for i := range s.chunks {
		writeRecord(&b, &s.chunks[i])
	}
	if _, err := f.WriteString(b.String()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// writeRecord appends one always-quoted CSV record for the chunk.
func writeRecord(b *strings.Builder, c *domain.Chunk) {
	fields := [recordFields]string{
		c.ID,
		c.FilePath,
		strconv.Itoa(int(c.StartLine)),
		strconv.Itoa(int(c.EndLine)),
		c.Content,
		strconv.FormatUint(c.Timestamp, 10),
		strconv.FormatBool(c.Edited),
		strings.Join(c.Labels, labelSeparator),
	}
	for i, field := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(field, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteByte('\n')
}

// readAll parses every record from r. Parsing is strict: a wrong
// field count, an unparseable number or a bad boolean fails the load.
func readAll(r io.Reader) ([]domain.Chunk, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var chunks []domain.Chunk
	pos := 0
	for pos < len(data) {
		record, next, err := parseFields(data, pos)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", len(chunks)+1, err)
		}
		if len(record) != recordFields {
			return nil, fmt.Errorf("record %d: %d fields, want %d", len(chunks)+1, len(record), recordFields)
		}
		chunk, err := parseRecord(record)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", len(chunks)+1, err)
		}
		chunks = append(chunks, chunk)
		pos = next
	}
	return chunks, nil
}

// parseFields reads one record of quoted fields starting at pos. It
// returns the unquoted fields and the offset just past the record
// terminator. Field bytes between the quotes are taken verbatim, with
// "" unescaped to a single quote.
func parseFields(data []byte, pos int) ([]string, int, error) {
	var fields []string
	for {
		if pos >= len(data) || data[pos] != '"' {
			return nil, 0, errors.New("field does not start with a quote")
		}
		pos++

		var b strings.Builder
		closed := false
		for pos < len(data) {
			if data[pos] != '"' {
				b.WriteByte(data[pos])
				pos++
				continue
			}
			if pos+1 < len(data) && data[pos+1] == '"' {
				b.WriteByte('"')
				pos += 2
				continue
			}
			pos++
			closed = true
			break
		}
		if !closed {
			return nil, 0, errors.New("unterminated quoted field")
		}
		fields = append(fields, b.String())

		if pos >= len(data) {
			return fields, pos, nil
		}
		switch data[pos] {
		case ',':
			pos++
		case '\n':
			return fields, pos + 1, nil
		case '\r':
			if pos+1 < len(data) && data[pos+1] == '\n' {
				return fields, pos + 2, nil
			}
			return nil, 0, errors.New("bare carriage return after field")
		default:
			return nil, 0, fmt.Errorf("unexpected byte %q after field", data[pos])
		}
	}
}

func parseRecord(record []string) (domain.Chunk, error) {
	start, err := strconv.Atoi(record[2])
	if err != nil {
		return domain.Chunk{}, fmt.Errorf("start_line: %w", err)
	}
	end, err := strconv.Atoi(record[3])
	if err != nil {
		return domain.Chunk{}, fmt.Errorf("end_line: %w", err)
	}
	timestamp, err := strconv.ParseUint(record[5], 10, 64)
	if err != nil {
		return domain.Chunk{}, fmt.Errorf("timestamp: %w", err)
	}
	edited, err := strconv.ParseBool(record[6])
	if err != nil {
		return domain.Chunk{}, fmt.Errorf("edited: %w", err)
	}

	var labels []string
	if record[7] != "" {
		labels = strings.Split(record[7], labelSeparator)
	}

	chunk := domain.Chunk{
		ID:        record[0],
		FilePath:  record[1],
		StartLine: domain.StorageLine(start),
		EndLine:   domain.StorageLine(end),
		Content:   record[4],
		Timestamp: timestamp,
		Edited:    edited,
		Labels:    labels,
	}
	if err := chunk.Validate(); err != nil {
		return domain.Chunk{}, err
	}
	return chunk, nil
}
