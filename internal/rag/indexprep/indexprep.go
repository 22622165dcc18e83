// Package indexprep serializes Vectors to the newline-delimited JSON format
// consumed by the external ANN index builder (spec.md §4.3). Pure
// serialization: no API calls, deterministic byte output for a given input
// ordering.
package indexprep

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"vecsearch/internal/rag/types"
)

// IOError wraps a disk-level failure writing or reading the JSONL file.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string { return fmt.Sprintf("index-prep io error on %q: %v", e.Path, e.Err) }
func (e *IOError) Unwrap() error { return e.Err }

// SchemaError is returned when a vector's dimension does not match D.
type SchemaError struct {
	ChunkID string
	Got     int
	Want    int
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("chunk %q has %d-dimension embedding, want %d", e.ChunkID, e.Got, e.Want)
}

// ChunkLookup provides chunk metadata to enrich records; optional. Chunk
// text is not copied into the records.
type ChunkLookup map[string]types.TextChunk

// BuildRecords converts Vectors (optionally enriched by matching TextChunks)
// into IndexRecords, validating that every embedding has exactly dim
// floats. Order is preserved.
func BuildRecords(vectors []types.Vector, chunks ChunkLookup, dim int) ([]types.IndexRecord, error) {
	out := make([]types.IndexRecord, 0, len(vectors))
	for _, v := range vectors {
		if len(v.Embedding) != dim {
			return nil, &SchemaError{ChunkID: v.ChunkID, Got: len(v.Embedding), Want: dim}
		}
		md := map[string]any{}
		if chunks != nil {
			if c, ok := chunks[v.ChunkID]; ok {
				for k, val := range c.Metadata {
					md[k] = val
				}
			}
		}
		out = append(out, types.IndexRecord{
			ID:        v.ChunkID,
			Embedding: v.Embedding,
			Restricts: []types.Restrict{},
			Metadata:  md,
		})
	}
	return out, nil
}

// WriteJSONL writes records as one JSON object per line, UTF-8, LF
// terminated, no BOM, no trailing blank line, to {dir}/{filename}.
func WriteJSONL(dir, filename string, records []types.IndexRecord) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &IOError{Path: dir, Err: err}
	}
	path := filepath.Join(dir, filename)
	f, err := os.Create(path)
	if err != nil {
		return "", &IOError{Path: path, Err: err}
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for i, rec := range records {
		b, err := json.Marshal(rec)
		if err != nil {
			return "", &IOError{Path: path, Err: err}
		}
		if _, err := w.Write(b); err != nil {
			return "", &IOError{Path: path, Err: err}
		}
		if i < len(records)-1 {
			if err := w.WriteByte('\n'); err != nil {
				return "", &IOError{Path: path, Err: err}
			}
		}
	}
	if len(records) > 0 {
		if err := w.WriteByte('\n'); err != nil {
			return "", &IOError{Path: path, Err: err}
		}
	}
	if err := w.Flush(); err != nil {
		return "", &IOError{Path: path, Err: err}
	}
	return path, nil
}

// ParseJSONL re-parses a JSONL file written by WriteJSONL, preserving order.
func ParseJSONL(path string) ([]types.IndexRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	lines := bytes.Split(bytes.TrimRight(data, "\n"), []byte("\n"))
	out := make([]types.IndexRecord, 0, len(lines))
	for _, line := range lines {
		if len(line) == 0 {
			continue
		}
		var rec types.IndexRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, &IOError{Path: path, Err: err}
		}
		out = append(out, rec)
	}
	return out, nil
}
