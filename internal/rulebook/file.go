package rulebook

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// FileSource reads chunks from a JSON file containing an array of chunk records.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (f *FileSource) LoadChunks(_ context.Context) ([]Chunk, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("read chunk file: %w", err)
	}
	var chunks []Chunk
	if err := json.Unmarshal(data, &chunks); err != nil {
		return nil, fmt.Errorf("parse chunk file %s: %w", f.path, err)
	}
	return chunks, nil
}

func (f *FileSource) Close() error { return nil }
