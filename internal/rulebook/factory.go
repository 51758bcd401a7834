package rulebook

import (
	"context"
	"strings"
)

// ChunkSource loads the flat chunk collection the store is built from.
type ChunkSource interface {
	LoadChunks(ctx context.Context) ([]Chunk, error)
	Close() error
}

// NewSource picks a chunk source by configuration: Postgres when a database
// URL is set, SQLite when a path is set, otherwise the JSON file.
func NewSource(ctx context.Context, databaseURL, sqlitePath, filePath string) (ChunkSource, error) {
	if strings.TrimSpace(databaseURL) != "" {
		return NewPostgresSource(ctx, databaseURL)
	}
	if strings.TrimSpace(sqlitePath) != "" {
		return NewSQLiteSource(sqlitePath)
	}
	return NewFileSource(filePath), nil
}
