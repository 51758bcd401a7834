// chunkload imports rulebook chunks from a JSON file into the configured
// chunk database so the service can serve them without the file.
package main

import (
	"context"
	"flag"
	"log"
	"strings"

	"github.com/joho/godotenv"

	"github.com/antoniostano/meeple/internal/config"
	"github.com/antoniostano/meeple/internal/rulebook"
)

type chunkWriter interface {
	InsertChunks(ctx context.Context, chunks []rulebook.Chunk) error
	Close() error
}

func main() {
	_ = godotenv.Load()

	var (
		filePath = flag.String("file", "data/chunks.json", "JSON file with rulebook chunks")
		dryRun   = flag.Bool("dry-run", false, "validate the file without writing")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx := context.Background()

	chunks, err := rulebook.NewFileSource(*filePath).LoadChunks(ctx)
	if err != nil {
		log.Fatalf("reading %s failed: %v", *filePath, err)
	}
	store, err := rulebook.NewStore(chunks)
	if err != nil {
		log.Fatalf("invalid chunks in %s: %v", *filePath, err)
	}
	log.Printf("read %d chunks for %d games from %s", store.Len(), len(store.Games()), *filePath)

	if *dryRun {
		log.Printf("dry run, nothing written")
		return
	}

	var writer chunkWriter
	switch {
	case strings.TrimSpace(cfg.DatabaseURL) != "":
		writer, err = rulebook.NewPostgresSource(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("postgres init failed: %v", err)
		}
		log.Printf("writing to postgres")
	case strings.TrimSpace(cfg.ChunksSQLite) != "":
		writer, err = rulebook.NewSQLiteSource(cfg.ChunksSQLite)
		if err != nil {
			log.Fatalf("sqlite init failed: %v", err)
		}
		log.Printf("writing to sqlite at %s", cfg.ChunksSQLite)
	default:
		log.Fatalf("set DATABASE_URL or CHUNKS_SQLITE_PATH to choose a destination")
	}
	defer writer.Close()

	if err := writer.InsertChunks(ctx, chunks); err != nil {
		log.Fatalf("writing chunks failed: %v", err)
	}
	log.Printf("wrote %d chunks", len(chunks))
}
