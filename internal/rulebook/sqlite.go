package rulebook

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteSource reads rulebook chunks from a local SQLite file, the usual
// setup for development and single-host installs.
type SQLiteSource struct {
	db *sql.DB
}

func NewSQLiteSource(path string) (*SQLiteSource, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS rulebook_chunks (
		id TEXT PRIMARY KEY,
		game_id TEXT NOT NULL,
		page INTEGER NOT NULL,
		section TEXT NOT NULL,
		content TEXT NOT NULL,
		position INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_rulebook_chunks_game ON rulebook_chunks (game_id, position);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init sqlite schema: %w", err)
	}

	return &SQLiteSource{db: db}, nil
}

func (s *SQLiteSource) LoadChunks(ctx context.Context) ([]Chunk, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, game_id, page, section, content
		 FROM rulebook_chunks ORDER BY game_id, position`,
	)
	if err != nil {
		return nil, fmt.Errorf("query chunks: %w", err)
	}
	defer rows.Close()

	var chunks []Chunk
	for rows.Next() {
		var c Chunk
		if err := rows.Scan(&c.ID, &c.GameID, &c.Page, &c.Section, &c.Text); err != nil {
			return nil, fmt.Errorf("scan chunk row: %w", err)
		}
		chunks = append(chunks, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chunk rows: %w", err)
	}
	return chunks, nil
}

// InsertChunks writes chunks in order, replacing any existing row with the same id.
func (s *SQLiteSource) InsertChunks(ctx context.Context, chunks []Chunk) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO rulebook_chunks (id, game_id, page, section, content, position)
		 VALUES (?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, c := range chunks {
		if _, err := stmt.ExecContext(ctx, c.ID, c.GameID, c.Page, c.Section, c.Text, i); err != nil {
			return fmt.Errorf("insert chunk %q: %w", c.ID, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteSource) Close() error {
	return s.db.Close()
}
