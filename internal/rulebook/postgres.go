package rulebook

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresSource reads rulebook chunks from PostgreSQL.
type PostgresSource struct {
	pool *pgxpool.Pool
}

func NewPostgresSource(ctx context.Context, databaseURL string) (*PostgresSource, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := initSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresSource{pool: pool}, nil
}

func initSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS rulebook_chunks (
			id TEXT PRIMARY KEY,
			game_id TEXT NOT NULL,
			page INTEGER NOT NULL,
			section TEXT NOT NULL,
			content TEXT NOT NULL,
			position INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE INDEX IF NOT EXISTS idx_rulebook_chunks_game ON rulebook_chunks (game_id, position);`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema failed on %q: %w", stmt, err)
		}
	}
	return nil
}

func (s *PostgresSource) LoadChunks(ctx context.Context) ([]Chunk, error) {
	rows, err := s.pool.Query(ctx,
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

// InsertChunks writes chunks in order, replacing any existing row with the
// same id. Position preserves the source ordering retrieval relies on.
func (s *PostgresSource) InsertChunks(ctx context.Context, chunks []Chunk) error {
	for i, c := range chunks {
		_, err := s.pool.Exec(ctx,
			`INSERT INTO rulebook_chunks (id, game_id, page, section, content, position)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 ON CONFLICT (id) DO UPDATE
			 SET game_id = EXCLUDED.game_id, page = EXCLUDED.page,
			     section = EXCLUDED.section, content = EXCLUDED.content,
			     position = EXCLUDED.position`,
			c.ID, c.GameID, c.Page, c.Section, c.Text, i,
		)
		if err != nil {
			return fmt.Errorf("insert chunk %q: %w", c.ID, err)
		}
	}
	return nil
}

func (s *PostgresSource) Close() error {
	s.pool.Close()
	return nil
}
