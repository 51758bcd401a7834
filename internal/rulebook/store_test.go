package rulebook

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestNewStorePartitionsByGame(t *testing.T) {
	chunks := []Chunk{
		{ID: "c1", GameID: "catan", Page: 3, Section: "Setup", Text: "Place the board."},
		{ID: "c2", GameID: "carcassonne", Page: 1, Section: "Tiles", Text: "Draw a tile."},
		{ID: "c3", GameID: "catan", Page: 7, Section: "Trading", Text: "Trade resources."},
	}
	s, err := NewStore(chunks)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	catan := s.Game("catan")
	if len(catan) != 2 {
		t.Fatalf("len(catan) = %d, want 2", len(catan))
	}
	if catan[0].ID != "c1" || catan[1].ID != "c3" {
		t.Fatalf("catan partition order = [%s %s], want [c1 c3]", catan[0].ID, catan[1].ID)
	}
	for _, c := range catan {
		if c.GameID != "catan" {
			t.Fatalf("partition leaked chunk with GameID %q", c.GameID)
		}
	}

	if got := s.Game("unknown-game"); got != nil {
		t.Fatalf("Game(unknown-game) = %v, want nil", got)
	}
	if s.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", s.Len())
	}

	games := s.Games()
	if len(games) != 2 || games[0] != "carcassonne" || games[1] != "catan" {
		t.Fatalf("Games() = %v, want [carcassonne catan]", games)
	}
}

func TestNewStoreRejectsInvalidChunks(t *testing.T) {
	cases := []struct {
		name  string
		chunk Chunk
	}{
		{"missing game id", Chunk{ID: "c1", Page: 1, Section: "S", Text: "t"}},
		{"empty text", Chunk{ID: "c1", GameID: "g", Page: 1, Section: "S", Text: "  "}},
		{"zero page", Chunk{ID: "c1", GameID: "g", Page: 0, Section: "S", Text: "t"}},
	}
	for _, tc := range cases {
		if _, err := NewStore([]Chunk{tc.chunk}); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}

func TestFileSourceRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chunks.json")
	payload := `[
		{"id":"c1","game_id":"catan","page":5,"section":"Building","text":"Roads cost brick and wood."}
	]`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	src := NewFileSource(path)
	chunks, err := src.LoadChunks(context.Background())
	if err != nil {
		t.Fatalf("LoadChunks() error = %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("len(chunks) = %d, want 1", len(chunks))
	}
	if chunks[0].Section != "Building" || chunks[0].Page != 5 {
		t.Fatalf("unexpected chunk: %+v", chunks[0])
	}
}

func TestFileSourceMissingFile(t *testing.T) {
	src := NewFileSource(filepath.Join(t.TempDir(), "nope.json"))
	if _, err := src.LoadChunks(context.Background()); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestSQLiteSourceInsertAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chunks.db")
	src, err := NewSQLiteSource(path)
	if err != nil {
		t.Fatalf("NewSQLiteSource() error = %v", err)
	}
	defer src.Close()

	in := []Chunk{
		{ID: "c1", GameID: "catan", Page: 5, Section: "Building", Text: "Roads cost brick and wood."},
		{ID: "c2", GameID: "catan", Page: 9, Section: "Robber", Text: "Move the robber on a seven."},
	}
	if err := src.InsertChunks(context.Background(), in); err != nil {
		t.Fatalf("InsertChunks() error = %v", err)
	}

	// Re-insert with changed text exercises the replace-by-id path.
	in[1].Text = "The robber blocks production."
	if err := src.InsertChunks(context.Background(), in); err != nil {
		t.Fatalf("InsertChunks() second pass error = %v", err)
	}

	out, err := src.LoadChunks(context.Background())
	if err != nil {
		t.Fatalf("LoadChunks() error = %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("len(out) = %d, want 2", len(out))
	}
	if out[0].ID != "c1" || out[1].ID != "c2" {
		t.Fatalf("order = [%s %s], want [c1 c2]", out[0].ID, out[1].ID)
	}
	if out[1].Text != "The robber blocks production." {
		t.Fatalf("replaced text = %q", out[1].Text)
	}
}
