package rulebook

import (
	"fmt"
	"sort"
	"strings"
)

// Store holds all rulebook chunks partitioned by game id.
// It is read-only after construction and safe for concurrent readers.
type Store struct {
	byGame map[string][]Chunk
	total  int
}

// NewStore builds a partitioned store from a flat chunk list, preserving
// input order within each partition.
func NewStore(chunks []Chunk) (*Store, error) {
	byGame := make(map[string][]Chunk)
	for i, c := range chunks {
		if strings.TrimSpace(c.GameID) == "" {
			return nil, fmt.Errorf("chunk %d (%q): missing game_id", i, c.ID)
		}
		if strings.TrimSpace(c.Text) == "" {
			return nil, fmt.Errorf("chunk %d (%q): empty text", i, c.ID)
		}
		if c.Page < 1 {
			return nil, fmt.Errorf("chunk %d (%q): page must be >= 1, got %d", i, c.ID, c.Page)
		}
		byGame[c.GameID] = append(byGame[c.GameID], c)
	}
	return &Store{byGame: byGame, total: len(chunks)}, nil
}

// Game returns the chunk partition for gameID, or nil when unknown.
// Callers must not mutate the returned slice.
func (s *Store) Game(gameID string) []Chunk {
	return s.byGame[gameID]
}

// Games lists the loaded game ids in sorted order.
func (s *Store) Games() []string {
	out := make([]string, 0, len(s.byGame))
	for id := range s.byGame {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Len reports the total number of loaded chunks across all games.
func (s *Store) Len() int { return s.total }
