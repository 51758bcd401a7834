package retrieval

import (
	"sort"

	"github.com/antoniostano/meeple/internal/rulebook"
)

// DefaultTopN bounds how many chunks ground one answer.
const DefaultTopN = 5

// Retrieve ranks chunks by lexical relevance and returns at most topN of
// them. Zero-score chunks are dropped; ties keep their original order. An
// empty result is a normal outcome, never an error.
func Retrieve(question string, chunks []rulebook.Chunk, topN int) []rulebook.Chunk {
	if topN <= 0 {
		topN = DefaultTopN
	}

	scored := make([]rulebook.ScoredChunk, 0, len(chunks))
	for _, c := range chunks {
		s := Score(question, c)
		if s == 0 {
			continue
		}
		scored = append(scored, rulebook.ScoredChunk{Chunk: c, Score: s})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > topN {
		scored = scored[:topN]
	}
	out := make([]rulebook.Chunk, 0, len(scored))
	for _, sc := range scored {
		out = append(out, sc.Chunk)
	}
	return out
}
