package retrieval

import (
	"strings"

	"github.com/antoniostano/meeple/internal/rulebook"
)

const (
	// Question tokens at or below this length are too generic to score.
	minTokenLength = 2
	// A question token found inside the section label is a strong signal.
	sectionBonus = 2
)

// Score computes a lexical relevance score for a chunk against a question.
// Tokens match when either contains the other, which absorbs simple
// singular/plural variation without a stemmer. Pure and deterministic.
func Score(question string, chunk rulebook.Chunk) int {
	questionTokens := strings.Fields(strings.ToLower(question))
	chunkTokens := strings.Fields(strings.ToLower(chunk.Text))
	section := strings.ToLower(chunk.Section)

	score := 0
	for _, qt := range questionTokens {
		if len(qt) <= minTokenLength {
			continue
		}
		for _, ct := range chunkTokens {
			if strings.Contains(ct, qt) || strings.Contains(qt, ct) {
				score++
			}
		}
		if strings.Contains(section, qt) {
			score += sectionBonus
		}
	}
	return score
}
