package retrieval

import (
	"testing"

	"github.com/antoniostano/meeple/internal/rulebook"
)

func TestScoreSectionBonus(t *testing.T) {
	chunk := rulebook.Chunk{GameID: "catan", Page: 5, Section: "Building Roads", Text: "A road costs one brick and one wood."}
	withBonus := Score("how do I build a road", chunk)

	noSection := chunk
	noSection.Section = "Other"
	withoutBonus := Score("how do I build a road", noSection)

	if withBonus <= withoutBonus {
		t.Fatalf("section bonus missing: with = %d, without = %d", withBonus, withoutBonus)
	}
}

func TestScoreIgnoresShortTokens(t *testing.T) {
	chunk := rulebook.Chunk{GameID: "catan", Page: 1, Section: "Setup", Text: "do it to me"}
	if got := Score("do it to", chunk); got != 0 {
		t.Fatalf("Score(short tokens) = %d, want 0", got)
	}
}

func TestScoreSubstringMatchesBothDirections(t *testing.T) {
	chunk := rulebook.Chunk{GameID: "catan", Page: 2, Section: "Trading", Text: "players trade resources"}
	// "trades" contains chunk token fragments and "trade" is contained in "trades".
	if got := Score("trades", chunk); got == 0 {
		t.Fatalf("Score(trades) = 0, want > 0")
	}
	if got := Score("trading", chunk); got == 0 {
		t.Fatalf("Score(trading) = 0, want substring match on section and text")
	}
}

func TestScoreIsCaseInsensitive(t *testing.T) {
	chunk := rulebook.Chunk{GameID: "catan", Page: 2, Section: "Robber", Text: "The ROBBER moves on a seven."}
	if Score("robber", chunk) != Score("RoBbEr", chunk) {
		t.Fatalf("score should not depend on case")
	}
}
