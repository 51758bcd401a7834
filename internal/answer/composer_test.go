package answer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/antoniostano/meeple/internal/rulebook"
)

func testStore(t *testing.T) *rulebook.Store {
	t.Helper()
	store, err := rulebook.NewStore([]rulebook.Chunk{
		{ID: "c1", GameID: "catan", Page: 5, Section: "Building Roads", Text: "Building a road costs one brick and one wood."},
		{ID: "c2", GameID: "catan", Page: 9, Section: "Trading", Text: "Players may exchange resources on their turn."},
	})
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	return store
}

func TestAnswerUnknownGameSkipsModel(t *testing.T) {
	model := NewMockModelClient()
	c := NewComposer(testStore(t), model, ComposerConfig{}, nil)

	res := c.Answer(context.Background(), "unknown-game", "how do I build a road")
	if res.Answer != NoRulebookAnswer {
		t.Fatalf("Answer = %q, want %q", res.Answer, NoRulebookAnswer)
	}
	if len(res.Sources) != 0 {
		t.Fatalf("Sources = %v, want empty", res.Sources)
	}
	if model.Calls() != 0 {
		t.Fatalf("model calls = %d, want 0", model.Calls())
	}
}

func TestAnswerNoScoringChunksSkipsModel(t *testing.T) {
	model := NewMockModelClient()
	c := NewComposer(testStore(t), model, ComposerConfig{}, nil)

	res := c.Answer(context.Background(), "catan", "zzzzz qqqqq xxxxx")
	if res.Answer != NotFoundAnswer {
		t.Fatalf("Answer = %q, want %q", res.Answer, NotFoundAnswer)
	}
	if len(res.Sources) != 0 {
		t.Fatalf("Sources = %v, want empty", res.Sources)
	}
	if model.Calls() != 0 {
		t.Fatalf("model calls = %d, want 0", model.Calls())
	}
}

func TestAnswerModelFailureDegrades(t *testing.T) {
	model := NewMockModelClient()
	model.SetError(errors.New("upstream 503"))
	c := NewComposer(testStore(t), model, ComposerConfig{}, nil)

	res := c.Answer(context.Background(), "catan", "how do I build a road")
	if res.Answer != DegradedAnswer {
		t.Fatalf("Answer = %q, want %q", res.Answer, DegradedAnswer)
	}
	if len(res.Sources) != 0 {
		t.Fatalf("Sources = %v, want empty", res.Sources)
	}
	if model.Calls() != 1 {
		t.Fatalf("model calls = %d, want 1", model.Calls())
	}
}

func TestAnswerCarriesRetrievedSources(t *testing.T) {
	model := NewMockModelClient()
	model.SetResponse("A road costs one brick and one wood. Place it adjacent to your pieces.")
	c := NewComposer(testStore(t), model, ComposerConfig{}, nil)

	res := c.Answer(context.Background(), "catan", "how do I build a road")
	if res.Answer == "" {
		t.Fatalf("answer should never be empty")
	}
	if len(res.Sources) == 0 {
		t.Fatalf("expected sources from retrieved chunks")
	}
	if res.Sources[0].Page != 5 || res.Sources[0].Section != "Building Roads" {
		t.Fatalf("top source = %+v, want page 5 Building Roads", res.Sources[0])
	}

	req := model.LastRequest()
	if !strings.Contains(req.User, "[page 5, Building Roads]") {
		t.Fatalf("prompt missing labeled excerpt: %q", req.User)
	}
	if !strings.Contains(req.User, "how do I build a road") {
		t.Fatalf("prompt missing question: %q", req.User)
	}
	if req.MaxOutputTokens != 150 {
		t.Fatalf("MaxOutputTokens = %d, want 150", req.MaxOutputTokens)
	}
	if req.Temperature != 0.3 {
		t.Fatalf("Temperature = %v, want 0.3", req.Temperature)
	}
}

func TestAnswerLimitsSentences(t *testing.T) {
	model := NewMockModelClient()
	model.SetResponse("One. Two! Three? Four. Five.")
	c := NewComposer(testStore(t), model, ComposerConfig{}, nil)

	res := c.Answer(context.Background(), "catan", "how do I build a road")
	if res.Answer != "One. Two. Three." {
		t.Fatalf("Answer = %q, want %q", res.Answer, "One. Two. Three.")
	}
}

func TestAnswerEmptyCompletionFallsBack(t *testing.T) {
	model := NewMockModelClient()
	model.SetResponse("   ...   ")
	c := NewComposer(testStore(t), model, ComposerConfig{}, nil)

	res := c.Answer(context.Background(), "catan", "how do I build a road")
	if res.Answer != NoAnswerText {
		t.Fatalf("Answer = %q, want %q", res.Answer, NoAnswerText)
	}
}
