package answer

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/antoniostano/meeple/internal/observability"
	"github.com/antoniostano/meeple/internal/retrieval"
	"github.com/antoniostano/meeple/internal/rulebook"
)

const (
	// Fixed answers for the degraded paths. These are user-visible policy
	// text; the answer is never allowed to be empty.
	NoRulebookAnswer = "I don't have a rulebook loaded for that game yet."
	NotFoundAnswer   = "I couldn't find that in the rulebook excerpts I have. Please check the physical rulebook."
	DegradedAnswer   = "I'm having trouble reaching the rules service right now. Please try again in a moment."
	NoAnswerText     = "I don't have an answer for that."

	systemInstruction = "You are a board game rules assistant. Answer the question using only the " +
		"rulebook excerpts provided. Use at most three sentences. If the excerpts do not cover the " +
		"question, say you are not sure rather than inventing a rule."

	maxSentences       = 3
	defaultMaxTokens   = 150
	defaultTemperature = 0.3
	modelCallTimeout   = 20 * time.Second
)

// ComposerConfig carries the retrieval and generation knobs. Zero values
// fall back to the standard defaults.
type ComposerConfig struct {
	TopN            int
	MaxOutputTokens int
	Temperature     float64
}

func (c ComposerConfig) withDefaults() ComposerConfig {
	if c.TopN <= 0 {
		c.TopN = retrieval.DefaultTopN
	}
	if c.MaxOutputTokens <= 0 {
		c.MaxOutputTokens = defaultMaxTokens
	}
	if c.Temperature <= 0 {
		c.Temperature = defaultTemperature
	}
	return c
}

// Composer answers questions by retrieving rulebook chunks and asking the
// model for a grounded completion. Every failure path degrades into fixed
// policy text; Answer never returns an empty answer and never propagates a
// model error to the caller.
type Composer struct {
	store   *rulebook.Store
	model   ModelClient
	cfg     ComposerConfig
	metrics *observability.Metrics
}

func NewComposer(store *rulebook.Store, model ModelClient, cfg ComposerConfig, metrics *observability.Metrics) *Composer {
	return &Composer{store: store, model: model, cfg: cfg.withDefaults(), metrics: metrics}
}

func (c *Composer) Answer(ctx context.Context, gameID, question string) rulebook.AnswerResult {
	started := time.Now()
	defer func() {
		if c.metrics != nil {
			c.metrics.AnswerLatency.Observe(float64(time.Since(started).Milliseconds()))
		}
	}()

	chunks := c.store.Game(gameID)
	if len(chunks) == 0 {
		return rulebook.AnswerResult{Answer: NoRulebookAnswer, Sources: []rulebook.Source{}}
	}

	retrieved := retrieval.Retrieve(question, chunks, c.cfg.TopN)
	if c.metrics != nil {
		c.metrics.RetrievalChunks.Observe(float64(len(retrieved)))
	}
	if len(retrieved) == 0 {
		// Never call the model without grounding context.
		return rulebook.AnswerResult{Answer: NotFoundAnswer, Sources: []rulebook.Source{}}
	}

	callCtx, cancel := context.WithTimeout(ctx, modelCallTimeout)
	defer cancel()

	raw, err := c.model.Complete(callCtx, ModelRequest{
		System:          systemInstruction,
		User:            composeUserPrompt(question, retrieved),
		MaxOutputTokens: int32(c.cfg.MaxOutputTokens),
		Temperature:     float32(c.cfg.Temperature),
	})
	if err != nil {
		log.Printf("model call failed for game %q: %v", gameID, err)
		if c.metrics != nil {
			c.metrics.ModelCalls.WithLabelValues("error").Inc()
		}
		return rulebook.AnswerResult{Answer: DegradedAnswer, Sources: []rulebook.Source{}}
	}
	if c.metrics != nil {
		c.metrics.ModelCalls.WithLabelValues("ok").Inc()
	}

	answer := LimitSentences(strings.TrimSpace(raw), maxSentences)
	if answer == "" {
		answer = NoAnswerText
	}

	sources := make([]rulebook.Source, 0, len(retrieved))
	for _, ch := range retrieved {
		sources = append(sources, rulebook.Source{Page: ch.Page, Section: ch.Section})
	}
	return rulebook.AnswerResult{Answer: answer, Sources: sources}
}

func composeUserPrompt(question string, chunks []rulebook.Chunk) string {
	var b strings.Builder
	b.WriteString("Question: ")
	b.WriteString(strings.TrimSpace(question))
	b.WriteString("\n\nRulebook excerpts:\n")
	for _, c := range chunks {
		fmt.Fprintf(&b, "\n[page %d, %s]\n%s\n", c.Page, c.Section, c.Text)
	}
	return b.String()
}
