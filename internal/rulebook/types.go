package rulebook

// Chunk is a fixed-size rulebook excerpt tagged with where it came from.
// Chunks are immutable once loaded; the store hands out shared copies.
type Chunk struct {
	ID      string `json:"id"`
	GameID  string `json:"game_id"`
	Page    int    `json:"page"`
	Section string `json:"section"`
	Text    string `json:"text"`
}

// Source identifies the rulebook location a retrieved chunk came from.
type Source struct {
	Page    int    `json:"page"`
	Section string `json:"section"`
}

// ScoredChunk pairs a chunk with its lexical relevance score for one query.
type ScoredChunk struct {
	Chunk Chunk
	Score int
}

// AnswerResult is the grounded answer returned for one question.
// Answer is never empty; no-result conditions degrade to policy text.
type AnswerResult struct {
	Answer  string   `json:"answer"`
	Sources []Source `json:"sources"`
}
