package answer

import "context"

// ModelRequest carries one grounded completion request to the language model.
type ModelRequest struct {
	System          string
	User            string
	MaxOutputTokens int32
	Temperature     float32
}

// ModelClient is the external language-model service. Implementations return
// the first completion's text; any transport, status, or payload problem is
// an error the composer degrades into policy text.
type ModelClient interface {
	Complete(ctx context.Context, req ModelRequest) (string, error)
	Close() error
}
