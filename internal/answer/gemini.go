package answer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/antoniostano/meeple/internal/reliability"
)

// GeminiClient calls the Gemini API for grounded completions.
type GeminiClient struct {
	client  *genai.Client
	modelID string
}

func NewGeminiClient(ctx context.Context, apiKey, modelID string) (*GeminiClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiClient{client: client, modelID: modelID}, nil
}

func (c *GeminiClient) Complete(ctx context.Context, req ModelRequest) (string, error) {
	text, err := c.generate(ctx, req)
	if err == nil {
		return text, nil
	}

	// One immediate retry on retryable upstream statuses; anything else is
	// the caller's degraded path.
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && reliability.IsRetryableHTTPStatus(apiErr.Code) {
		return c.generate(ctx, req)
	}
	return "", err
}

func (c *GeminiClient) generate(ctx context.Context, req ModelRequest) (string, error) {
	model := c.client.GenerativeModel(c.modelID)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(req.System)},
	}

	maxTokens := req.MaxOutputTokens
	temp := req.Temperature
	model.GenerationConfig = genai.GenerationConfig{
		MaxOutputTokens: &maxTokens,
		Temperature:     &temp,
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.User))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini response had no candidates")
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			text.WriteString(string(txt))
		}
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("gemini response had no text parts")
	}
	return text.String(), nil
}

func (c *GeminiClient) Close() error {
	return c.client.Close()
}
