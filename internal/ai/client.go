package ai

import (
	"context"
	"errors"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

// TextModel is the single seam to the external language model. The
// recommendation service only needs prompt-in/text-out; tests substitute
// a fake.
type TextModel interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeminiModel adapts the langchaingo Google AI client to TextModel.
type GeminiModel struct {
	llm llms.Model
}

func NewGeminiModel(ctx context.Context, apiKey, model string) (*GeminiModel, error) {
	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(model),
	)
	if err != nil {
		return nil, err
	}
	return &GeminiModel{llm: llm}, nil
}

func (g *GeminiModel) Generate(ctx context.Context, prompt string) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, g.llm, prompt)
}

// ErrModelUnavailable is returned by Unavailable on every call.
var ErrModelUnavailable = errors.New("text model is not configured")

// Unavailable stands in when no API key is configured. Callers degrade
// to their defaults on the error it returns.
type Unavailable struct{}

func (Unavailable) Generate(ctx context.Context, prompt string) (string, error) {
	return "", ErrModelUnavailable
}

// StripJSONFences removes a surrounding markdown code fence, which some
// models emit even when asked for raw JSON.
func StripJSONFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
