// internal/workers/ai-conversation/llm-synthesis/gemini.go
package llmsynthesis

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"scholarship-workers/internal/common/config"
	apperrors "scholarship-workers/internal/common/errors"

	"google.golang.org/genai"
)

// contentGenerator is the subset of genai.Models in use; tests fake it.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiBackend calls Google GenAI through the Gemini API backend.
type GeminiBackend struct {
	name   string
	model  string
	models contentGenerator
	params GenerationParams
}

func NewGeminiBackend(ctx context.Context, bc config.BackendConfig, params GenerationParams) (*GeminiBackend, error) {
	apiKey := strings.TrimSpace(bc.APIKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return newGeminiBackend(bc.Name, bc.Model, client.Models, params), nil
}

func newGeminiBackend(name, model string, models contentGenerator, params GenerationParams) *GeminiBackend {
	return &GeminiBackend{name: name, model: model, models: models, params: params}
}

func (b *GeminiBackend) Name() string { return b.name }

func (b *GeminiBackend) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := b.models.GenerateContent(ctx, b.model, genai.Text(prompt), b.generateConfig())
	if err != nil {
		return "", b.mapError(err)
	}

	text, ok := b.extractText(resp)
	if !ok {
		return "", apperrors.NewBackendEmptyResponseError(b.name)
	}
	return text, nil
}

func (b *GeminiBackend) generateConfig() *genai.GenerateContentConfig {
	temperature := float32(b.params.Temperature)
	cfg := &genai.GenerateContentConfig{
		Temperature: &temperature,
	}
	if b.params.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(b.params.MaxTokens)
	}
	if b.params.SystemPrompt != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: b.params.SystemPrompt}}}
	}
	return cfg
}

// extractText joins the text parts of every candidate.
func (b *GeminiBackend) extractText(resp *genai.GenerateContentResponse) (string, bool) {
	if resp == nil {
		return "", false
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	output := strings.TrimSpace(builder.String())
	return output, output != ""
}

func (b *GeminiBackend) mapError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return statusError(b.name, apiErr.Code, apiErr.Status, apiErr.Message)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return statusError(b.name, apiErrPtr.Code, apiErrPtr.Status, apiErrPtr.Message)
	}
	return transportError(b.name, err)
}
