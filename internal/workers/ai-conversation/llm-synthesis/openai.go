// internal/workers/ai-conversation/llm-synthesis/openai.go
package llmsynthesis

import (
	"context"
	"encoding/json"
	"strings"

	"scholarship-workers/internal/common/config"
	apperrors "scholarship-workers/internal/common/errors"
	httpclient "scholarship-workers/internal/common/http"
)

const chatCompletionsPath = "/v1/chat/completions"

// OpenAIBackend speaks the OpenAI-compatible chat completions API.
type OpenAIBackend struct {
	name    string
	model   string
	baseURL string
	apiKey  string
	client  *httpclient.Client
	params  GenerationParams
}

func NewOpenAIBackend(bc config.BackendConfig, client *httpclient.Client, params GenerationParams) *OpenAIBackend {
	return &OpenAIBackend{
		name:    bc.Name,
		model:   bc.Model,
		baseURL: strings.TrimRight(bc.BaseURL, "/"),
		apiKey:  bc.APIKey,
		client:  client,
		params:  params,
	}
}

func (b *OpenAIBackend) Name() string { return b.name }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type openAIErrorBody struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

func (b *OpenAIBackend) Complete(ctx context.Context, prompt string) (string, error) {
	messages := make([]chatMessage, 0, 2)
	if b.params.SystemPrompt != "" {
		messages = append(messages, chatMessage{Role: "system", Content: b.params.SystemPrompt})
	}
	messages = append(messages, chatMessage{Role: "user", Content: prompt})

	payload := chatCompletionRequest{
		Model:       b.model,
		Messages:    messages,
		MaxTokens:   b.params.MaxTokens,
		Temperature: b.params.Temperature,
	}
	headers := map[string]string{"Authorization": "Bearer " + b.apiKey}

	resp, err := b.client.PostJSON(ctx, b.baseURL+chatCompletionsPath, headers, payload)
	if err != nil {
		return "", transportError(b.name, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", statusError(b.name, resp.StatusCode, "", openAIErrorMessage(resp.Body))
	}

	text, ok := b.extractText(resp.Body)
	if !ok {
		return "", apperrors.NewBackendEmptyResponseError(b.name)
	}
	return text, nil
}

// extractText reads choices[0].message.content.
func (b *OpenAIBackend) extractText(raw []byte) (string, bool) {
	var parsed chatCompletionResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", false
	}
	if len(parsed.Choices) == 0 {
		return "", false
	}
	text := strings.TrimSpace(parsed.Choices[0].Message.Content)
	return text, text != ""
}

func openAIErrorMessage(raw []byte) string {
	var body openAIErrorBody
	if err := json.Unmarshal(raw, &body); err == nil && body.Error.Message != "" {
		parts := []string{body.Error.Message}
		if body.Error.Code != "" {
			parts = append(parts, body.Error.Code)
		}
		if body.Error.Type != "" {
			parts = append(parts, body.Error.Type)
		}
		return strings.Join(parts, " ")
	}
	return strings.TrimSpace(string(raw))
}
