package llmsynthesis

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"scholarship-workers/internal/common/config"
	apperrors "scholarship-workers/internal/common/errors"
	httpclient "scholarship-workers/internal/common/http"
	"scholarship-workers/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func testParams() GenerationParams {
	return GenerationParams{SystemPrompt: SystemPrompt, MaxTokens: 256, Temperature: 0.2}
}

func newOpenAIForServer(server *httptest.Server) *OpenAIBackend {
	return NewOpenAIBackend(config.BackendConfig{
		Name:    "primary",
		Kind:    config.BackendKindOpenAI,
		APIKey:  "sk-test",
		Model:   "gpt-4o-mini",
		BaseURL: server.URL + "/",
	}, httpclient.NewClientWith(server.Client()), testParams())
}

func TestOpenAIBackend_Complete(t *testing.T) {
	var received chatCompletionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, chatCompletionsPath, r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":" You match 3 scholarships. "}}]}`))
	}))
	defer server.Close()

	text, err := newOpenAIForServer(server).Complete(context.Background(), "prompt body")

	require.NoError(t, err)
	assert.Equal(t, "You match 3 scholarships.", text)
	assert.Equal(t, "gpt-4o-mini", received.Model)
	assert.Equal(t, 256, received.MaxTokens)
	require.Len(t, received.Messages, 2)
	assert.Equal(t, "system", received.Messages[0].Role)
	assert.Equal(t, "user", received.Messages[1].Role)
	assert.Equal(t, "prompt body", received.Messages[1].Content)
}

func TestOpenAIBackend_StatusMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		expected apperrors.ErrorCode
		outcome  Outcome
	}{
		{"rate limited", 429, `{"error":{"message":"Rate limit reached","type":"requests"}}`, apperrors.ErrCodeBackendRateLimited, OutcomeRetryable},
		{"server error", 500, `internal`, apperrors.ErrCodeBackendUnavailable, OutcomeRetryable},
		{"bad gateway", 502, ``, apperrors.ErrCodeBackendUnavailable, OutcomeRetryable},
		{"bad key", 401, `{"error":{"message":"Incorrect API key provided","code":"invalid_api_key"}}`, apperrors.ErrCodeBackendAuthFailed, OutcomeFatal},
		{"billing", 403, `{"error":{"message":"Your account is not active, please check your billing details"}}`, apperrors.ErrCodeBackendBilling, OutcomeFatal},
		{"forbidden", 403, `{"error":{"message":"Country not supported"}}`, apperrors.ErrCodeBackendAuthFailed, OutcomeFatal},
		{"bad request", 400, `{"error":{"message":"max_tokens is too large"}}`, apperrors.ErrCodeBackendMalformedRequest, OutcomeFatal},
		{"unknown model", 404, `{"error":{"message":"The model does not exist"}}`, apperrors.ErrCodeBackendMalformedRequest, OutcomeFatal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := newOpenAIForServer(server).Complete(context.Background(), "p")

			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, tt.expected), "got %v", err)
			assert.Equal(t, tt.outcome, Classify(err))
		})
	}
}

func TestOpenAIBackend_EmptyReply(t *testing.T) {
	bodies := []string{
		`{"choices":[]}`,
		`{"choices":[{"message":{"content":"   "}}]}`,
		`not json`,
	}
	for _, body := range bodies {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		}))

		_, err := newOpenAIForServer(server).Complete(context.Background(), "p")
		server.Close()

		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeBackendEmptyResponse), "body %q", body)
		assert.Equal(t, OutcomeFatal, Classify(err))
	}
}

func TestOpenAIBackend_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	backend := newOpenAIForServer(server)
	server.Close()

	_, err := backend.Complete(context.Background(), "p")

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeBackendUnavailable))
	assert.Equal(t, OutcomeRetryable, Classify(err))
}

type fakeModels struct {
	resp   *genai.GenerateContentResponse
	err    error
	model  string
	config *genai.GenerateContentConfig
	prompt string
}

func (f *fakeModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.config = cfg
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.prompt = contents[0].Parts[0].Text
	}
	return f.resp, f.err
}

func textResponse(parts ...string) *genai.GenerateContentResponse {
	content := &genai.Content{}
	for _, p := range parts {
		content.Parts = append(content.Parts, &genai.Part{Text: p})
	}
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: content}}}
}

func TestGeminiBackend_Complete(t *testing.T) {
	fake := &fakeModels{resp: textResponse("First line.", "  ", "Second line.")}
	backend := newGeminiBackend("secondary", "gemini-2.5-flash", fake, testParams())

	text, err := backend.Complete(context.Background(), "prompt body")

	require.NoError(t, err)
	assert.Equal(t, "First line.\nSecond line.", text)
	assert.Equal(t, "gemini-2.5-flash", fake.model)
	assert.Equal(t, "prompt body", fake.prompt)
	require.NotNil(t, fake.config)
	assert.Equal(t, int32(256), fake.config.MaxOutputTokens)
	require.NotNil(t, fake.config.SystemInstruction)
	assert.Equal(t, SystemPrompt, fake.config.SystemInstruction.Parts[0].Text)
}

func TestGeminiBackend_Errors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		resp     *genai.GenerateContentResponse
		expected apperrors.ErrorCode
		outcome  Outcome
	}{
		{
			name:     "quota exhausted",
			err:      genai.APIError{Code: http.StatusTooManyRequests, Status: "RESOURCE_EXHAUSTED", Message: "quota exceeded"},
			expected: apperrors.ErrCodeBackendRateLimited,
			outcome:  OutcomeRetryable,
		},
		{
			name:     "internal",
			err:      genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"},
			expected: apperrors.ErrCodeBackendUnavailable,
			outcome:  OutcomeRetryable,
		},
		{
			name:     "invalid key",
			err:      genai.APIError{Code: http.StatusBadRequest, Status: "INVALID_ARGUMENT", Message: "API key not valid"},
			expected: apperrors.ErrCodeBackendMalformedRequest,
			outcome:  OutcomeFatal,
		},
		{
			name:     "permission denied",
			err:      genai.APIError{Code: http.StatusForbidden, Status: "PERMISSION_DENIED", Message: "caller lacks permission"},
			expected: apperrors.ErrCodeBackendAuthFailed,
			outcome:  OutcomeFatal,
		},
		{
			name:     "no candidates",
			resp:     &genai.GenerateContentResponse{},
			expected: apperrors.ErrCodeBackendEmptyResponse,
			outcome:  OutcomeFatal,
		},
		{
			name:     "nil response",
			expected: apperrors.ErrCodeBackendEmptyResponse,
			outcome:  OutcomeFatal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := newGeminiBackend("secondary", "gemini-2.5-flash", &fakeModels{resp: tt.resp, err: tt.err}, testParams())

			_, err := backend.Complete(context.Background(), "p")

			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, tt.expected), "got %v", err)
			assert.Equal(t, tt.outcome, Classify(err))
		})
	}
}

func TestGeminiBackend_ContextErrorsPassThrough(t *testing.T) {
	backend := newGeminiBackend("secondary", "m", &fakeModels{err: context.DeadlineExceeded}, testParams())

	_, err := backend.Complete(context.Background(), "p")

	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestNewBackends(t *testing.T) {
	cfg := config.CompletionConfig{
		Backends: []config.BackendConfig{
			{Name: "primary", Kind: config.BackendKindOpenAI, Enabled: true, APIKey: "k", Model: "gpt-4o-mini", BaseURL: "https://api.openai.com"},
			{Name: "off", Kind: config.BackendKindOpenAI, Enabled: false},
			{Name: "secondary", Kind: config.BackendKindGemini, Enabled: true, APIKey: ""},
		},
	}

	backends := NewBackends(context.Background(), cfg, logger.NewTestLogger(t))

	// the gemini entry has no key and is skipped
	require.Len(t, backends, 1)
	assert.Equal(t, "primary", backends[0].Name())
}
