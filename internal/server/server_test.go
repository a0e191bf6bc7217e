package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"scholarship-workers/internal/common/config"
	"scholarship-workers/internal/common/database"
	apperrors "scholarship-workers/internal/common/errors"
	"scholarship-workers/internal/common/logger"
	"scholarship-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChat struct {
	resp  *models.ChatResponse
	err   error
	panic bool
	got   *models.ChatRequest
}

func (f *fakeChat) Execute(ctx context.Context, req *models.ChatRequest) (*models.ChatResponse, error) {
	if f.panic {
		panic("boom")
	}
	f.got = req
	return f.resp, f.err
}

type fakePinger struct {
	name string
	err  error
}

func (f fakePinger) Name() string                   { return f.name }
func (f fakePinger) Ping(ctx context.Context) error { return f.err }

func testConfig(env string) *config.Config {
	return &config.Config{
		App:    config.AppConfig{Environment: env, Version: "1.2.3"},
		Server: config.ServerConfig{RequestTimeoutMs: 5000},
	}
}

func newTestServer(t *testing.T, env string, chat ChatService, limiter *RateLimiter, checks ...database.Pinger) http.Handler {
	t.Helper()
	return New(testConfig(env), chat, limiter, checks, logger.NewTestLogger(t)).Routes()
}

func postChat(t *testing.T, h http.Handler, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestChat_Success(t *testing.T) {
	total := 1
	chat := &fakeChat{resp: &models.ChatResponse{
		Reply:      "One match found.",
		Type:       models.ResponseTypeMatches,
		Matches:    []models.MatchPayload{{Scholarship: models.ScholarshipSummary{ID: "s-1"}, MatchScore: 90}},
		TotalFound: &total,
	}}
	h := newTestServer(t, "development", chat, nil)

	rec := postChat(t, h, `{"message":"find scholarships for me","userId":"u-1","context":{"finderData":{"country":"Kenya","gpa":"3.4"}}}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))

	require.NotNil(t, chat.got)
	assert.Equal(t, "u-1", chat.got.UserID)
	require.NotNil(t, chat.got.Context)
	assert.Equal(t, "Kenya", chat.got.Context.FinderData["country"])

	var resp models.ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "scholarship_matches", resp.Type)
	require.NotNil(t, resp.TotalFound)
	assert.Equal(t, 1, *resp.TotalFound)
}

func TestChat_RequestIDEchoed(t *testing.T) {
	h := newTestServer(t, "development", &fakeChat{resp: &models.ChatResponse{Reply: "hi", Type: "text"}}, nil)

	rec := postChat(t, h, `{"message":"hello"}`, map[string]string{requestIDHeader: "req-42"})
	assert.Equal(t, "req-42", rec.Header().Get(requestIDHeader))
}

func TestChat_InvalidBodies(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantError string
	}{
		{"missing message", `{}`, "message"},
		{"empty message", `{"message":""}`, "message"},
		{"wrong user id type", `{"message":"hi","userId":5}`, "userId"},
		{"not json", `message=hi`, "Malformed request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chat := &fakeChat{}
			rec := postChat(t, newTestServer(t, "development", chat, nil), tt.body, nil)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			body := decodeError(t, rec)
			assert.Contains(t, body["error"], tt.wantError)
			assert.Equal(t, float64(http.StatusBadRequest), body["status"])
			assert.Nil(t, chat.got)
		})
	}
}

func TestChat_ServiceValidationError(t *testing.T) {
	chat := &fakeChat{err: apperrors.NewInvalidInputError("message is required")}
	rec := postChat(t, newTestServer(t, "development", chat, nil), `{"message":"   "}`, nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "message is required", decodeError(t, rec)["error"])
}

func TestChat_InternalErrorDiagnostic(t *testing.T) {
	chat := &fakeChat{err: apperrors.NewInternalError(errors.New("db down"))}

	t.Run("development carries diagnostic", func(t *testing.T) {
		rec := postChat(t, newTestServer(t, "development", chat, nil), `{"message":"hi"}`, nil)
		require.Equal(t, http.StatusInternalServerError, rec.Code)

		body := decodeError(t, rec)
		assert.Equal(t, "Something went wrong, please try again", body["error"])
		assert.Equal(t, "INTERNAL_ERROR: db down", body["diagnostic"])
	})

	t.Run("production hides diagnostic", func(t *testing.T) {
		rec := postChat(t, newTestServer(t, "production", chat, nil), `{"message":"hi"}`, nil)
		require.Equal(t, http.StatusInternalServerError, rec.Code)

		body := decodeError(t, rec)
		assert.NotContains(t, body, "diagnostic")
		assert.NotContains(t, rec.Body.String(), "db down")
	})
}

func TestChat_PanicRecovered(t *testing.T) {
	rec := postChat(t, newTestServer(t, "production", &fakeChat{panic: true}, nil), `{"message":"hi"}`, nil)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, float64(http.StatusInternalServerError), decodeError(t, rec)["status"])
}

func TestHealthAndReady(t *testing.T) {
	t.Run("health", func(t *testing.T) {
		rec := httptest.NewRecorder()
		newTestServer(t, "test", &fakeChat{}, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ok","version":"1.2.3"}`, rec.Body.String())
	})

	t.Run("ready", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h := newTestServer(t, "test", &fakeChat{}, nil, fakePinger{name: "postgres"}, fakePinger{name: "redis"})
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ready"}`, rec.Body.String())
	})

	t.Run("not ready", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h := newTestServer(t, "test", &fakeChat{}, nil, fakePinger{name: "postgres"}, fakePinger{name: "redis", err: errors.New("connection refused")})
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.JSONEq(t, `{"status":"unavailable","failures":{"redis":"connection refused"}}`, rec.Body.String())
	})
}

func TestMetricsEndpoint(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer(t, "test", &fakeChat{}, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestChat_Timeout(t *testing.T) {
	chat := &fakeChat{err: apperrors.NewRequestCancelledError(context.DeadlineExceeded)}
	rec := postChat(t, newTestServer(t, "development", chat, nil), `{"message":"hi"}`, nil)

	assert.Equal(t, apperrors.StatusClientClosedRequest, rec.Code)
}
