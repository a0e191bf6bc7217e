// internal/workers/ai-conversation/scholarship-chat/handler.go
package scholarshipchat

import (
	"context"
	"errors"
	"strings"
	"time"

	"scholarship-workers/internal/common/camunda"
	apperrors "scholarship-workers/internal/common/errors"
	"scholarship-workers/internal/common/logger"
	"scholarship-workers/internal/common/metrics"
	"scholarship-workers/internal/common/observability"
	"scholarship-workers/internal/models"
	llmsynthesis "scholarship-workers/internal/workers/ai-conversation/llm-synthesis"
	parseuserintent "scholarship-workers/internal/workers/ai-conversation/parse-user-intent"
	queryscholarships "scholarship-workers/internal/workers/data-access/query-scholarships"
	buildresponse "scholarship-workers/internal/workers/infrastructure/build-response"
	normalizeprofile "scholarship-workers/internal/workers/scholarship/normalize-profile"
	rankcandidates "scholarship-workers/internal/workers/scholarship/rank-candidates"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const (
	TaskType = "scholarship-chat"
)

// RequestRecorder receives one observation per finished request.
type RequestRecorder interface {
	RecordRequest(ctx context.Context, responseType string, duration time.Duration)
}

type Option func(*Handler)

func WithTracer(t trace.Tracer) Option {
	return func(h *Handler) { h.tracer = t }
}

func WithRecorder(r RequestRecorder) Option {
	return func(h *Handler) { h.recorder = r }
}

func WithClock(now func() time.Time) Option {
	return func(h *Handler) { h.now = now }
}

type Handler struct {
	config       *Config
	normalizer   *normalizeprofile.Handler
	candidates   queryscholarships.CandidateSource
	orchestrator *llmsynthesis.Orchestrator
	tracer       trace.Tracer
	recorder     RequestRecorder
	now          func() time.Time
	logger       logger.Logger
	errHandler   *apperrors.ErrorHandler
}

// NewHandler wires the chat pipeline. candidates may be nil, in which case
// search requests rank an empty set.
func NewHandler(
	config *Config,
	normalizer *normalizeprofile.Handler,
	candidates queryscholarships.CandidateSource,
	orchestrator *llmsynthesis.Orchestrator,
	log logger.Logger,
	opts ...Option,
) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	h := &Handler{
		config:       config,
		normalizer:   normalizer,
		candidates:   candidates,
		orchestrator: orchestrator,
		tracer:       observability.Tracer(),
		now:          time.Now,
		logger:       l,
		errHandler:   apperrors.NewErrorHandler(l),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	started := time.Now()
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input models.ChatRequest
	if err := camunda.DecodeVariables(TaskType, job, &input); err != nil {
		camunda.FailJob(ctx, client, job, err, started, h.errHandler)
		return
	}

	output, err := h.Execute(ctx, &input)
	if err != nil {
		camunda.FailJob(ctx, client, job, err, started, h.errHandler)
		return
	}

	camunda.CompleteJob(ctx, client, job, output, started, h.logger)
}

// Execute answers one chat message. Only an empty message and caller
// cancellation are reported as errors; storage and completion failures,
// and running out of ctx's deadline, degrade to fewer matches or a
// template reply.
func (h *Handler) Execute(ctx context.Context, req *models.ChatRequest) (*models.ChatResponse, error) {
	started := h.now()

	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, apperrors.NewInvalidInputError("message is required")
	}

	ctx, span := h.tracer.Start(ctx, "scholarship.chat")
	defer span.End()

	isSearch := parseuserintent.IsSearch(message)
	span.SetAttributes(attribute.Bool("search", isSearch))

	var (
		profile    models.Profile
		candidates []models.Scholarship
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		profile = h.normalizer.Normalize(gctx, &normalizeprofile.Input{
			Message:    message,
			UserID:     req.UserID,
			FinderData: finderData(req),
		})
		return nil
	})
	if isSearch {
		g.Go(func() error {
			candidates = h.fetchCandidates(gctx, started)
			return nil
		})
	}
	_ = g.Wait()

	// an expired deadline still gets a template reply below
	if err := ctx.Err(); errors.Is(err, context.Canceled) {
		return nil, apperrors.NewRequestCancelledError(err)
	}

	byID := models.IndexByID(candidates)
	var matches []models.MatchResult
	if isSearch {
		matches = rankcandidates.Rank(profile, candidates, h.config.Ranking)
	}

	prompt := llmsynthesis.BuildQuestionPrompt(message, profile)
	if len(matches) > 0 {
		prompt = llmsynthesis.BuildMatchPrompt(message, profile, matches, byID)
	}

	result, err := h.orchestrator.Complete(ctx, llmsynthesis.Request{Prompt: prompt, Message: message})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, apperrors.NewRequestCancelledError(err)
		}
		return nil, err
	}

	resp := buildresponse.ToChatResponse(buildresponse.Assemble(result.Text, isSearch, matches), byID)

	elapsed := h.now().Sub(started)
	metrics.ChatRequests.WithLabelValues(resp.Type).Inc()
	if isSearch {
		metrics.MatchesReturned.Observe(float64(len(resp.Matches)))
	}
	if h.recorder != nil {
		h.recorder.RecordRequest(ctx, resp.Type, elapsed)
	}
	span.SetAttributes(
		attribute.String("response.type", resp.Type),
		attribute.Int("matches", len(resp.Matches)),
		attribute.String("provider", result.Provider),
	)

	h.logger.Info("chat request answered", map[string]interface{}{
		"userId":       req.UserID,
		"search":       isSearch,
		"candidates":   len(candidates),
		"matches":      len(resp.Matches),
		"provider":     result.Provider,
		"fromTemplate": result.FromTemplate,
		"duration_ms":  elapsed.Milliseconds(),
	})
	return &resp, nil
}

func (h *Handler) fetchCandidates(ctx context.Context, now time.Time) []models.Scholarship {
	if h.candidates == nil {
		return nil
	}
	if h.config.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.config.FetchTimeout)
		defer cancel()
	}

	found, err := h.candidates.FetchOpen(ctx, now, h.config.CandidateCap)
	if err != nil {
		h.logger.Warn("candidate fetch failed, ranking an empty set", map[string]interface{}{
			"source": h.candidates.Name(),
			"error":  err,
		})
		return nil
	}
	return found
}

func finderData(req *models.ChatRequest) map[string]interface{} {
	if req.Context == nil {
		return nil
	}
	return req.Context.FinderData
}
