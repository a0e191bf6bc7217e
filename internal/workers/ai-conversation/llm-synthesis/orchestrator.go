// internal/workers/ai-conversation/llm-synthesis/orchestrator.go
package llmsynthesis

import (
	"context"
	"errors"
	"strings"
	"time"

	apperrors "scholarship-workers/internal/common/errors"
	"scholarship-workers/internal/common/logger"
	"scholarship-workers/internal/common/metrics"
	"scholarship-workers/internal/common/observability"
	templatefallback "scholarship-workers/internal/workers/ai-conversation/template-fallback"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TemplateProvider is reported as the provider of template replies.
const TemplateProvider = "template"

type AttemptRecord struct {
	Provider          string    `json:"provider"`
	AttemptIndex      int       `json:"attemptIndex"`
	StartedAt         time.Time `json:"startedAt"`
	Outcome           Outcome   `json:"outcome"`
	DelayBeforeNextMs int64     `json:"delayBeforeNextMs"`
	Error             string    `json:"error,omitempty"`
}

type Request struct {
	Prompt string
	// Message selects the template when every backend fails.
	Message string
}

type Result struct {
	Text         string          `json:"text"`
	Provider     string          `json:"provider"`
	FromTemplate bool            `json:"fromTemplate"`
	Attempts     []AttemptRecord `json:"attempts"`
}

type Option func(*Orchestrator)

// WithTracer replaces the global tracer.
func WithTracer(t trace.Tracer) Option {
	return func(o *Orchestrator) { o.tracer = t }
}

// WithFallback replaces the template generator.
func WithFallback(fn func(message string) string) Option {
	return func(o *Orchestrator) { o.fallback = fn }
}

// Orchestrator tries backends in order, retrying each under Policy, and ends
// in template text when all of them fail.
type Orchestrator struct {
	backends []Backend
	policy   Policy
	fallback func(message string) string
	tracer   trace.Tracer
	logger   logger.Logger
}

func NewOrchestrator(backends []Backend, policy Policy, log logger.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		backends: backends,
		policy:   policy.withDefaults(),
		fallback: templatefallback.Generate,
		tracer:   observability.Tracer(),
		logger:   log,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// TemplateOnly reports whether no backend is configured.
func (o *Orchestrator) TemplateOnly() bool {
	return len(o.backends) == 0
}

// Complete returns reply text. Backend failures never surface as errors;
// only cancellation of ctx does, as context.Canceled. When ctx carries a
// deadline it is shared across the remaining backends, and running out of
// it ends in template text.
func (o *Orchestrator) Complete(ctx context.Context, req Request) (*Result, error) {
	if callerGone(ctx) {
		return nil, ctx.Err()
	}

	if o.TemplateOnly() {
		metrics.CompletionFallbacks.WithLabelValues(metrics.FallbackNoBackend).Inc()
		return o.templateResult(req, nil), nil
	}

	attempts := make([]AttemptRecord, 0, len(o.backends)*o.policy.MaxAttempts)

	for i, b := range o.backends {
		budget, cancel := backendBudget(ctx, len(o.backends)-i)
		text, records, err := o.runBackend(ctx, budget, b, req.Prompt)
		cancel()
		attempts = append(attempts, records...)
		if err != nil {
			return nil, err
		}
		if text != "" {
			return &Result{Text: text, Provider: b.Name(), Attempts: attempts}, nil
		}
	}

	metrics.CompletionFallbacks.WithLabelValues(metrics.FallbackExhausted).Inc()
	o.logger.Warn("all completion backends failed, using template", map[string]interface{}{
		"attempts": len(attempts),
		"deadline": ctx.Err() != nil,
	})
	return o.templateResult(req, attempts), nil
}

// runBackend retries one backend under Policy. Text is empty unless an
// attempt succeeded; the error is non-nil only when the caller went away.
func (o *Orchestrator) runBackend(ctx, budget context.Context, b Backend, prompt string) (string, []AttemptRecord, error) {
	var records []AttemptRecord
	fields := logger.BackendFields(b.Name(), "")

	for k := 0; k < o.policy.MaxAttempts; k++ {
		if budget.Err() != nil {
			if callerGone(ctx) {
				return "", records, ctx.Err()
			}
			o.logger.Warn("completion budget spent, switching backend", logger.Merge(fields, map[string]interface{}{"attempt": k}))
			return "", records, nil
		}

		record := AttemptRecord{Provider: b.Name(), AttemptIndex: k, StartedAt: time.Now()}
		text, err := o.attempt(budget, b, k, prompt)
		if callerGone(ctx) {
			return "", records, ctx.Err()
		}

		record.Outcome = Classify(err)
		metrics.CompletionAttempts.WithLabelValues(b.Name(), string(record.Outcome)).Inc()

		switch record.Outcome {
		case OutcomeSuccess:
			o.logger.Info("completion succeeded", logger.Merge(fields, map[string]interface{}{
				"attempt": k,
				"preview": logger.TruncateForLog(text, 120),
			}))
			return text, append(records, record), nil

		case OutcomeFatal:
			record.Error = err.Error()
			o.logger.Warn("completion backend failed, switching backend", logger.Merge(fields, map[string]interface{}{
				"attempt": k,
				"error":   err,
			}))
			return "", append(records, record), nil
		}

		record.Error = err.Error()
		last := k == o.policy.MaxAttempts-1 || budget.Err() != nil
		var delay time.Duration
		if !last {
			delay = o.policy.Delay(k)
			record.DelayBeforeNextMs = delay.Milliseconds()
		}
		records = append(records, record)
		o.logger.Warn("completion attempt failed", logger.Merge(fields, map[string]interface{}{
			"attempt":  k,
			"error":    err,
			"delay_ms": delay.Milliseconds(),
		}))
		if last {
			return "", records, nil
		}
		if err := sleep(budget, delay); err != nil && callerGone(ctx) {
			return "", records, ctx.Err()
		}
	}
	return "", records, nil
}

// backendBudget bounds one backend by an equal share of the time left on
// ctx, so a hung backend still leaves room for the ones after it.
func backendBudget(ctx context.Context, remaining int) (context.Context, context.CancelFunc) {
	deadline, ok := ctx.Deadline()
	if !ok || remaining < 1 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, time.Until(deadline)/time.Duration(remaining))
}

// callerGone separates caller cancellation from an expired deadline, which
// still ends in template text.
func callerGone(ctx context.Context) bool {
	return errors.Is(ctx.Err(), context.Canceled)
}

func (o *Orchestrator) templateResult(req Request, attempts []AttemptRecord) *Result {
	if attempts == nil {
		attempts = []AttemptRecord{}
	}
	return &Result{
		Text:         o.fallback(req.Message),
		Provider:     TemplateProvider,
		FromTemplate: true,
		Attempts:     attempts,
	}
}

// attempt runs one call under its own deadline. Any deadline hit, the
// attempt's or the budget's, becomes a retryable timeout error.
func (o *Orchestrator) attempt(ctx context.Context, b Backend, k int, prompt string) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, o.policy.AttemptTimeout)
	defer cancel()

	attemptCtx, span := o.tracer.Start(attemptCtx, "completion.attempt", trace.WithAttributes(
		attribute.String("provider", b.Name()),
		attribute.Int("attempt", k),
	))
	defer span.End()

	text, err := b.Complete(attemptCtx, prompt)
	text = strings.TrimSpace(text)
	if err == nil && text == "" {
		err = apperrors.NewBackendEmptyResponseError(b.Name())
	}
	if err != nil && errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
		err = apperrors.NewBackendTimeoutError(b.Name(), o.policy.AttemptTimeout)
	}

	outcome := Classify(err)
	span.SetAttributes(attribute.String("outcome", string(outcome)))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return text, err
}
