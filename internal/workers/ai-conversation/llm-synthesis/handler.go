// internal/workers/ai-conversation/llm-synthesis/handler.go
package llmsynthesis

import (
	"context"
	"errors"
	"strings"
	"time"

	"scholarship-workers/internal/common/camunda"
	apperrors "scholarship-workers/internal/common/errors"
	"scholarship-workers/internal/common/logger"
	"scholarship-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "llm-synthesis"
)

type Handler struct {
	config       *Config
	orchestrator *Orchestrator
	logger       logger.Logger
	errHandler   *apperrors.ErrorHandler
}

func NewHandler(config *Config, orchestrator *Orchestrator, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		orchestrator: orchestrator,
		logger:       l,
		errHandler:   apperrors.NewErrorHandler(l),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	started := time.Now()
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
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

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	message := strings.TrimSpace(input.Message)
	if message == "" {
		return nil, apperrors.NewInvalidInputError("message is required")
	}

	prompt := strings.TrimSpace(input.Prompt)
	if prompt == "" {
		prompt = BuildQuestionPrompt(message, models.Profile{})
	}

	result, err := h.orchestrator.Complete(ctx, Request{Prompt: prompt, Message: message})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, apperrors.NewRequestCancelledError(err)
		}
		return nil, err
	}

	h.logger.Info("completion finished", map[string]interface{}{
		"provider":     result.Provider,
		"fromTemplate": result.FromTemplate,
		"attempts":     len(result.Attempts),
	})

	return &Output{
		Reply:        result.Text,
		Provider:     result.Provider,
		FromTemplate: result.FromTemplate,
		Attempts:     result.Attempts,
	}, nil
}
