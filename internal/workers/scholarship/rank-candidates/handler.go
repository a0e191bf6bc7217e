// internal/workers/scholarship/rank-candidates/handler.go
package rankcandidates

import (
	"context"
	"time"

	"scholarship-workers/internal/common/camunda"
	apperrors "scholarship-workers/internal/common/errors"
	"scholarship-workers/internal/common/logger"
	"scholarship-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "rank-candidates"
)

type Handler struct {
	config     *Config
	logger     logger.Logger
	errHandler *apperrors.ErrorHandler
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		logger:     l,
		errHandler: apperrors.NewErrorHandler(l),
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

// Execute ranks the candidates. Per-job minScore and limit override the
// configured options.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	opts := h.config.Options
	if input.MinScore != nil {
		opts.MinScore = input.MinScore
	}
	if input.Limit > 0 {
		opts.Limit = input.Limit
	}

	var profile models.Profile
	if input.Profile != nil {
		profile = *input.Profile
	}

	started := time.Now()
	matches := Rank(profile, input.Candidates, opts)
	if elapsed := time.Since(started); elapsed > slowRankThreshold {
		h.logger.Warn("slow ranking", map[string]interface{}{
			"candidates": len(input.Candidates),
			"elapsed_ms": elapsed.Milliseconds(),
		})
	}

	h.logger.Info("candidates ranked", map[string]interface{}{
		"candidates": len(input.Candidates),
		"matches":    len(matches),
		"minScore":   *opts.withDefaults().MinScore,
	})

	return &Output{Matches: matches, TotalFound: len(matches)}, nil
}
