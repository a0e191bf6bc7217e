// internal/workers/scholarship/normalize-profile/handler.go
package normalizeprofile

import (
	"context"
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
	TaskType = "normalize-profile"
)

type Handler struct {
	config     *Config
	intake     IntakeStore
	logger     logger.Logger
	errHandler *apperrors.ErrorHandler
}

// NewHandler builds the normalizer. intake may be nil, in which case only
// finder data and the message are used.
func NewHandler(config *Config, intake IntakeStore, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		intake:     intake,
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

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	profile := h.Normalize(ctx, input)
	return &Output{Profile: profile, ProfileEmpty: profile.IsEmpty()}, nil
}

// Normalize merges finder data, the intake record and message heuristics,
// field by field in that order of precedence. It never fails: an intake
// lookup error is logged and the record treated as absent.
func (h *Handler) Normalize(ctx context.Context, input *Input) models.Profile {
	finder := FromFinderData(input.FinderData)
	intake := FromIntake(h.lookupIntake(ctx, input.UserID))
	message := FromMessage(input.Message)

	profile := Merge(finder, intake, message)

	h.logger.Debug("profile normalized", map[string]interface{}{
		"userId":       input.UserID,
		"hasFinder":    !finder.IsEmpty(),
		"hasIntake":    !intake.IsEmpty(),
		"hasHeuristic": !message.IsEmpty(),
		"empty":        profile.IsEmpty(),
	})
	return profile
}

func (h *Handler) lookupIntake(ctx context.Context, userID string) *models.IntakeRecord {
	userID = strings.TrimSpace(userID)
	if h.intake == nil || userID == "" {
		return nil
	}

	if h.config.IntakeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.config.IntakeTimeout)
		defer cancel()
	}

	record, err := h.intake.GetIntake(ctx, userID)
	if err != nil {
		h.logger.Warn("intake lookup failed, continuing without it", map[string]interface{}{
			"userId": userID,
			"error":  err,
		})
		return nil
	}
	return record
}

// Merge takes every field from the first source that has it.
func Merge(sources ...models.Profile) models.Profile {
	var out models.Profile
	for _, s := range sources {
		if out.Country == nil {
			out.Country = s.Country
		}
		if out.CurrentGPA == nil {
			out.CurrentGPA = s.CurrentGPA
		}
		if out.FieldOfStudy == nil {
			out.FieldOfStudy = s.FieldOfStudy
		}
		if out.DegreeLevel == nil {
			out.DegreeLevel = s.DegreeLevel
		}
		if out.Gender == nil {
			out.Gender = s.Gender
		}
		if out.IELTSScore == nil {
			out.IELTSScore = s.IELTSScore
		}
		if out.TOEFLScore == nil {
			out.TOEFLScore = s.TOEFLScore
		}
	}
	return out
}
