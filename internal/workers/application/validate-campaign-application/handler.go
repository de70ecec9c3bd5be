// internal/workers/application/validate-campaign-application/handler.go
package validatecampaignapplication

import (
	"context"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"creator-campaign-workers/internal/common/errors"
	"creator-campaign-workers/internal/common/logger"
	"creator-campaign-workers/internal/common/metrics"
	"creator-campaign-workers/internal/common/validation"
	"creator-campaign-workers/internal/eligibility"
)

const TaskType = "validate-campaign-application"

type Dependencies struct {
	Engine      *eligibility.Engine
	InputSchema *validation.Schema
	Now         func() time.Time
}

type Handler struct {
	config       *Config
	deps         Dependencies
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
}

func NewHandler(config *Config, deps Dependencies, log logger.Logger) *Handler {
	if deps.Engine == nil {
		deps.Engine = eligibility.NewEngine()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	log = logger.ForTask(log, TaskType)
	return &Handler{
		config:       config,
		deps:         deps,
		logger:       log,
		errorHandler: errors.NewErrorHandler(log),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) error {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := validation.DecodeVariables(h.deps.InputSchema, job.Variables, &input); err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return err
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return err
	}

	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return err
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to complete job", map[string]interface{}{
			"error": err.Error(),
		})
		return err
	}
	return nil
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	today := h.deps.Now()
	if input.Today != "" {
		parsed, err := time.Parse(eligibility.DateLayout, input.Today)
		if err != nil {
			return nil, errors.NewInvalidJobInputError(fmt.Sprintf("today: %v", err))
		}
		today = parsed
	}

	result := h.deps.Engine.Validate(input.Requirement, input.Applicant, today)

	fields := make([]string, 0, len(result.FieldErrors))
	for _, f := range result.Fields() {
		fields = append(fields, string(f))
	}
	metrics.RecordValidation(result.IsValid, fields)

	h.logger.Info("validation completed", map[string]interface{}{
		"campaignId": input.CampaignID,
		"isValid":    result.IsValid,
		"errorCount": len(result.FieldErrors),
	})

	if !result.IsValid {
		return nil, errors.NewApplicationValidationFailedError(result.StringMap())
	}
	return &Output{IsValid: true, FieldErrors: map[string]string{}}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
