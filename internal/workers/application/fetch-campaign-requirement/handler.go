// internal/workers/application/fetch-campaign-requirement/handler.go
package fetchcampaignrequirement

import (
	"context"
	stderrors "errors"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"creator-campaign-workers/internal/catalog"
	"creator-campaign-workers/internal/common/errors"
	"creator-campaign-workers/internal/common/logger"
	"creator-campaign-workers/internal/common/validation"
)

const TaskType = "fetch-campaign-requirement"

type Dependencies struct {
	Source      catalog.Source
	InputSchema *validation.Schema
	// SourceName labels CATALOG_UNAVAILABLE errors.
	SourceName string
}

type Handler struct {
	config       *Config
	deps         Dependencies
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
}

func NewHandler(config *Config, deps Dependencies, log logger.Logger) *Handler {
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
	return h.completeJob(ctx, client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	req, err := h.deps.Source.Requirement(ctx, input.CampaignID)
	switch {
	case err == nil:
	case stderrors.Is(err, catalog.ErrCampaignNotFound):
		return nil, errors.NewCampaignNotFoundError(input.CampaignID)
	case stderrors.Is(err, catalog.ErrInvalidRequirement):
		return nil, errors.NewInvalidCampaignRequirementError(input.CampaignID, err.Error())
	default:
		return nil, errors.NewCatalogUnavailableError(h.deps.SourceName, err)
	}

	fields := map[string]interface{}{
		"campaignId":            input.CampaignID,
		"genderTarget":          string(req.GenderTarget),
		"minFollowers":          req.MinFollowers,
		"publicProfileRequired": req.PublicProfileRequired(),
	}
	if req.MinAge != nil {
		fields["minAge"] = *req.MinAge
	}
	h.logger.Info("campaign requirement loaded", fields)
	return &Output{Requirement: req}, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) error {
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

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
