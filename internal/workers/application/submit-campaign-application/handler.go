// internal/workers/application/submit-campaign-application/handler.go
package submitcampaignapplication

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"creator-campaign-workers/internal/common/errors"
	"creator-campaign-workers/internal/common/logger"
	"creator-campaign-workers/internal/common/validation"
	"creator-campaign-workers/internal/eligibility"
	"creator-campaign-workers/internal/submission"
)

const TaskType = "submit-campaign-application"

type Dependencies struct {
	Submitter   submission.Submitter
	Guard       submission.Guard
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
	if deps.Guard == nil {
		deps.Guard = submission.NewLocalGuard()
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

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	now := h.deps.Now
	if input.Today != "" {
		today, err := time.Parse(eligibility.DateLayout, input.Today)
		if err != nil {
			return nil, errors.NewInvalidJobInputError(fmt.Sprintf("today: %v", err))
		}
		now = func() time.Time { return today }
	}

	ctrl := submission.NewController(submission.ControllerOptions{
		CampaignID:  input.CampaignID,
		Requirement: input.Requirement,
		Applicant:   input.Applicant,
		Key:         input.CampaignID + ":" + input.SessionID,
		Engine:      h.deps.Engine,
		Submitter:   h.deps.Submitter,
		Guard:       h.deps.Guard,
		Logger:      h.logger,
		Now:         now,
	})

	receipt, err := ctrl.Submit(ctx)
	if err == nil {
		h.logger.Info("application submitted", map[string]interface{}{
			"campaignId":   input.CampaignID,
			"submissionId": receipt.SubmissionID,
		})
		return &Output{Status: StatusSuccess, SubmissionID: receipt.SubmissionID, Message: receipt.Message}, nil
	}

	switch {
	case stderrors.Is(err, submission.ErrSubmissionInFlight):
		h.logger.Info("submission already in flight, ignoring", map[string]interface{}{
			"campaignId": input.CampaignID,
			"sessionId":  input.SessionID,
		})
		return &Output{Status: StatusIgnored}, nil
	case stderrors.Is(err, submission.ErrInvalidApplication):
		return nil, errors.NewApplicationValidationFailedError(ctrl.Result().StringMap())
	}

	h.logger.Warn("submission failed", map[string]interface{}{
		"campaignId": input.CampaignID,
		"error":      err.Error(),
	})

	var stdErr *errors.StandardError
	if stderrors.As(err, &stdErr) {
		return nil, stdErr
	}
	var subErr *submission.SubmissionError
	if stderrors.As(err, &subErr) {
		if subErr.Timeout() {
			return nil, errors.NewSubmissionTimeoutError()
		}
		return nil, errors.NewSubmissionFailedError(subErr.Message, subErr.Err)
	}
	return nil, errors.NewInternalError(err)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
