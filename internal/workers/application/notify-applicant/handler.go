// internal/workers/application/notify-applicant/handler.go
package notifyapplicant

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"

	"creator-campaign-workers/internal/common/errors"
	"creator-campaign-workers/internal/common/logger"
	"creator-campaign-workers/internal/common/validation"
)

const TaskType = "notify-applicant"

// EmailSender is implemented by aws.SESClient.
type EmailSender interface {
	SendEmail(ctx context.Context, from, to, subject, body string) (string, error)
}

// SMSSender is implemented by aws.SNSClient.
type SMSSender interface {
	SendSMS(ctx context.Context, phone, senderID, message string) (string, error)
}

type Dependencies struct {
	Email       EmailSender
	SMS         SMSSender
	InputSchema *validation.Schema
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
	output := &Output{
		NotificationID: uuid.New().String(),
		SentAt:         time.Now().UTC().Format(time.RFC3339),
	}
	title := input.CampaignTitle
	if title == "" {
		title = input.CampaignID
	}

	if h.config.EmailEnabled && h.deps.Email != nil {
		subject, body := confirmationEmail(input.FirstName, title)
		messageID, err := h.deps.Email.SendEmail(ctx, h.config.FromEmail, input.Email, subject, body)
		if err != nil {
			return nil, errors.NewNotificationSendFailedError("email", err)
		}
		output.EmailSent = true
		h.logger.Info("confirmation email sent", map[string]interface{}{
			"notificationId": output.NotificationID,
			"messageId":      messageID,
		})
	}

	// SMS is opt-in and best effort; a retry would resend the email.
	phone := normalizePhone(input.Whatsapp)
	if h.config.SMSEnabled && h.deps.SMS != nil && input.AcceptsMarketingContact && phone != "" {
		messageID, err := h.deps.SMS.SendSMS(ctx, phone, h.config.SMSSenderID, confirmationSMS(input.FirstName, title))
		if err != nil {
			h.logger.Warn("sms send failed", map[string]interface{}{
				"notificationId": output.NotificationID,
				"error":          err.Error(),
			})
		} else {
			output.SMSSent = true
			h.logger.Info("confirmation sms sent", map[string]interface{}{
				"notificationId": output.NotificationID,
				"messageId":      messageID,
			})
		}
	}

	return output, nil
}

func confirmationEmail(firstName, campaign string) (string, string) {
	subject := fmt.Sprintf("Recibimos tu aplicación a %s", campaign)
	body := fmt.Sprintf("Hola %s,\n\nRecibimos tu aplicación a la campaña %s. "+
		"Revisaremos tu perfil y te contactaremos pronto.\n", strings.TrimSpace(firstName), campaign)
	return subject, body
}

func confirmationSMS(firstName, campaign string) string {
	return fmt.Sprintf("Hola %s, recibimos tu aplicación a %s.", strings.TrimSpace(firstName), campaign)
}

var nonPhoneChars = regexp.MustCompile(`[^\d+]`)

// normalizePhone strips formatting so SNS receives an E.164-like number.
func normalizePhone(raw string) string {
	return nonPhoneChars.ReplaceAllString(strings.TrimSpace(raw), "")
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
