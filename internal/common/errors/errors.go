// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeCampaignNotFound           ErrorCode = "CAMPAIGN_NOT_FOUND"
	ErrCodeCatalogUnavailable         ErrorCode = "CATALOG_UNAVAILABLE"
	ErrCodeInvalidCampaignRequirement ErrorCode = "INVALID_CAMPAIGN_REQUIREMENT"

	ErrCodeInvalidJobInput             ErrorCode = "INVALID_JOB_INPUT"
	ErrCodeApplicationValidationFailed ErrorCode = "APPLICATION_VALIDATION_FAILED"

	ErrCodeSubmissionInFlight ErrorCode = "SUBMISSION_IN_FLIGHT"
	ErrCodeSubmissionFailed   ErrorCode = "SUBMISSION_FAILED"
	ErrCodeSubmissionTimeout  ErrorCode = "SUBMISSION_TIMEOUT"

	ErrCodeAuthentication         ErrorCode = "AUTHENTICATION_ERROR"
	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// WithMetadata attaches a value that is forwarded to the workflow as an error variable.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

func newError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

// NewCampaignNotFoundError creates a non-retryable catalog lookup error.
func NewCampaignNotFoundError(campaignID string) *StandardError {
	return newError(ErrCodeCampaignNotFound, "Campaign not found or not accepting applications",
		fmt.Sprintf("campaignId: %s", campaignID), false)
}

// NewCatalogUnavailableError creates a retryable catalog backend error.
func NewCatalogUnavailableError(source string, err error) *StandardError {
	return newError(ErrCodeCatalogUnavailable, "Campaign catalog unavailable",
		fmt.Sprintf("source: %s, error: %s", source, err.Error()), true)
}

// NewInvalidCampaignRequirementError creates a non-retryable error for malformed catalog data.
func NewInvalidCampaignRequirementError(campaignID, details string) *StandardError {
	return newError(ErrCodeInvalidCampaignRequirement, "Campaign requirement is invalid",
		fmt.Sprintf("campaignId: %s, %s", campaignID, details), false)
}

// NewInvalidJobInputError creates a non-retryable error for malformed job variables.
func NewInvalidJobInputError(details string) *StandardError {
	return newError(ErrCodeInvalidJobInput, "Invalid job input", details, false)
}

// NewApplicationValidationFailedError creates a non-retryable error carrying the field error map.
func NewApplicationValidationFailedError(fieldErrors map[string]string) *StandardError {
	fields := make([]string, 0, len(fieldErrors))
	for k := range fieldErrors {
		fields = append(fields, k)
	}
	return newError(ErrCodeApplicationValidationFailed, "Application data validation failed",
		fmt.Sprintf("fields: %s", strings.Join(fields, ",")), false).
		WithMetadata("fieldErrors", fieldErrors)
}

// NewSubmissionInFlightError is raised when another submission for the same application is running.
func NewSubmissionInFlightError(key string) *StandardError {
	return newError(ErrCodeSubmissionInFlight, "Submission already in progress",
		fmt.Sprintf("key: %s", key), false)
}

// NewSubmissionFailedError carries the top-level message shown to the applicant.
func NewSubmissionFailedError(message string, err error) *StandardError {
	details := message
	if err != nil {
		details = err.Error()
	}
	return newError(ErrCodeSubmissionFailed, message, details, true).
		WithMetadata("submissionError", message)
}

// NewSubmissionTimeoutError creates a retryable submission timeout error.
func NewSubmissionTimeoutError() *StandardError {
	return newError(ErrCodeSubmissionTimeout, "Submission endpoint timeout",
		"submission call exceeded timeout threshold", true)
}

func NewAuthenticationError(details string) *StandardError {
	return newError(ErrCodeAuthentication, "Authentication failed", details, false)
}

// NewNotificationSendFailedError creates a retryable notification send error.
func NewNotificationSendFailedError(notificationType string, err error) *StandardError {
	return newError(ErrCodeNotificationSendFailed, "Notification delivery failed",
		fmt.Sprintf("type: %s, error: %s", notificationType, err.Error()), true)
}

func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", err.Error(), false)
}

func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeCatalogUnavailable,
		ErrCodeSubmissionFailed,
		ErrCodeNotificationSendFailed:
		return 3

	case ErrCodeSubmissionTimeout:
		return 2

	default:
		return 0 // Business errors: no retry
	}
}

func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           string(stdErr.Code),
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "CAMPAIGN") || strings.Contains(codeStr, "CATALOG"):
		return "CATALOG"
	case strings.Contains(codeStr, "SUBMISSION"):
		return "SUBMISSION"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "AUTHENTICATION"):
		return "AUTH"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
