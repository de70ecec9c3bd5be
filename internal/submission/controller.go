package submission

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"creator-campaign-workers/internal/common/logger"
	"creator-campaign-workers/internal/common/metrics"
	"creator-campaign-workers/internal/eligibility"
)

type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateSuccess
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateSuccess:
		return "success"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var (
	ErrInvalidApplication = errors.New("APPLICATION_VALIDATION_FAILED")
	ErrSubmissionInFlight = errors.New("SUBMISSION_IN_FLIGHT")
	ErrAlreadySubmitted   = errors.New("application already submitted")
)

const (
	// MessageRetry is shown when the endpoint could not be reached or gave no reason.
	MessageRetry   = "We could not send your application. Please try again."
	MessageTimeout = "The application service took too long to answer. Please try again."
)

// SubmissionError is the single top-level error of a failed submission.
type SubmissionError struct {
	Message string
	Err     error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("submission failed: %s", e.Message)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// Timeout reports whether the endpoint did not answer in time.
func (e *SubmissionError) Timeout() bool { return errors.Is(e.Err, ErrTimeout) }

// Receipt describes an accepted submission.
type Receipt struct {
	SubmissionID string
	Message      string
}

type ControllerOptions struct {
	CampaignID  string
	Requirement eligibility.CampaignRequirement
	Applicant   eligibility.ApplicantProfile
	// Key identifies the application for the in-flight guard.
	Key       string
	Engine    *eligibility.Engine
	Submitter Submitter
	Guard     Guard
	Logger    logger.Logger
	Now       func() time.Time
}

// Controller runs the submit flow for one applicant profile. It moves
// Idle -> Submitting -> Success|Failed. A new attempt from Failed starts over
// from Idle with the previous top-level error cleared; Success is terminal.
type Controller struct {
	campaignID  string
	requirement eligibility.CampaignRequirement
	key         string
	engine      *eligibility.Engine
	submitter   Submitter
	guard       Guard
	logger      logger.Logger
	now         func() time.Time

	mu        sync.Mutex
	state     State
	applicant eligibility.ApplicantProfile
	result    eligibility.Result
	lastError string
}

func NewController(opts ControllerOptions) *Controller {
	c := &Controller{
		campaignID:  opts.CampaignID,
		requirement: opts.Requirement,
		key:         opts.Key,
		engine:      opts.Engine,
		submitter:   opts.Submitter,
		guard:       opts.Guard,
		logger:      opts.Logger,
		now:         opts.Now,
		applicant:   opts.Applicant,
		result:      eligibility.Result{FieldErrors: map[eligibility.FieldKey]string{}, IsValid: true},
	}
	if c.engine == nil {
		c.engine = eligibility.NewEngine()
	}
	if c.guard == nil {
		c.guard = NewLocalGuard()
	}
	if c.logger == nil {
		c.logger = logger.NewNoOpLogger()
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.key == "" {
		c.key = opts.CampaignID
	}
	return c
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Applicant returns the current form values. Failed submissions keep them.
func (c *Controller) Applicant() eligibility.ApplicantProfile {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.applicant
}

// Result returns the field errors of the last validation.
func (c *Controller) Result() eligibility.Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

// LastError returns the top-level message of the last failed submission.
func (c *Controller) LastError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastError
}

// Edit applies edit to the profile and clears the error shown for field only.
func (c *Controller) Edit(field eligibility.FieldKey, edit func(*eligibility.ApplicantProfile)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.state {
	case StateSuccess:
		return ErrAlreadySubmitted
	case StateSubmitting:
		return ErrSubmissionInFlight
	}
	c.applicant = c.applicant.With(edit)
	c.result = c.result.Clear(field)
	return nil
}

// Submit validates the profile and, when valid, sends it once. A call made
// while another is in flight returns ErrSubmissionInFlight without any
// outbound request.
func (c *Controller) Submit(ctx context.Context) (*Receipt, error) {
	c.mu.Lock()
	switch c.state {
	case StateSuccess:
		c.mu.Unlock()
		return nil, ErrAlreadySubmitted
	case StateSubmitting:
		c.mu.Unlock()
		metrics.ApplicationSubmissions.WithLabelValues("ignored").Inc()
		return nil, ErrSubmissionInFlight
	case StateFailed:
		c.transition(StateIdle)
		c.lastError = ""
	}

	result := c.engine.Validate(c.requirement, c.applicant, c.now())
	c.result = result
	if !result.IsValid {
		c.mu.Unlock()
		metrics.ApplicationSubmissions.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("%w: %d field errors", ErrInvalidApplication, len(result.FieldErrors))
	}

	previous := c.state
	c.transition(StateSubmitting)
	applicant := c.applicant
	c.mu.Unlock()

	acquired, err := c.guard.Acquire(ctx, c.key)
	if err != nil {
		c.logger.Warn("in-flight guard unavailable, submitting without it", map[string]interface{}{
			"key":   c.key,
			"error": err.Error(),
		})
	} else if !acquired {
		c.mu.Lock()
		c.transition(previous)
		c.mu.Unlock()
		metrics.ApplicationSubmissions.WithLabelValues("ignored").Inc()
		return nil, ErrSubmissionInFlight
	}
	if acquired {
		defer func() {
			if relErr := c.guard.Release(context.WithoutCancel(ctx), c.key); relErr != nil {
				c.logger.Warn("failed to release in-flight guard", map[string]interface{}{
					"key":   c.key,
					"error": relErr.Error(),
				})
			}
		}()
	}

	payload := BuildPayload(uuid.NewString(), c.campaignID, applicant)
	if err := CheckPayload(payload); err != nil {
		return nil, c.fail(MessageRetry, err)
	}

	ack, err := c.submitter.Submit(ctx, payload)
	if err != nil {
		return nil, c.fail(topLevelMessage(err), err)
	}

	c.mu.Lock()
	c.transition(StateSuccess)
	c.applicant = eligibility.ApplicantProfile{}
	c.lastError = ""
	c.mu.Unlock()
	metrics.ApplicationSubmissions.WithLabelValues("success").Inc()

	return &Receipt{SubmissionID: payload.SubmissionID, Message: ack.Message}, nil
}

func (c *Controller) fail(message string, err error) error {
	c.mu.Lock()
	c.transition(StateFailed)
	c.lastError = message
	c.mu.Unlock()
	metrics.ApplicationSubmissions.WithLabelValues("failed").Inc()
	return &SubmissionError{Message: message, Err: err}
}

// transition must be called with mu held.
func (c *Controller) transition(next State) {
	c.logger.Debug("submission state changed", map[string]interface{}{
		"campaignId": c.campaignID,
		"from":       c.state.String(),
		"to":         next.String(),
	})
	c.state = next
}

// topLevelMessage surfaces the endpoint's own text verbatim when it sent one.
func topLevelMessage(err error) string {
	var rejected *RejectedError
	if errors.As(err, &rejected) && rejected.Message != "" {
		return rejected.Message
	}
	if errors.Is(err, ErrTimeout) {
		return MessageTimeout
	}
	return MessageRetry
}
