package submission

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"creator-campaign-workers/internal/common/auth"
	"creator-campaign-workers/internal/common/config"
	commonhttp "creator-campaign-workers/internal/common/http"
	"creator-campaign-workers/internal/common/logger"
)

var (
	ErrInvalidPayload = errors.New("invalid submission payload")
	ErrRejected       = errors.New("submission rejected")
	ErrUnreachable    = errors.New("submission endpoint unreachable")
	ErrTimeout        = errors.New("SUBMISSION_TIMEOUT")
)

// RejectedError is a failure reported by the endpoint itself.
type RejectedError struct {
	StatusCode int
	Message    string
}

func (e *RejectedError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("submission rejected with status %d", e.StatusCode)
	}
	return fmt.Sprintf("submission rejected with status %d: %s", e.StatusCode, e.Message)
}

func (e *RejectedError) Unwrap() error { return ErrRejected }

// Ack is the endpoint's response body.
type Ack struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Submitter delivers one payload to the submission endpoint.
type Submitter interface {
	Submit(ctx context.Context, p Payload) (*Ack, error)
}

// HTTPSubmitter posts payloads as JSON. Transport failures and 5xx answers are
// retried with the same Idempotency-Key; 4xx answers are final.
type HTTPSubmitter struct {
	client     *commonhttp.Client
	url        string
	tokens     auth.TokenSource
	maxRetries int
	backoff    time.Duration
	logger     logger.Logger
}

// NewHTTPSubmitter builds a submitter from the apis.submission settings. tokens may be nil.
func NewHTTPSubmitter(cfg config.SubmissionAPIConfig, tokens auth.TokenSource, log logger.Logger) *HTTPSubmitter {
	return &HTTPSubmitter{
		client:     commonhttp.NewClient(config.GetDuration(cfg.Timeout)),
		url:        strings.TrimSuffix(cfg.BaseURL, "/") + cfg.Path,
		tokens:     tokens,
		maxRetries: cfg.MaxRetries,
		backoff:    200 * time.Millisecond,
		logger:     log,
	}
}

func (s *HTTPSubmitter) Submit(ctx context.Context, p Payload) (*Ack, error) {
	var lastErr error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			wait := s.backoff << (attempt - 1)
			s.logger.Warn("retrying submission", map[string]interface{}{
				"submissionId": p.SubmissionID,
				"attempt":      attempt,
				"wait":         wait.String(),
				"error":        lastErr.Error(),
			})
			select {
			case <-ctx.Done():
				return nil, classify(ctx.Err())
			case <-time.After(wait):
			}
		}

		ack, retry, err := s.attempt(ctx, p)
		if err == nil {
			return ack, nil
		}
		lastErr = err
		if !retry {
			return nil, err
		}
	}
	return nil, lastErr
}

func (s *HTTPSubmitter) attempt(ctx context.Context, p Payload) (*Ack, bool, error) {
	headers := map[string]string{"Idempotency-Key": p.SubmissionID}
	if s.tokens != nil {
		token, err := s.tokens.Token(ctx)
		if err != nil {
			return nil, false, err
		}
		headers["Authorization"] = "Bearer " + token
	}

	resp, err := s.client.PostJSON(ctx, s.url, p, headers)
	if err != nil {
		err = classify(err)
		return nil, !errors.Is(err, ErrTimeout) || ctx.Err() == nil, err
	}

	var ack Ack
	decodeErr := json.Unmarshal(resp.Body, &ack)

	switch {
	case resp.StatusCode == http.StatusUnauthorized && s.tokens != nil:
		if inv, ok := s.tokens.(interface{ Invalidate() }); ok {
			inv.Invalidate()
		}
		return nil, true, &RejectedError{StatusCode: resp.StatusCode, Message: ack.message()}
	case resp.StatusCode >= 500:
		return nil, true, &RejectedError{StatusCode: resp.StatusCode, Message: ack.message()}
	case !resp.OK():
		return nil, false, &RejectedError{StatusCode: resp.StatusCode, Message: ack.message()}
	case decodeErr != nil:
		// a 2xx without a readable body is still an acknowledgment
		return &Ack{Success: true}, false, nil
	case !ack.Success:
		return nil, false, &RejectedError{StatusCode: resp.StatusCode, Message: ack.message()}
	}
	return &ack, false, nil
}

// message prefers the endpoint's error text over its message.
func (a Ack) message() string {
	if a.Error != "" {
		return a.Error
	}
	return a.Message
}

func classify(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrUnreachable, err)
}
