package database

import (
	"context"
	"fmt"
	"time"

	"creator-campaign-workers/internal/common/logger"
)

// Pinger is a backend that can report its reachability.
type Pinger interface {
	Name() string
	Ping(ctx context.Context) error
}

// Backoff controls WaitReady's retry schedule.
type Backoff struct {
	Attempts     int
	InitialDelay time.Duration
	MaxDelay     time.Duration
}

var DefaultBackoff = Backoff{Attempts: 15, InitialDelay: 2 * time.Second, MaxDelay: 30 * time.Second}

// WaitReady pings p until it answers, doubling the delay between attempts.
func WaitReady(ctx context.Context, p Pinger, b Backoff, log logger.Logger) error {
	if b.Attempts <= 0 {
		b.Attempts = 1
	}
	delay := b.InitialDelay

	var err error
	for attempt := 1; attempt <= b.Attempts; attempt++ {
		if err = p.Ping(ctx); err == nil {
			return nil
		}
		if attempt == b.Attempts {
			break
		}

		log.Warn("backend not ready, retrying", map[string]interface{}{
			"backend":     p.Name(),
			"error":       err.Error(),
			"attempt":     attempt,
			"maxAttempts": b.Attempts,
			"nextRetryIn": delay.String(),
		})

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("%s connection cancelled: %w", p.Name(), ctx.Err())
		}

		delay *= 2
		if b.MaxDelay > 0 && delay > b.MaxDelay {
			delay = b.MaxDelay
		}
	}
	return fmt.Errorf("%s connection failed after %d attempts: %w", p.Name(), b.Attempts, err)
}

// CheckAll pings every backend once and returns the failures by name.
func CheckAll(ctx context.Context, backends ...Pinger) map[string]string {
	failures := make(map[string]string)
	for _, b := range backends {
		if err := b.Ping(ctx); err != nil {
			failures[b.Name()] = err.Error()
		}
	}
	return failures
}
