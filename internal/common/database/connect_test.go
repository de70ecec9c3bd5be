package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creator-campaign-workers/internal/common/config"
	"creator-campaign-workers/internal/common/logger"
)

type flakyPinger struct {
	failures int
	calls    int
}

func (f *flakyPinger) Name() string { return "flaky" }

func (f *flakyPinger) Ping(ctx context.Context) error {
	f.calls++
	if f.calls <= f.failures {
		return errors.New("connection refused")
	}
	return nil
}

var fastBackoff = Backoff{Attempts: 4, InitialDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}

func TestWaitReady_RecoversAfterFailures(t *testing.T) {
	p := &flakyPinger{failures: 2}

	err := WaitReady(context.Background(), p, fastBackoff, logger.NewTestLogger(t))

	require.NoError(t, err)
	assert.Equal(t, 3, p.calls)
}

func TestWaitReady_GivesUp(t *testing.T) {
	p := &flakyPinger{failures: 10}

	err := WaitReady(context.Background(), p, fastBackoff, logger.NewNoOpLogger())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "flaky connection failed after 4 attempts")
	assert.Equal(t, 4, p.calls)
}

func TestWaitReady_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := WaitReady(ctx, &flakyPinger{failures: 10}, Backoff{Attempts: 3, InitialDelay: time.Hour}, logger.NewNoOpLogger())

	assert.ErrorIs(t, err, context.Canceled)
}

func TestCheckAll_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	up := NewRedis(config.RedisConfig{Address: mr.Addr()})
	defer up.Close()

	assert.Empty(t, CheckAll(context.Background(), up))

	mr.Close()
	failures := CheckAll(context.Background(), up)
	assert.Contains(t, failures, "redis")
}
