package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creator-campaign-workers/internal/common/database"
	"creator-campaign-workers/internal/common/logger"
)

type fakeBackend struct {
	name string
	err  error
}

func (f fakeBackend) Name() string { return f.name }

func (f fakeBackend) Ping(context.Context) error { return f.err }

func TestHealthServer(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		backends []database.Pinger
		status   int
		body     string
	}{
		{"health", "/health", nil, http.StatusOK, "healthy"},
		{"ready", "/ready", []database.Pinger{fakeBackend{name: "redis"}}, http.StatusOK, "ready"},
		{"not ready", "/ready", []database.Pinger{
			fakeBackend{name: "redis"},
			fakeBackend{name: "postgres", err: errors.New("connection refused")},
		}, http.StatusServiceUnavailable, "not_ready"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newHealthServer(0, tt.backends, logger.NewNoOpLogger())
			rec := httptest.NewRecorder()

			srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.status, rec.Code)
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.body, body["status"])
			if tt.status != http.StatusOK {
				assert.Contains(t, body["failures"], "postgres")
			}
		})
	}
}

func TestHealthServer_Metrics(t *testing.T) {
	srv := newHealthServer(0, nil, logger.NewNoOpLogger())
	rec := httptest.NewRecorder()

	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
