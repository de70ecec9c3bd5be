package submission

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creator-campaign-workers/internal/common/config"
	"creator-campaign-workers/internal/common/logger"
)

type staticTokens struct {
	token       string
	invalidated int32
}

func (s *staticTokens) Token(context.Context) (string, error) { return s.token, nil }

func (s *staticTokens) Invalidate() { atomic.AddInt32(&s.invalidated, 1) }

func newSubmitter(t *testing.T, url string, retries int, tokens *staticTokens) *HTTPSubmitter {
	t.Helper()
	cfg := config.SubmissionAPIConfig{BaseURL: url + "/", Path: "/applications", Timeout: 2000, MaxRetries: retries}
	var s *HTTPSubmitter
	if tokens != nil {
		s = NewHTTPSubmitter(cfg, tokens, logger.NewTestLogger(t))
	} else {
		s = NewHTTPSubmitter(cfg, nil, logger.NewTestLogger(t))
	}
	s.backoff = time.Millisecond
	return s
}

func samplePayload() Payload {
	return BuildPayload("sub-1", "camp-1", validApplicant())
}

func TestHTTPSubmitter_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/applications", r.URL.Path)
		assert.Equal(t, "sub-1", r.Header.Get("Idempotency-Key"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "camp-1", body["campaignId"])
		assert.Equal(t, "https://www.instagram.com/laura.creates", body["instagram"].(map[string]interface{})["profileUrl"])

		_, _ = w.Write([]byte(`{"success":true,"message":"received"}`))
	}))
	defer srv.Close()

	ack, err := newSubmitter(t, srv.URL, 0, &staticTokens{token: "tok"}).Submit(context.Background(), samplePayload())

	require.NoError(t, err)
	assert.True(t, ack.Success)
	assert.Equal(t, "received", ack.Message)
}

func TestHTTPSubmitter_RetriesServerErrors(t *testing.T) {
	var calls int32
	keys := make(chan string, 3)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		keys <- r.Header.Get("Idempotency-Key")
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	_, err := newSubmitter(t, srv.URL, 2, nil).Submit(context.Background(), samplePayload())

	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	close(keys)
	for k := range keys {
		assert.Equal(t, "sub-1", k)
	}
}

func TestHTTPSubmitter_GivesUpAfterRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"success":false,"error":"maintenance"}`))
	}))
	defer srv.Close()

	_, err := newSubmitter(t, srv.URL, 2, nil).Submit(context.Background(), samplePayload())

	var rejected *RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, "maintenance", rejected.Message)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestHTTPSubmitter_ClientErrorsAreFinal(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"bad request", http.StatusBadRequest, `{"success":false,"error":"Ya aplicaste a esta campaña"}`, "Ya aplicaste a esta campaña"},
		{"message only", http.StatusConflict, `{"success":false,"message":"duplicate"}`, "duplicate"},
		{"success false on 200", http.StatusOK, `{"success":false,"error":"campaign closed"}`, "campaign closed"},
		{"no body", http.StatusUnprocessableEntity, ``, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := newSubmitter(t, srv.URL, 2, nil).Submit(context.Background(), samplePayload())

			var rejected *RejectedError
			require.ErrorAs(t, err, &rejected)
			assert.ErrorIs(t, err, ErrRejected)
			assert.Equal(t, tt.status, rejected.StatusCode)
			assert.Equal(t, tt.message, rejected.Message)
			assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
		})
	}
}

func TestHTTPSubmitter_UnauthorizedRefreshesToken(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	tokens := &staticTokens{token: "tok"}
	_, err := newSubmitter(t, srv.URL, 1, tokens).Submit(context.Background(), samplePayload())

	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&tokens.invalidated))
}

func TestHTTPSubmitter_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := newSubmitter(t, srv.URL, 2, nil).Submit(ctx, samplePayload())

	assert.ErrorIs(t, err, ErrTimeout)
}

func TestHTTPSubmitter_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := newSubmitter(t, url, 1, nil).Submit(context.Background(), samplePayload())

	assert.ErrorIs(t, err, ErrUnreachable)
}
