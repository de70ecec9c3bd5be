package fetchcampaignrequirement

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"testing"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creator-campaign-workers/internal/catalog"
	"creator-campaign-workers/internal/common/errors"
	"creator-campaign-workers/internal/common/logger"
	"creator-campaign-workers/internal/common/validation"
	"creator-campaign-workers/internal/eligibility"
	"creator-campaign-workers/pkg/registry"
)

type stubSource struct {
	req eligibility.CampaignRequirement
	err error
}

func (s stubSource) Requirement(context.Context, string) (eligibility.CampaignRequirement, error) {
	return s.req, s.err
}

func inputSchema(t *testing.T) *validation.Schema {
	t.Helper()
	reg, err := registry.LoadRegistry("../../../../configs/activity-registry.json")
	require.NoError(t, err)
	raw, err := reg.InputSchema(TaskType)
	require.NoError(t, err)
	schema, err := validation.Compile(raw)
	require.NoError(t, err)
	return schema
}

func createMockJob(key int64, variables map[string]interface{}) entities.Job {
	variablesJSON, _ := json.Marshal(variables)
	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:                key,
		Type:               TaskType,
		ProcessInstanceKey: key * 10,
		BpmnProcessId:      "creator-campaign-application",
		ElementId:          "Activity_FetchCampaignRequirement",
		CustomHeaders:      "{}",
		Worker:             "test-worker",
		Retries:            3,
		Variables:          string(variablesJSON),
	}}
}

func newHandler(t *testing.T, src catalog.Source) *Handler {
	return NewHandler(&Config{Timeout: time.Second}, Dependencies{
		Source:      src,
		InputSchema: inputSchema(t),
		SourceName:  "postgres",
	}, logger.NewTestLogger(t))
}

func TestExecute_Success(t *testing.T) {
	req := eligibility.CampaignRequirement{
		GenderTarget: eligibility.GenderTargetFemaleOnly,
		MinFollowers: 3000,
	}.WithMinAge(18)
	h := newHandler(t, stubSource{req: req})

	out, err := h.Execute(context.Background(), &Input{CampaignID: "camp-1"})

	require.NoError(t, err)
	assert.Equal(t, req, out.Requirement)

	raw, err := json.Marshal(out)
	require.NoError(t, err)
	assert.JSONEq(t, `{"requirement":{"genderTarget":"female_only","minAge":18,"minFollowers":3000}}`, string(raw))
}

func TestExecute_ErrorMapping(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		code      errors.ErrorCode
		retryable bool
	}{
		{"not found", catalog.ErrCampaignNotFound, errors.ErrCodeCampaignNotFound, false},
		{"invalid", fmt.Errorf("%w: bad gender", catalog.ErrInvalidRequirement), errors.ErrCodeInvalidCampaignRequirement, false},
		{"unavailable", fmt.Errorf("%w: timeout", catalog.ErrUnavailable), errors.ErrCodeCatalogUnavailable, true},
		{"unknown", stderrors.New("boom"), errors.ErrCodeCatalogUnavailable, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHandler(t, stubSource{err: tt.err})

			_, err := h.Execute(context.Background(), &Input{CampaignID: "camp-1"})

			var stdErr *errors.StandardError
			require.True(t, stderrors.As(err, &stdErr))
			assert.Equal(t, tt.code, stdErr.Code)
			assert.Equal(t, tt.retryable, stdErr.Retryable)
		})
	}
}

func TestJobVariables(t *testing.T) {
	schema := inputSchema(t)

	var input Input
	job := createMockJob(1, map[string]interface{}{"campaignId": "camp-1"})
	require.NoError(t, validation.DecodeVariables(schema, job.Variables, &input))
	assert.Equal(t, "camp-1", input.CampaignID)

	job = createMockJob(2, map[string]interface{}{"campaign": "camp-1"})
	err := validation.DecodeVariables(schema, job.Variables, &input)
	var stdErr *errors.StandardError
	require.True(t, stderrors.As(err, &stdErr))
	assert.Equal(t, errors.ErrCodeInvalidJobInput, stdErr.Code)
}
