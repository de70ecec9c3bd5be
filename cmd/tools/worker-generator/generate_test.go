package main

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creator-campaign-workers/pkg/registry"
)

func TestGenerate_ShippedRegistry(t *testing.T) {
	reg, err := registry.LoadRegistry("../../../configs/activity-registry.json")
	require.NoError(t, err)

	for i := range reg.Activities {
		activity := &reg.Activities[i]
		t.Run(activity.ID, func(t *testing.T) {
			out := t.TempDir()
			files, err := generate(activity, out, false)
			require.NoError(t, err)
			require.Len(t, files, 3)

			fset := token.NewFileSet()
			for _, f := range files {
				file, err := parser.ParseFile(fset, f, nil, parser.ParseComments)
				require.NoError(t, err, f)
				assert.Equal(t, strings.ReplaceAll(activity.ID, "-", ""), file.Name.Name)
			}

			handler, err := os.ReadFile(filepath.Join(out, "application", activity.ID, "handler.go"))
			require.NoError(t, err)
			assert.Contains(t, string(handler), `const TaskType = "`+activity.TaskType+`"`)
		})
	}
}

func TestGenerate_RefusesOverwrite(t *testing.T) {
	activity := &registry.Activity{
		ID:       "score-applicant",
		TaskType: "score-applicant",
		Category: "application",
		Timeout:  "1500ms",
		InputSchema: map[string]interface{}{
			"type":     "object",
			"required": []interface{}{"campaignId"},
			"properties": map[string]interface{}{
				"campaignId": map[string]interface{}{"type": "string"},
				"score":      map[string]interface{}{"type": "integer"},
			},
		},
	}
	out := t.TempDir()

	_, err := generate(activity, out, false)
	require.NoError(t, err)

	models, err := os.ReadFile(filepath.Join(out, "application", "score-applicant", "models.go"))
	require.NoError(t, err)
	assert.Contains(t, string(models), "CampaignID string `json:\"campaignId\"`")
	assert.Contains(t, string(models), "Score      int    `json:\"score,omitempty\"`")

	config, err := os.ReadFile(filepath.Join(out, "application", "score-applicant", "config.go"))
	require.NoError(t, err)
	assert.Contains(t, string(config), "1500 * time.Millisecond")

	_, err = generate(activity, out, false)
	assert.ErrorContains(t, err, "already exists")

	_, err = generate(activity, out, true)
	assert.NoError(t, err)
}

func TestGoName(t *testing.T) {
	tests := map[string]string{
		"campaignId": "CampaignID",
		"profileUrl": "ProfileURL",
		"email":      "Email",
		"":           "",
	}
	for in, want := range tests {
		assert.Equal(t, want, goName(in), in)
	}
}

func TestNewWorkerData_BadTimeout(t *testing.T) {
	_, err := newWorkerData(&registry.Activity{ID: "x", Timeout: "soon"})
	assert.Error(t, err)
}
