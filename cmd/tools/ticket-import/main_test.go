package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"ticket-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_Classify(t *testing.T) {
	var out bytes.Buffer
	err := run([]string{"classify", "-subject", "Cannot login", "-description", "I forgot password and need a reset"}, &out)
	require.NoError(t, err)

	var result models.ClassificationResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	assert.Equal(t, models.CategoryAccountAccess, result.Category)
	assert.Equal(t, models.PriorityMedium, result.Priority)
}

func TestRun_ClassifyRequiresText(t *testing.T) {
	err := run([]string{"classify"}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "subject or description is required")
}

func TestRun_ValidateKeywords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keywords.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"version": "3",
		"categories": [{"label": "OTHER", "keywords": ["help"]}],
		"priorities": [{"label": "LOW", "keywords": ["minor"]}]
	}`), 0o600))

	var out bytes.Buffer
	require.NoError(t, run([]string{"validate-keywords", "-path", path}, &out))
	assert.Contains(t, out.String(), "is valid (version 3): 1 categories, 1 priorities")
}

func TestRun_ValidateKeywordsRejectsUnknownLabel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keywords.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"categories": [{"label": "SHIPPING", "keywords": ["parcel"]}],
		"priorities": [{"label": "LOW", "keywords": ["minor"]}]
	}`), 0o600))

	err := run([]string{"validate-keywords", "-path", path}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid category value "SHIPPING"`)
}

func TestRun_Usage(t *testing.T) {
	assert.ErrorIs(t, run(nil, &bytes.Buffer{}), errUsage)
	assert.ErrorIs(t, run([]string{"export"}, &bytes.Buffer{}), errUsage)
}

func TestRun_RequiredFlags(t *testing.T) {
	tests := []struct {
		args    []string
		wantErr string
	}{
		{[]string{"import"}, "file is required"},
		{[]string{"reclassify"}, "id is required"},
		{[]string{"history"}, "id is required"},
		{[]string{"search"}, "q is required"},
	}
	for _, tt := range tests {
		t.Run(tt.args[0], func(t *testing.T) {
			err := run(tt.args, &bytes.Buffer{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
