package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertToBPMNError(t *testing.T) {
	tests := []struct {
		name        string
		err         *StandardError
		wantCode    string
		wantRetries int
	}{
		{
			name:        "business error is not retried",
			err:         NewTicketNotFoundError("t-1"),
			wantCode:    "TICKET_NOT_FOUND",
			wantRetries: 0,
		},
		{
			name:        "database error is retried",
			err:         NewDatabaseInsertFailedError(fmt.Errorf("connection reset")),
			wantCode:    "DATABASE_INSERT_FAILED",
			wantRetries: 3,
		},
		{
			name:        "timeout gets fewer retries",
			err:         NewQueryTimeoutError("find_ticket"),
			wantCode:    "QUERY_TIMEOUT",
			wantRetries: 2,
		},
		{
			name:        "unknown code falls back to its own name",
			err:         &StandardError{Code: "SOMETHING_ELSE", Message: "x"},
			wantCode:    "SOMETHING_ELSE",
			wantRetries: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bpmnErr := ConvertToBPMNError(tt.err)
			assert.Equal(t, tt.wantCode, bpmnErr.Code)
			assert.Equal(t, tt.wantRetries, bpmnErr.Retries)
			assert.Equal(t, string(tt.err.Code), bpmnErr.ErrorVariables["originalErrorCode"])
		})
	}
}

func TestNormalize(t *testing.T) {
	stdErr := NewFileTooLargeError(20, 10)
	wrapped := fmt.Errorf("handler: %w", stdErr)

	got := Normalize(wrapped)
	assert.Same(t, stdErr, got)

	plain := Normalize(stderrors.New("boom"))
	assert.Equal(t, ErrorCode("INTERNAL_ERROR"), plain.Code)
	assert.Equal(t, "boom", plain.Details)
	assert.False(t, plain.Retryable)
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "IMPORT", GetErrorCategory(ErrCodeUnsupportedFormat))
	assert.Equal(t, "IMPORT", GetErrorCategory(ErrCodeFileParseFailed))
	assert.Equal(t, "TICKET", GetErrorCategory(ErrCodeTicketNotFound))
	assert.Equal(t, "DATABASE", GetErrorCategory(ErrCodeQueryExecutionFailed))
	assert.Equal(t, "CLASSIFICATION", GetErrorCategory(ErrCodeClassificationLogFailed))
	assert.Equal(t, "SEARCH", GetErrorCategory(ErrCodeSearchIndexFailed))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeInputValidationFailed))
	assert.Equal(t, "OTHER", GetErrorCategory("MYSTERY"))
}

func TestRetriesLeft(t *testing.T) {
	job := entities.Job{ActivatedJob: &pb.ActivatedJob{Retries: 5}}
	assert.Equal(t, int32(3), retriesLeft(job, 3))

	job = entities.Job{ActivatedJob: &pb.ActivatedJob{Retries: 2}}
	assert.Equal(t, int32(1), retriesLeft(job, 3))
}

func TestBPMNErrorVariables(t *testing.T) {
	bpmnErr := ConvertToBPMNError(NewInputValidationFailedError("format is required"))
	vars := bpmnErr.ToErrorVariables()

	require.Contains(t, vars, "errorCode")
	assert.Equal(t, "INPUT_VALIDATION_FAILED", vars["errorCode"])
	assert.Equal(t, "format is required", vars["errorDetails"])
	assert.Equal(t, false, vars["retryable"])
	assert.Equal(t, "INPUT_VALIDATION_FAILED", vars["originalErrorCode"])
}
