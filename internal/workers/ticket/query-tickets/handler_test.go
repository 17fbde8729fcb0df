package querytickets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "ticket-workers/internal/common/errors"
	"ticket-workers/internal/common/logger"
	"ticket-workers/internal/models"
	"ticket-workers/internal/ticket/service"
)

// ==========================
// Test Helper Functions
// ==========================

type MockTicketReader struct {
	mock.Mock
}

func (m *MockTicketReader) Get(ctx context.Context, id string) (*models.Ticket, error) {
	args := m.Called(ctx, id)
	if t := args.Get(0); t != nil {
		return t.(*models.Ticket), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTicketReader) List(ctx context.Context, filter models.TicketFilter) ([]models.Ticket, error) {
	args := m.Called(ctx, filter)
	if t := args.Get(0); t != nil {
		return t.([]models.Ticket), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTicketReader) Search(ctx context.Context, text string, size int) ([]models.Ticket, error) {
	args := m.Called(ctx, text, size)
	if t := args.Get(0); t != nil {
		return t.([]models.Ticket), args.Error(1)
	}
	return nil, args.Error(1)
}

func createTestConfig() *Config {
	return &Config{Timeout: 5 * time.Second, DefaultSize: 10, MaxSize: 50}
}

func sampleTickets() []models.Ticket {
	return []models.Ticket{
		{ID: "t-1", Subject: "Cannot login", Category: models.CategoryAccountAccess, Priority: models.PriorityHigh, Status: models.StatusNew},
		{ID: "t-2", Subject: "Refund request", Category: models.CategoryBillingQuestion, Priority: models.PriorityMedium, Status: models.StatusNew},
	}
}

func errorCode(t *testing.T, err error) apperrors.ErrorCode {
	t.Helper()
	var stdErr *apperrors.StandardError
	require.True(t, errors.As(err, &stdErr), "expected StandardError, got %T", err)
	return stdErr.Code
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_ByID(t *testing.T) {
	tickets := sampleTickets()
	reader := new(MockTicketReader)
	reader.On("Get", mock.Anything, "t-1").Return(&tickets[0], nil)

	handler := NewHandler(createTestConfig(), reader, logger.NewTestLogger(t))
	output, err := handler.Execute(context.Background(), &Input{QueryType: QueryTypeByID, TicketID: " t-1 "})
	require.NoError(t, err)

	assert.Equal(t, 1, output.RowCount)
	assert.Equal(t, "t-1", output.Data[0].ID)
	reader.AssertExpectations(t)
}

func TestHandler_Execute_Filter(t *testing.T) {
	reader := new(MockTicketReader)
	reader.On("List", mock.Anything, models.TicketFilter{
		Category: models.CategoryBillingQuestion,
		Status:   models.StatusNew,
	}).Return(sampleTickets()[1:], nil)

	handler := NewHandler(createTestConfig(), reader, logger.NewTestLogger(t))
	output, err := handler.Execute(context.Background(), &Input{
		QueryType: QueryTypeFilter,
		Category:  models.CategoryBillingQuestion,
		Status:    models.StatusNew,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, output.RowCount)
	assert.Equal(t, "t-2", output.Data[0].ID)
	reader.AssertExpectations(t)
}

func TestHandler_Execute_FilterEmptyResult(t *testing.T) {
	reader := new(MockTicketReader)
	reader.On("List", mock.Anything, models.TicketFilter{}).Return(nil, nil)

	handler := NewHandler(createTestConfig(), reader, logger.NewTestLogger(t))
	output, err := handler.Execute(context.Background(), &Input{QueryType: QueryTypeFilter})
	require.NoError(t, err)

	assert.Equal(t, 0, output.RowCount)
	assert.NotNil(t, output.Data)
}

func TestHandler_Execute_SearchSize(t *testing.T) {
	tests := []struct {
		name      string
		requested int
		wantSize  int
	}{
		{"default when unset", 0, 10},
		{"requested within bounds", 25, 25},
		{"clamped to max", 500, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := new(MockTicketReader)
			reader.On("Search", mock.Anything, "refund", tt.wantSize).Return(sampleTickets(), nil)

			handler := NewHandler(createTestConfig(), reader, logger.NewTestLogger(t))
			output, err := handler.Execute(context.Background(), &Input{
				QueryType: QueryTypeSearch,
				Text:      " refund ",
				Size:      tt.requested,
			})
			require.NoError(t, err)
			assert.Equal(t, 2, output.RowCount)
			reader.AssertExpectations(t)
		})
	}
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    *Input
		setup    func(r *MockTicketReader)
		wantCode apperrors.ErrorCode
	}{
		{
			name:     "nil input",
			input:    nil,
			setup:    func(r *MockTicketReader) {},
			wantCode: apperrors.ErrCodeInputValidationFailed,
		},
		{
			name:     "unknown query type",
			input:    &Input{QueryType: "tickets-export"},
			setup:    func(r *MockTicketReader) {},
			wantCode: apperrors.ErrCodeInputValidationFailed,
		},
		{
			name:     "missing ticket id",
			input:    &Input{QueryType: QueryTypeByID},
			setup:    func(r *MockTicketReader) {},
			wantCode: apperrors.ErrCodeInputValidationFailed,
		},
		{
			name:     "missing search text",
			input:    &Input{QueryType: QueryTypeSearch, Text: "  "},
			setup:    func(r *MockTicketReader) {},
			wantCode: apperrors.ErrCodeInputValidationFailed,
		},
		{
			name:  "ticket not found",
			input: &Input{QueryType: QueryTypeByID, TicketID: "t-404"},
			setup: func(r *MockTicketReader) {
				r.On("Get", mock.Anything, "t-404").
					Return(nil, fmt.Errorf("%w with id: t-404", service.ErrTicketNotFound))
			},
			wantCode: apperrors.ErrCodeTicketNotFound,
		},
		{
			name:  "search disabled",
			input: &Input{QueryType: QueryTypeSearch, Text: "refund"},
			setup: func(r *MockTicketReader) {
				r.On("Search", mock.Anything, "refund", 10).Return(nil, service.ErrSearchDisabled)
			},
			wantCode: apperrors.ErrCodeInputValidationFailed,
		},
		{
			name:  "store failure",
			input: &Input{QueryType: QueryTypeFilter},
			setup: func(r *MockTicketReader) {
				r.On("List", mock.Anything, models.TicketFilter{}).Return(nil, errors.New("connection refused"))
			},
			wantCode: apperrors.ErrCodeQueryExecutionFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := new(MockTicketReader)
			tt.setup(reader)

			handler := NewHandler(createTestConfig(), reader, logger.NewTestLogger(t))
			_, err := handler.Execute(context.Background(), tt.input)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, errorCode(t, err))
			reader.AssertExpectations(t)
		})
	}
}

func TestHandler_Execute_Timeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	reader := new(MockTicketReader)
	reader.On("List", mock.Anything, models.TicketFilter{}).Return(nil, context.DeadlineExceeded)

	handler := NewHandler(createTestConfig(), reader, logger.NewTestLogger(t))
	_, err := handler.Execute(ctx, &Input{QueryType: QueryTypeFilter})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeQueryTimeout, errorCode(t, err))
}

// ==========================
// Input Decoding Tests
// ==========================

func TestInput_RejectsUnknownEnumValues(t *testing.T) {
	var input Input
	err := json.Unmarshal([]byte(`{"queryType":"tickets-by-filter","category":"SHIPPING"}`), &input)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid category value "SHIPPING"`)

	require.NoError(t, json.Unmarshal([]byte(`{"queryType":"tickets-by-filter","priority":"high"}`), &input))
	assert.Equal(t, models.PriorityHigh, input.Priority)
}
