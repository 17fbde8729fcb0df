package parser

import (
	"encoding/json"
	"errors"
	"testing"

	"ticket-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jsonTicket = `{
	"customerId": "C100",
	"customerEmail": "sam@example.com",
	"customerName": "Sam Lee",
	"subject": "Payment failed",
	"description": "My credit card was declined twice",
	"category": "billing_question",
	"priority": "HIGH",
	"tags": ["billing", "card"],
	"source": "email",
	"browser": "Firefox",
	"deviceType": "mobile",
	"autoClassify": true
}`

func TestJSONParser_ShapesProduceSameRequest(t *testing.T) {
	shapes := map[string]string{
		"array":   "[" + jsonTicket + "]",
		"wrapped": `{"tickets": [` + jsonTicket + `]}`,
		"single":  jsonTicket,
	}

	var results [][]models.CreateTicketRequest
	for name, content := range shapes {
		t.Run(name, func(t *testing.T) {
			requests, err := NewJSONParser().Parse([]byte(content))
			require.NoError(t, err)
			require.Len(t, requests, 1)

			req := requests[0]
			assert.Equal(t, "C100", req.CustomerID)
			assert.Equal(t, models.CategoryBillingQuestion, req.Category)
			assert.Equal(t, models.PriorityHigh, req.Priority)
			assert.Equal(t, []string{"billing", "card"}, req.Tags)
			assert.Equal(t, models.SourceEmail, req.Source)
			assert.Equal(t, models.DeviceMobile, req.DeviceType)
			assert.True(t, req.AutoClassify)
			results = append(results, requests)
		})
	}

	require.Len(t, results, 3)
	assert.Equal(t, results[0], results[1])
	assert.Equal(t, results[1], results[2])
}

func TestJSONParser_ArrayOrder(t *testing.T) {
	content := `[
		{"customerId": "A", "subject": "one"},
		{"customerId": "B", "subject": "two"},
		{"customerId": "C", "subject": "three"}
	]`

	requests, err := NewJSONParser().Parse([]byte(content))
	require.NoError(t, err)
	require.Len(t, requests, 3)
	assert.Equal(t, "A", requests[0].CustomerID)
	assert.Equal(t, "B", requests[1].CustomerID)
	assert.Equal(t, "C", requests[2].CustomerID)
	assert.Nil(t, requests[0].Tags)
}

func TestJSONParser_EmptyCollections(t *testing.T) {
	requests, err := NewJSONParser().Parse([]byte(`[]`))
	require.NoError(t, err)
	assert.NotNil(t, requests)
	assert.Empty(t, requests)

	requests, err = NewJSONParser().Parse([]byte(`{"tickets": []}`))
	require.NoError(t, err)
	assert.Empty(t, requests)
}

func TestJSONParser_EmptyTagsDistinctFromAbsent(t *testing.T) {
	requests, err := NewJSONParser().Parse([]byte(`{"customerId": "A", "tags": []}`))
	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.NotNil(t, requests[0].Tags)
	assert.Empty(t, requests[0].Tags)
}

func TestJSONParser_NonArrayTicketsFieldIsSingleObject(t *testing.T) {
	requests, err := NewJSONParser().Parse([]byte(`{"customerId": "A", "tickets": "none"}`))
	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, "A", requests[0].CustomerID)
}

func TestJSONParser_Errors(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		wantPrefix string
		wantRecord int
	}{
		{"string document", `"just text"`, "Invalid JSON structure. Expected array or object with 'tickets' field.", 0},
		{"number document", `42`, "Invalid JSON structure", 0},
		{"null document", `null`, "Invalid JSON structure", 0},
		{"truncated", `{"tickets": [`, "Error parsing JSON file: ", 0},
		{"empty input", ``, "Error parsing JSON file: ", 0},
		{"wrong field type", `[{"customerId": "A"}, {"customerId": 5}]`, "Error parsing JSON file: record 2: ", 2},
		{"unknown enum", `{"priority": "someday"}`, "Error parsing JSON file: record 1: ", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requests, err := NewJSONParser().Parse([]byte(tt.content))
			require.Error(t, err)
			assert.Nil(t, requests)

			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr))
			assert.Equal(t, FormatJSON, parseErr.Format)
			assert.Equal(t, tt.wantRecord, parseErr.Record)
			assert.Contains(t, parseErr.Error(), tt.wantPrefix)
		})
	}
}

func TestDetectJSONShape(t *testing.T) {
	tests := []struct {
		doc  string
		want jsonShape
	}{
		{`[1, 2]`, jsonShapeArray},
		{` {"tickets": [ ]} `, jsonShapeWrapped},
		{`{"tickets": {}}`, jsonShapeSingle},
		{`{"customerId": "x"}`, jsonShapeSingle},
		{`true`, jsonShapeInvalid},
		{``, jsonShapeInvalid},
	}
	for _, tt := range tests {
		shape, _, err := detectJSONShape(json.RawMessage(tt.doc))
		require.NoError(t, err, tt.doc)
		assert.Equal(t, tt.want, shape, tt.doc)
	}
}
