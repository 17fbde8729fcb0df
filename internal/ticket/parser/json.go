package parser

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"ticket-workers/internal/models"
)

const FormatJSON = "json"

const wrapperField = "tickets"

var errInvalidJSONStructure = errors.New("Invalid JSON structure. Expected array or object with 'tickets' field.")

type jsonShape int

const (
	jsonShapeInvalid jsonShape = iota
	jsonShapeArray
	jsonShapeWrapped
	jsonShapeSingle
)

// detectJSONShape decides how a document maps to requests: a top-level array,
// an object whose "tickets" field is an array, or any other object as a single
// request. It returns the payload to decode for that shape.
func detectJSONShape(doc json.RawMessage) (jsonShape, json.RawMessage, error) {
	trimmed := bytes.TrimSpace(doc)
	if len(trimmed) == 0 {
		return jsonShapeInvalid, nil, nil
	}

	switch trimmed[0] {
	case '[':
		return jsonShapeArray, trimmed, nil
	case '{':
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &fields); err != nil {
			return jsonShapeInvalid, nil, err
		}
		if tickets, ok := fields[wrapperField]; ok {
			if t := bytes.TrimSpace(tickets); len(t) > 0 && t[0] == '[' {
				return jsonShapeWrapped, t, nil
			}
		}
		return jsonShapeSingle, trimmed, nil
	default:
		return jsonShapeInvalid, nil, nil
	}
}

// JSONParser accepts an array of tickets, {"tickets": [...]}, or one ticket object.
type JSONParser struct{}

func NewJSONParser() *JSONParser {
	return &JSONParser{}
}

func (p *JSONParser) Format() string {
	return FormatJSON
}

func (p *JSONParser) Parse(content []byte) ([]models.CreateTicketRequest, error) {
	var doc json.RawMessage
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil, jsonError(0, err)
	}

	shape, payload, err := detectJSONShape(doc)
	if err != nil {
		return nil, jsonError(0, err)
	}

	switch shape {
	case jsonShapeArray, jsonShapeWrapped:
		var elements []json.RawMessage
		if err := json.Unmarshal(payload, &elements); err != nil {
			return nil, jsonError(0, err)
		}
		requests := make([]models.CreateTicketRequest, 0, len(elements))
		for i, element := range elements {
			var req models.CreateTicketRequest
			if err := json.Unmarshal(element, &req); err != nil {
				return nil, jsonError(i+1, err)
			}
			requests = append(requests, req)
		}
		return requests, nil

	case jsonShapeSingle:
		var req models.CreateTicketRequest
		if err := json.Unmarshal(payload, &req); err != nil {
			return nil, jsonError(1, err)
		}
		return []models.CreateTicketRequest{req}, nil

	default:
		return nil, &ParseError{
			Format:  FormatJSON,
			Message: errInvalidJSONStructure.Error(),
			Err:     errInvalidJSONStructure,
		}
	}
}

func jsonError(record int, err error) *ParseError {
	msg := fmt.Sprintf("Error parsing JSON file: %v", err)
	if record > 0 {
		msg = fmt.Sprintf("Error parsing JSON file: record %d: %v", record, err)
	}
	return &ParseError{Format: FormatJSON, Record: record, Message: msg, Err: err}
}
