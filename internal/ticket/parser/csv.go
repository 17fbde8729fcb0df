package parser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"ticket-workers/internal/models"
)

const FormatCSV = "csv"

const (
	colCustomerID    = "customer_id"
	colCustomerEmail = "customer_email"
	colCustomerName  = "customer_name"
	colSubject       = "subject"
	colDescription   = "description"
	colCategory      = "category"
	colPriority      = "priority"
	colAssignedTo    = "assigned_to"
	colTags          = "tags"
	colSource        = "source"
	colBrowser       = "browser"
	colDeviceType    = "device_type"
)

var requiredCSVColumns = []string{colCustomerID, colCustomerEmail, colCustomerName, colSubject, colDescription}

const tagSeparator = ";"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVParser reads a header row followed by one ticket per row.
type CSVParser struct{}

func NewCSVParser() *CSVParser {
	return &CSVParser{}
}

func (p *CSVParser) Format() string {
	return FormatCSV
}

func (p *CSVParser) Parse(content []byte) ([]models.CreateTicketRequest, error) {
	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(content, utf8BOM)))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	requests := []models.CreateTicketRequest{}

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return requests, nil
	}
	if err != nil {
		return nil, csvHeaderError(err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range requiredCSVColumns {
		if _, ok := columns[name]; !ok {
			return nil, csvHeaderError(fmt.Errorf("missing required column %s", name))
		}
	}

	for recordNum := 1; ; recordNum++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return requests, nil
		}
		if err != nil {
			line := 0
			var csvErr *csv.ParseError
			if errors.As(err, &csvErr) {
				line = csvErr.StartLine
			}
			return nil, csvRecordError(recordNum, line, err)
		}
		req, err := csvRow{columns: columns, values: row}.toRequest()
		if err != nil {
			line, _ := reader.FieldPos(0)
			return nil, csvRecordError(recordNum, line, err)
		}
		requests = append(requests, req)
	}
}

func csvHeaderError(err error) *ParseError {
	return &ParseError{
		Format:  FormatCSV,
		Message: fmt.Sprintf("Error parsing CSV header: %v", err),
		Err:     err,
	}
}

func csvRecordError(recordNum, line int, err error) *ParseError {
	return &ParseError{
		Format:  FormatCSV,
		Record:  recordNum,
		Message: fmt.Sprintf("Error parsing CSV record %d (line %d): %v", recordNum, line, err),
		Err:     err,
	}
}

type csvRow struct {
	columns map[string]int
	values  []string
}

func (r csvRow) required(name string) (string, error) {
	idx := r.columns[name]
	if idx >= len(r.values) {
		return "", fmt.Errorf("column %s is missing (record has %d values)", name, len(r.values))
	}
	return strings.TrimSpace(r.values[idx]), nil
}

// optional returns the trimmed value and whether it is present and non-empty.
func (r csvRow) optional(name string) (string, bool) {
	idx, ok := r.columns[name]
	if !ok || idx >= len(r.values) {
		return "", false
	}
	v := strings.TrimSpace(r.values[idx])
	return v, v != ""
}

func (r csvRow) toRequest() (models.CreateTicketRequest, error) {
	var req models.CreateTicketRequest
	var err error

	for _, f := range []struct {
		col    string
		target *string
	}{
		{colCustomerID, &req.CustomerID},
		{colCustomerEmail, &req.CustomerEmail},
		{colCustomerName, &req.CustomerName},
		{colSubject, &req.Subject},
		{colDescription, &req.Description},
	} {
		if *f.target, err = r.required(f.col); err != nil {
			return req, err
		}
	}

	if v, ok := r.optional(colCategory); ok {
		if req.Category, err = models.ParseCategory(v); err != nil {
			return req, err
		}
	}
	if v, ok := r.optional(colPriority); ok {
		if req.Priority, err = models.ParsePriority(v); err != nil {
			return req, err
		}
	}
	if v, ok := r.optional(colAssignedTo); ok {
		req.AssignedTo = v
	}
	if v, ok := r.optional(colTags); ok {
		req.Tags = splitTags(v)
	}
	if v, ok := r.optional(colSource); ok {
		if req.Source, err = models.ParseSource(v); err != nil {
			return req, err
		}
	}
	if v, ok := r.optional(colBrowser); ok {
		req.Browser = v
	}
	if v, ok := r.optional(colDeviceType); ok {
		if req.DeviceType, err = models.ParseDeviceType(v); err != nil {
			return req, err
		}
	}
	return req, nil
}

// splitTags keeps empty tags between separators and drops trailing ones.
func splitTags(raw string) []string {
	tags := strings.Split(raw, tagSeparator)
	for len(tags) > 0 && tags[len(tags)-1] == "" {
		tags = tags[:len(tags)-1]
	}
	return tags
}
