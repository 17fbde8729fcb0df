package errors

import (
	"fmt"
	"strings"
	"time"
)

type ErrorCode string

const (
	ErrCodeUnsupportedFormat      ErrorCode = "UNSUPPORTED_FORMAT"
	ErrCodeFileParseFailed        ErrorCode = "FILE_PARSE_FAILED"
	ErrCodeFileTooLarge           ErrorCode = "FILE_TOO_LARGE"
	ErrCodeInputValidationFailed  ErrorCode = "INPUT_VALIDATION_FAILED"
	ErrCodeTicketValidationFailed ErrorCode = "TICKET_VALIDATION_FAILED"
	ErrCodeTicketCreationFailed   ErrorCode = "TICKET_CREATION_FAILED"
	ErrCodeTicketNotFound         ErrorCode = "TICKET_NOT_FOUND"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeQueryTimeout             ErrorCode = "QUERY_TIMEOUT"
	ErrCodeDatabaseInsertFailed     ErrorCode = "DATABASE_INSERT_FAILED"
	ErrCodeClassificationLogFailed  ErrorCode = "CLASSIFICATION_LOG_FAILED"

	ErrCodeSearchIndexFailed ErrorCode = "SEARCH_INDEX_FAILED"
)

type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

func newError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

func NewUnsupportedFormatError(format string) *StandardError {
	return newError(ErrCodeUnsupportedFormat, "Unsupported import format", fmt.Sprintf("format: %s", format), false)
}

func NewFileParseFailedError(err error) *StandardError {
	return newError(ErrCodeFileParseFailed, "Import file could not be parsed", err.Error(), false)
}

func NewFileTooLargeError(size, limit int) *StandardError {
	return newError(ErrCodeFileTooLarge, "Import file exceeds size limit",
		fmt.Sprintf("size: %d bytes, limit: %d bytes", size, limit), false)
}

func NewInputValidationFailedError(details string) *StandardError {
	return newError(ErrCodeInputValidationFailed, "Job input validation failed", details, false)
}

func NewTicketValidationFailedError(details string) *StandardError {
	return newError(ErrCodeTicketValidationFailed, "Ticket data validation failed", details, false)
}

func NewTicketCreationFailedError(err error) *StandardError {
	return newError(ErrCodeTicketCreationFailed, "Ticket could not be created", err.Error(), true)
}

func NewTicketNotFoundError(ticketID string) *StandardError {
	return newError(ErrCodeTicketNotFound, "Ticket not found", fmt.Sprintf("ticketId: %s", ticketID), false)
}

func NewDatabaseConnectionFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseConnectionFailed, "Database connection error", err.Error(), true)
}

func NewQueryExecutionFailedError(queryType string, err error) *StandardError {
	return newError(ErrCodeQueryExecutionFailed, "Database query execution error",
		fmt.Sprintf("queryType: %s, error: %s", queryType, err.Error()), true)
}

func NewQueryTimeoutError(queryType string) *StandardError {
	return newError(ErrCodeQueryTimeout, "Database query timeout", fmt.Sprintf("queryType: %s", queryType), true)
}

func NewDatabaseInsertFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseInsertFailed, "Database insert operation failed", err.Error(), true)
}

func NewClassificationLogFailedError(err error) *StandardError {
	return newError(ErrCodeClassificationLogFailed, "Classification log could not be written", err.Error(), true)
}

func NewSearchIndexFailedError(err error) *StandardError {
	return newError(ErrCodeSearchIndexFailed, "Search index update failed", err.Error(), true)
}

var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeUnsupportedFormat:        "UNSUPPORTED_FORMAT",
	ErrCodeFileParseFailed:          "FILE_PARSE_FAILED",
	ErrCodeFileTooLarge:             "FILE_TOO_LARGE",
	ErrCodeInputValidationFailed:    "INPUT_VALIDATION_FAILED",
	ErrCodeTicketValidationFailed:   "TICKET_VALIDATION_FAILED",
	ErrCodeTicketCreationFailed:     "TICKET_CREATION_FAILED",
	ErrCodeTicketNotFound:           "TICKET_NOT_FOUND",
	ErrCodeDatabaseConnectionFailed: "DATABASE_CONNECTION_FAILED",
	ErrCodeQueryExecutionFailed:     "QUERY_EXECUTION_FAILED",
	ErrCodeQueryTimeout:             "QUERY_TIMEOUT",
	ErrCodeDatabaseInsertFailed:     "DATABASE_INSERT_FAILED",
	ErrCodeClassificationLogFailed:  "CLASSIFICATION_LOG_FAILED",
	ErrCodeSearchIndexFailed:        "SEARCH_INDEX_FAILED",
}

func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatabaseConnectionFailed,
		ErrCodeQueryExecutionFailed,
		ErrCodeDatabaseInsertFailed,
		ErrCodeTicketCreationFailed,
		ErrCodeClassificationLogFailed,
		ErrCodeSearchIndexFailed:
		return 3

	case ErrCodeQueryTimeout:
		return 2

	default:
		return 0 // business errors
	}
}

func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "FORMAT") || strings.Contains(codeStr, "FILE"):
		return "IMPORT"
	case strings.Contains(codeStr, "TICKET"):
		return "TICKET"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY"):
		return "DATABASE"
	case strings.Contains(codeStr, "CLASSIFICATION"):
		return "CLASSIFICATION"
	case strings.Contains(codeStr, "SEARCH"):
		return "SEARCH"
	case strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
