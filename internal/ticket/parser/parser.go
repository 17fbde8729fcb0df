// Package parser turns raw import files into normalized ticket-creation requests.
package parser

import "ticket-workers/internal/models"

// Parser decodes one file format. Implementations are stateless and safe for
// concurrent use; every failure is returned as a *ParseError.
type Parser interface {
	Format() string
	Parse(content []byte) ([]models.CreateTicketRequest, error)
}

// ParseError reports why a file could not be parsed. Record is the 1-based
// record number when the failure is tied to a single record, otherwise 0.
type ParseError struct {
	Format  string
	Record  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	return e.Message
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
