package models

import "fmt"

// ImportSummary aggregates the outcome of one import call.
// TotalRecords always equals SuccessfulImports + FailedImports.
type ImportSummary struct {
	TotalRecords      int      `json:"totalRecords"`
	SuccessfulImports int      `json:"successfulImports"`
	FailedImports     int      `json:"failedImports"`
	Errors            []string `json:"errors"`
}

func NewImportSummary() *ImportSummary {
	return &ImportSummary{Errors: []string{}}
}

func (s *ImportSummary) RecordSuccess() {
	s.SuccessfulImports++
}

// RecordFailure counts record n (1-based) as failed with the given reason.
func (s *ImportSummary) RecordFailure(n int, reason string) {
	s.FailedImports++
	s.Errors = append(s.Errors, fmt.Sprintf("Record %d: %s", n, reason))
}

func (s *ImportSummary) AddError(msg string) {
	s.Errors = append(s.Errors, msg)
}
