// Package validate applies field-level rules to ticket-creation requests.
package validate

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"ticket-workers/internal/common/validation"
	"ticket-workers/internal/models"
)

const (
	SubjectMinLength     = 1
	SubjectMaxLength     = 200
	DescriptionMinLength = 10
	DescriptionMaxLength = 2000
)

const (
	codeRequired     = "REQUIRED_FIELD_MISSING"
	codeInvalidEmail = "INVALID_EMAIL"
	codeLength       = "LENGTH_VIOLATION"
)

// TicketValidator checks the fields a ticket needs before it can be created.
type TicketValidator struct{}

func NewTicketValidator() *TicketValidator {
	return &TicketValidator{}
}

// Validate returns violations in field order. A blank field only reports
// that it is required.
func (v *TicketValidator) Validate(req *models.CreateTicketRequest) []validation.ValidationError {
	var errs []validation.ValidationError

	required := func(field, value, label string) bool {
		if strings.TrimSpace(value) == "" {
			errs = append(errs, validation.ValidationError{
				Field:   field,
				Message: label + " is required",
				Code:    codeRequired,
			})
			return false
		}
		return true
	}
	length := func(field, value, label string, lo, hi int) {
		n := utf8.RuneCountInString(value)
		if n < lo || n > hi {
			errs = append(errs, validation.ValidationError{
				Field:   field,
				Message: fmt.Sprintf("%s must be between %d and %d characters", label, lo, hi),
				Code:    codeLength,
			})
		}
	}

	required("customerId", req.CustomerID, "Customer ID")

	if required("customerEmail", req.CustomerEmail, "Customer email") && !validation.ValidateEmail(req.CustomerEmail) {
		errs = append(errs, validation.ValidationError{
			Field:   "customerEmail",
			Message: "Invalid email format",
			Code:    codeInvalidEmail,
		})
	}

	required("customerName", req.CustomerName, "Customer name")

	if required("subject", req.Subject, "Subject") {
		length("subject", req.Subject, "Subject", SubjectMinLength, SubjectMaxLength)
	}
	if required("description", req.Description, "Description") {
		length("description", req.Description, "Description", DescriptionMinLength, DescriptionMaxLength)
	}

	return errs
}
