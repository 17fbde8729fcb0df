package models

import "time"

// CreateTicketRequest is the normalized ticket-creation request every import
// format produces. Zero-valued enums mean "not provided"; a nil Tags slice is
// distinct from an empty one.
type CreateTicketRequest struct {
	CustomerID    string     `json:"customerId" xml:"customerId"`
	CustomerEmail string     `json:"customerEmail" xml:"customerEmail"`
	CustomerName  string     `json:"customerName" xml:"customerName"`
	Subject       string     `json:"subject" xml:"subject"`
	Description   string     `json:"description" xml:"description"`
	Category      Category   `json:"category,omitempty" xml:"category,omitempty"`
	Priority      Priority   `json:"priority,omitempty" xml:"priority,omitempty"`
	AssignedTo    string     `json:"assignedTo,omitempty" xml:"assignedTo,omitempty"`
	Tags          []string   `json:"tags,omitempty" xml:"-"`
	Source        Source     `json:"source,omitempty" xml:"source,omitempty"`
	Browser       string     `json:"browser,omitempty" xml:"browser,omitempty"`
	DeviceType    DeviceType `json:"deviceType,omitempty" xml:"deviceType,omitempty"`
	AutoClassify  bool       `json:"autoClassify,omitempty" xml:"autoClassify,omitempty"`
}

// HasMetadata reports whether any client metadata field was supplied.
func (r *CreateTicketRequest) HasMetadata() bool {
	return r.Source != "" || r.Browser != "" || r.DeviceType != ""
}

type Metadata struct {
	Source     Source     `json:"source,omitempty"`
	Browser    string     `json:"browser,omitempty"`
	DeviceType DeviceType `json:"deviceType,omitempty"`
}

type Ticket struct {
	ID            string     `json:"id"`
	CustomerID    string     `json:"customerId"`
	CustomerEmail string     `json:"customerEmail"`
	CustomerName  string     `json:"customerName"`
	Subject       string     `json:"subject"`
	Description   string     `json:"description"`
	Category      Category   `json:"category"`
	Priority      Priority   `json:"priority"`
	Status        Status     `json:"status"`
	AssignedTo    string     `json:"assignedTo,omitempty"`
	Tags          []string   `json:"tags"`
	Metadata      *Metadata  `json:"metadata,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
	ResolvedAt    *time.Time `json:"resolvedAt,omitempty"`
}

// UpdateTicketRequest applies only the fields that are non-nil.
type UpdateTicketRequest struct {
	Subject     *string   `json:"subject,omitempty"`
	Description *string   `json:"description,omitempty"`
	Category    *Category `json:"category,omitempty"`
	Priority    *Priority `json:"priority,omitempty"`
	Status      *Status   `json:"status,omitempty"`
	AssignedTo  *string   `json:"assignedTo,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
}

type TicketFilter struct {
	Category Category `json:"category,omitempty"`
	Priority Priority `json:"priority,omitempty"`
	Status   Status   `json:"status,omitempty"`
}
