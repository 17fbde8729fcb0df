package querytickets

import "ticket-workers/internal/models"

type QueryType string

const (
	QueryTypeByID   QueryType = "ticket-by-id"
	QueryTypeFilter QueryType = "tickets-by-filter"
	QueryTypeSearch QueryType = "tickets-search"
)

type Input struct {
	QueryType QueryType       `json:"queryType"`
	TicketID  string          `json:"ticketId,omitempty"`
	Category  models.Category `json:"category,omitempty"`
	Priority  models.Priority `json:"priority,omitempty"`
	Status    models.Status   `json:"status,omitempty"`
	Text      string          `json:"text,omitempty"`
	Size      int             `json:"size,omitempty"`
}

type Output struct {
	Data               []models.Ticket `json:"data"`
	RowCount           int             `json:"rowCount"`
	QueryExecutionTime int64           `json:"queryExecutionTime"` // milliseconds
}
