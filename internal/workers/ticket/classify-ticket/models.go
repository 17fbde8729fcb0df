package classifyticket

import "ticket-workers/internal/models"

type Input struct {
	TicketID string `json:"ticketId"`
}

type Output struct {
	TicketID           string          `json:"ticketId"`
	SuggestedCategory  models.Category `json:"suggestedCategory"`
	SuggestedPriority  models.Priority `json:"suggestedPriority"`
	CategoryConfidence float64         `json:"categoryConfidence"`
	PriorityConfidence float64         `json:"priorityConfidence"`
	Confidence         float64         `json:"confidence"`
	Reasoning          string          `json:"reasoning"`
	Keywords           []string        `json:"keywords"`
}
