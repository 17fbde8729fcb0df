package models

import "time"

type ClassificationResult struct {
	Category           Category `json:"category"`
	Priority           Priority `json:"priority"`
	CategoryConfidence float64  `json:"categoryConfidence"`
	PriorityConfidence float64  `json:"priorityConfidence"`
	Confidence         float64  `json:"confidence"`
	Reasoning          string   `json:"reasoning"`
	Keywords           []string `json:"keywords"`
}

// ClassificationLogEntry is the append-only audit record of one classification.
type ClassificationLogEntry struct {
	ID                 string    `json:"id"`
	TicketID           string    `json:"ticketId"`
	SuggestedCategory  Category  `json:"suggestedCategory"`
	SuggestedPriority  Priority  `json:"suggestedPriority"`
	CategoryConfidence float64   `json:"categoryConfidence"`
	PriorityConfidence float64   `json:"priorityConfidence"`
	ConfidenceScore    float64   `json:"confidenceScore"`
	Reasoning          string    `json:"reasoning"`
	Keywords           []string  `json:"keywords"`
	ClassifiedAt       time.Time `json:"classifiedAt"`
}
