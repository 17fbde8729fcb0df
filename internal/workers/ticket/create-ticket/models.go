package createticket

import "ticket-workers/internal/models"

// Input is the ticket request carried in the job variables.
type Input = models.CreateTicketRequest

type Output struct {
	TicketID string          `json:"ticketId"`
	Category models.Category `json:"category"`
	Priority models.Priority `json:"priority"`
	Status   models.Status   `json:"status"`
}

// requestSchema is checked before the variables are decoded so that type
// errors surface per field.
var requestSchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"customerId", "customerEmail", "customerName", "subject", "description"},
	"properties": map[string]interface{}{
		"customerId":    map[string]interface{}{"type": "string"},
		"customerEmail": map[string]interface{}{"type": "string"},
		"customerName":  map[string]interface{}{"type": "string"},
		"subject":       map[string]interface{}{"type": "string"},
		"description":   map[string]interface{}{"type": "string"},
		"category":      map[string]interface{}{"type": "string"},
		"priority":      map[string]interface{}{"type": "string"},
		"assignedTo":    map[string]interface{}{"type": "string"},
		"tags": map[string]interface{}{
			"type":  "array",
			"items": map[string]interface{}{"type": "string"},
		},
		"source":       map[string]interface{}{"type": "string"},
		"browser":      map[string]interface{}{"type": "string"},
		"deviceType":   map[string]interface{}{"type": "string"},
		"autoClassify": map[string]interface{}{"type": "boolean"},
	},
}
