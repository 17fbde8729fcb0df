package store

import (
	"context"
	"database/sql"
	"fmt"

	"ticket-workers/internal/models"

	"github.com/lib/pq"
)

// ClassificationLogRepository is append-only: entries are never updated.
type ClassificationLogRepository struct {
	db *sql.DB
}

func NewClassificationLogRepository(db *sql.DB) *ClassificationLogRepository {
	return &ClassificationLogRepository{db: db}
}

func (r *ClassificationLogRepository) Append(ctx context.Context, entry *models.ClassificationLogEntry) error {
	keywords := entry.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO classification_logs (
			id, ticket_id, suggested_category, suggested_priority,
			category_confidence, priority_confidence, confidence_score,
			reasoning, keywords, classified_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		entry.ID,
		entry.TicketID,
		string(entry.SuggestedCategory),
		string(entry.SuggestedPriority),
		entry.CategoryConfidence,
		entry.PriorityConfidence,
		entry.ConfidenceScore,
		entry.Reasoning,
		pq.Array(keywords),
		entry.ClassifiedAt,
	)
	if err != nil {
		return fmt.Errorf("append classification log for ticket %s: %w", entry.TicketID, err)
	}
	return nil
}

// FindByTicketID returns the ticket's log entries, newest first.
func (r *ClassificationLogRepository) FindByTicketID(ctx context.Context, ticketID string) ([]models.ClassificationLogEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, ticket_id, suggested_category, suggested_priority,
			category_confidence, priority_confidence, confidence_score,
			reasoning, keywords, classified_at
		FROM classification_logs
		WHERE ticket_id = $1
		ORDER BY classified_at DESC`, ticketID)
	if err != nil {
		return nil, fmt.Errorf("list classification logs for ticket %s: %w", ticketID, err)
	}
	defer rows.Close()

	entries := []models.ClassificationLogEntry{}
	for rows.Next() {
		var (
			e                  models.ClassificationLogEntry
			category, priority string
			keywords           pq.StringArray
		)
		if err := rows.Scan(
			&e.ID, &e.TicketID, &category, &priority,
			&e.CategoryConfidence, &e.PriorityConfidence, &e.ConfidenceScore,
			&e.Reasoning, &keywords, &e.ClassifiedAt,
		); err != nil {
			return nil, fmt.Errorf("scan classification log: %w", err)
		}
		e.SuggestedCategory = models.Category(category)
		e.SuggestedPriority = models.Priority(priority)
		e.Keywords = []string(keywords)
		if e.Keywords == nil {
			e.Keywords = []string{}
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate classification logs: %w", err)
	}
	return entries, nil
}
