// Package store persists tickets and classification logs and keeps the
// Redis cache and Elasticsearch index in step with them.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"ticket-workers/internal/models"

	"github.com/lib/pq"
)

var ErrNotFound = errors.New("record not found")

const ticketColumns = `id, customer_id, customer_email, customer_name, subject, description,
	category, priority, status, assigned_to, tags, source, browser, device_type,
	created_at, updated_at, resolved_at`

type TicketRepository struct {
	db *sql.DB
}

func NewTicketRepository(db *sql.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

// Save inserts the ticket or overwrites the stored row with the same id.
func (r *TicketRepository) Save(ctx context.Context, t *models.Ticket) error {
	var source, deviceType, browser sql.NullString
	if t.Metadata != nil {
		source = nullString(string(t.Metadata.Source))
		browser = nullString(t.Metadata.Browser)
		deviceType = nullString(string(t.Metadata.DeviceType))
	}
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tickets (`+ticketColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (id) DO UPDATE SET
			subject = EXCLUDED.subject,
			description = EXCLUDED.description,
			category = EXCLUDED.category,
			priority = EXCLUDED.priority,
			status = EXCLUDED.status,
			assigned_to = EXCLUDED.assigned_to,
			tags = EXCLUDED.tags,
			updated_at = EXCLUDED.updated_at,
			resolved_at = EXCLUDED.resolved_at`,
		t.ID,
		t.CustomerID,
		t.CustomerEmail,
		t.CustomerName,
		t.Subject,
		t.Description,
		string(t.Category),
		string(t.Priority),
		string(t.Status),
		nullString(t.AssignedTo),
		pq.Array(tags),
		source,
		browser,
		deviceType,
		t.CreatedAt,
		t.UpdatedAt,
		nullTime(t),
	)
	if err != nil {
		return fmt.Errorf("save ticket %s: %w", t.ID, err)
	}
	return nil
}

func (r *TicketRepository) FindByID(ctx context.Context, id string) (*models.Ticket, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE id = $1`, id)
	t, err := scanTicket(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("ticket %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find ticket %s: %w", id, err)
	}
	return t, nil
}

// FindByFilters returns tickets matching every non-empty filter field, newest first.
func (r *TicketRepository) FindByFilters(ctx context.Context, filter models.TicketFilter) ([]models.Ticket, error) {
	var (
		clauses []string
		args    []interface{}
	)
	add := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	add("category", string(filter.Category))
	add("priority", string(filter.Priority))
	add("status", string(filter.Status))

	query := `SELECT ` + ticketColumns + ` FROM tickets`
	if len(clauses) > 0 {
		query += ` WHERE ` + strings.Join(clauses, " AND ")
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	defer rows.Close()

	tickets := []models.Ticket{}
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ticket: %w", err)
		}
		tickets = append(tickets, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tickets: %w", err)
	}
	return tickets, nil
}

func (r *TicketRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tickets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete ticket %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete ticket %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("ticket %s: %w", id, ErrNotFound)
	}
	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTicket(s scanner) (*models.Ticket, error) {
	var (
		t                                       models.Ticket
		category, priority, status              string
		assignedTo, source, browser, deviceType sql.NullString
		tags                                    pq.StringArray
		resolvedAt                              sql.NullTime
	)
	err := s.Scan(
		&t.ID, &t.CustomerID, &t.CustomerEmail, &t.CustomerName, &t.Subject, &t.Description,
		&category, &priority, &status, &assignedTo, &tags, &source, &browser, &deviceType,
		&t.CreatedAt, &t.UpdatedAt, &resolvedAt,
	)
	if err != nil {
		return nil, err
	}

	t.Category = models.Category(category)
	t.Priority = models.Priority(priority)
	t.Status = models.Status(status)
	t.AssignedTo = assignedTo.String
	t.Tags = []string(tags)
	if t.Tags == nil {
		t.Tags = []string{}
	}
	if source.Valid || browser.Valid || deviceType.Valid {
		t.Metadata = &models.Metadata{
			Source:     models.Source(source.String),
			Browser:    browser.String,
			DeviceType: models.DeviceType(deviceType.String),
		}
	}
	if resolvedAt.Valid {
		ts := resolvedAt.Time
		t.ResolvedAt = &ts
	}
	return &t, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *models.Ticket) sql.NullTime {
	if t.ResolvedAt == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t.ResolvedAt, Valid: true}
}
