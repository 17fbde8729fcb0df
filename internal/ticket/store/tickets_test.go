package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"ticket-workers/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ticketColumnNames = []string{
	"id", "customer_id", "customer_email", "customer_name", "subject", "description",
	"category", "priority", "status", "assigned_to", "tags", "source", "browser", "device_type",
	"created_at", "updated_at", "resolved_at",
}

func createTestTicket() *models.Ticket {
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	return &models.Ticket{
		ID:            "6f1c2a5e-8a0b-4b8e-9d54-1d2f3c4b5a69",
		CustomerID:    "C1",
		CustomerEmail: "ann@example.com",
		CustomerName:  "Ann",
		Subject:       "Cannot login",
		Description:   "Locked out after password reset",
		Category:      models.CategoryAccountAccess,
		Priority:      models.PriorityHigh,
		Status:        models.StatusNew,
		Tags:          []string{"login"},
		Metadata:      &models.Metadata{Source: models.SourceWebForm, Browser: "Chrome"},
		CreatedAt:     created,
		UpdatedAt:     created,
	}
}

func TestTicketRepository_Save(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ticket := createTestTicket()
	mock.ExpectExec(`INSERT INTO tickets .* ON CONFLICT \(id\) DO UPDATE SET`).
		WithArgs(
			ticket.ID, "C1", "ann@example.com", "Ann", "Cannot login", "Locked out after password reset",
			"ACCOUNT_ACCESS", "HIGH", "NEW",
			sqlmock.AnyArg(), sqlmock.AnyArg(), "WEB_FORM", "Chrome", sqlmock.AnyArg(),
			ticket.CreatedAt, ticket.UpdatedAt, sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewTicketRepository(db).Save(context.Background(), ticket))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTicketRepository_SaveError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO tickets`).WillReturnError(errors.New("connection reset"))

	err = NewTicketRepository(db).Save(context.Background(), createTestTicket())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save ticket 6f1c2a5e-8a0b-4b8e-9d54-1d2f3c4b5a69: connection reset")
}

func TestTicketRepository_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	resolved := created.Add(2 * time.Hour)
	rows := sqlmock.NewRows(ticketColumnNames).AddRow(
		"t-1", "C1", "ann@example.com", "Ann", "Cannot login", "Locked out after password reset",
		"ACCOUNT_ACCESS", "HIGH", "RESOLVED", "agent-7", "{login,password}", "EMAIL", nil, "MOBILE",
		created, created, resolved,
	)
	mock.ExpectQuery(`FROM tickets WHERE id = \$1`).WithArgs("t-1").WillReturnRows(rows)

	ticket, err := NewTicketRepository(db).FindByID(context.Background(), "t-1")
	require.NoError(t, err)

	assert.Equal(t, models.CategoryAccountAccess, ticket.Category)
	assert.Equal(t, models.StatusResolved, ticket.Status)
	assert.Equal(t, "agent-7", ticket.AssignedTo)
	assert.Equal(t, []string{"login", "password"}, ticket.Tags)
	require.NotNil(t, ticket.Metadata)
	assert.Equal(t, models.SourceEmail, ticket.Metadata.Source)
	assert.Equal(t, "", ticket.Metadata.Browser)
	assert.Equal(t, models.DeviceMobile, ticket.Metadata.DeviceType)
	require.NotNil(t, ticket.ResolvedAt)
	assert.True(t, resolved.Equal(*ticket.ResolvedAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTicketRepository_FindByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM tickets WHERE id = \$1`).WithArgs("missing").WillReturnError(sql.ErrNoRows)

	_, err = NewTicketRepository(db).FindByID(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestTicketRepository_FindByFilters(t *testing.T) {
	tests := []struct {
		name      string
		filter    models.TicketFilter
		wantQuery string
		wantArgs  []driver.Value
	}{
		{
			name:      "no filters",
			filter:    models.TicketFilter{},
			wantQuery: `FROM tickets ORDER BY created_at DESC`,
		},
		{
			name:      "category and status",
			filter:    models.TicketFilter{Category: models.CategoryBugReport, Status: models.StatusNew},
			wantQuery: `FROM tickets WHERE category = $1 AND status = $2 ORDER BY created_at DESC`,
			wantArgs:  []driver.Value{"BUG_REPORT", "NEW"},
		},
		{
			name:      "priority only",
			filter:    models.TicketFilter{Priority: models.PriorityUrgent},
			wantQuery: `FROM tickets WHERE priority = $1 ORDER BY created_at DESC`,
			wantArgs:  []driver.Value{"URGENT"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
			rows := sqlmock.NewRows(ticketColumnNames).
				AddRow("t-2", "C2", "b@example.com", "Bob", "Crash", "App crashes on launch",
					"BUG_REPORT", "URGENT", "NEW", nil, "{}", nil, nil, nil, created, created, nil).
				AddRow("t-1", "C1", "a@example.com", "Ann", "Crash", "App crashes on save",
					"BUG_REPORT", "URGENT", "NEW", nil, "{}", nil, nil, nil, created, created, nil)

			expect := mock.ExpectQuery(regexp.QuoteMeta(tt.wantQuery))
			if len(tt.wantArgs) > 0 {
				expect = expect.WithArgs(tt.wantArgs...)
			}
			expect.WillReturnRows(rows)

			tickets, err := NewTicketRepository(db).FindByFilters(context.Background(), tt.filter)
			require.NoError(t, err)
			require.Len(t, tickets, 2)
			assert.Equal(t, "t-2", tickets[0].ID)
			assert.Nil(t, tickets[0].Metadata)
			assert.Equal(t, []string{}, tickets[0].Tags)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestTicketRepository_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM tickets WHERE id = \$1`).WithArgs("t-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM tickets WHERE id = \$1`).WithArgs("t-9").WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewTicketRepository(db)
	require.NoError(t, repo.Delete(context.Background(), "t-1"))

	err = repo.Delete(context.Background(), "t-9")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS tickets`).WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, Migrate(context.Background(), db))
	assert.NoError(t, mock.ExpectationsWereMet())
}
