package querytickets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	apperrors "ticket-workers/internal/common/errors"
	"ticket-workers/internal/common/logger"
	"ticket-workers/internal/common/metrics"
	"ticket-workers/internal/models"
	"ticket-workers/internal/ticket/service"
)

const (
	TaskType = "query-tickets"
)

// TicketReader is the read side of the ticket service.
type TicketReader interface {
	Get(ctx context.Context, id string) (*models.Ticket, error)
	List(ctx context.Context, filter models.TicketFilter) ([]models.Ticket, error)
	Search(ctx context.Context, text string, size int) ([]models.Ticket, error)
}

type Handler struct {
	config       *Config
	tickets      TicketReader
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, tickets TicketReader, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		tickets:      tickets,
		errorHandler: apperrors.NewErrorHandler(log),
		logger:       log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.fail(ctx, client, job, apperrors.NewInputValidationFailedError(fmt.Sprintf("parse input: %v", err)))
		return
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.fail(ctx, client, job, err)
		return
	}

	h.completeJob(ctx, client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, apperrors.NewInputValidationFailedError("input cannot be nil")
	}

	start := time.Now()
	var (
		tickets []models.Ticket
		err     error
	)

	switch input.QueryType {
	case QueryTypeByID:
		id := strings.TrimSpace(input.TicketID)
		if id == "" {
			return nil, apperrors.NewInputValidationFailedError("ticketId: required for " + string(QueryTypeByID))
		}
		var t *models.Ticket
		if t, err = h.tickets.Get(ctx, id); err == nil {
			tickets = []models.Ticket{*t}
		} else if errors.Is(err, service.ErrTicketNotFound) {
			return nil, apperrors.NewTicketNotFoundError(id)
		}
	case QueryTypeFilter:
		tickets, err = h.tickets.List(ctx, models.TicketFilter{
			Category: input.Category,
			Priority: input.Priority,
			Status:   input.Status,
		})
	case QueryTypeSearch:
		text := strings.TrimSpace(input.Text)
		if text == "" {
			return nil, apperrors.NewInputValidationFailedError("text: required for " + string(QueryTypeSearch))
		}
		tickets, err = h.tickets.Search(ctx, text, h.size(input.Size))
		if errors.Is(err, service.ErrSearchDisabled) {
			return nil, apperrors.NewInputValidationFailedError(fmt.Sprintf("queryType %s: %v", QueryTypeSearch, err))
		}
	default:
		return nil, apperrors.NewInputValidationFailedError(fmt.Sprintf("queryType: unknown value %q", input.QueryType))
	}

	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, apperrors.NewQueryTimeoutError(string(input.QueryType))
		}
		return nil, apperrors.NewQueryExecutionFailedError(string(input.QueryType), err)
	}
	if tickets == nil {
		tickets = []models.Ticket{}
	}

	elapsed := time.Since(start).Milliseconds()
	h.logger.Info("ticket query executed", map[string]interface{}{
		"queryType":     input.QueryType,
		"rowCount":      len(tickets),
		"executionTime": elapsed,
	})

	return &Output{
		Data:               tickets,
		RowCount:           len(tickets),
		QueryExecutionTime: elapsed,
	}, nil
}

func (h *Handler) size(requested int) int {
	if requested <= 0 {
		return h.config.DefaultSize
	}
	if h.config.MaxSize > 0 && requested > h.config.MaxSize {
		return h.config.MaxSize
	}
	return requested
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
}

func (h *Handler) fail(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(apperrors.Normalize(err).Code)).Inc()
	h.errorHandler.HandleJobError(ctx, client, job, err)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
