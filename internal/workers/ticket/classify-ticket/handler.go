package classifyticket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	apperrors "ticket-workers/internal/common/errors"
	"ticket-workers/internal/common/logger"
	"ticket-workers/internal/common/metrics"
	"ticket-workers/internal/models"
	"ticket-workers/internal/ticket/service"
)

const (
	TaskType = "classify-ticket"
)

// Classifier re-classifies a stored ticket and records the suggestion.
type Classifier interface {
	Classify(ctx context.Context, ticketID string) (*models.ClassificationResult, error)
}

type Handler struct {
	config       *Config
	classifier   Classifier
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, classifier Classifier, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		classifier:   classifier,
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
	ticketID := strings.TrimSpace(input.TicketID)
	if ticketID == "" {
		return nil, apperrors.NewInputValidationFailedError("ticketId: required field missing")
	}

	result, err := h.classifier.Classify(ctx, ticketID)
	if err != nil {
		return nil, mapError(ctx, ticketID, err)
	}

	h.logger.Info("ticket classified", map[string]interface{}{
		"ticketId":   ticketID,
		"category":   result.Category,
		"priority":   result.Priority,
		"confidence": result.Confidence,
	})

	return &Output{
		TicketID:           ticketID,
		SuggestedCategory:  result.Category,
		SuggestedPriority:  result.Priority,
		CategoryConfidence: result.CategoryConfidence,
		PriorityConfidence: result.PriorityConfidence,
		Confidence:         result.Confidence,
		Reasoning:          result.Reasoning,
		Keywords:           result.Keywords,
	}, nil
}

func mapError(ctx context.Context, ticketID string, err error) error {
	switch {
	case errors.Is(err, service.ErrTicketNotFound):
		return apperrors.NewTicketNotFoundError(ticketID)
	case errors.Is(err, service.ErrClassificationLog):
		return apperrors.NewClassificationLogFailedError(err)
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return apperrors.NewQueryTimeoutError("classify")
	default:
		return apperrors.NewQueryExecutionFailedError("classify", err)
	}
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
