// Package importer drives a whole-file ticket import with per-record isolation.
package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"ticket-workers/internal/common/logger"
	"ticket-workers/internal/common/metrics"
	"ticket-workers/internal/common/validation"
	"ticket-workers/internal/models"
	"ticket-workers/internal/ticket/parser"
)

const (
	fileErrorPrefix = "File parsing error: "
	tracerName      = "ticket-workers/importer"
)

type ParserResolver interface {
	Resolve(format string) (parser.Parser, error)
}

type Validator interface {
	Validate(req *models.CreateTicketRequest) []validation.ValidationError
}

// TicketCreator commits one validated request.
type TicketCreator interface {
	Create(ctx context.Context, req *models.CreateTicketRequest) (*models.Ticket, error)
}

type Orchestrator struct {
	parsers   ParserResolver
	validator Validator
	creator   TicketCreator
	logger    logger.Logger
}

func NewOrchestrator(parsers ParserResolver, validator Validator, creator TicketCreator, log logger.Logger) *Orchestrator {
	return &Orchestrator{
		parsers:   parsers,
		validator: validator,
		creator:   creator,
		logger:    log.WithFields(map[string]interface{}{"component": "ticket-importer"}),
	}
}

// Import parses content in the given format and commits every record
// independently. It never returns an error: file-level problems and
// per-record failures are reported in the summary.
func (o *Orchestrator) Import(ctx context.Context, content []byte, format string, autoClassify bool) *models.ImportSummary {
	start := time.Now()
	summary := models.NewImportSummary()
	format = strings.ToLower(strings.TrimSpace(format))
	log := o.logger.WithFields(map[string]interface{}{"format": format, "bytes": len(content)})

	ctx, span := otel.Tracer(tracerName).Start(ctx, "tickets.import", trace.WithAttributes(
		attribute.String("import.format", format),
		attribute.Int("import.bytes", len(content)),
		attribute.Bool("import.auto_classify", autoClassify),
	))
	defer span.End()

	p, err := o.parsers.Resolve(format)
	if err != nil {
		o.fileFailure(summary, format, "unsupported_format", err, log)
		span.SetStatus(codes.Error, err.Error())
		return summary
	}

	records, err := p.Parse(content)
	if err != nil {
		o.fileFailure(summary, format, "parse_error", err, log)
		span.SetStatus(codes.Error, err.Error())
		return summary
	}

	summary.TotalRecords = len(records)
	for i := range records {
		recordNum := i + 1
		if err := o.importRecord(ctx, records[i], autoClassify); err != nil {
			reason := err.Error()
			summary.RecordFailure(recordNum, reason)
			metrics.TicketImportRecords.WithLabelValues(format, metrics.OutcomeFailed).Inc()
			log.Warn("ticket record rejected", map[string]interface{}{
				"record": recordNum,
				"reason": reason,
			})
			continue
		}
		summary.RecordSuccess()
		metrics.TicketImportRecords.WithLabelValues(format, metrics.OutcomeSuccess).Inc()
	}

	span.SetAttributes(
		attribute.Int("import.total_records", summary.TotalRecords),
		attribute.Int("import.successful", summary.SuccessfulImports),
		attribute.Int("import.failed", summary.FailedImports),
	)
	log.Info("ticket import finished", map[string]interface{}{
		"totalRecords":      summary.TotalRecords,
		"successfulImports": summary.SuccessfulImports,
		"failedImports":     summary.FailedImports,
		"durationMs":        time.Since(start).Milliseconds(),
	})
	return summary
}

// fileFailure records an error that prevented any record from being read.
func (o *Orchestrator) fileFailure(summary *models.ImportSummary, format, reason string, err error, log logger.Logger) {
	var parseErr *parser.ParseError
	var unsupported *parser.UnsupportedFormatError
	if errors.As(err, &parseErr) || errors.As(err, &unsupported) {
		summary.AddError(fileErrorPrefix + err.Error())
	} else {
		summary.AddError("Unexpected error: " + err.Error())
	}
	summary.FailedImports = summary.TotalRecords

	metrics.TicketImportFileErrors.WithLabelValues(format, reason).Inc()
	log.WithError(err).Error("ticket import rejected", map[string]interface{}{"reason": reason})
}

// importRecord validates and commits a copy of req. Any non-nil error,
// whatever its message, fails the record.
func (o *Orchestrator) importRecord(ctx context.Context, req models.CreateTicketRequest, autoClassify bool) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()

	if violations := o.validator.Validate(&req); len(violations) > 0 {
		return errors.New(validation.JoinMessages(violations))
	}

	req.AutoClassify = autoClassify
	if _, err := o.creator.Create(ctx, &req); err != nil {
		return err
	}
	return nil
}
