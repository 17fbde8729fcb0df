package importtickets

import (
	"context"
	"encoding/base64"
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
	"ticket-workers/internal/common/observability"
	"ticket-workers/internal/common/validation"
	"ticket-workers/internal/models"
	"ticket-workers/internal/ticket/parser"
)

const (
	TaskType = "import-tickets"
)

var (
	ErrFormatRequired = errors.New("format or fileName with a known extension is required")
	ErrInvalidContent = errors.New("content is not valid base64")
)

// Importer runs a whole-file import and reports per-record outcomes.
type Importer interface {
	Import(ctx context.Context, content []byte, format string, autoClassify bool) *models.ImportSummary
}

type FormatResolver interface {
	Resolve(format string) (parser.Parser, error)
}

var inputSchema = validation.JSONSchema{
	Type: "object",
	Properties: map[string]validation.Property{
		"content":         {Type: "string", MinLength: validation.IntPtr(1)},
		"contentEncoding": {Type: "string", Enum: []string{EncodingPlain, EncodingBase64}},
		"format":          {Type: "string"},
		"fileName":        {Type: "string"},
		"autoClassify":    {Type: "boolean"},
	},
	Required:             []string{"content"},
	AdditionalProperties: true,
}

type Handler struct {
	config       *Config
	importer     Importer
	formats      FormatResolver
	errorHandler *apperrors.ErrorHandler
	obs          *observability.Observability
	logger       logger.Logger
}

func NewHandler(config *Config, importer Importer, formats FormatResolver, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		importer:     importer,
		formats:      formats,
		errorHandler: apperrors.NewErrorHandler(log),
		obs:          obs,
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

	input, err := parseInput(job.Variables)
	if err != nil {
		h.fail(ctx, client, job, err)
		return
	}

	output, err := h.execute(ctx, input)
	if err != nil {
		h.fail(ctx, client, job, err)
		return
	}

	h.completeJob(ctx, client, job, output)
}

// parseInput checks the raw variables against inputSchema before decoding.
func parseInput(variables string) (*Input, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(variables), &raw); err != nil {
		return nil, apperrors.NewInputValidationFailedError(fmt.Sprintf("parse input: %v", err))
	}
	if result := validation.ValidateInput(raw, inputSchema); !result.Valid {
		return nil, apperrors.NewInputValidationFailedError(validation.JoinMessages(result.Errors))
	}

	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, apperrors.NewInputValidationFailedError(fmt.Sprintf("parse input: %v", err))
	}
	return &input, nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, fmt.Errorf("input cannot be nil")
	}

	content, err := decodeContent(input)
	if err != nil {
		return nil, apperrors.NewInputValidationFailedError(err.Error())
	}
	if h.config.MaxFileBytes > 0 && len(content) > h.config.MaxFileBytes {
		return nil, apperrors.NewFileTooLargeError(len(content), h.config.MaxFileBytes)
	}

	format := resolveFormat(input)
	if format == "" {
		return nil, apperrors.NewInputValidationFailedError(ErrFormatRequired.Error())
	}
	if h.config.FailOnFileError {
		if _, err := h.formats.Resolve(format); err != nil {
			return nil, apperrors.NewUnsupportedFormatError(format)
		}
	}

	autoClassify := h.config.DefaultAutoClassify
	if input.AutoClassify != nil {
		autoClassify = *input.AutoClassify
	}

	start := time.Now()
	summary := h.importer.Import(ctx, content, format, autoClassify)
	if h.obs != nil {
		h.obs.RecordImport(ctx, format, summary.SuccessfulImports, summary.FailedImports)
	}

	h.logger.Info("import completed", map[string]interface{}{
		"format":            format,
		"fileName":          input.FileName,
		"autoClassify":      autoClassify,
		"totalRecords":      summary.TotalRecords,
		"successfulImports": summary.SuccessfulImports,
		"failedImports":     summary.FailedImports,
		"durationMs":        time.Since(start).Milliseconds(),
	})

	if h.config.FailOnFileError && summary.TotalRecords == 0 && len(summary.Errors) > 0 {
		return nil, apperrors.NewFileParseFailedError(errors.New(summary.Errors[0]))
	}

	return &Output{
		Format:            format,
		TotalRecords:      summary.TotalRecords,
		SuccessfulImports: summary.SuccessfulImports,
		FailedImports:     summary.FailedImports,
		Errors:            summary.Errors,
	}, nil
}

func decodeContent(input *Input) ([]byte, error) {
	switch strings.ToLower(input.ContentEncoding) {
	case "", EncodingPlain:
		return []byte(input.Content), nil
	case EncodingBase64:
		data, err := base64.StdEncoding.DecodeString(input.Content)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidContent, err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unsupported contentEncoding %q", input.ContentEncoding)
	}
}

// resolveFormat prefers the explicit format over the file extension.
func resolveFormat(input *Input) string {
	if f := strings.ToLower(strings.TrimSpace(input.Format)); f != "" {
		return f
	}
	return parser.FormatFromFileName(input.FileName)
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
