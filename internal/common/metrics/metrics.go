package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	TicketImportRecords = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_import_records_total",
			Help: "Imported ticket records by file format and outcome",
		},
		[]string{"format", "outcome"},
	)

	TicketImportFileErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_import_file_errors_total",
			Help: "Imports rejected before any record was processed",
		},
		[]string{"format", "reason"},
	)

	TicketClassifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_classifications_total",
			Help: "Keyword classifications by suggested category and priority",
		},
		[]string{"category", "priority"},
	)
)

const (
	OutcomeSuccess = "success"
	OutcomeFailed  = "failed"
)
