// internal/common/metrics/metrics.go
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

	ApplicationValidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campaign_application_validations_total",
			Help: "Campaign application validation passes by result",
		},
		[]string{"result"},
	)

	ApplicationFieldErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campaign_application_field_errors_total",
			Help: "Field errors reported by campaign application validation",
		},
		[]string{"field"},
	)

	ApplicationSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campaign_application_submissions_total",
			Help: "Campaign application submission attempts by outcome",
		},
		[]string{"outcome"},
	)
)

// RecordValidation counts one validation pass and each field that failed it.
func RecordValidation(valid bool, fields []string) {
	result := "invalid"
	if valid {
		result = "valid"
	}
	ApplicationValidations.WithLabelValues(result).Inc()
	for _, f := range fields {
		ApplicationFieldErrors.WithLabelValues(f).Inc()
	}
}
