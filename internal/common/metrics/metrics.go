// internal/common/metrics/metrics.go
package metrics

import (
	"time"

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

	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "frequency_recommendations_total",
			Help: "Recommendations produced, by how the frequency was chosen",
		},
		[]string{"source"},
	)

	RecommendationScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "frequency_recommendation_score",
			Help:    "Score of the selected candidate for scored recommendations",
			Buckets: []float64{0, 5, 10, 15, 20, 30, 45, 60, 90},
		},
	)

	CatalogFetchFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "frequency_catalog_fetch_failures_total",
			Help: "Catalog reads that failed and were treated as an empty catalog",
		},
		[]string{"backend"},
	)

	CatalogCandidates = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "frequency_catalog_candidates",
			Help: "Number of candidates returned by the last catalog read",
		},
		[]string{"backend"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests served, by route template and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// JobStarted marks a job active and returns a func that records its outcome.
// errorCode is empty on success.
func JobStarted(taskType string) func(errorCode string) {
	start := time.Now()
	WorkerJobsActive.WithLabelValues(taskType).Inc()
	return func(errorCode string) {
		WorkerJobsActive.WithLabelValues(taskType).Dec()
		WorkerJobDuration.WithLabelValues(taskType).Observe(time.Since(start).Seconds())
		if errorCode == "" {
			WorkerJobsCompleted.WithLabelValues(taskType).Inc()
			return
		}
		WorkerJobsFailed.WithLabelValues(taskType, errorCode).Inc()
	}
}
