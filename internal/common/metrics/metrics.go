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

	// ResearchRequests counts research round-trips by outcome
	// (answered, disabled, upstream_failed).
	ResearchRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "research_requests_total",
			Help: "Total number of research API round-trips by outcome",
		},
		[]string{"outcome"},
	)

	ResearchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "research_request_duration_seconds",
			Help:    "Latency of research API calls in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30},
		},
		[]string{"outcome"},
	)

	ResearchConfidence = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "research_confidence_score",
			Help:    "Heuristic confidence assigned to research answers",
			Buckets: prometheus.LinearBuckets(0.3, 0.05, 15),
		},
	)

	InsightsPersisted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insights_persisted_total",
			Help: "Insights written to the store by category and result",
		},
		[]string{"category", "result"},
	)

	InsightSinkFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insight_sink_failures_total",
			Help: "Failed hand-offs of persisted insights to downstream sinks",
		},
		[]string{"sink"},
	)

	CurrentWeekCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "current_week_cache_total",
			Help: "Current week lookups by cache result (hit, miss, error)",
		},
		[]string{"result"},
	)
)
