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

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	RecommendationCandidates = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommendation_candidates",
			Help:    "Number of candidates per recommendation request by stage",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
		[]string{"stage"},
	)

	RecommendationEmpty = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommendation_empty_total",
			Help: "Requests whose similarity matrix and catalog shared no attractions",
		},
	)

	ModelScoreDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "model_score_duration_seconds",
			Help:    "Duration of predictive model scoring calls",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"model", "status"},
	)

	ReferenceCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reference_cache_lookups_total",
			Help: "Reference data cache lookups by result",
		},
		[]string{"result"},
	)

	ModelBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "model_breaker_state",
			Help: "Remote model circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"model"},
	)
)
