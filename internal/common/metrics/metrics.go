package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RecommendationsServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matching_recommendations_served_total",
			Help: "Recommendation requests served, by source (cache, recompute, fallback)",
		},
		[]string{"source"},
	)

	RecommendationRecomputeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "matching_recompute_duration_seconds",
			Help: "Duration of full recommendation recomputes in seconds",
		},
	)

	CacheInvalidations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matching_cache_invalidations_total",
			Help: "Explicit recommendation cache invalidations",
		},
	)

	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matching_worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matching_worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "matching_worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)
)
