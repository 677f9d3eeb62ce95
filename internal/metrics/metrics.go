package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_http_requests_total",
			Help: "Total HTTP requests by method, path and status",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "crm_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPPanicsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "crm_http_panics_total",
			Help: "Handler panics recovered by the HTTP middleware",
		},
	)

	// LifecycleRunsTotal counts lifecycle job runs by result (ok, failed)
	LifecycleRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_lifecycle_runs_total",
			Help: "Status lifecycle job runs by result",
		},
		[]string{"result"},
	)

	// LifecycleMutationsTotal counts applied mutations by kind (status_changed, owner_reset)
	LifecycleMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_lifecycle_mutations_total",
			Help: "Client mutations applied by the status lifecycle job",
		},
		[]string{"kind"},
	)

	LifecycleClientErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "crm_lifecycle_client_errors_total",
			Help: "Per-client failures during status lifecycle runs",
		},
	)

	LifecycleLastRunTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "crm_lifecycle_last_run_timestamp_seconds",
			Help: "Unix time of the last completed status lifecycle run",
		},
	)

	LifecycleRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "crm_lifecycle_run_duration_seconds",
			Help:    "Duration of status lifecycle runs",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 60, 300},
		},
	)
)
