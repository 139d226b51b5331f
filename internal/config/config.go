package config

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus metrics - exported for use by other packages
var (
	BackendQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backend_queries_total",
			Help: "Total number of range queries issued to the metrics backend",
		},
		[]string{"outcome"},
	)

	BackendQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "backend_query_duration_seconds",
			Help:    "Histogram of backend range query latencies in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"outcome"},
	)

	RefreshCyclesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "refresh_cycles_total",
			Help: "Total number of dashboard refresh cycles by outcome",
		},
		[]string{"outcome"},
	)

	LastRefreshTimestamp = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "last_refresh_timestamp_seconds",
			Help: "Unix timestamp of the last successful refresh",
		},
	)

	MergedPointsGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "merged_points",
			Help: "Number of merged points produced by the last successful refresh",
		},
	)

	ChartRendersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chart_renders_total",
			Help: "Total number of chart renders by trigger (refresh or request)",
		},
		[]string{"trigger"},
	)

	ChartRenderDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chart_render_duration_seconds",
			Help:    "Histogram of chart render times in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)

	// Application performance metrics
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	ActiveConnectionsGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "active_connections",
			Help: "Number of active connections",
		},
		[]string{"type"},
	)

	MemoryUsageGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "memory_usage_bytes",
			Help: "Memory usage in bytes",
		},
		[]string{"type"},
	)

	GoroutinesGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "goroutines_total",
			Help: "Number of goroutines currently running",
		},
		[]string{},
	)

	// Circuit breaker metrics
	CircuitBreakerStateGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Backend circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)

	CircuitBreakerTripsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_trips_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"to_state"},
	)
)

func init() {
	// Register Prometheus metrics
	prometheus.MustRegister(BackendQueriesTotal)
	prometheus.MustRegister(BackendQueryDuration)
	prometheus.MustRegister(RefreshCyclesTotal)
	prometheus.MustRegister(LastRefreshTimestamp)
	prometheus.MustRegister(MergedPointsGauge)
	prometheus.MustRegister(ChartRendersTotal)
	prometheus.MustRegister(ChartRenderDuration)

	// Register application performance metrics
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(ActiveConnectionsGauge)
	prometheus.MustRegister(MemoryUsageGauge)
	prometheus.MustRegister(GoroutinesGauge)

	// Register circuit breaker metrics
	prometheus.MustRegister(CircuitBreakerStateGauge)
	prometheus.MustRegister(CircuitBreakerTripsTotal)
}
