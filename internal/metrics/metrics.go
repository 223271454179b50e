// Package metrics defines Prometheus metrics for the promiscuity server.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "promiscuity_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "promiscuity_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "promiscuity_errors_total",
			Help: "Total errors by type",
		},
		[]string{"type"},
	)

	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "promiscuity_search_duration_seconds",
			Help:    "Wall time of promiscuity searches that reached the graph",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10, 30},
		},
		[]string{"algorithm", "outcome"},
	)

	SearchDequeues = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "promiscuity_search_dequeues",
			Help:    "Frontier pops per promiscuity search",
			Buckets: prometheus.ExponentialBuckets(1, 4, 12),
		},
		[]string{"algorithm"},
	)

	CacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "promiscuity_result_cache_hits_total",
			Help: "Searches answered from the result cache",
		},
	)

	CacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "promiscuity_result_cache_misses_total",
			Help: "Searches that had to run",
		},
	)

	DBConnections = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "promiscuity_db_connections",
			Help: "Database pool connections by state",
		},
		[]string{"state"},
	)
)

func init() {
	prometheus.MustRegister(
		RequestDuration, RequestsTotal, ErrorsTotal,
		SearchDuration, SearchDequeues,
		CacheHits, CacheMisses,
		DBConnections,
	)
}
