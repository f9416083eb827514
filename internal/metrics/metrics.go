// Package metrics holds the Prometheus collectors shared by the API, the client and the review job
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts requests served by the API
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fp_http_requests_total",
			Help: "Total number of HTTP requests served",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPDuration observes API latency
	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fp_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// ClientRequests counts calls made by the product client
	ClientRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fp_client_requests_total",
			Help: "Total number of product service calls by operation and status",
		},
		[]string{"operation", "status"},
	)

	// CacheLookups counts read cache hits and misses
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fp_cache_lookups_total",
			Help: "Product cache lookups by result (hit, miss, error)",
		},
		[]string{"operation", "result"},
	)

	// ProductsDueForRevision is set by the review job
	ProductsDueForRevision = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fp_products_due_for_revision",
			Help: "Number of products whose revision date has been reached",
		},
	)

	// ReviewRuns counts review job executions by result
	ReviewRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fp_review_runs_total",
			Help: "Revision review executions by result",
		},
		[]string{"result"},
	)
)
