package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	AllocationsPlanned = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "allocations_planned_total",
			Help: "Allocation plans computed, by strategy",
		},
		[]string{"strategy"},
	)

	PaymentsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_recorded_total",
			Help: "Payment rows recorded, by method",
		},
		[]string{"method"},
	)

	AdvanceApplied = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "advance_credit_applied_total",
			Help: "Advance credit applications committed",
		},
	)
)
