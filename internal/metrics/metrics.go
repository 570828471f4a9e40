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
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	WorkflowsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workflows_created_total",
			Help: "Workflows created, by type",
		},
		[]string{"type"},
	)

	WorkflowDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workflow_decisions_total",
			Help: "Workflow transitions out of pending, by type and outcome",
		},
		[]string{"type", "outcome"},
	)

	NotificationFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notification_failures_total",
			Help: "Notification deliveries that failed (logged, never surfaced)",
		},
	)
)
