// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_api_requests_total",
			Help: "Total number of backend API requests by endpoint and outcome",
		},
		[]string{"endpoint", "outcome"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portal_api_request_duration_seconds",
			Help:    "Duration of backend API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	ActionsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_actions_completed_total",
			Help: "Total number of portal actions completed",
		},
		[]string{"action"},
	)

	ActionsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_actions_failed_total",
			Help: "Total number of portal actions failed",
		},
		[]string{"action", "error_code"},
	)

	ValidationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_validation_failures_total",
			Help: "Local validation failures that blocked a submission",
		},
		[]string{"stage"},
	)

	DashboardSource = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "portal_dashboard_source",
			Help: "1 for the data source used by the last dashboard load",
		},
		[]string{"source"},
	)
)

// RecordActionResult increments the completed or failed counter for action.
func RecordActionResult(action string, errCode string) {
	if errCode == "" {
		ActionsCompleted.WithLabelValues(action).Inc()
		return
	}
	ActionsFailed.WithLabelValues(action, errCode).Inc()
}
