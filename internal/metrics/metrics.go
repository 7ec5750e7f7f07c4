// Package metrics holds the Prometheus instrumentation of the client.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels.
const (
	OutcomeSuccess = "success"
)

var (
	// APIRequestDuration tracks remote API latency per operation and outcome.
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shortify_api_request_duration_seconds",
			Help:    "Duration of remote API requests in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"operation", "outcome"},
	)

	// APIRequestsTotal counts remote API requests per operation and outcome.
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shortify_api_requests_total",
			Help: "Total number of remote API requests",
		},
		[]string{"operation", "outcome"},
	)

	// UIEventsTotal counts dispatched view controller events.
	UIEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shortify_ui_events_total",
			Help: "Total number of dispatched UI events",
		},
		[]string{"event"},
	)

	// LinksShortenedTotal counts successful shortenings.
	LinksShortenedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "shortify_links_shortened_total",
			Help: "Total number of successfully shortened links",
		},
	)

	// ToastsShownTotal counts notifications by kind.
	ToastsShownTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shortify_toasts_shown_total",
			Help: "Total number of toast notifications shown",
		},
		[]string{"kind"},
	)

	// ActiveSessions tracks live browser sessions.
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "shortify_active_sessions",
			Help: "Number of browser sessions with a live controller",
		},
	)
)

// RecordAPIRequest records one remote call.
func RecordAPIRequest(operation, outcome string, seconds float64) {
	APIRequestDuration.WithLabelValues(operation, outcome).Observe(seconds)
	APIRequestsTotal.WithLabelValues(operation, outcome).Inc()
}

// RecordUIEvent increments the event counter.
func RecordUIEvent(event string) {
	UIEventsTotal.WithLabelValues(event).Inc()
}

// RecordLinkShortened increments the shortened links counter.
func RecordLinkShortened() {
	LinksShortenedTotal.Inc()
}

// RecordToast increments the toast counter.
func RecordToast(kind string) {
	ToastsShownTotal.WithLabelValues(kind).Inc()
}
