// Package metrics exposes the dashboard's Prometheus instruments.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Event outcomes.
const (
	OutcomeApplied  = "applied"
	OutcomeIgnored  = "ignored"
	OutcomeRejected = "rejected"
)

var (
	eventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gapdash_events_total",
		Help: "Interaction events dispatched, by kind and outcome",
	}, []string{"kind", "outcome"})

	sessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gapdash_sessions_active",
		Help: "Sessions currently held in memory",
	})

	sessionsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gapdash_sessions_created_total",
		Help: "Sessions created since start",
	})

	renderDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gapdash_render_duration_seconds",
		Help:    "Time spent building a chart specification",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
	}, []string{"chart"})

	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gapdash_http_requests_total",
		Help: "HTTP requests served, by route pattern and status code",
	}, []string{"route", "code"})

	datasetRecords = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gapdash_dataset_records",
		Help: "Records in the loaded dataset",
	})
)

func Event(kind, outcome string) {
	eventsTotal.WithLabelValues(kind, outcome).Inc()
}

func SessionCreated() {
	sessionsCreated.Inc()
	sessionsActive.Inc()
}

func SessionsEvicted(n int) {
	sessionsActive.Sub(float64(n))
}

// Render records the time since start against a chart name.
func Render(chart string, start time.Time) {
	renderDuration.WithLabelValues(chart).Observe(time.Since(start).Seconds())
}

func Request(route string, code int) {
	httpRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}

func DatasetLoaded(records int) {
	datasetRecords.Set(float64(records))
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
