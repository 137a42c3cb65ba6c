// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the metrics surface used by the server and services.
type Recorder interface {
	RecordHTTPRequest(route string, statusCode int, duration time.Duration)
	RecordLogin(success bool)
	RecordWebhookEvent(eventType string, duplicate bool)
	RecordUpload(success bool)
}

// Collector is the Prometheus-backed Recorder.
type Collector struct {
	httpRequests  *prometheus.CounterVec
	httpLatency   prometheus.Histogram
	logins        *prometheus.CounterVec
	webhookEvents *prometheus.CounterVec
	uploads       *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics on the given
// registry.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "campusconnect_http_requests_total",
			Help: "HTTP requests by route and status code",
		}, []string{"route", "status_code"}),
		httpLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "campusconnect_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "campusconnect_logins_total",
			Help: "Login attempts by outcome",
		}, []string{"outcome"}),
		webhookEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "campusconnect_webhook_events_total",
			Help: "Billing webhook events by type and delivery",
		}, []string{"event_type", "delivery"}),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "campusconnect_image_uploads_total",
			Help: "Image uploads by outcome",
		}, []string{"outcome"}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpLatency,
		c.logins,
		c.webhookEvents,
		c.uploads,
	)

	return c
}

// RecordHTTPRequest records one served request.
func (c *Collector) RecordHTTPRequest(route string, statusCode int, duration time.Duration) {
	c.httpRequests.WithLabelValues(route, strconv.Itoa(statusCode)).Inc()
	c.httpLatency.Observe(duration.Seconds())
}

// RecordLogin records a login attempt.
func (c *Collector) RecordLogin(success bool) {
	c.logins.WithLabelValues(outcome(success)).Inc()
}

// RecordWebhookEvent records a verified webhook delivery.
func (c *Collector) RecordWebhookEvent(eventType string, duplicate bool) {
	delivery := "first"
	if duplicate {
		delivery = "duplicate"
	}
	c.webhookEvents.WithLabelValues(eventType, delivery).Inc()
}

// RecordUpload records an image upload attempt.
func (c *Collector) RecordUpload(success bool) {
	c.uploads.WithLabelValues(outcome(success)).Inc()
}

func outcome(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}

// Handler returns the HTTP handler Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
