// Package metrics exposes Prometheus counters for API calls and preview outcomes.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcomes recorded for API requests.
const (
	OutcomeSuccess   = "success"
	OutcomeNotFound  = "not_found"
	OutcomeFailure   = "failure"
	OutcomeCancelled = "cancelled"
)

// Results recorded for preview responses.
const (
	PreviewApplied = "applied"
	PreviewStale   = "stale"
	PreviewFailed  = "failed"
)

// Recorder is what the API client and the preview coordinator report to.
type Recorder interface {
	RecordRequest(endpoint, outcome string, latency time.Duration)
	RecordPreviewResult(result string)
}

type Collector struct {
	requests       *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	previewResults *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "newsletter_client_requests_total",
			Help: "API requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "newsletter_client_request_latency_seconds",
			Help:    "API request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		previewResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "newsletter_client_preview_results_total",
			Help: "Preview responses by how they were handled.",
		}, []string{"result"}),
	}

	reg.MustRegister(
		c.requests,
		c.requestLatency,
		c.previewResults,
	)

	return c
}

func (c *Collector) RecordRequest(endpoint, outcome string, latency time.Duration) {
	c.requests.WithLabelValues(endpoint, outcome).Inc()
	c.requestLatency.WithLabelValues(endpoint).Observe(latency.Seconds())
}

func (c *Collector) RecordPreviewResult(result string) {
	c.previewResults.WithLabelValues(result).Inc()
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordRequest(string, string, time.Duration) {}
func (Nop) RecordPreviewResult(string)                  {}

// Handler returns the scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return mux
}
