// Package metrics provides Prometheus collectors for catalog queries and the HTTP API.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace prefixes every metric name.
const Namespace = "scene_availability"

// Collector provides application metrics collection
type Collector struct {
	registry *prometheus.Registry

	// Catalog Metrics
	CatalogQueriesTotal  *prometheus.CounterVec
	CatalogQueryDuration *prometheus.HistogramVec
	CatalogErrorsTotal   *prometheus.CounterVec

	// API Metrics
	APIRequestsTotal   *prometheus.CounterVec
	APIRequestDuration *prometheus.HistogramVec

	// Survey Metrics
	SurveyPeriodFailures *prometheus.CounterVec
}

// NewCollector creates a collector on its own registry, with the Go runtime
// and process collectors attached.
func NewCollector(namespace string) *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,

		CatalogQueriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "catalog_queries_total",
				Help:      "Total number of catalog queries by backend, operation and outcome",
			},
			[]string{"backend", "operation", "status"},
		),

		CatalogQueryDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "catalog_query_duration_seconds",
				Help:      "Catalog query duration in seconds",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"backend", "operation"},
		),

		CatalogErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "catalog_errors_total",
				Help:      "Total number of failed catalog queries by backend and operation",
			},
			[]string{"backend", "operation"},
		),

		APIRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "api_requests_total",
				Help:      "Total number of API requests by route, method, and status",
			},
			[]string{"route", "method", "status"},
		),

		APIRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "api_request_duration_seconds",
				Help:      "API request duration in seconds",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 120},
			},
			[]string{"route"},
		),

		SurveyPeriodFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "survey_period_failures_total",
				Help:      "Years or months skipped because their catalog query failed",
			},
			[]string{"report"},
		),
	}
}

// Registry returns the registry the collectors are registered on.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Timer provides timing functionality for operations
type Timer struct {
	start    time.Time
	observer prometheus.Observer
}

// NewTimer creates a new timer
func (c *Collector) NewTimer(histogram prometheus.Observer) *Timer {
	return &Timer{
		start:    time.Now(),
		observer: histogram,
	}
}

// ObserveDuration records the elapsed time since timer creation
func (t *Timer) ObserveDuration() time.Duration {
	duration := time.Since(t.start)
	if t.observer != nil {
		t.observer.Observe(duration.Seconds())
	}
	return duration
}

// RecordCatalogQuery counts a finished catalog query.
func (c *Collector) RecordCatalogQuery(backend, operation string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
		c.CatalogErrorsTotal.WithLabelValues(backend, operation).Inc()
	}
	c.CatalogQueriesTotal.WithLabelValues(backend, operation, status).Inc()
}

// RecordAPIRequest increments API request counter
func (c *Collector) RecordAPIRequest(route, method, status string) {
	c.APIRequestsTotal.WithLabelValues(route, method, status).Inc()
}

// RecordPeriodFailure counts a year or month dropped from a report.
func (c *Collector) RecordPeriodFailure(report string) {
	c.SurveyPeriodFailures.WithLabelValues(report).Inc()
}
