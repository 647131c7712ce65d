// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package metrics exposes the directory's Prometheus instruments.

Every method is safe on a nil *Metrics, so services and tests that do not care
about metrics can pass nil.

Instruments:

  - participants_total{result}: cross-reference outcomes, resolved or unresolved.
  - records_skipped_total{entity}: stored records left out of a listing as malformed.
  - capacity_rejections_total{entity}: writes refused because an asset list was full.
  - name_lookup_seconds{source}: latency of one batched name lookup.
  - import_shows_total{venue,result}: rows produced by the calendar importer.
  - http_requests_total / http_request_duration_seconds: per route pattern.
*/
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tcupboard"

// Metrics owns a private registry and the instruments registered on it.
type Metrics struct {
	registry *prometheus.Registry

	participants       *prometheus.CounterVec
	recordsSkipped     *prometheus.CounterVec
	capacityRejections *prometheus.CounterVec
	lookupLatency      *prometheus.HistogramVec
	importedShows      *prometheus.CounterVec
	httpRequests       *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
}

// New registers every instrument plus the Go runtime and process collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		participants: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "participants_total",
			Help:      "Show participants cross-referenced against the act registry.",
		}, []string{"result"}),
		recordsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_skipped_total",
			Help:      "Stored records omitted from a response because a field could not be decoded.",
		}, []string{"entity"}),
		capacityRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "capacity_rejections_total",
			Help:      "Writes rejected because an asset list would exceed its cap.",
		}, []string{"entity"}),
		lookupLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "name_lookup_seconds",
			Help:      "Latency of one batched act name lookup.",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
		}, []string{"source"}),
		importedShows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_shows_total",
			Help:      "Show rows produced by the calendar importer.",
		}, []string{"venue", "result"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.participants,
		m.recordsSkipped,
		m.capacityRejections,
		m.lookupLatency,
		m.importedShows,
		m.httpRequests,
		m.httpDuration,
	)

	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// # Domain Instruments

// Participants records the outcome of one cross-reference pass.
func (m *Metrics) Participants(resolved, unresolved int) {
	if m == nil {
		return
	}
	m.participants.WithLabelValues("resolved").Add(float64(resolved))
	m.participants.WithLabelValues("unresolved").Add(float64(unresolved))
}

// RecordSkipped counts one malformed record left out of a listing.
func (m *Metrics) RecordSkipped(entity string) {
	if m == nil {
		return
	}
	m.recordsSkipped.WithLabelValues(entity).Inc()
}

// CapacityRejected counts one write refused by the asset cap.
func (m *Metrics) CapacityRejected(entity string) {
	if m == nil {
		return
	}
	m.capacityRejections.WithLabelValues(entity).Inc()
}

// ObserveLookup records the latency of a name lookup served by source.
func (m *Metrics) ObserveLookup(source string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.lookupLatency.WithLabelValues(source).Observe(elapsed.Seconds())
}

// ImportedShows records importer output for one venue.
func (m *Metrics) ImportedShows(venue string, inserted, duplicate int) {
	if m == nil {
		return
	}
	m.importedShows.WithLabelValues(venue, "inserted").Add(float64(inserted))
	m.importedShows.WithLabelValues(venue, "duplicate").Add(float64(duplicate))
}

// ImportFailed counts a venue whose calendar could not be fetched or parsed.
func (m *Metrics) ImportFailed(venue string) {
	if m == nil {
		return
	}
	m.importedShows.WithLabelValues(venue, "failed").Inc()
}

// # HTTP Instrumentation

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (recorder *statusRecorder) WriteHeader(code int) {
	recorder.status = code
	recorder.ResponseWriter.WriteHeader(code)
}

// Middleware records request counts and latency labelled by the chi route
// pattern, so "/acts/{id}" is one series regardless of the id.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		startTime := time.Now()
		recorder := &statusRecorder{ResponseWriter: writer, status: http.StatusOK}

		next.ServeHTTP(recorder, request)

		route := "unmatched"
		if routeContext := chi.RouteContext(request.Context()); routeContext != nil {
			if pattern := routeContext.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		m.httpRequests.WithLabelValues(request.Method, route, strconv.Itoa(recorder.status)).Inc()
		m.httpDuration.WithLabelValues(request.Method, route).Observe(time.Since(startTime).Seconds())
	})
}
