// Package metrics exposes Prometheus counters for calendar crawls.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Page outcomes recorded in PagesTotal.
const (
	PageOK      = "ok"
	PageEmpty   = "empty"
	PageFailed  = "failed"
	PageSkipped = "skipped"
)

// Metrics holds the collectors for one process. Each instance owns its
// registry so tests can create as many as they need.
type Metrics struct {
	registry *prometheus.Registry

	PagesTotal     *prometheus.CounterVec
	EventsTotal    *prometheus.CounterVec
	SkippedTotal   *prometheus.CounterVec
	FetchDuration  prometheus.Histogram
	LastSuccessTS  prometheus.Gauge
	DocumentsTotal prometheus.Counter
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.PagesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "courtbot",
		Name:      "calendar_pages_total",
		Help:      "Calendar pages processed by outcome",
	}, []string{"status"})
	m.EventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "courtbot",
		Name:      "hearings_parsed_total",
		Help:      "Hearings parsed by page format and division",
	}, []string{"format", "division"})
	m.SkippedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "courtbot",
		Name:      "hearings_skipped_total",
		Help:      "Complete hearings dropped because their category did not resolve",
	}, []string{"reason"})
	m.FetchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "courtbot",
		Name:      "page_fetch_duration_seconds",
		Help:      "Time spent fetching one calendar page",
		Buckets:   prometheus.DefBuckets,
	})
	m.LastSuccessTS = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "courtbot",
		Name:      "last_success_timestamp_seconds",
		Help:      "Unix timestamp of the last crawl that produced hearings",
	})
	m.DocumentsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "courtbot",
		Name:      "docket_documents_upserted_total",
		Help:      "Per-docket documents written to the document store",
	})

	m.registry.MustRegister(
		m.PagesTotal, m.EventsTotal, m.SkippedTotal,
		m.FetchDuration, m.LastSuccessTS, m.DocumentsTotal,
	)
	return m
}

// Registry returns the registry the collectors are registered with.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveFetch records how long a page fetch took.
func (m *Metrics) ObserveFetch(start time.Time) {
	m.FetchDuration.Observe(time.Since(start).Seconds())
}

// MarkSuccess stamps the completion time of a successful crawl.
func (m *Metrics) MarkSuccess(now time.Time) {
	m.LastSuccessTS.Set(float64(now.Unix()))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve starts an HTTP server exposing /metrics and /healthz on addr in the
// background. The caller shuts it down.
func (m *Metrics) Serve(addr string, onError func(error)) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) && onError != nil {
			onError(err)
		}
	}()
	return server
}
