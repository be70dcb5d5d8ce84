// Package metrics exposes Prometheus collectors for the import pipeline and the HTTP API.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/storefront/backoffice/internal/domain/bulk"
)

const namespace = "backoffice"

// ImportMetrics records import job outcomes
type ImportMetrics struct {
	jobs     *prometheus.CounterVec
	rows     *prometheus.CounterVec
	duration prometheus.Histogram
	inFlight prometheus.Gauge
}

// NewImportMetrics creates the import collectors and registers them with reg
func NewImportMetrics(reg prometheus.Registerer) *ImportMetrics {
	m := &ImportMetrics{
		jobs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "import",
			Name:      "jobs_total",
			Help:      "Number of finished import jobs partitioned by final status.",
		}, []string{"status"}),
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "import",
			Name:      "rows_total",
			Help:      "Number of imported rows partitioned by result.",
		}, []string{"result"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "import",
			Name:      "duration_seconds",
			Help:      "Time spent processing an import file.",
			Buckets:   []float64{0.5, 1, 5, 15, 60, 300, 900},
		}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "import",
			Name:      "in_flight",
			Help:      "Number of imports currently being processed.",
		}),
	}
	reg.MustRegister(m.jobs, m.rows, m.duration, m.inFlight)
	return m
}

// ImportStarted marks one job as running
func (m *ImportMetrics) ImportStarted() {
	m.inFlight.Inc()
}

// ImportFinished records the outcome of a running job
func (m *ImportMetrics) ImportFinished(status bulk.ImportStatus, elapsed time.Duration, succeeded, failed int) {
	m.inFlight.Dec()
	m.jobs.WithLabelValues(string(status)).Inc()
	m.rows.WithLabelValues("success").Add(float64(succeeded))
	m.rows.WithLabelValues("error").Add(float64(failed))
	m.duration.Observe(elapsed.Seconds())
}

// HTTPMetrics records API request counts and latency
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// NewHTTPMetrics creates the HTTP collectors and registers them with reg
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	m := &HTTPMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Number of HTTP requests partitioned by status code, method and route.",
		}, []string{"code", "method", "path"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency partitioned by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}
	reg.MustRegister(m.requests, m.latency)
	return m
}

// Observe records one handled request
func (m *HTTPMetrics) Observe(method, path, code string, elapsed time.Duration) {
	m.requests.WithLabelValues(code, method, path).Inc()
	m.latency.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// Handler serves the metrics gathered by g
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
