package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the preview service's Prometheus collectors. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	registry          *prometheus.Registry
	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	reloadsTotal      *prometheus.CounterVec
	snapshotsTotal    *prometheus.CounterVec
	forecastSamples   prometheus.Gauge
	breakerState      *prometheus.GaugeVec
}

// New creates the collectors on a private registry. renders, when set, is
// exported as the frame render counter.
func New(renders func() int) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		reloadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "forecast_reloads_total",
			Help: "Forecast fixture reloads by result.",
		}, []string{"result"}),
		snapshotsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "frame_snapshots_total",
			Help: "Frame exports to storage by result.",
		}, []string{"result"}),
		forecastSamples: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "forecast_samples",
			Help: "Number of samples in the loaded forecast.",
		}),
		breakerState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "cb_state",
			Help: "Circuit breaker state gauge (0 closed, 1 half, 2 open).",
		}, []string{"target"}),
	}

	m.registry.MustRegister(
		m.httpRequestsTotal,
		m.httpDuration,
		m.reloadsTotal,
		m.snapshotsTotal,
		m.forecastSamples,
		m.breakerState,
	)
	if renders != nil {
		m.registry.MustRegister(prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "frame_renders_total",
			Help: "Render passes run by the display window.",
		}, func() float64 { return float64(renders()) }))
	}

	return m
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

// WrapHandler records request count and latency for route.
func (m *Metrics) WrapHandler(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(recorder, r)

		duration := time.Since(start).Seconds()
		if m != nil {
			m.httpRequestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
			m.httpDuration.WithLabelValues(route).Observe(duration)
		}
	})
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveReload(err error, samples int) {
	if m == nil {
		return
	}
	if err != nil {
		m.reloadsTotal.WithLabelValues("error").Inc()
		return
	}
	m.reloadsTotal.WithLabelValues("ok").Inc()
	m.forecastSamples.Set(float64(samples))
}

func (m *Metrics) ObserveSnapshot(err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.snapshotsTotal.WithLabelValues("error").Inc()
		return
	}
	m.snapshotsTotal.WithLabelValues("ok").Inc()
}

func (m *Metrics) SetCircuitBreakerState(target string, state float64) {
	if m == nil {
		return
	}
	m.breakerState.WithLabelValues(target).Set(state)
}
