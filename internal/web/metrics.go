package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics are the transport's Prometheus collectors.
type Metrics struct {
	connections      prometheus.Gauge
	connectionsTotal prometheus.Counter
	framesSent       prometheus.Counter
	framesDropped    prometheus.Counter
	commandsTotal    *prometheus.CounterVec
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		connections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "solaris_ws_connections",
			Help: "Open WebSocket connections",
		}),
		connectionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "solaris_ws_connections_total",
			Help: "WebSocket connections accepted",
		}),
		framesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "solaris_frames_sent_total",
			Help: "Frames queued to clients",
		}),
		framesDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "solaris_frames_dropped_total",
			Help: "Frames dropped because the client send buffer was full",
		}),
		commandsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "solaris_commands_total",
				Help: "Commands received over WebSocket",
			},
			[]string{"command", "outcome"},
		),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "solaris_http_requests_total",
				Help: "HTTP requests by route and status code",
			},
			[]string{"route", "code"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "solaris_http_request_duration_seconds",
				Help:    "Time spent serving HTTP requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
	}

	reg.MustRegister(
		m.connections,
		m.connectionsTotal,
		m.framesSent,
		m.framesDropped,
		m.commandsTotal,
		m.requestsTotal,
		m.requestDuration,
	)
	return m
}

func (m *Metrics) connOpened() {
	m.connections.Inc()
	m.connectionsTotal.Inc()
}

func (m *Metrics) connClosed() {
	m.connections.Dec()
}

func (m *Metrics) frame(sent bool) {
	if sent {
		m.framesSent.Inc()
	} else {
		m.framesDropped.Inc()
	}
}

func (m *Metrics) command(command string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.commandsTotal.WithLabelValues(command, outcome).Inc()
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

// Unwrap lets http.ResponseController and the WebSocket upgrader reach the
// underlying writer.
func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// instrument records count and latency for route.
func (m *Metrics) instrument(route string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		h(rec, r)
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		m.requestsTotal.WithLabelValues(route, strconv.Itoa(rec.code)).Inc()
	}
}

// MetricsHandler serves g in the Prometheus exposition format.
func MetricsHandler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
