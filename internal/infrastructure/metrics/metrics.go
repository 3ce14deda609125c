package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles prometheus collectors used by the site.
type Metrics struct {
	RequestsTotal       *prometheus.CounterVec
	RequestDurationSec  *prometheus.HistogramVec
	LiveSessions        prometheus.Gauge
	LiveSessionDuration prometheus.Histogram
	LiveCommands        *prometheus.CounterVec
	Reservations        *prometheus.CounterVec
	RateLimitDropped    prometheus.Counter
}

func New(registry prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "smartfood_http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"route", "method", "status"}),
		RequestDurationSec: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "smartfood_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
		LiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "smartfood_live_sessions",
			Help: "Number of open live view sessions.",
		}),
		LiveSessionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "smartfood_live_session_duration_seconds",
			Help:    "Lifetime of live view sessions in seconds.",
			Buckets: []float64{1, 5, 15, 30, 60, 300, 900, 1800},
		}),
		LiveCommands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "smartfood_live_commands_total",
			Help: "Total number of live view events handled.",
		}, []string{"command", "result"}),
		Reservations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "smartfood_reservations_total",
			Help: "Total number of reservation requests by outcome.",
		}, []string{"result"}),
		RateLimitDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "smartfood_ratelimit_dropped_total",
			Help: "Total number of requests dropped by rate limiter.",
		}),
	}

	registry.MustRegister(
		m.RequestsTotal,
		m.RequestDurationSec,
		m.LiveSessions,
		m.LiveSessionDuration,
		m.LiveCommands,
		m.Reservations,
		m.RateLimitDropped,
	)

	return m
}

// SessionStarted implements liveview.Observer.
func (m *Metrics) SessionStarted() {
	m.LiveSessions.Inc()
}

// SessionEnded implements liveview.Observer.
func (m *Metrics) SessionEnded(duration time.Duration) {
	m.LiveSessions.Dec()
	m.LiveSessionDuration.Observe(duration.Seconds())
}

// CommandHandled implements liveview.Observer.
func (m *Metrics) CommandHandled(command string, err error) {
	m.LiveCommands.WithLabelValues(normalizeCommand(command), result(err)).Inc()
}

// ReservationHandled учитывает исход заявки: accepted, invalid, failed
func (m *Metrics) ReservationHandled(outcome string) {
	m.Reservations.WithLabelValues(outcome).Inc()
}

// RateLimited учитывает отброшенный запрос
func (m *Metrics) RateLimited() {
	m.RateLimitDropped.Inc()
}

func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		startedAt := time.Now()
		wrapped := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		status := strconv.Itoa(wrapped.statusCode)
		route := normalizeRoute(r.URL.Path)
		m.RequestsTotal.WithLabelValues(route, r.Method, status).Inc()
		m.RequestDurationSec.WithLabelValues(route, r.Method, status).Observe(time.Since(startedAt).Seconds())
	})
}

// normalizeRoute keeps label cardinality bounded. Путь приходит уже без BasePath.
func normalizeRoute(path string) string {
	switch {
	case path == "/":
		return "/"
	case path == "/live", path == "/menu", path == "/reservations",
		path == "/healthz", path == "/readyz", path == "/metrics":
		return path
	case strings.HasPrefix(path, "/category/"):
		return "/category/*"
	case strings.HasPrefix(path, "/static/"):
		return "/static/*"
	default:
		return "other"
	}
}

func normalizeCommand(command string) string {
	switch command {
	case "reveal", "select_category", "toggle_menu", "select_link":
		return command
	default:
		return "unknown"
	}
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (rw *statusRecorder) WriteHeader(statusCode int) {
	rw.statusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

// Hijack passes websocket upgrades through wrapped ResponseWriter.
func (rw *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	rw.statusCode = http.StatusSwitchingProtocols
	return hijacker.Hijack()
}

// Flush keeps streaming behavior for handlers that require it.
func (rw *statusRecorder) Flush() {
	if flusher, ok := rw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}
