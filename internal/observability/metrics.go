// Package observability registers Prometheus metrics shared by the API and workers.
package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "workoutlog"

var (
	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests handled, labeled by route pattern, method and status code.",
	}, []string{"route", "method", "code"})

	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Latency of HTTP requests by route pattern.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})

	tokensIssued = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "tokens_issued_total",
		Help:      "Session tokens issued at login.",
	})

	authRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "requests_rejected_total",
		Help:      "Requests rejected by the auth gate, labeled by reason.",
	}, []string{"reason"})

	workoutTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "workouts",
		Name:      "transitions_total",
		Help:      "Workout lifecycle transitions persisted to Postgres.",
	}, []string{"transition"})

	lastWorkoutGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "workouts",
		Name:      "last_transition_timestamp_seconds",
		Help:      "Unix timestamp of the most recent workout lifecycle transition.",
	})
)

func init() {
	prometheus.MustRegister(httpRequests, httpDuration, tokensIssued, authRejected, workoutTransitions, lastWorkoutGauge)
}

// Auth rejection reasons.
const (
	ReasonMissingToken = "missing_token"
	ReasonInvalidToken = "invalid_token"
	ReasonExpiredToken = "expired_token"
)

// Workout transitions.
const (
	TransitionStarted = "started"
	TransitionEnded   = "ended"
	TransitionDeleted = "deleted"
)

// RecordTokenIssued counts a successful login.
func RecordTokenIssued() {
	tokensIssued.Inc()
}

// RecordAuthRejected counts a request refused by the auth gate.
func RecordAuthRejected(reason string) {
	authRejected.WithLabelValues(reason).Inc()
}

// RecordWorkoutTransition counts a lifecycle change and updates the watermark gauge.
func RecordWorkoutTransition(transition string, ts time.Time) {
	workoutTransitions.WithLabelValues(transition).Inc()
	if ts.IsZero() {
		return
	}
	lastWorkoutGauge.Set(float64(ts.Unix()))
}

// InstrumentHandler records request counts and latency. It must wrap the
// ServeMux directly so the matched route pattern is visible after dispatch.
func InstrumentHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(route, r.Method, strconv.Itoa(rec.status)).Inc()
		httpDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (s *statusRecorder) WriteHeader(code int) {
	if !s.wroteHeader {
		s.status = code
		s.wroteHeader = true
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	s.wroteHeader = true
	return s.ResponseWriter.Write(b)
}
