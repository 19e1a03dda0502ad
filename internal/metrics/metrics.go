package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "leaderboard",
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests received",
	}, []string{"method", "route", "status"})

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "leaderboard",
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	httpInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "leaderboard",
		Name:      "http_in_flight_requests",
		Help:      "Current number of in-flight HTTP requests",
	})

	highscoreSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "leaderboard",
		Name:      "highscore_submissions_total",
		Help:      "Highscore submissions by outcome",
	}, []string{"outcome"})

	levelCompletions = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "leaderboard",
		Name:      "level_completions",
		Help:      "Completion count per level as of the last stats snapshot",
	}, []string{"level"})
)

// Submission outcomes.
const (
	OutcomeCreated   = "created"
	OutcomeImproved  = "improved"
	OutcomeUnchanged = "unchanged"
)

type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (r *responseRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Middleware records request metrics. Routes are labelled by their chi
// pattern so ids in the path do not explode label cardinality.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		httpInFlight.Inc()
		defer httpInFlight.Dec()

		next.ServeHTTP(rec, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		labels := prometheus.Labels{
			"method": r.Method,
			"route":  route,
			"status": strconv.Itoa(rec.status),
		}
		httpRequests.With(labels).Inc()
		httpLatency.With(labels).Observe(time.Since(start).Seconds())
	})
}

// RecordSubmission counts one highscore submission.
func RecordSubmission(outcome string) {
	highscoreSubmissions.WithLabelValues(outcome).Inc()
}

// SetLevelCompletions replaces the per-level completion gauges.
func SetLevelCompletions(counts map[string]int) {
	levelCompletions.Reset()
	for level, count := range counts {
		levelCompletions.WithLabelValues(level).Set(float64(count))
	}
}

// Handler exposes the default Prometheus metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
