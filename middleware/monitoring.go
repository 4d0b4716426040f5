package middleware

import (
	"crypto/subtle"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"path", "method", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)
	authRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_rejections_total",
			Help: "Total number of unauthorized requests",
		},
		[]string{"reason"},
	)
	webhookEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_webhook_events_total",
			Help: "Razorpay webhook deliveries by event and outcome",
		},
		[]string{"event", "outcome"},
	)
	matcherResults = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "matcher_results",
			Help:    "Number of postings matched per internship search",
			Buckets: []float64{0, 1, 5, 10, 20, 50, 100, 250, 500},
		},
	)
)

// InitPrometheus registers the metrics. Call this once from main.
func InitPrometheus() {
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpRequestDuration)
	prometheus.MustRegister(authRejections)
	prometheus.MustRegister(webhookEvents)
	prometheus.MustRegister(matcherResults)
}

// ObserveWebhookEvent counts one webhook delivery.
func ObserveWebhookEvent(event, outcome string) {
	webhookEvents.WithLabelValues(event, outcome).Inc()
}

// ObserveMatcherResults records how many postings a search matched.
func ObserveMatcherResults(n int) {
	matcherResults.Observe(float64(n))
}

// MonitorMiddleware tracks request counts and latency per route template.
func MonitorMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := &responseWriter{w, http.StatusOK}

		next.ServeHTTP(ww, r)

		duration := time.Since(start).Seconds()
		path := routePath(r)

		httpRequestsTotal.WithLabelValues(path, r.Method, strconv.Itoa(ww.statusCode)).Inc()
		httpRequestDuration.WithLabelValues(path, r.Method).Observe(duration)

		if ww.statusCode == http.StatusUnauthorized {
			authRejections.WithLabelValues("401_unauthorized").Inc()
		} else if ww.statusCode == http.StatusForbidden {
			authRejections.WithLabelValues("403_forbidden").Inc()
		}
	})
}

// routePath labels requests by mux route template so IDs in the path do not
// create new series.
func routePath(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tmpl, err := route.GetPathTemplate(); err == nil {
			return tmpl
		}
	}
	return "unmatched"
}

// BasicAuthMiddleware protects /metrics. With no credentials configured
// every request is rejected.
func BasicAuthMiddleware(metricsUser, metricsPass string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, pass, ok := r.BasicAuth()

			if !ok || metricsUser == "" ||
				subtle.ConstantTimeCompare([]byte(user), []byte(metricsUser)) != 1 ||
				subtle.ConstantTimeCompare([]byte(pass), []byte(metricsPass)) != 1 {
				w.Header().Set("WWW-Authenticate", `Basic realm="Metrics"`)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
