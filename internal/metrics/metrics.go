// Package metrics collects Prometheus metrics for the API and exposes them
// for scraping.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the application's Prometheus metrics.
type Collector struct {
	postsCreated    prometheus.Counter
	postsDeleted    prometheus.Counter
	starsToggled    prometheus.Counter
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		postsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nextblog_posts_created_total",
			Help: "Number of posts created through the API.",
		}),
		postsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nextblog_posts_deleted_total",
			Help: "Number of posts deleted through the API.",
		}),
		starsToggled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nextblog_stars_toggled_total",
			Help: "Number of successful star toggles.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nextblog_http_requests_total",
			Help: "HTTP requests by method, route pattern and status code.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "nextblog_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route pattern.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(
		c.postsCreated,
		c.postsDeleted,
		c.starsToggled,
		c.requests,
		c.requestDuration,
	)

	return c
}

// RecordPostCreated counts a created post.
func (c *Collector) RecordPostCreated() {
	c.postsCreated.Inc()
}

// RecordPostDeleted counts a deleted post.
func (c *Collector) RecordPostDeleted() {
	c.postsDeleted.Inc()
}

// RecordStarToggled counts a star toggle.
func (c *Collector) RecordStarToggled() {
	c.starsToggled.Inc()
}

// statusRecorder captures the response status for instrumentation.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

// Middleware records request count and latency. Routes are labeled with
// their chi pattern (e.g. /blog/{category}) to keep label cardinality low.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		c.requests.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		c.requestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// Handler returns the Prometheus scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
