// Package router sets up all HTTP routes and middleware chains for the
// blog. The JSON API is mounted under /api/todos and /todos; the HTML
// frontend owns the remaining paths.
package router

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"nextblog/internal/handlers"
	"nextblog/internal/metrics"
	"nextblog/internal/middleware"
)

// apiMounts are the prefixes the posts API answers on.
var apiMounts = []string{"/api/todos", "/todos"}

// Options carries everything the router wires together. Metrics,
// Gatherer, RateLimiter, Proxies and Static are optional; without Proxies
// forwarding headers are ignored.
type Options struct {
	API         *handlers.API
	Web         *handlers.Web
	Metrics     *metrics.Collector
	Gatherer    prometheus.Gatherer
	RateLimiter *middleware.RateLimiter
	Proxies     *middleware.ProxyTrust
	CORSOrigins []string
	Static      fs.FS
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(opts Options) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.ForwardClientIP(opts.Proxies))
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware)
	}

	r.NotFound(opts.Web.NotFound)

	// Operational endpoints.
	r.Get("/health", healthHandler)
	if opts.Gatherer != nil {
		r.Handle("/metrics", metrics.Handler(opts.Gatherer))
	}
	if opts.Static != nil {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(opts.Static))))
	}

	// JSON API.
	for _, prefix := range apiMounts {
		r.Route(prefix, func(r chi.Router) {
			r.Use(middleware.CORS(opts.CORSOrigins))
			if opts.RateLimiter != nil {
				r.Use(opts.RateLimiter.Middleware)
			}
			r.NotFound(jsonStatus(http.StatusNotFound, "Not found"))
			r.MethodNotAllowed(jsonStatus(http.StatusMethodNotAllowed, "Method not allowed"))

			r.Get("/", opts.API.List)
			r.Post("/", opts.API.Create)
			r.Put("/", opts.API.ToggleStar)
			r.Delete("/", opts.API.Delete)
			r.Get("/{id}", opts.API.Get)
		})
	}

	// HTML frontend.
	r.Get("/", opts.Web.Home)
	r.Get("/blog", opts.Web.Blog)
	r.Get("/blog/{category}", opts.Web.Category)
	r.Get("/blog/{category}/{id}", opts.Web.Detail)
	r.Get("/new", opts.Web.NewForm)

	// Form posts go through the rate limiter like API mutations.
	r.Group(func(r chi.Router) {
		if opts.RateLimiter != nil {
			r.Use(opts.RateLimiter.Middleware)
		}
		r.Post("/new", opts.Web.CreatePost)
		r.Post("/posts/{id}/star", opts.Web.ToggleStar)
		r.Post("/posts/{id}/delete", opts.Web.DeletePost)
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// jsonStatus answers every request with status and an {"error": msg} body.
func jsonStatus(status int, msg string) http.HandlerFunc {
	body := []byte(`{"error":"` + msg + `"}` + "\n")
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(status)
		w.Write(body)
	}
}
