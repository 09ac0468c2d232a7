// Package main is the entry point for the nextblog server.
// It loads configuration, connects to the selected post store, sets up
// routing, and starts the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"database/sql"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"nextblog/internal/cache"
	"nextblog/internal/client"
	"nextblog/internal/config"
	"nextblog/internal/database"
	"nextblog/internal/handlers"
	"nextblog/internal/metrics"
	"nextblog/internal/middleware"
	"nextblog/internal/render"
	"nextblog/internal/router"
	"nextblog/internal/store"
	"nextblog/web"
)

func main() {
	// .env files are optional; real environment variables win.
	config.LoadDotEnv(".")

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger: text in development, JSON elsewhere.
	var logHandler slog.Handler
	if cfg.IsDev() {
		logHandler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		logHandler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	slog.SetDefault(slog.New(logHandler))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"store", cfg.StoreBackend,
		"cache", cfg.CacheEnabled,
	)

	// Connect to Valkey when the store or the list cache needs it.
	var valkeyClient *redis.Client
	if cfg.UsesValkey() {
		valkeyClient, err = cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword, cfg.ValkeyDB)
		if err != nil {
			slog.Error("failed to connect to valkey", "error", err)
			os.Exit(1)
		}
		defer valkeyClient.Close()
	}

	// Select the post store.
	var posts store.PostStore
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		db, err := openPostgres(cfg.DSN())
		if err != nil {
			slog.Error("failed to prepare database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		posts = store.NewPostgresPostStore(db)
	case config.BackendValkey:
		posts = store.NewValkeyPostStore(valkeyClient)
	default:
		posts = store.NewMemoryPostStore()
	}

	// Seed development data (no-op if posts already exist).
	if cfg.IsDev() {
		if err := database.Seed(context.Background(), posts); err != nil {
			slog.Error("failed to seed posts", "error", err)
			os.Exit(1)
		}
	}

	var listCache *cache.ListCache
	if cfg.CacheEnabled {
		listCache = cache.NewListCache(valkeyClient, cfg.CacheTTL)
	}

	// Metrics registry with Go runtime and process collectors.
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(reg)

	renderer, err := render.New()
	if err != nil {
		slog.Error("failed to initialize template renderer", "error", err)
		os.Exit(1)
	}

	static, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		slog.Error("failed to open static assets", "error", err)
		os.Exit(1)
	}

	// The frontend reaches the API over HTTP, like any other client.
	apiClient := client.New(cfg.APIBaseURL, &http.Client{Timeout: cfg.ClientTimeout})
	slog.Info("frontend api client configured", "base_url", cfg.APIBaseURL)

	proxies, err := middleware.NewProxyTrust(cfg.TrustedProxies)
	if err != nil {
		slog.Error("invalid TRUSTED_PROXIES", "error", err)
		os.Exit(1)
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, 10*time.Minute)
	limiter.TrustProxies(proxies)
	defer limiter.Stop()

	r := router.New(router.Options{
		API:         handlers.NewAPI(posts, listCache, collector),
		Web:         handlers.NewWeb(apiClient, renderer, cfg.PageSize),
		Metrics:     collector,
		Gatherer:    reg,
		RateLimiter: limiter,
		Proxies:     proxies,
		CORSOrigins: cfg.CORSAllowedOrigins,
		Static:      static,
	})

	// Create the HTTP server with sensible timeouts.
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

// openPostgres connects and applies pending migrations.
func openPostgres(dsn string) (*sql.DB, error) {
	db, err := database.Connect(dsn)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	slog.Info("database ready")
	return db, nil
}
