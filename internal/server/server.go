package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mlorentedev/improver/internal/adapter"
	"github.com/mlorentedev/improver/internal/handler"
	"github.com/mlorentedev/improver/internal/improve"
	"github.com/mlorentedev/improver/internal/middleware"
)

// Options holds everything SetupMux needs to build the handler tree.
type Options struct {
	Adapter  adapter.LLMAdapter
	Provider string
	Version  string

	// Timeout bounds each generation call; the HTTP timeout adds 5s on top.
	Timeout       time.Duration
	MaxCodeLength int

	// RateLimit <= 0 disables per-IP limiting.
	RateLimit  int
	RateWindow time.Duration

	AccessKey string
}

// SetupMux wires handlers with the full middleware chain.
func SetupMux(opts Options) http.Handler {
	svc := &improve.Service{
		Adapter:         opts.Adapter,
		Timeout:         opts.Timeout,
		MaxSourceLength: opts.MaxCodeLength,
	}
	models := []adapter.ModelInfo{adapter.Info(opts.Adapter, opts.Provider)}

	r := chi.NewRouter()
	r.Use(middleware.Metrics)
	r.MethodNotAllowed(handler.MethodNotAllowed)
	r.Get("/", handler.Page(svc))
	r.Post("/", handler.Page(svc))
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handler.Health(opts.Adapter, opts.Provider, opts.Version))
		r.Get("/models", handler.Models(models))
		r.Post("/improve", handler.Improve(svc))
	})
	r.Handle("/metrics", promhttp.Handler())

	var rl *middleware.RateLimiter
	if opts.RateLimit > 0 {
		window := opts.RateWindow
		if window <= 0 {
			window = time.Minute
		}
		rl = middleware.NewRateLimiter(opts.RateLimit, window)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = improve.DefaultTimeout
	}

	return middleware.Chain(r, middleware.Options{
		RateLimiter:    rl,
		AccessKey:      opts.AccessKey,
		MaxBodyBytes:   256 * 1024,
		RequestTimeout: timeout + 5*time.Second,
	})
}
