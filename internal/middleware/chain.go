package middleware

import (
	"net/http"
	"time"
)

// Options configures the middleware stack.
type Options struct {
	RateLimiter    *RateLimiter
	AccessKey      string
	MaxBodyBytes   int64
	RequestTimeout time.Duration
}

// Chain wraps the handler with the outer middleware stack.
// Order: CORS → RequestID → Logging → RateLimit → APIKey → MaxBytes → Timeout → mux.
// Metrics sits inside the router, see Metrics.
func Chain(handler http.Handler, opts Options) http.Handler {
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = 65 * time.Second
	}
	maxBytes := opts.MaxBodyBytes
	if maxBytes <= 0 {
		maxBytes = 256 * 1024
	}

	h := handler
	h = http.TimeoutHandler(h, timeout, `{"error":"request timeout"}`)
	h = MaxBytes(maxBytes)(h)
	h = APIKey(opts.AccessKey)(h)
	h = RateLimit(opts.RateLimiter)(h)
	h = Logging(h)
	h = RequestID(h)
	h = CORS(h)
	return h
}
