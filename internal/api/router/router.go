// Package router wires the lemma API routes and the middleware chain.
package router

import (
	"net/http"
	"time"

	"github.com/rs/cors"

	"github.com/Adithya-Monish-Kumar-K/tdzlemma/internal/api/handler"
	"github.com/Adithya-Monish-Kumar-K/tdzlemma/pkg/health"
	"github.com/Adithya-Monish-Kumar-K/tdzlemma/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/tdzlemma/pkg/middleware"
)

// Options configure the middleware. Nil fields and a zero Timeout disable
// the corresponding middleware.
type Options struct {
	Metrics        *metrics.Metrics
	Limiter        *middleware.RateLimiter
	Timeout        time.Duration
	AllowedOrigins []string
}

// New builds the HTTP handler.
//
// Route table:
//
//	POST /api/v1/lemmatize
//	POST /api/v1/delemmatize
//	GET  /api/v1/cache/stats
//	POST /api/v1/cache/invalidate
//	GET  /health/live
//	GET  /health/ready
//
// Middleware chain (outermost first):
//
//	RequestID → CORS → Metrics → RateLimit → Deadline → mux
func New(h *handler.Handler, checker *health.Checker, opts Options) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/lemmatize", h.Lemmatize)
	mux.HandleFunc("POST /api/v1/delemmatize", h.Delemmatize)

	mux.HandleFunc("GET /api/v1/cache/stats", h.CacheStats)
	mux.HandleFunc("POST /api/v1/cache/invalidate", h.CacheInvalidate)

	mux.HandleFunc("GET /health/live", checker.LiveHandler())
	mux.HandleFunc("GET /health/ready", checker.ReadyHandler())

	chain := middleware.Deadline(opts.Timeout)(mux)
	if opts.Limiter != nil {
		chain = middleware.RateLimit(opts.Limiter)(chain)
	}
	if opts.Metrics != nil {
		chain = middleware.Metrics(opts.Metrics)(chain)
	}
	chain = cors.New(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         86400,
	}).Handler(chain)
	chain = middleware.RequestID(chain)

	return chain
}
