package middleware

import (
	"context"
	"net/http"
	"time"
)

// Deadline bounds each request's context by d; d <= 0 leaves it unbounded.
// The handler checks the context between sentences and answers with a
// timeout error itself, so nothing here writes to the response.
func Deadline(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
