package middleware

import (
	"math"
	"net/http"

	"golang.org/x/time/rate"
)

const tooManyRequestsBody = `{"detail":"Too Many Requests"}`

// RateLimit applies a process-wide token bucket. qps <= 0 disables it.
func RateLimit(qps float64, burst int) func(http.Handler) http.Handler {
	if qps <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if burst <= 0 {
		burst = int(math.Max(1, math.Ceil(qps)))
	}
	limiter := rate.NewLimiter(rate.Limit(qps), burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(tooManyRequestsBody))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
