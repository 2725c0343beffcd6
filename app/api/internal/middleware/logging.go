package middleware

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-kratos/kratos/v2/log"
)

// AccessLog emits one record per request once the response has been produced.
func AccessLog(logger log.Logger) func(http.Handler) http.Handler {
	helper := log.NewHelper(log.With(logger, "logger", "api.request"))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := newStatusRecorder(w)

			next.ServeHTTP(rec, r)

			elapsed := float64(time.Since(start).Nanoseconds()) / float64(time.Millisecond)
			helper.WithContext(r.Context()).Infow(
				log.DefaultMessageKey, "Request processed",
				"method", r.Method,
				"path", r.URL.Path,
				"status_code", rec.status,
				"client_host", clientHost(r),
				"process_time_ms", fmt.Sprintf("%.2f", elapsed),
			)
		})
	}
}

func clientHost(r *http.Request) string {
	if r.RemoteAddr == "" {
		return "unknown"
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil || host == "" {
		return r.RemoteAddr
	}
	return host
}
