package middleware

import (
	"net/http"
	"time"
)

type requestObserver interface {
	ObserveRequest(route string, status int, duration time.Duration)
}

// MetricsMiddleware observes every request labeled with matched mux pattern
// Pattern is known only after inner mux served the request
func MetricsMiddleware(o requestObserver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			lw := &logWriter{
				ResponseWriter: w,
				data:           logData{responseStatus: http.StatusOK},
			}

			next.ServeHTTP(lw, r)

			route := r.Pattern
			if route == "" {
				route = "unmatched"
			}
			o.ObserveRequest(route, lw.data.responseStatus, time.Since(start))
		})
	}
}
