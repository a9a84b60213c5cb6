package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type observerFunc func(route string, status int, duration time.Duration)

func (f observerFunc) ObserveRequest(route string, status int, duration time.Duration) {
	f(route, status, duration)
}

func TestMetricsMiddleware(t *testing.T) {
	var route string
	var status int

	observer := observerFunc(func(r string, s int, _ time.Duration) {
		route, status = r, s
	})

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	srv := httptest.NewServer(MetricsMiddleware(observer)(mux))
	defer srv.Close()

	t.Run("matched", func(t *testing.T) {
		resp, err := http.Post(srv.URL+"/api/auth/login", "application/json", nil)
		require.NoError(t, err)
		defer resp.Body.Close() // nolint:errcheck

		require.Equal(t, "POST /api/auth/login", route)
		require.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("unmatched", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/nowhere")
		require.NoError(t, err)
		defer resp.Body.Close() // nolint:errcheck

		require.Equal(t, "unmatched", route)
		require.Equal(t, http.StatusNotFound, status)
	})
}
