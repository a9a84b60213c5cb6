package middleware

import (
	"net/http"
	"strings"
)

type GateConfig struct {
	// Cookie whose presence marks request as authenticated
	CookieName string

	// Auth entry page and where authenticated users are sent from it
	AuthPath string
	HomePath string
}

// Paths never redirected by the gate
var gateBypassPrefixes = []string{"/api/", "/metrics", "/_next/", "/favicon.ico"}

// SessionGate redirects by refresh cookie presence only
// It never validates the cookie: protected API handlers check access tokens themselves
func SessionGate(cfg GateConfig) func(http.Handler) http.Handler {
	if cfg.AuthPath == "" {
		cfg.AuthPath = "/auth"
	}
	if cfg.HomePath == "" {
		cfg.HomePath = "/"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			if bypassGate(path) {
				next.ServeHTTP(w, r)
				return
			}

			cookie, err := r.Cookie(cfg.CookieName)
			hasSession := err == nil && cookie.Value != ""
			onAuthPage := path == cfg.AuthPath || strings.HasPrefix(path, cfg.AuthPath+"/")

			switch {
			case onAuthPage && hasSession:
				http.Redirect(w, r, cfg.HomePath, http.StatusTemporaryRedirect)
			case !onAuthPage && !hasSession:
				http.Redirect(w, r, cfg.AuthPath, http.StatusTemporaryRedirect)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

// API routes and static assets (anything with extension) bypass the gate
func bypassGate(path string) bool {
	for _, prefix := range gateBypassPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return strings.Contains(path, ".")
}
