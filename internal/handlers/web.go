package handlers

import (
	"fmt"
	"net/http"
)

// WebHandler serves built frontend from dir or placeholder pages if dir is empty
func WebHandler(dir string) http.Handler {
	if dir == "" {
		return placeholderWeb()
	}
	return http.FileServer(http.Dir(dir))
}

const placeholderPage = `<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>AdhyayanX</title></head>
<body><h1>AdhyayanX</h1><p>%s</p></body>
</html>
`

func placeholderWeb() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /auth/", func(w http.ResponseWriter, r *http.Request) {
		writePlaceholder(w, "Sign in with POST /api/auth/login")
	})
	mux.HandleFunc("GET /auth", func(w http.ResponseWriter, r *http.Request) {
		writePlaceholder(w, "Sign in with POST /api/auth/login")
	})
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		writePlaceholder(w, "You are signed in")
	})
	return mux
}

func writePlaceholder(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, placeholderPage, text)
}
