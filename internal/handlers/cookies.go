package handlers

import (
	"net/http"
	"time"
)

const (
	RefreshCookieName = "adx_refresh"
	SessionCookieName = "adx_session"
)

// Cookies writes and reads the session cookie pair
// Refresh cookie carries refresh token and is never visible to scripts
// Session cookie is a readable presence marker without any secret
type Cookies struct {
	// Secure flag, set in production
	Secure bool

	// Cookie lifetime, equals refresh token lifetime
	MaxAge time.Duration
}

func (c Cookies) Set(w http.ResponseWriter, refresh string) {
	maxAge := int(c.MaxAge / time.Second)
	http.SetCookie(w, c.cookie(RefreshCookieName, refresh, true, maxAge))
	http.SetCookie(w, c.cookie(SessionCookieName, "true", false, maxAge))
}

func (c Cookies) Clear(w http.ResponseWriter) {
	http.SetCookie(w, c.cookie(RefreshCookieName, "", true, -1))
	http.SetCookie(w, c.cookie(SessionCookieName, "", false, -1))
}

// Refresh token from request or empty string
func (c Cookies) Refresh(r *http.Request) string {
	cookie, err := r.Cookie(RefreshCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (c Cookies) cookie(name string, value string, httpOnly bool, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: httpOnly,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
