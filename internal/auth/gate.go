// Package auth implements the shared-secret login and the cookie gate in
// front of every dashboard page.
package auth

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

// CookieName is the session cookie issued after a successful login.
const CookieName = "mc_session"

// cookieMaxAge is the session lifetime: 7 days.
const cookieMaxAge = 7 * 24 * time.Hour

// Gate compares a user-supplied access code against one process-wide
// shared secret. There is no session store and no per-user identity; the
// cookie value is a constant marker.
type Gate struct {
	key    string
	secure bool
}

// NewGate creates a gate for the configured access key. secure controls
// the cookie's Secure flag.
func NewGate(key string, secure bool) *Gate {
	return &Gate{key: strings.TrimSpace(key), secure: secure}
}

// Authenticated reports whether the request carries a valid session cookie.
func (g *Gate) Authenticated(r *http.Request) bool {
	c, err := r.Cookie(CookieName)
	return err == nil && c.Value != ""
}

// HandleLogin serves the login API: POST verifies the code and sets the
// cookie, DELETE clears it.
func (g *Gate) HandleLogin(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	switch r.Method {
	case http.MethodDelete:
		http.SetCookie(w, &http.Cookie{
			Name:     CookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			Secure:   g.secure,
		})
		json.NewEncoder(w).Encode(map[string]any{"success": true})
	case http.MethodPost:
		if g.key == "" {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]any{"error": "Server misconfiguration"})
			return
		}
		var body struct {
			Code string `json:"code"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]any{"error": "Invalid request"})
			return
		}
		if body.Code != g.key {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]any{"error": "Access Denied"})
			return
		}
		http.SetCookie(w, &http.Cookie{
			Name:     CookieName,
			Value:    "active",
			Path:     "/",
			MaxAge:   int(cookieMaxAge.Seconds()),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			Secure:   g.secure,
		})
		json.NewEncoder(w).Encode(map[string]any{"success": true})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// exempt paths skip the gate: the login page and API, static assets, and
// the health check.
func exempt(path string) bool {
	return path == "/api/auth" ||
		path == "/api/v1/status" ||
		path == "/favicon.ico" ||
		strings.HasPrefix(path, "/static/")
}

// Middleware enforces the gate: unauthenticated requests are redirected to
// the login page, and an authenticated visit to the login page bounces
// back to the home page.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if exempt(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}
		loggedIn := g.Authenticated(r)
		isLogin := r.URL.Path == "/login"
		if !loggedIn && !isLogin {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		if loggedIn && isLogin {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}
