package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func postLogin(t *testing.T, gate *Gate, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/auth", strings.NewReader(body))
	rec := httptest.NewRecorder()
	gate.HandleLogin(rec, req)
	return rec
}

func TestLoginSuccess(t *testing.T) {
	gate := NewGate("s3cret", false)
	rec := postLogin(t, gate, `{"code": "s3cret"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]any
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["success"] != true {
		t.Errorf("body = %v", body)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("got %d cookies", len(cookies))
	}
	c := cookies[0]
	if c.Name != CookieName || c.Value != "active" {
		t.Errorf("cookie = %s=%s", c.Name, c.Value)
	}
	if !c.HttpOnly || c.SameSite != http.SameSiteLaxMode {
		t.Errorf("cookie flags = %+v", c)
	}
	if c.MaxAge != 7*24*60*60 {
		t.Errorf("MaxAge = %d", c.MaxAge)
	}
	if c.Secure {
		t.Error("Secure set without TLS")
	}
}

func TestLoginWrongCode(t *testing.T) {
	gate := NewGate("s3cret", false)
	rec := postLogin(t, gate, `{"code": "wrong"}`)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]any
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["error"] != "Access Denied" {
		t.Errorf("body = %v", body)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("cookie issued on failed login")
	}
}

func TestLoginMissingKey(t *testing.T) {
	gate := NewGate("", false)
	rec := postLogin(t, gate, `{"code": "anything"}`)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]any
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["error"] != "Server misconfiguration" {
		t.Errorf("body = %v", body)
	}
}

func TestLoginInvalidJSON(t *testing.T) {
	gate := NewGate("s3cret", false)
	rec := postLogin(t, gate, `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	gate := NewGate("s3cret", false)
	req := httptest.NewRequest(http.MethodDelete, "/api/auth", nil)
	rec := httptest.NewRecorder()
	gate.HandleLogin(rec, req)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("got %d cookies", len(cookies))
	}
	if cookies[0].Value != "" || cookies[0].MaxAge >= 0 {
		t.Errorf("cookie = %+v", cookies[0])
	}
}

func TestSecureCookieFlag(t *testing.T) {
	gate := NewGate("s3cret", true)
	rec := postLogin(t, gate, `{"code": "s3cret"}`)
	if !rec.Result().Cookies()[0].Secure {
		t.Error("Secure not set")
	}
}

func TestMiddleware(t *testing.T) {
	gate := NewGate("s3cret", false)
	handler := gate.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		path       string
		loggedIn   bool
		wantStatus int
		wantTarget string
	}{
		{"anonymous page redirects to login", "/dashboard", false, http.StatusFound, "/login"},
		{"anonymous api redirects to login", "/api/v1/kanban", false, http.StatusFound, "/login"},
		{"anonymous login page passes", "/login", false, http.StatusOK, ""},
		{"anonymous auth api passes", "/api/auth", false, http.StatusOK, ""},
		{"anonymous health check passes", "/api/v1/status", false, http.StatusOK, ""},
		{"anonymous static passes", "/static/mc.css", false, http.StatusOK, ""},
		{"logged in page passes", "/dashboard", true, http.StatusOK, ""},
		{"logged in login page bounces home", "/login", true, http.StatusFound, "/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.loggedIn {
				req.AddCookie(&http.Cookie{Name: CookieName, Value: "active"})
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantTarget != "" && rec.Header().Get("Location") != tt.wantTarget {
				t.Errorf("Location = %q, want %q", rec.Header().Get("Location"), tt.wantTarget)
			}
		})
	}
}
