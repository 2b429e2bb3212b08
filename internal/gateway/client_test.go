package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNewClientRequiresURLAndToken(t *testing.T) {
	if _, err := NewClient("", "tok", 0); err == nil {
		t.Error("expected error for empty url")
	}
	if _, err := NewClient("http://gw", "", 0); err == nil {
		t.Error("expected error for empty token")
	}
	if _, err := NewClient("http://gw", "tok", 0); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestInvokeRawSendsBearerAndBody(t *testing.T) {
	var gotAuth, gotPath string
	var gotBody invokeRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"ok": true, "result": {"content": "[]"}}`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, "secret-token", time.Second)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	env, err := client.InvokeRaw(context.Background(), "sessions_list", map[string]any{"limit": 5})
	if err != nil {
		t.Fatalf("InvokeRaw: %v", err)
	}
	if !env.OK {
		t.Error("expected ok envelope")
	}
	if gotAuth != "Bearer secret-token" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotPath != "/tools/invoke" {
		t.Errorf("path = %q", gotPath)
	}
	if gotBody.Tool != "sessions_list" {
		t.Errorf("tool = %q", gotBody.Tool)
	}
	if gotBody.Args["limit"] != float64(5) {
		t.Errorf("args = %v", gotBody.Args)
	}
}

func TestInvokeRawHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	client, _ := NewClient(srv.URL, "tok", time.Second)
	if _, err := client.InvokeRaw(context.Background(), "cron", nil); err == nil {
		t.Fatal("expected error for HTTP 502")
	}
}

func TestInvokeUnwrapsEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok": true, "result": {"content": "{\"sessions\": [{\"key\": \"s1\"}]}"}}`))
	}))
	defer srv.Close()

	client, _ := NewClient(srv.URL, "tok", time.Second)
	got, err := client.SessionsList(context.Background(), 10)
	if err != nil {
		t.Fatalf("SessionsList: %v", err)
	}
	obj, ok := got.(map[string]any)
	if !ok {
		t.Fatalf("expected object, got %T", got)
	}
	sessions, ok := obj["sessions"].([]any)
	if !ok || len(sessions) != 1 {
		t.Errorf("sessions = %v", obj["sessions"])
	}
}

func TestInvokeGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok": false, "error": "tool not found"}`))
	}))
	defer srv.Close()

	client, _ := NewClient(srv.URL, "tok", time.Second)
	if _, err := client.Invoke(context.Background(), "bogus", nil); err == nil {
		t.Fatal("expected error for ok=false envelope")
	}
}

func TestConvenienceCallArgs(t *testing.T) {
	var calls []invokeRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req invokeRequest
		json.NewDecoder(r.Body).Decode(&req)
		calls = append(calls, req)
		w.Write([]byte(`{"ok": true}`))
	}))
	defer srv.Close()

	client, _ := NewClient(srv.URL, "tok", time.Second)
	ctx := context.Background()
	client.CronList(ctx)
	client.ConfigGet(ctx)
	client.Restart(ctx, "maintenance")

	if len(calls) != 3 {
		t.Fatalf("expected 3 calls, got %d", len(calls))
	}
	if calls[0].Tool != "cron" || calls[0].Args["action"] != "list" {
		t.Errorf("cron call = %+v", calls[0])
	}
	if calls[1].Tool != "gateway" || calls[1].Args["action"] != "config.get" {
		t.Errorf("config call = %+v", calls[1])
	}
	if calls[2].Args["action"] != "restart" || calls[2].Args["reason"] != "maintenance" {
		t.Errorf("restart call = %+v", calls[2])
	}
}
