package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds a single tool invocation round-trip.
const DefaultTimeout = 15 * time.Second

// Client talks to the gateway's tools/invoke endpoint with a bearer token.
// One request per call, no retries.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a gateway client. URL and token are both required.
func NewClient(baseURL, token string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" || strings.TrimSpace(token) == "" {
		return nil, errors.New("gateway: url and token must be configured")
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}, nil
}

type invokeRequest struct {
	Tool string         `json:"tool"`
	Args map[string]any `json:"args"`
}

// InvokeRaw performs one tools/invoke exchange and returns the undecoded
// envelope. Used by the dashboard proxy, which passes the result through.
func (c *Client) InvokeRaw(ctx context.Context, tool string, args map[string]any) (*Envelope, error) {
	if args == nil {
		args = map[string]any{}
	}
	payload, err := json.Marshal(invokeRequest{Tool: tool, Args: args})
	if err != nil {
		return nil, fmt.Errorf("gateway: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/tools/invoke", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("gateway: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("gateway HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	var env Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("gateway: decode envelope: %w", err)
	}
	return &env, nil
}

// Invoke performs one tool call and unwraps the envelope to its payload.
func (c *Client) Invoke(ctx context.Context, tool string, args map[string]any) (any, error) {
	env, err := c.InvokeRaw(ctx, tool, args)
	if err != nil {
		return nil, err
	}
	return Unwrap(env)
}

// SessionsList fetches up to limit sessions.
func (c *Client) SessionsList(ctx context.Context, limit int) (any, error) {
	return c.Invoke(ctx, "sessions_list", map[string]any{"limit": limit})
}

// SessionHistory fetches recent messages of one session.
func (c *Client) SessionHistory(ctx context.Context, sessionKey string, limit int) (any, error) {
	return c.Invoke(ctx, "sessions_history", map[string]any{"sessionKey": sessionKey, "limit": limit})
}

// CronList fetches the configured cron jobs.
func (c *Client) CronList(ctx context.Context) (any, error) {
	return c.Invoke(ctx, "cron", map[string]any{"action": "list"})
}

// ConfigGet fetches the gateway's raw configuration.
func (c *Client) ConfigGet(ctx context.Context) (any, error) {
	return c.Invoke(ctx, "gateway", map[string]any{"action": "config.get"})
}

// ConfigApply pushes a raw configuration to the gateway.
func (c *Client) ConfigApply(ctx context.Context, raw string) (any, error) {
	return c.Invoke(ctx, "gateway", map[string]any{"action": "config.apply", "raw": raw})
}

// Restart asks the gateway to restart itself.
func (c *Client) Restart(ctx context.Context, reason string) (any, error) {
	args := map[string]any{"action": "restart"}
	if reason != "" {
		args["reason"] = reason
	}
	return c.Invoke(ctx, "gateway", args)
}

// SessionStatus fetches the gateway's session status summary.
func (c *Client) SessionStatus(ctx context.Context) (any, error) {
	return c.Invoke(ctx, "session_status", map[string]any{})
}
