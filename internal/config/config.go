// Package config provides configuration types and loading for missionctl.
package config

import "time"

// Config is the root configuration struct.
// Top-level groups: Gateway, Server, Refresh, Timeline, Mirror.
type Config struct {
	Gateway  GatewayConfig  `json:"gateway"`
	Server   ServerConfig   `json:"server"`
	Refresh  RefreshConfig  `json:"refresh"`
	Timeline TimelineConfig `json:"timeline"`
	Mirror   MirrorConfig   `json:"mirror"`
}

// GatewayConfig points at the upstream agent gateway. URL and Token are
// required to start the server; the token never leaves the server side.
type GatewayConfig struct {
	URL     string        `json:"url" envconfig:"URL"`
	Token   string        `json:"token" envconfig:"TOKEN"`
	Timeout time.Duration `json:"timeout" envconfig:"TIMEOUT"`
}

// ServerConfig contains the dashboard HTTP server settings. AccessKey is
// the shared secret behind the login page.
type ServerConfig struct {
	Host          string `json:"host" envconfig:"HOST"`
	Port          int    `json:"port" envconfig:"PORT"`
	AccessKey     string `json:"accessKey" envconfig:"ACCESS_KEY"`
	TLSCert       string `json:"tlsCert" envconfig:"TLS_CERT"`
	TLSKey        string `json:"tlsKey" envconfig:"TLS_KEY"`
	SecureCookies bool   `json:"secureCookies" envconfig:"SECURE_COOKIES"`
}

// RefreshConfig tunes the page data fetches.
type RefreshConfig struct {
	KanbanInterval time.Duration `json:"kanbanInterval" envconfig:"KANBAN_INTERVAL"`
	SessionLimit   int           `json:"sessionLimit" envconfig:"SESSION_LIMIT"`
}

// TimelineConfig locates the activity log database. An empty Path resolves
// to ~/.missionctl/timeline.db at load time.
type TimelineConfig struct {
	Path string `json:"path" envconfig:"PATH"`
}

// MirrorConfig configures the optional Kafka mirror of the activity log.
type MirrorConfig struct {
	Enabled bool   `json:"enabled" envconfig:"ENABLED"`
	Brokers string `json:"brokers" envconfig:"BROKERS"`
	Topic   string `json:"topic" envconfig:"TOPIC"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Gateway: GatewayConfig{
			Timeout: 15 * time.Second,
		},
		Server: ServerConfig{
			Host: "127.0.0.1", // Secure default
			Port: 18900,
		},
		Refresh: RefreshConfig{
			KanbanInterval: 10 * time.Second,
			SessionLimit:   20,
		},
		Mirror: MirrorConfig{
			Enabled: false,
			Topic:   "missionctl.events",
		},
	}
}
