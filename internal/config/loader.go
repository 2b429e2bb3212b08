package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

const (
	// ConfigDir is the default config directory name.
	ConfigDir = ".missionctl"
	// ConfigFile is the default config file name.
	ConfigFile = "config.json"
	// TimelineFile is the default activity log database file name.
	TimelineFile = "timeline.db"
)

// ConfigPath returns the path to the config file.
func ConfigPath() (string, error) {
	if explicit := strings.TrimSpace(os.Getenv("MISSIONCTL_CONFIG")); explicit != "" {
		if strings.HasPrefix(explicit, "~") {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			return filepath.Join(home, explicit[1:]), nil
		}
		return explicit, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ConfigDir, ConfigFile), nil
}

// Load loads the configuration from file and environment variables.
// Priority: environment > file > defaults.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	// Load process env vars from ~/.missionctl/env (and fallbacks) first.
	LoadEnvFileCandidates()

	path, err := ConfigPath()
	if err != nil {
		return cfg, nil // Use defaults if we can't find a config path
	}
	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	// Environment overrides.
	envconfig.Process("MISSIONCTL_GATEWAY", &cfg.Gateway)
	envconfig.Process("MISSIONCTL_SERVER", &cfg.Server)
	envconfig.Process("MISSIONCTL_REFRESH", &cfg.Refresh)
	envconfig.Process("MISSIONCTL_TIMELINE", &cfg.Timeline)
	envconfig.Process("MISSIONCTL_MIRROR", &cfg.Mirror)

	// Legacy single-var overrides matching the original deployment.
	if v := strings.TrimSpace(os.Getenv("GATEWAY_URL")); v != "" {
		cfg.Gateway.URL = v
	}
	if v := strings.TrimSpace(os.Getenv("GATEWAY_TOKEN")); v != "" {
		cfg.Gateway.Token = v
	}
	if v := strings.TrimSpace(os.Getenv("MISSION_CONTROL_KEY")); v != "" {
		cfg.Server.AccessKey = v
	}

	if cfg.Timeline.Path == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dir := filepath.Join(home, ConfigDir)
			os.MkdirAll(dir, 0755)
			cfg.Timeline.Path = filepath.Join(dir, TimelineFile)
		} else {
			cfg.Timeline.Path = TimelineFile
		}
	}

	return cfg, nil
}
