// Package config loads the taskboard client configuration from YAML with
// sensible defaults for every field.
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Intervals IntervalsConfig `yaml:"intervals"`
}

type ServerConfig struct {
	// URL is the REST base, e.g. "http://127.0.0.1:8080". The WebSocket
	// base is derived from it unless WSURL is set.
	URL   string `yaml:"url"`
	WSURL string `yaml:"ws_url"`
}

type IntervalsConfig struct {
	HealthCheck         time.Duration `yaml:"health_check"`
	NotificationRefresh time.Duration `yaml:"notification_refresh"`
	IndicatorRefresh    time.Duration `yaml:"indicator_refresh"`
	AutoStatus          time.Duration `yaml:"auto_status"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			URL: "http://127.0.0.1:8080",
		},
		Intervals: IntervalsConfig{
			HealthCheck:         30 * time.Second,
			NotificationRefresh: 60 * time.Second,
			IndicatorRefresh:    time.Second,
			AutoStatus:          15 * time.Minute,
		},
	}
}

// Load reads a YAML config file over the defaults. A missing file is not an
// error; the defaults are returned.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
