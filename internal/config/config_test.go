package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestLoad_WithDefaults(t *testing.T) {
	// Load config without a config file (use defaults)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg == nil {
		t.Fatal("Load() returned nil config")
	}

	// Verify some default values
	if cfg.Server.Port != 8092 {
		t.Errorf("Server.Port = %d, want 8092", cfg.Server.Port)
	}

	if cfg.Server.ReadTimeout != 30*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want 30s", cfg.Server.ReadTimeout)
	}

	if cfg.Redis.URL != "redis://localhost:6379/0" {
		t.Errorf("Redis.URL = %q, want %q", cfg.Redis.URL, "redis://localhost:6379/0")
	}

	if len(cfg.Redis.InboundChannels) != 2 {
		t.Fatalf("Redis.InboundChannels = %v, want 2 channels", cfg.Redis.InboundChannels)
	}
	if cfg.Redis.InboundChannels[0] != "events:core" {
		t.Errorf("Redis.InboundChannels[0] = %q, want %q", cfg.Redis.InboundChannels[0], "events:core")
	}
	if cfg.Redis.InboundChannels[1] != "events:recording" {
		t.Errorf("Redis.InboundChannels[1] = %q, want %q", cfg.Redis.InboundChannels[1], "events:recording")
	}

	if !cfg.NATS.Enabled {
		t.Error("NATS.Enabled should be true by default")
	}

	if cfg.NATS.URL != "nats://localhost:4222" {
		t.Errorf("NATS.URL = %q, want %q", cfg.NATS.URL, "nats://localhost:4222")
	}

	if cfg.NATS.Name != "webhook-bridge" {
		t.Errorf("NATS.Name = %q, want %q", cfg.NATS.Name, "webhook-bridge")
	}

	if !cfg.NATS.QuarantineEnabled {
		t.Error("NATS.QuarantineEnabled should be true by default")
	}

	if cfg.Mapping.KeyPrefix != "webhook-bridge:mapping" {
		t.Errorf("Mapping.KeyPrefix = %q, want %q", cfg.Mapping.KeyPrefix, "webhook-bridge:mapping")
	}

	if cfg.Mapping.TTL != 24*time.Hour {
		t.Errorf("Mapping.TTL = %v, want 24h", cfg.Mapping.TTL)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "info")
	}

	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format = %q, want %q", cfg.Logging.Format, "json")
	}
}

func TestLoad_FromFile(t *testing.T) {
	overrides := map[string]any{
		"server": map[string]any{"port": 9000},
		"redis": map[string]any{
			"url":              "redis://redis.internal:6379/1",
			"inbound_channels": []string{"bus:events"},
		},
		"nats":    map[string]any{"enabled": false},
		"mapping": map[string]any{"ttl": "1h"},
		"logging": map[string]any{"level": "debug"},
	}
	content, err := yaml.Marshal(overrides)
	if err != nil {
		t.Fatalf("marshaling config file: %v", err)
	}

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Redis.URL != "redis://redis.internal:6379/1" {
		t.Errorf("Redis.URL = %q, want override", cfg.Redis.URL)
	}
	if len(cfg.Redis.InboundChannels) != 1 || cfg.Redis.InboundChannels[0] != "bus:events" {
		t.Errorf("Redis.InboundChannels = %v, want [bus:events]", cfg.Redis.InboundChannels)
	}
	if cfg.NATS.Enabled {
		t.Error("NATS.Enabled should be overridden to false")
	}
	if cfg.Mapping.TTL != time.Hour {
		t.Errorf("Mapping.TTL = %v, want 1h", cfg.Mapping.TTL)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}

	// Unset values keep their defaults.
	if cfg.Server.ReadTimeout != 30*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want default 30s", cfg.Server.ReadTimeout)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("BRIDGE_REDIS_URL", "redis://env-host:6379/3")
	t.Setenv("BRIDGE_NATS_URL", "nats://env-host:4222")
	t.Setenv("BRIDGE_LOGGING_LEVEL", "debug")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Redis.URL != "redis://env-host:6379/3" {
		t.Errorf("Redis.URL = %q, want env override", cfg.Redis.URL)
	}
	if cfg.NATS.URL != "nats://env-host:4222" {
		t.Errorf("NATS.URL = %q, want env override", cfg.NATS.URL)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}

	// Keys without an env var keep their defaults.
	if cfg.Server.Port != 8092 {
		t.Errorf("Server.Port = %d, want default 8092", cfg.Server.Port)
	}
}

func TestLoad_NonExistentFile(t *testing.T) {
	// When a specific file path is given and doesn't exist, it should error
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Load() with non-existent file path should return error")
	}
}

func TestLoad_InvalidConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invalid.yaml")
	if err := os.WriteFile(path, []byte("invalid: yaml: : :"), 0o644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	_, err := Load(path)
	if err == nil {
		t.Error("Load() with invalid YAML should return error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid defaults",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing redis url",
			mutate:  func(c *Config) { c.Redis.URL = "" },
			wantErr: true,
		},
		{
			name:    "no inbound channels",
			mutate:  func(c *Config) { c.Redis.InboundChannels = nil },
			wantErr: true,
		},
		{
			name: "nats enabled without url",
			mutate: func(c *Config) {
				c.NATS.Enabled = true
				c.NATS.URL = ""
			},
			wantErr: true,
		},
		{
			name: "nats disabled without url is fine",
			mutate: func(c *Config) {
				c.NATS.Enabled = false
				c.NATS.URL = ""
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			tt.mutate(cfg)

			err = cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
