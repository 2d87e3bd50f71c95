package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigKeepsDefaults(t *testing.T) {
	path := writeTempConfig(t, "host: jmap.example.com\n")
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if cfg.Host != "jmap.example.com" {
		t.Fatalf("expected host jmap.example.com, got %q", cfg.Host)
	}
	if cfg.RequestTimeout.Duration != 30*time.Second {
		t.Fatalf("expected default timeout 30s, got %v", cfg.RequestTimeout.Duration)
	}
	if cfg.MaxConcurrent != 4 {
		t.Fatalf("expected default max_concurrent 4, got %d", cfg.MaxConcurrent)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("expected default log_level info, got %q", cfg.LogLevel)
	}
}

func TestLoadConfigParsesSecondsAsIntegers(t *testing.T) {
	path := writeTempConfig(t, `
host: jmap.example.com
username: alice@example.com
password: hunter2
request_timeout: 90
max_concurrent: 2
log_level: debug
`)
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if cfg.RequestTimeout.Duration != 90*time.Second {
		t.Fatalf("expected timeout 90s, got %v", cfg.RequestTimeout.Duration)
	}
	if cfg.Username != "alice@example.com" || cfg.Password != "hunter2" {
		t.Fatalf("credentials not parsed: %q / %q", cfg.Username, cfg.Password)
	}
	if cfg.MaxConcurrent != 2 {
		t.Fatalf("expected max_concurrent 2, got %d", cfg.MaxConcurrent)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("expected log_level debug, got %q", cfg.LogLevel)
	}
}

func TestLoadConfigRejectsInvalidYAML(t *testing.T) {
	path := writeTempConfig(t, "host: [unclosed\n")
	if _, err := loadConfig(path); err == nil {
		t.Fatalf("expected error for invalid yaml")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := loadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

func TestSecondsYAMLRoundTrip(t *testing.T) {
	cfg := defaultConfig()
	cfg.Host = "jmap.example.com"
	cfg.RequestTimeout.Duration = 45 * time.Second

	data, err := yaml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var back Config
	if err := yaml.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if back.RequestTimeout.Duration != 45*time.Second {
		t.Fatalf("expected 45s after round trip, got %v", back.RequestTimeout.Duration)
	}
}
