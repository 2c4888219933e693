package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
site:
  base_url: https://golf.example.com
redis:
  addr: localhost:6379
  db: 2
session:
  ttl_seconds: 900
security:
  shared_secret: file-secret
log:
  level: DEBUG
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.Site.BaseURL != "https://golf.example.com" {
		t.Errorf("BaseURL = %q", cfg.Site.BaseURL)
	}
	if cfg.Redis.Addr != "localhost:6379" || cfg.Redis.DB != 2 {
		t.Errorf("Redis = %+v", cfg.Redis)
	}
	if cfg.Session.TTL() != 15*time.Minute {
		t.Errorf("TTL() = %v, expected 15m", cfg.Session.TTL())
	}
	if cfg.Security.SharedSecret != "file-secret" {
		t.Errorf("SharedSecret = %q", cfg.Security.SharedSecret)
	}
	if cfg.Log.Level != "DEBUG" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
	if cfg.Twilio.Enabled() {
		t.Error("Twilio should be disabled when unconfigured")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
site:
  base_url: https://golf.example.com
security:
  shared_secret: file-secret
`)

	t.Setenv("TB_SHARED_SECRET", "env-secret")
	t.Setenv("TB_BASE_URL", "https://other.example.com")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.Security.SharedSecret != "env-secret" {
		t.Errorf("SharedSecret = %q, environment should win", cfg.Security.SharedSecret)
	}
	if cfg.Site.BaseURL != "https://other.example.com" {
		t.Errorf("BaseURL = %q, environment should win", cfg.Site.BaseURL)
	}
}

func TestLoad_MissingFileWithEnv(t *testing.T) {
	t.Setenv("TB_BASE_URL", "https://golf.example.com")

	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.Site.BaseURL != "https://golf.example.com" {
		t.Errorf("BaseURL = %q", cfg.Site.BaseURL)
	}
}

func TestLoad_MissingBaseURL(t *testing.T) {
	path := writeConfig(t, `
redis:
  addr: localhost:6379
`)

	if _, err := Load(path); err == nil {
		t.Error("expected error when base URL is missing")
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeConfig(t, "site: [not: valid")

	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestTwilioConfig_Enabled(t *testing.T) {
	full := TwilioConfig{AccountSID: "AC123", AuthToken: "tok", FromNumber: "+1555", ToNumber: "+1666"}
	if !full.Enabled() {
		t.Error("fully configured Twilio should be enabled")
	}

	partial := full
	partial.AuthToken = ""
	if partial.Enabled() {
		t.Error("partially configured Twilio should be disabled")
	}
}
