// Package config loads tee-booker configuration from a YAML file with
// environment overrides for secrets.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full application configuration.
type Config struct {
	Site     SiteConfig     `yaml:"site"`
	Redis    RedisConfig    `yaml:"redis"`
	Session  SessionConfig  `yaml:"session"`
	Security SecurityConfig `yaml:"security"`
	Twilio   TwilioConfig   `yaml:"twilio"`
	Log      LogConfig      `yaml:"log"`
}

// SiteConfig locates the club booking website.
type SiteConfig struct {
	BaseURL string `yaml:"base_url"`
}

// RedisConfig configures the session store backend. An empty Addr makes
// the CLI fall back to its in-memory store.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// SessionConfig controls the sliding session window.
type SessionConfig struct {
	TTLSeconds int `yaml:"ttl_seconds"`
}

// TTL returns the configured window as a duration, zero when unset.
func (s SessionConfig) TTL() time.Duration {
	return time.Duration(s.TTLSeconds) * time.Second
}

// SecurityConfig carries the operator shared secret used to derive the
// credential encryption key. Prefer the TB_SHARED_SECRET environment
// variable over committing it to the file.
type SecurityConfig struct {
	SharedSecret string `yaml:"shared_secret"`
}

// TwilioConfig configures SMS booking confirmations. Leave AccountSID
// empty to disable them.
type TwilioConfig struct {
	AccountSID string `yaml:"account_sid"`
	AuthToken  string `yaml:"auth_token"`
	FromNumber string `yaml:"from_number"`
	ToNumber   string `yaml:"to_number"`
}

// Enabled reports whether SMS notifications are configured.
func (t TwilioConfig) Enabled() bool {
	return t.AccountSID != "" && t.AuthToken != "" && t.FromNumber != "" && t.ToNumber != ""
}

// LogConfig controls logger verbosity.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads the YAML file at path and applies environment overrides.
// A missing file is not an error when every required value arrives from
// the environment.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	case os.IsNotExist(err):
		// Environment-only configuration.
	default:
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg.applyEnv()

	if cfg.Site.BaseURL == "" {
		return nil, fmt.Errorf("site base URL is required (config site.base_url or TB_BASE_URL)")
	}
	return &cfg, nil
}

// applyEnv lets the environment override file values; secrets normally
// only ever arrive this way.
func (c *Config) applyEnv() {
	setFromEnv(&c.Site.BaseURL, "TB_BASE_URL")
	setFromEnv(&c.Redis.Addr, "TB_REDIS_ADDR")
	setFromEnv(&c.Redis.Password, "TB_REDIS_PASSWORD")
	setFromEnv(&c.Security.SharedSecret, "TB_SHARED_SECRET")
	setFromEnv(&c.Twilio.AccountSID, "TB_TWILIO_ACCOUNT_SID")
	setFromEnv(&c.Twilio.AuthToken, "TB_TWILIO_AUTH_TOKEN")
	setFromEnv(&c.Twilio.FromNumber, "TB_TWILIO_FROM")
	setFromEnv(&c.Twilio.ToNumber, "TB_TWILIO_TO")
	setFromEnv(&c.Log.Level, "TB_LOG_LEVEL")
}

func setFromEnv(target *string, key string) {
	if value := os.Getenv(key); value != "" {
		*target = value
	}
}
