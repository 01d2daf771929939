// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Port     string
	DBPath   string
	MenuPath string // optional YAML menu seeded at startup
	Session  SessionConfig
	Webhook  WebhookConfig
	Retry    RetryConfig
	Timeout  TimeoutConfig
	// CommitCompensate deletes already-written line items when a commit fails.
	CommitCompensate bool
}

// SessionConfig controls in-progress order expiry.
type SessionConfig struct {
	TTL           time.Duration // 0 keeps orders for the process lifetime
	SweepInterval time.Duration
}

// WebhookConfig controls access to the fulfillment endpoint.
type WebhookConfig struct {
	Username       string
	Password       string
	RateLimitRPS   float64
	RateLimitBurst int
}

// RetryConfig controls retries of SQLite writes that hit lock contention.
type RetryConfig struct {
	DatabaseMaxRetries     int
	DatabaseRetryBaseDelay time.Duration
}

// TimeoutConfig holds request-scoped timeouts.
type TimeoutConfig struct {
	HealthCheck time.Duration
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:     getEnv("PORT", "8080"),
		DBPath:   getEnv("DB_PATH", "./data/orders.db"),
		MenuPath: getEnv("MENU_PATH", "./data/menu.yaml"),
		Session: SessionConfig{
			TTL:           getEnvDuration("SESSION_TTL", 0),
			SweepInterval: getEnvDuration("SESSION_SWEEP_INTERVAL", time.Minute),
		},
		Webhook: WebhookConfig{
			Username:       getEnv("WEBHOOK_USERNAME", ""),
			Password:       getEnv("WEBHOOK_PASSWORD", ""),
			RateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", 10),
			RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 20),
		},
		Retry: RetryConfig{
			DatabaseMaxRetries:     getEnvInt("DB_MAX_RETRIES", 3),
			DatabaseRetryBaseDelay: getEnvDuration("DB_RETRY_BASE_DELAY", 50*time.Millisecond),
		},
		Timeout: TimeoutConfig{
			HealthCheck: getEnvDuration("HEALTH_CHECK_TIMEOUT", 5*time.Second),
		},
		CommitCompensate: getEnvBool("COMMIT_COMPENSATE", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.Session.TTL < 0 {
		return fmt.Errorf("SESSION_TTL must be >= 0")
	}
	if c.Session.TTL > 0 && c.Session.SweepInterval <= 0 {
		return fmt.Errorf("SESSION_SWEEP_INTERVAL must be > 0 when SESSION_TTL is set")
	}
	if (c.Webhook.Username == "") != (c.Webhook.Password == "") {
		return fmt.Errorf("WEBHOOK_USERNAME and WEBHOOK_PASSWORD must be set together")
	}
	if c.Webhook.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be >= 0")
	}
	if c.Webhook.RateLimitRPS > 0 && c.Webhook.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be > 0")
	}
	if c.Retry.DatabaseMaxRetries <= 0 {
		return fmt.Errorf("DB_MAX_RETRIES must be > 0")
	}
	if c.Timeout.HealthCheck <= 0 {
		return fmt.Errorf("HEALTH_CHECK_TIMEOUT must be > 0")
	}
	return nil
}

// BasicAuthEnabled reports whether the webhook requires credentials.
func (c *Config) BasicAuthEnabled() bool {
	return c.Webhook.Username != "" && c.Webhook.Password != ""
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return fallback
	}
	return f
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return d
}
