// Package config provides the dashboard server configuration.
package config

import (
	"fmt"
	"os"
	"time"
)

// Environment names accepted by Validate.
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// ServerConfig interface for HTTP-server-specific configuration.
type ServerConfig interface {
	GetServerPort() string
	GetReadTimeout() time.Duration
	GetWriteTimeout() time.Duration
	GetIdleTimeout() time.Duration
}

// SessionConfig interface for session-store configuration.
type SessionConfig interface {
	GetRedisAddr() string
	GetRedisPassword() string
	GetSessionTTL() time.Duration
	CookieSecure() bool
}

// AppConfig implements all configuration interfaces.
type AppConfig struct {
	serverPort   string
	apiBaseURL   string
	environment  string
	logLevel     string
	redisAddr    string
	redisPass    string
	cookieSecure string
	sessionTTL   time.Duration
	readTimeout  time.Duration
	writeTimeout time.Duration
	idleTimeout  time.Duration
	pollInterval time.Duration
}

// NewConfig creates a configuration instance with default values and
// overrides from environment variables.
func NewConfig() *AppConfig {
	return &AppConfig{
		serverPort:   getEnvString("SERVER_PORT", "8080"),
		apiBaseURL:   getEnvString("API_BASE_URL", "http://localhost:8100"),
		environment:  getEnvString("ENVIRONMENT", EnvDevelopment),
		logLevel:     getEnvString("LOG_LEVEL", "info"),
		redisAddr:    getEnvString("REDIS_ADDR", ""),
		redisPass:    getEnvString("REDIS_PASSWORD", ""),
		cookieSecure: getEnvString("COOKIE_SECURE", ""),
		sessionTTL:   getEnvDuration("SESSION_TTL", "168h"), // matches the refresh token lifetime
		readTimeout:  getEnvDuration("READ_TIMEOUT", "15s"),
		writeTimeout: getEnvDuration("WRITE_TIMEOUT", "15s"),
		idleTimeout:  getEnvDuration("IDLE_TIMEOUT", "60s"),
		pollInterval: getEnvDuration("SUMMARY_POLL_INTERVAL", "30s"),
	}
}

// GetServerPort returns the HTTP listen port.
func (c *AppConfig) GetServerPort() string { return c.serverPort }

// GetAPIBaseURL returns the base URL of the metrics backend.
func (c *AppConfig) GetAPIBaseURL() string { return c.apiBaseURL }

// GetEnvironment returns the application environment.
func (c *AppConfig) GetEnvironment() string { return c.environment }

// GetLogLevel returns the log level.
func (c *AppConfig) GetLogLevel() string { return c.logLevel }

// IsProduction returns true when running in production.
func (c *AppConfig) IsProduction() bool { return c.environment == EnvProduction }

// GetRedisAddr returns the redis address; empty selects the in-memory
// session store.
func (c *AppConfig) GetRedisAddr() string { return c.redisAddr }

// GetRedisPassword returns the redis password.
func (c *AppConfig) GetRedisPassword() string { return c.redisPass }

// GetSessionTTL returns how long an idle browser session is kept.
func (c *AppConfig) GetSessionTTL() time.Duration { return c.sessionTTL }

// CookieSecure reports whether the session cookie requires HTTPS.
// COOKIE_SECURE overrides the environment-based default.
func (c *AppConfig) CookieSecure() bool {
	switch c.cookieSecure {
	case "true":
		return true
	case "false":
		return false
	}
	return c.IsProduction()
}

// GetReadTimeout returns the server read timeout.
func (c *AppConfig) GetReadTimeout() time.Duration { return c.readTimeout }

// GetWriteTimeout returns the server write timeout.
func (c *AppConfig) GetWriteTimeout() time.Duration { return c.writeTimeout }

// GetIdleTimeout returns the server idle timeout.
func (c *AppConfig) GetIdleTimeout() time.Duration { return c.idleTimeout }

// GetSummaryPollInterval returns how often the live feed refetches the
// dashboard summary.
func (c *AppConfig) GetSummaryPollInterval() time.Duration { return c.pollInterval }

// Validate checks if the configuration is valid.
func (c *AppConfig) Validate() error {
	if c.serverPort == "" {
		return fmt.Errorf("server port cannot be empty")
	}

	if c.apiBaseURL == "" {
		return fmt.Errorf("API base URL cannot be empty")
	}

	if c.environment != EnvDevelopment && c.environment != EnvStaging && c.environment != EnvProduction {
		return fmt.Errorf("environment must be one of: development, staging, production")
	}

	if c.sessionTTL <= 0 {
		return fmt.Errorf("session TTL must be positive")
	}

	if c.pollInterval < time.Second {
		return fmt.Errorf("summary poll interval must be at least 1s")
	}

	return nil
}

// Helper functions for environment variable parsing.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key, defaultValue string) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	if duration, err := time.ParseDuration(defaultValue); err == nil {
		return duration
	}
	return time.Second
}
