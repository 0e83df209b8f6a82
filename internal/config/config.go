// Package config loads the server settings from environment variables.
// Every value has a default except the optional audit database, and the
// whole configuration is validated once at startup.
package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	Quota   QuotaConfig
	Session SessionConfig
	Export  ExportConfig
	Rate    RateLimitConfig
	Audit   AuditConfig
	Logging LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" envAlt:"PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading a request (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing a response (default: 30s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is how long graceful shutdown may take (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 30s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"30s"`
}

// QuotaConfig holds the per-session word quota.
type QuotaConfig struct {
	// WordLimit is the number of words a session may export before a reset (default: 40)
	WordLimit int `env:"QUOTA_WORD_LIMIT" default:"40"`
}

// SessionConfig holds operator session settings.
type SessionConfig struct {
	// IdleTimeout is how long an unused session is kept (default: 2h)
	IdleTimeout time.Duration `env:"SESSION_IDLE_TIMEOUT" default:"2h"`

	// SweepInterval is how often expired sessions are removed (default: 5m)
	SweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" default:"5m"`

	// MaxSessions caps live sessions; 0 disables the cap (default: 10000)
	MaxSessions int `env:"SESSION_MAX" default:"10000"`

	// CookieName is the session cookie (default: bearingspec_session)
	CookieName string `env:"SESSION_COOKIE_NAME" default:"bearingspec_session"`

	// SecureCookie marks the cookie Secure; enable behind HTTPS (default: false)
	SecureCookie bool `env:"SESSION_COOKIE_SECURE" default:"false"`
}

// ExportConfig holds download generation settings.
type ExportConfig struct {
	// MaxConcurrent is the number of files built in parallel (default: 8)
	MaxConcurrent int `env:"EXPORT_MAX_CONCURRENT" default:"8"`

	// MaxWaitTime is how long a download waits for a free slot (default: 5s)
	MaxWaitTime time.Duration `env:"EXPORT_MAX_WAIT_TIME" default:"5s"`
}

// RateLimitConfig holds per-IP rate limiting settings.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 120)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"120"`

	// ExportLimit is requests per minute for download endpoints (default: 20)
	ExportLimit int `env:"RATE_LIMIT_EXPORT" default:"20"`
}

// AuditConfig holds the optional export log database.
type AuditConfig struct {
	// URL is the PostgreSQL connection string; empty disables the export log.
	// Supports both DATABASE_URL and DB_URL env vars.
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// MaxConns is the maximum number of connections in the pool (default: 4)
	MaxConns int `env:"DB_MAX_CONNS" default:"4"`

	// MinConns is the minimum number of connections to keep open (default: 0)
	MinConns int `env:"DB_MIN_CONNS" default:"0"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`

	// MaxConnIdleTime is the maximum idle time before a connection is closed (default: 30m)
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`

	// WriteTimeout bounds a single export log insert (default: 3s)
	WriteTimeout time.Duration `env:"AUDIT_WRITE_TIMEOUT" default:"3s"`
}

// Enabled reports whether an export log database is configured.
func (c *AuditConfig) Enabled() bool {
	return c.URL != ""
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
