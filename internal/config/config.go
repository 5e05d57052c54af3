// Package config provides configuration types for the Beisman Maps server.
package config

import "time"

// Config is the top-level configuration.
type Config struct {
	// Server configures the HTTP listener and logging.
	Server ServerConfig `yaml:"server" mapstructure:"server"`

	// Auth configures the single admin account.
	Auth AuthConfig `yaml:"auth" mapstructure:"auth"`

	// Session configures session lifetimes.
	Session SessionConfig `yaml:"session" mapstructure:"session"`

	// Database configures the SQLite database.
	Database DatabaseConfig `yaml:"database" mapstructure:"database"`

	// DevMode enables development defaults (admin/admin when unset).
	DevMode bool `yaml:"dev_mode" mapstructure:"dev_mode"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	// HTTPAddr is the listen address, e.g. ":8080".
	HTTPAddr string `yaml:"http_addr" mapstructure:"http_addr" validate:"required,hostname_port"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" mapstructure:"log_level" validate:"omitempty,oneof=debug info warn error"`

	// LogFormat is "text" or "json".
	LogFormat string `yaml:"log_format" mapstructure:"log_format" validate:"omitempty,oneof=text json"`

	// SecureCookies marks session cookies Secure. Enable behind HTTPS.
	SecureCookies bool `yaml:"secure_cookies" mapstructure:"secure_cookies"`
}

// AuthConfig configures the hardcoded admin account.
// The password is stored as configured; hashing is out of scope for this
// system.
type AuthConfig struct {
	AdminUsername string `yaml:"admin_username" mapstructure:"admin_username" validate:"required,max=50"`
	AdminPassword string `yaml:"admin_password" mapstructure:"admin_password" validate:"required,max=100"`
	DisplayName   string `yaml:"display_name" mapstructure:"display_name" validate:"omitempty,max=100"`

	// LoginRateLimit caps login attempts per client IP per minute.
	// Zero disables throttling.
	LoginRateLimit int `yaml:"login_rate_limit" mapstructure:"login_rate_limit" validate:"min=0"`
}

// SessionConfig configures session lifetimes.
type SessionConfig struct {
	// TTL is the session lifetime without "remember me". Default: 8h.
	TTL time.Duration `yaml:"ttl" mapstructure:"ttl"`

	// RememberTTL is the lifetime with "remember me". Default: 720h (30 days).
	RememberTTL time.Duration `yaml:"remember_ttl" mapstructure:"remember_ttl"`

	// CleanupInterval is the period of the background sweep.
	// Zero disables the background goroutine; expiry is then enforced only
	// lazily and by the admin maintenance endpoint.
	CleanupInterval time.Duration `yaml:"cleanup_interval" mapstructure:"cleanup_interval"`
}

// DatabaseConfig configures the SQLite database.
type DatabaseConfig struct {
	// Path is the database file path. ":memory:" is valid for testing.
	Path string `yaml:"path" mapstructure:"path" validate:"required"`
}

// SetDefaults fills in defaults for optional fields.
func (c *Config) SetDefaults() {
	if c.Server.HTTPAddr == "" {
		c.Server.HTTPAddr = ":8080"
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}
	if c.Server.LogFormat == "" {
		c.Server.LogFormat = "text"
	}
	if c.Auth.DisplayName == "" {
		c.Auth.DisplayName = "Administrator"
	}
	if c.Session.TTL == 0 {
		c.Session.TTL = 8 * time.Hour
	}
	if c.Session.RememberTTL == 0 {
		c.Session.RememberTTL = 30 * 24 * time.Hour
	}
	if c.Database.Path == "" {
		c.Database.Path = "beisman.db"
	}
}

// SetDevDefaults applies permissive development defaults.
// Only fills fields that are still empty, and only in dev mode.
func (c *Config) SetDevDefaults() {
	if !c.DevMode {
		return
	}
	if c.Auth.AdminUsername == "" {
		c.Auth.AdminUsername = "admin"
	}
	if c.Auth.AdminPassword == "" {
		c.Auth.AdminPassword = "admin"
	}
}
