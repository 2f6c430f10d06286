// A1A T-Pro Authenticate & Authorize Library
// Copyright 2026 Watatek
// SPDX-License-Identifier: Apache-2.0

// Package config defines the configuration surface of the authorization
// core and loads it from defaults, an optional YAML file, and environment
// variables, in that order of precedence.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config is the root configuration for the authorization core.
type Config struct {
	JWKS       JWKSConfig       `koanf:"jwks"`
	Cache      CacheConfig      `koanf:"cache"`
	Validation ValidationConfig `koanf:"validation"`
	Permission PermissionConfig `koanf:"permission"`
	Security   SecurityConfig   `koanf:"security"`
	CORS       CORSConfig       `koanf:"cors"`
	RateLimit  RateLimitConfig  `koanf:"rate_limit"`
	Log        LogConfig        `koanf:"log"`
	Server     ServerConfig     `koanf:"server"`
}

// JWKSConfig configures the signing-key source.
type JWKSConfig struct {
	// Enabled toggles signature verification. When false the verifier skips
	// the signature stage entirely. Never disable in production.
	Enabled bool `koanf:"enabled"`

	// URL is the key-publishing (JWKS) endpoint.
	URL string `koanf:"url" validate:"required_if=Enabled true,omitempty,url"`

	// Algorithm selects the signing algorithm family: "RS256" (asymmetric)
	// or "HS512" (symmetric).
	Algorithm string `koanf:"algorithm" validate:"oneof=RS256 RS384 RS512 HS256 HS384 HS512"`

	ConnectTimeout time.Duration `koanf:"connect_timeout" validate:"gt=0"`
	ReadTimeout    time.Duration `koanf:"read_timeout" validate:"gt=0"`
}

// CacheConfig configures the signing-key cache.
type CacheConfig struct {
	// Backend selects the cache implementation: "memory" or "badger".
	Backend string `koanf:"backend" validate:"oneof=memory badger"`

	// TTL bounds how long a fetched signing key is served without a refresh.
	TTL time.Duration `koanf:"ttl" validate:"gt=0"`

	// Path is the on-disk location for the badger backend.
	Path string `koanf:"path" validate:"required_if=Backend badger"`
}

// ValidationConfig configures time-based token validation.
type ValidationConfig struct {
	// ValidateExpiration toggles the expiry stage of verification.
	ValidateExpiration bool `koanf:"validate_expiration"`

	// ClockSkew is the tolerance added on the lenient side of the
	// expiration check.
	ClockSkew time.Duration `koanf:"clock_skew" validate:"gte=0"`
}

// PermissionConfig configures the permission gateway client.
type PermissionConfig struct {
	URL            string        `koanf:"url" validate:"omitempty,url"`
	ConnectTimeout time.Duration `koanf:"connect_timeout" validate:"gt=0"`
	ReadTimeout    time.Duration `koanf:"read_timeout" validate:"gt=0"`

	// CacheTTL enables the caching loader decorator when > 0. Zero keeps
	// the engine's load-on-every-call contract.
	CacheTTL time.Duration `koanf:"cache_ttl" validate:"gte=0"`

	// BreakerEnabled wraps gateway calls in a circuit breaker.
	BreakerEnabled bool `koanf:"breaker_enabled"`
}

// SecurityConfig holds request-filtering settings.
type SecurityConfig struct {
	// WhitelistURLs lists path prefixes that bypass authentication.
	WhitelistURLs []string `koanf:"whitelist_urls"`
}

// CORSConfig configures cross-origin resource sharing for the HTTP layer.
type CORSConfig struct {
	Enabled          bool     `koanf:"enabled"`
	AllowedOrigins   []string `koanf:"allowed_origins"`
	AllowedMethods   []string `koanf:"allowed_methods"`
	AllowedHeaders   []string `koanf:"allowed_headers"`
	AllowCredentials bool     `koanf:"allow_credentials"`
	MaxAge           int      `koanf:"max_age" validate:"gte=0"`
}

// RateLimitConfig configures per-client request throttling.
type RateLimitConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Requests int           `koanf:"requests" validate:"gt=0"`
	Window   time.Duration `koanf:"window" validate:"gt=0"`
}

// LogConfig configures the shared logger.
type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

// ServerConfig configures the demo server binary.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port" validate:"gt=0,lte=65535"`
	Timeout time.Duration `koanf:"timeout" validate:"gt=0"`
}

// defaultConfig returns a Config with all default values. Defaults are
// applied first, then overridden by the config file and env vars.
func defaultConfig() *Config {
	return &Config{
		JWKS: JWKSConfig{
			Enabled:        true,
			URL:            "",
			Algorithm:      "RS256",
			ConnectTimeout: 5 * time.Second,
			ReadTimeout:    10 * time.Second,
		},
		Cache: CacheConfig{
			Backend: "memory",
			TTL:     15 * time.Minute,
			Path:    "",
		},
		Validation: ValidationConfig{
			ValidateExpiration: true,
			ClockSkew:          30 * time.Second,
		},
		Permission: PermissionConfig{
			URL:            "",
			ConnectTimeout: 5 * time.Second,
			ReadTimeout:    10 * time.Second,
			CacheTTL:       0,
			BreakerEnabled: true,
		},
		Security: SecurityConfig{
			WhitelistURLs: []string{"/healthz", "/metrics"},
		},
		CORS: CORSConfig{
			Enabled:          false,
			AllowedOrigins:   []string{},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Content-Type", "Authorization"},
			AllowCredentials: false,
			MaxAge:           86400,
		},
		RateLimit: RateLimitConfig{
			Enabled:  true,
			Requests: 100,
			Window:   time.Minute,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    8080,
			Timeout: 30 * time.Second,
		},
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
