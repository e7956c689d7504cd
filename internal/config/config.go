// Watchdeck - Per-User Watchlist Service for Movies and TV Shows
// Copyright 2026 Watchdeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/watchdeck/watchdeck

// Package config provides layered configuration loading for Watchdeck
// using Koanf v2: built-in defaults, then an optional YAML file, then
// environment variables (highest priority).
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the Watchdeck server.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Cache    CacheConfig    `koanf:"cache"`
	API      APIConfig      `koanf:"api"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host        string        `koanf:"host"`
	Port        int           `koanf:"port"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"`
}

// DatabaseConfig holds DuckDB settings for the list store and catalog.
// An empty Path opens an in-memory database (used by tests).
type DatabaseConfig struct {
	Path         string `koanf:"path"`
	MaxMemory    string `koanf:"max_memory"`
	Threads      int    `koanf:"threads"`
	SeedDemoData bool   `koanf:"seed_demo_data"`
}

// CacheConfig holds page cache settings.
//
// Backend selects the caching strategy:
//   - "memory": in-process map with a supervised expiry sweep (default)
//   - "redis":  shared out-of-process cache
//   - "badger": persistent local cache, survives restarts
//   - "none":   caching disabled entirely
//
// If redis or badger is configured but unreachable at startup, the service
// degrades to the memory backend rather than failing.
type CacheConfig struct {
	Backend       string        `koanf:"backend"`
	TTL           time.Duration `koanf:"ttl"`
	SweepInterval time.Duration `koanf:"sweep_interval"`
	BadgerPath    string        `koanf:"badger_path"`
	Redis         RedisConfig   `koanf:"redis"`
}

// RedisConfig holds connection settings for the redis cache backend.
type RedisConfig struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

// APIConfig holds pagination bounds for list endpoints.
type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`
}

// SecurityConfig holds authentication and rate limiting settings.
// AuthMode "none" disables authentication; "jwt" requires a bearer token
// signed with JWTSecret on all watchlist endpoints.
type SecurityConfig struct {
	AuthMode          string        `koanf:"auth_mode"`
	JWTSecret         string        `koanf:"jwt_secret"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	// CORSAllowedOrigins is empty by default; cross-origin browser
	// access must be enabled explicitly.
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks the configuration for invalid combinations.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}

	switch c.Cache.Backend {
	case "memory", "redis", "badger", "none":
	default:
		return fmt.Errorf("cache.backend must be one of memory, redis, badger, none; got %q", c.Cache.Backend)
	}
	if c.Cache.Backend == "redis" && c.Cache.Redis.Addr == "" {
		return fmt.Errorf("cache.redis.addr is required when cache.backend is redis")
	}
	if c.Cache.Backend == "badger" && c.Cache.BadgerPath == "" {
		return fmt.Errorf("cache.badger_path is required when cache.backend is badger")
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive, got %s", c.Cache.TTL)
	}

	switch c.Security.AuthMode {
	case "none":
	case "jwt":
		if len(c.Security.JWTSecret) < 32 {
			return fmt.Errorf("security.jwt_secret must be at least 32 characters when auth_mode is jwt")
		}
	default:
		return fmt.Errorf("security.auth_mode must be none or jwt, got %q", c.Security.AuthMode)
	}

	if c.API.DefaultPageSize < 1 {
		return fmt.Errorf("api.default_page_size must be at least 1, got %d", c.API.DefaultPageSize)
	}
	if c.API.MaxPageSize < c.API.DefaultPageSize {
		return fmt.Errorf("api.max_page_size (%d) must not be smaller than api.default_page_size (%d)",
			c.API.MaxPageSize, c.API.DefaultPageSize)
	}

	return nil
}
