// Watchdeck - Per-User Watchlist Service for Movies and TV Shows
// Copyright 2026 Watchdeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/watchdeck/watchdeck

package config

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}
	if cfg.Cache.Backend != "memory" {
		t.Errorf("expected memory cache backend by default, got %q", cfg.Cache.Backend)
	}
	if cfg.Cache.TTL != 5*time.Minute {
		t.Errorf("expected 5m cache TTL by default, got %s", cfg.Cache.TTL)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "server.port",
		},
		{
			name:    "unknown cache backend",
			mutate:  func(c *Config) { c.Cache.Backend = "memcached" },
			wantErr: "cache.backend",
		},
		{
			name:    "redis backend without addr",
			mutate:  func(c *Config) { c.Cache.Backend = "redis" },
			wantErr: "cache.redis.addr",
		},
		{
			name:    "badger backend without path",
			mutate:  func(c *Config) { c.Cache.Backend = "badger"; c.Cache.BadgerPath = "" },
			wantErr: "cache.badger_path",
		},
		{
			name:    "non-positive ttl",
			mutate:  func(c *Config) { c.Cache.TTL = 0 },
			wantErr: "cache.ttl",
		},
		{
			name:    "jwt mode with short secret",
			mutate:  func(c *Config) { c.Security.AuthMode = "jwt"; c.Security.JWTSecret = "short" },
			wantErr: "jwt_secret",
		},
		{
			name:    "unknown auth mode",
			mutate:  func(c *Config) { c.Security.AuthMode = "basic" },
			wantErr: "auth_mode",
		},
		{
			name:    "max page size below default",
			mutate:  func(c *Config) { c.API.MaxPageSize = 5 },
			wantErr: "max_page_size",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error mentioning %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateAcceptsJWTWithLongSecret(t *testing.T) {
	cfg := defaultConfig()
	cfg.Security.AuthMode = "jwt"
	cfg.Security.JWTSecret = strings.Repeat("s", 32)
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"CACHE_BACKEND", "cache.backend"},
		{"REDIS_ADDR", "cache.redis.addr"},
		{"DUCKDB_PATH", "database.path"},
		{"PORT", "server.port"},
		{"PATH", ""},
		{"HOME", ""},
	}

	for _, tt := range tests {
		if got := envTransformFunc(tt.env); got != tt.want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", tt.env, got, tt.want)
		}
	}
}
