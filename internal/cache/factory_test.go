// Watchdeck - Per-User Watchlist Service for Movies and TV Shows
// Copyright 2026 Watchdeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/watchdeck/watchdeck

package cache

import (
	"testing"
	"time"

	"github.com/watchdeck/watchdeck/internal/config"
)

func TestFactoryBackendSelection(t *testing.T) {
	tests := []struct {
		name        string
		cfg         config.CacheConfig
		wantBackend string
	}{
		{
			name:        "memory",
			cfg:         config.CacheConfig{Backend: "memory", TTL: time.Minute},
			wantBackend: "memory",
		},
		{
			name:        "none",
			cfg:         config.CacheConfig{Backend: "none"},
			wantBackend: "none",
		},
		{
			name: "unreachable redis degrades to memory",
			cfg: config.CacheConfig{
				Backend: "redis",
				TTL:     time.Minute,
				Redis:   config.RedisConfig{Addr: "127.0.0.1:1"},
			},
			wantBackend: "memory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(&tt.cfg)
			defer func() {
				if err := c.Close(); err != nil {
					t.Errorf("Close error = %v", err)
				}
			}()
			if c.Backend() != tt.wantBackend {
				t.Errorf("Backend = %q, want %q", c.Backend(), tt.wantBackend)
			}
		})
	}
}

func TestFactoryBadger(t *testing.T) {
	cfg := config.CacheConfig{
		Backend:    "badger",
		TTL:        time.Minute,
		BadgerPath: t.TempDir(),
	}
	c := New(&cfg)
	defer func() {
		if err := c.Close(); err != nil {
			t.Errorf("Close error = %v", err)
		}
	}()
	if c.Backend() != "badger" {
		t.Errorf("Backend = %q, want badger", c.Backend())
	}
}
