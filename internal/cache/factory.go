// Watchdeck - Per-User Watchlist Service for Movies and TV Shows
// Copyright 2026 Watchdeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/watchdeck/watchdeck

package cache

import (
	"github.com/watchdeck/watchdeck/internal/config"
	"github.com/watchdeck/watchdeck/internal/logging"
)

// New builds the page cache selected by cfg.Backend.
//
// If the redis or badger backend cannot be reached at startup the
// service degrades to the memory backend instead of failing: the cache
// is an optimization, never a dependency.
func New(cfg *config.CacheConfig) PageCache {
	switch cfg.Backend {
	case "none":
		logging.Info().Msg("Page cache disabled")
		return NewNoop()

	case "redis":
		c, err := NewRedis(cfg.Redis, cfg.TTL)
		if err != nil {
			logging.Warn().Err(err).
				Str("addr", cfg.Redis.Addr).
				Msg("Redis cache unavailable, degrading to memory backend")
			return NewMemory(cfg.TTL)
		}
		logging.Info().Str("addr", cfg.Redis.Addr).Msg("Page cache backend: redis")
		return c

	case "badger":
		c, err := NewBadger(cfg.BadgerPath, cfg.TTL)
		if err != nil {
			logging.Warn().Err(err).
				Str("path", cfg.BadgerPath).
				Msg("Badger cache unavailable, degrading to memory backend")
			return NewMemory(cfg.TTL)
		}
		logging.Info().Str("path", cfg.BadgerPath).Msg("Page cache backend: badger")
		return c

	default:
		logging.Info().Msg("Page cache backend: memory")
		return NewMemory(cfg.TTL)
	}
}
